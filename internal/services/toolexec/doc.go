// Package toolexec runs external rendering and encoding binaries.
//
// Both tool clients share one process runner so spawning, output scanning,
// and exit handling behave identically across tools. The Runner interface is
// the seam tests use to substitute fake executions.
package toolexec
