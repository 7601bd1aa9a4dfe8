// Package meshthumb drives the mesh-thumbnail renderer.
//
// The client produces one still image per invocation: callers pass the model
// path, the camera yaw for this frame, and the destination PNG. Render
// failures keep their cause distinct so callers can tell an unsupported
// format from a renderer crash from a missing output file.
package meshthumb
