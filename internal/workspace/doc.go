// Package workspace manages the isolated scratch directories that back one
// pipeline run each.
//
// A workspace owns every intermediate artifact for a single attachment: the
// downloaded model at a.<ext>, the rendered frames a-<NN>.png, and the
// encoded animation. Acquire creates a uniquely named directory under the
// configured staging root; Release removes the whole tree and is expected to
// run on every exit path of the owning run. CleanStale sweeps directories
// left behind by crashed runs.
package workspace
