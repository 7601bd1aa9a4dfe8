// Package pipeline orchestrates the preview run for a model attachment.
//
// A run moves one attachment through acquisition, frame rendering, encoding,
// and packaging inside a private workspace, producing a GIF artifact. The
// Supervisor fans a batch of attachments out over a bounded worker pool and
// collects per-attachment outcomes; one failed attachment never blocks the
// others. Rendering and encoding are injected capabilities so adapters and
// tests choose the backing implementation.
package pipeline
