// Package faults defines the error markers shared by the archive, transcode,
// and compressor packages.
//
// Archive-level failures (a container that cannot be opened or an output that
// cannot be written) are wrapped with a marker and returned to the caller.
// Entry-level failures are wrapped the same way but are folded into per-entry
// results by the compressor instead of being propagated.
//
// Use Wrap to attach component and operation context, and Kind to recover a
// short label for ledgers and summaries.
package faults
