// Package compressor recompresses one comic archive.
//
// Compress runs in two phases. Every entry is first read into memory in
// archive order and the source is closed; only then are entries fanned out to
// a pool bounded by MaxParallelism. Each worker routes its entry, transcodes
// pages, and appends the result to a shared archive.Output. Entry failures are
// folded into the Result and never abort sibling entries. Only archive-level
// failures (open, extract, finalize) are returned as errors.
package compressor
