// Package archive reads comic containers and builds the recompressed output.
//
// Open dispatches on the file extension: .cbz/.zip archives are read with a
// ZIP reader and .cbr/.rar archives with a RAR stream reader. A Source walks
// its non-directory entries exactly once and in archive order, so Extract
// copies every entry into memory before any concurrent work begins and the
// Source can be closed immediately afterwards.
//
// Output is the mutable ZIP container under construction. Append is safe for
// concurrent use; Finalize serializes the accumulated entries with Deflate and
// replaces the destination atomically.
package archive
