// Package batch feeds files into the compressor.
//
// Discover turns the user's input path into an ordered list of archives;
// OutputPath mirrors each archive under the output base; Runner processes the
// list sequentially or across a bounded pool of workers, skipping outputs
// that already exist or that another process holds a lock on, and records
// every attempt in the history ledger. A failed archive is logged and counted
// and never stops the batch.
package batch
