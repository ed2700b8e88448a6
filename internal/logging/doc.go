// Package logging assembles structured slog loggers and formatting helpers used
// across comicz.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with the batch run ID and the archive being processed. Console output
// is colourised only when the destination is a terminal; log files always
// receive plain text. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
