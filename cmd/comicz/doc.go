// Package main hosts the comicz CLI entrypoint and command graph.
//
// The root command converts comic archives: it resolves configuration, applies
// flag overrides, runs preflight checks, discovers input files, and hands them
// to the batch runner. Subcommands cover the conversion history ledger and
// configuration scaffolding.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is only surfaced here as commands or flags.
package main
