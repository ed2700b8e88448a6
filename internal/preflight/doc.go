// Package preflight provides readiness checks for the filesystem paths a
// conversion run depends on.
//
// The convert command creates the output base, then calls RunAll before any
// archive is processed. If any check fails the run stops so that a batch of
// long transcodes is not wasted on a destination it cannot write.
package preflight
