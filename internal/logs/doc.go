// Package logs reads the comicz log file for the `comicz logs` command:
// the last N lines, then optionally new lines as they are appended.
package logs
