// Package history persists one row per archive conversion attempt in a
// SQLite ledger so past runs can be listed with `comicz history`.
//
// The schema is applied from embedded migrations/*.sql files tracked in a
// schema_migrations table. The pure-Go modernc driver is used so the binary
// needs no C SQLite library.
package history
