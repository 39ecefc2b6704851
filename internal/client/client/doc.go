// Package client bootstraps the client's local persistence.
//
// InitDatabase opens the storage named by a DSN, applies the embedded goose
// migrations for its dialect and returns the local key-value repository bound
// to it. A postgres:// or postgresql:// DSN selects PostgreSQL through the
// pgx stdlib driver; anything else is treated as a SQLite file path or
// "file:" URI and opened with the pure-Go modernc driver.
//
// See Also
//
//   - Key-value contract: internal/client/repositories/localstore
//   - Migrations:         internal/client/migrations
package client
