// Package localstore is the client's durable key-value storage: the place
// profiles, journey history and the auth session live between runs.
//
// Values are opaque byte blobs; callers own the encoding. Keys are flat
// strings, and List filters them by prefix.
//
// Two implementations share the Repository contract:
//
//   - SQLiteRepository   default, a single local file
//   - PostgresRepository when the storage DSN is a postgres:// URL
//
// Both work over dbx.DBTX, so they can run inside dbx.WithTx.
//
// A missing key is not an error: Get returns (nil, nil).
package localstore
