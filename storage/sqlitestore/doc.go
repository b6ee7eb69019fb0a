// Package sqlitestore implements storage.Backend over a single sqlite3
// file using the relational schema (schema v4 on write; v1-v4 tolerated
// on read). Connections map to rows in topics, messages to rows in
// messages, batched inserts run inside one transaction per flush — the
// same sqlx.DB/sqlx.Tx/squirrel shape ClusterCockpit-cc-backend's
// repository package uses for its job store.
package sqlitestore
