// Package postgres provides the durable product mirror backed by PostgreSQL.
// It owns the schema (embedded goose migrations), maps driver errors onto the
// store package's sentinel errors, and implements store.ProductMirror and
// store.BulkSaver on top of store.DBTX.
package postgres
