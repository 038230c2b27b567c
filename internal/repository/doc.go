// Package repository defines the data access interfaces of the inventory
// service.
//
// Persisted snapshots let the service answer requests right after a restart,
// before the first collection has finished. The collection log keeps the
// outcome of every collection attempt.
//
// The sqlite subpackage implements Repository on SQLite in WAL mode. The
// schema is migrated on startup. Snapshots are stored as JSON documents next
// to a few summary columns used for listing.
package repository
