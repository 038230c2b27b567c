// Package service implements the business logic of the inventory service.
//
// # Services
//
// InventoryService owns the snapshot currently served. It runs collections
// through an adapter.Collector, publishes the new snapshot with a single
// pointer swap, persists it and records the run. Graph builds, VM reports
// and listings all read the snapshot captured at the start of the request.
//
// Store holds the served snapshot and the collection status record. At most
// one collection runs at a time; a second request is refused with
// domain.ErrRefreshInProgress rather than queued.
//
// # Event System
//
// Collection progress is published on the EventBus and relayed to
// Server-Sent Events clients by package hub.
package service
