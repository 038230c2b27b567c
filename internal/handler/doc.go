// Package handler implements the HTTP API of the inventory service.
//
// # Handlers
//
// InventoryHandler serves the collection status, refresh trigger, dependency
// graph builder, VM technical documents and the inventory listings.
//
// Middleware provides request ids, request logging, panic recovery and CORS
// support.
//
// # Errors
//
// Errors are returned as JSON with an {error, details} body. Service errors
// map onto status codes:
//   - inventory not yet collected: 503
//   - start object or VM not found: 404
//   - unsupported start object type: 400
//   - invalid traversal policy: 422
//   - refresh already running: 409
//
// # Server-Sent Events
//
// The /events endpoint streams collection events so clients can reload once
// a new snapshot is served.
package handler
