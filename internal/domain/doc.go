// Package domain defines the core types of the vspheremap inventory viewer.
//
// The package holds the typed inventory model produced by the collection layer,
// the read-only lookups over it, and the graph vocabulary used by the builder.
//
// # Inventory
//
// Snapshot is one immutable point-in-time capture of the infrastructure:
// virtual machines, datacenters with their clusters and hosts, datastores and
// networks (standard port groups and distributed port groups). A snapshot is
// never mutated after it has been published; a refresh produces a new one.
//
// The record types (VM, Host, Cluster, Datastore, Network) implement Object,
// which exposes the identity and presentation fields the graph needs.
//
// # Lookups
//
// The Find* methods on Snapshot resolve a record by its natural identifier
// (name, UUID or key). They are linear scans; snapshots are small and rebuilt
// infrequently.
//
// # Graph
//
// Node and Edge are the visualization vocabulary. Node identities are derived
// from (Kind, primary identifier) only, so the same snapshot always yields the
// same node ids.
//
// # Policy
//
// Policy describes where a graph build starts and which relationships it follows.
//
// # Design Principles
//
// - Immutable value objects where possible
// - No database or external dependencies beyond validation
// - Raw collector sentinels ("N/A", -1) never reach this package
package domain
