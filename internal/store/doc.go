// Package store is the record store behind the social graph: the Users,
// Posts, Messages and Notifications tables, held in memory with id and
// secondary indexes and persisted as whole-table snapshots through a
// key/blob Backend (memory, files, PostgreSQL or MongoDB).
//
// Snapshots are versioned envelopes encoded with a Codec (JSON or CBOR)
// and checksummed with BLAKE3. Records that do not decode or validate are
// quarantined under KeyQuarantine rather than failing the load.
//
// All mutations go through Update, which undoes every change made by the
// callback if it fails or if the changed tables cannot be written.
package store
