// Package badger provides BadgerDB-backed implementations of the storage
// repository interfaces: the corpus chunk index, the durable turn store, and
// the feedback store.
//
// All stores share a single Backend wrapping one BadgerDB instance. Vector
// search is a full cosine scan over the chunk records, which is adequate for
// single-node corpora and keeps the index free of external services.
package badger
