// Package cache holds the bounded TTL response cache. Identical normalized
// queries inside the freshness window return the stored answer without
// touching embeddings, retrieval, or generation.
package cache
