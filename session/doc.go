// Package session tracks per-conversation history. Each session keeps a
// bounded window of recent turns and exposes two equivalent views of it: a
// flattened text block and a role-tagged message list. An optional durable
// repository makes sessions survive restarts.
package session
