// Package engine wires the whole answer pipeline together. The orchestrator
// takes one user query through language detection, guardrails, the response
// cache, retrieval and reranking, context assembly, and generation, and
// always hands back a complete answer object no matter which stage failed.
package engine
