// Package retrieval coordinates vector search against the corpus index. The
// coordinator embeds one or more probe texts, runs the index queries on a
// shared worker pool, merges and gates the candidates, and the reranker
// reorders the survivors with lexical signals before context assembly.
package retrieval
