// Package prompt renders retrieval output into generator input: the
// numbered evidence block, the citation list, and the system prompts that
// steer answer generation.
package prompt
