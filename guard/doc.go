// Package guard screens queries before retrieval. The gate rejects empty
// input and explicit references to chapters outside the corpus, replying in
// the user's language, and fails open whenever corpus structure cannot be
// discovered.
package guard
