// Package detect resolves the language of an incoming query and flags bare
// salutations. A hosted classifier provides the primary signal; Unicode
// script ranges, transliteration hints, and greeting phrase tables form the
// fallback chain so detection always produces an answer.
package detect
