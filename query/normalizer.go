// Copyright 2025 Vyasa Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vyasa-labs/gitasage/core"
)

// Result is the normalized form of a raw user query. It is pure data: the
// same raw query always produces the identical Result.
type Result struct {
	// Original is the query exactly as the user typed it.
	Original string

	// Normalized is the lowercased, whitespace-trimmed query. This is the
	// response cache key material.
	Normalized string

	// Expanded is the normalized query with domain expansion terms appended.
	// This is what gets embedded for retrieval.
	Expanded string

	// Chapter is the explicitly referenced chapter number, or 0.
	Chapter int

	// Comprehensive marks queries asking for summaries or analysis, which
	// widen the retrieval gate and the passage window.
	Comprehensive bool

	// Intent is the non-greeting intent classification. Greeting detection
	// happens upstream in language detection.
	Intent core.Intent
}

// expansionRule appends retrieval synonyms when its term appears in the
// query. Rules apply in order and all matching rules contribute.
type expansionRule struct {
	term      string
	additions string
}

var expansionRules = []expansionRule{
	{"dharma", "duty righteousness moral"},
	{"karma", "action deed work"},
	{"bhakti", "devotion worship prayer"},
	{"jnana", "knowledge wisdom understanding"},
	{"arjuna", "warrior pandava"},
	{"krishna", "lord god"},
	{"moksha", "liberation freedom enlightenment"},
	{"samsara", "cycle birth death"},
}

// comprehensiveKeywords flag summary and analysis style questions.
var comprehensiveKeywords = []string{
	"summary", "summarize", "overview", "brief",
	"main points", "key points",
	"analyze", "analysis",
	"explain", "discuss", "describe",
	"learn", "teachings", "lessons", "insights", "wisdom",
	"outline", "structure", "organization",
}

var chapterPattern = regexp.MustCompile(`\bchapter\s+(\d+)\b`)

// Normalize produces the canonical Result for a raw query. isGreeting comes
// from language detection and short-circuits intent classification.
func Normalize(raw string, isGreeting bool) Result {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.Join(strings.Fields(normalized), " ")

	res := Result{
		Original:      raw,
		Normalized:    normalized,
		Chapter:       extractChapter(normalized),
		Comprehensive: isComprehensive(normalized),
	}
	res.Expanded = expand(normalized, res.Chapter)
	res.Intent = classifyIntent(normalized, isGreeting)
	return res
}

// extractChapter pulls an explicit "chapter N" reference out of the query.
func extractChapter(normalized string) int {
	m := chapterPattern.FindStringSubmatch(normalized)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// expand appends synonym terms for every matching rule, then a chapter
// emphasis phrase when the query names one. Matching is substring based so
// inflected forms like "karmic" still trigger.
func expand(normalized string, chapter int) string {
	var sb strings.Builder
	sb.WriteString(normalized)
	for _, rule := range expansionRules {
		if strings.Contains(normalized, rule.term) {
			sb.WriteByte(' ')
			sb.WriteString(rule.additions)
		}
	}
	if chapter > 0 {
		sb.WriteString(" chapter ")
		sb.WriteString(strconv.Itoa(chapter))
		sb.WriteString(" teachings content")
	}
	return sb.String()
}

func isComprehensive(normalized string) bool {
	for _, kw := range comprehensiveKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}
