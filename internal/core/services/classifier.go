package services

import (
	"strings"
	"unicode"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

// Base confidences per route, matching the synthesizer's self-assessment
// for a cleanly executed answer on that route.
const (
	confidenceSQL  = 0.9
	confidenceDocs = 0.8
	confidenceWeb  = 0.5

	// confidenceDegraded is reported when a route's subsystem failed but
	// a degraded answer could still be formed.
	confidenceDegraded = 0.3

	// confidenceNoDocs is reported when retrieval found nothing relevant.
	confidenceNoDocs = 0.2

	// confidenceUnavailable is reported when the route's backing service
	// is not configured at all.
	confidenceUnavailable = 0.1
)

// sqlKeywords signal questions about structured, aggregatable data.
var sqlKeywords = []string{
	"how many", "show me", "count", "list", "average", "total",
	"select", "where",
}

// docsKeywords signal questions about policies and procedures that live
// in the indexed corpus.
var docsKeywords = []string{
	"policy", "policies", "process", "procedure", "guideline",
	"how do i", "what should", "am i allowed",
}

// Classify decides which route answers the query. It is a pure function
// of the query text and the current schema and corpus snapshots, so the
// same inputs always produce the same route.
//
// Signals are counted per route: SQL from aggregation keywords and live
// table/column names (only when the warehouse has tables at all), DOCS
// from topic keywords, document titles and term overlap with indexed
// content. Ties resolve SQL over DOCS over WEB; a query with no signal
// at all goes to WEB.
func Classify(query string, schema *domain.Schema, corpus []domain.Document) (domain.Route, float64) {
	q := strings.ToLower(query)

	sqlScore := 0
	if schema != nil && len(schema.Tables) > 0 {
		for _, kw := range sqlKeywords {
			if strings.Contains(q, kw) {
				sqlScore++
			}
		}
		for name, table := range schema.Tables {
			if strings.Contains(q, strings.ToLower(name)) {
				sqlScore += 2
			}
			for _, col := range table.Columns {
				if len(col.Name) >= 4 && strings.Contains(q, strings.ToLower(col.Name)) {
					sqlScore++
				}
			}
		}
	}

	docsScore := 0
	for _, kw := range docsKeywords {
		if strings.Contains(q, kw) {
			docsScore++
		}
	}
	for _, term := range queryTerms(q) {
		if corpusContains(corpus, term) {
			docsScore++
		}
	}
	for _, doc := range corpus {
		if name := strings.ToLower(doc.Name); name != "" && strings.Contains(q, name) {
			docsScore += 2
		}
	}

	switch {
	case sqlScore > 0 && sqlScore >= docsScore:
		return domain.RouteSQL, confidenceSQL
	case docsScore > 0:
		return domain.RouteDocs, confidenceDocs
	default:
		return domain.RouteWeb, confidenceWeb
	}
}

// queryTerms extracts the content-bearing words of the query: letters
// only, at least four runes, not a function word.
func queryTerms(q string) []string {
	fields := strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 4 {
			continue
		}
		if _, stop := classifierStopwords[f]; stop {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

func corpusContains(corpus []domain.Document, term string) bool {
	for _, doc := range corpus {
		if strings.Contains(strings.ToLower(doc.Name), term) {
			return true
		}
		if strings.Contains(strings.ToLower(doc.Content), term) {
			return true
		}
	}
	return false
}

var classifierStopwords = map[string]struct{}{
	"what": {}, "when": {}, "where": {}, "which": {}, "about": {},
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {},
	"many": {}, "much": {}, "does": {}, "their": {}, "there": {},
	"them": {}, "they": {}, "should": {}, "would": {}, "could": {},
}
