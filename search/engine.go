package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Engine implements the Searcher interface
type Engine struct {
	provider ReportProvider
}

// NewEngine creates a new search engine with the given report provider
func NewEngine(provider ReportProvider) *Engine {
	return &Engine{
		provider: provider,
	}
}

// Search performs a search and returns reports ranked by their best match
func (e *Engine) Search(ctx context.Context, options Options) ([]Result, error) {
	if options.Query == "" {
		return []Result{}, nil
	}

	docs, err := e.provider.Reports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reports: %w", err)
	}

	results := []Result{}
	for _, doc := range docs {
		if result := e.searchReport(doc, options); result != nil {
			results = append(results, *result)
		}
	}

	// Sort by score (highest first), then by name
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Ref < results[j].Ref
	})

	if options.MaxResults > 0 && len(results) > options.MaxResults {
		results = results[:options.MaxResults]
	}

	return results, nil
}

// searchReport searches a single report and returns a result if it matches
func (e *Engine) searchReport(doc Document, options Options) *Result {
	startMarker := options.HighlightStartMarker
	endMarker := options.HighlightEndMarker
	if startMarker == "" {
		startMarker = "**"
	}
	if endMarker == "" {
		endMarker = "**"
	}

	result := &Result{Ref: doc.Ref, Title: doc.Report.Title()}
	for _, field := range Fields(doc.Report) {
		if !wantKind(options.Kinds, field.Kind) {
			continue
		}
		match := e.searchField(field, options)
		if match == nil {
			continue
		}
		if options.EnableHighlight {
			match.Highlighted = highlight(field.Text, options.Query, options.CaseSensitive, startMarker, endMarker)
		}
		result.Matches = append(result.Matches, *match)
		if match.Score > result.Score {
			result.Score = match.Score
			result.MatchType = matchType(field.Kind, options.ExactMatch)
		}
	}

	if len(result.Matches) == 0 {
		return nil
	}
	return result
}

func wantKind(kinds []string, kind string) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func matchType(kind string, exact bool) MatchType {
	switch {
	case kind == KindTitle && exact:
		return MatchExactTitle
	case kind == KindTitle:
		return MatchPartialTitle
	case kind == KindRunSet:
		return MatchRunSet
	case exact:
		return MatchExactBlock
	}
	return MatchPartialBlock
}

// searchField counts the matches of the query in one field
func (e *Engine) searchField(field Field, options Options) *FieldMatch {
	text, query := field.Text, options.Query
	if !options.CaseSensitive {
		text, query = strings.ToLower(text), strings.ToLower(query)
	}

	if options.ExactMatch {
		if text != query {
			return nil
		}
		return &FieldMatch{Field: field.Name, Kind: field.Kind, Text: field.Text, Count: 1, Score: 1.0}
	}

	positions := matchPositions(text, query)
	if len(positions) == 0 {
		return nil
	}
	return &FieldMatch{
		Field: field.Name,
		Kind:  field.Kind,
		Text:  field.Text,
		Count: len(positions),
		Score: calculateScore(field.Text, options.Query, field.Kind),
	}
}

// calculateScore computes a relevance score for a substring match
func calculateScore(fieldValue, query, kind string) float64 {
	baseScore := 0.5

	// Boost score for title matches
	if kind == KindTitle {
		baseScore = 0.8
	}

	// Boost when the case matches too
	if strings.Contains(fieldValue, query) {
		baseScore += 0.1
	}

	// Boost if match is at the beginning
	if strings.HasPrefix(strings.ToLower(fieldValue), strings.ToLower(query)) {
		baseScore += 0.1
	}

	// Boost if query takes up a large portion of the field
	if coverage := float64(len(query)) / float64(len(fieldValue)); coverage > 0.5 {
		baseScore += 0.1
	}

	if baseScore > 1.0 {
		baseScore = 1.0
	}
	return baseScore
}

// matchPositions returns the byte offsets of non-overlapping occurrences
func matchPositions(text, query string) []int {
	var positions []int
	if query == "" {
		return positions
	}
	for i := 0; i <= len(text)-len(query); i++ {
		if text[i:i+len(query)] == query {
			positions = append(positions, i)
			i += len(query) - 1
		}
	}
	return positions
}

// highlight wraps every match in the markers
func highlight(text, query string, caseSensitive bool, startMarker, endMarker string) string {
	searchText, searchQuery := text, query
	if !caseSensitive {
		searchText, searchQuery = strings.ToLower(text), strings.ToLower(query)
	}
	// lowering can change byte lengths, so offsets are only valid when it did not
	if len(searchText) != len(text) || len(searchQuery) != len(query) {
		return text
	}

	positions := matchPositions(searchText, searchQuery)
	if len(positions) == 0 {
		return text
	}

	var builder strings.Builder
	lastEnd := 0
	for _, start := range positions {
		end := start + len(query)
		builder.WriteString(text[lastEnd:start])
		builder.WriteString(startMarker)
		builder.WriteString(text[start:end])
		builder.WriteString(endMarker)
		lastEnd = end
	}
	builder.WriteString(text[lastEnd:])

	return builder.String()
}
