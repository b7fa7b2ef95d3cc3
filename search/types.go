// Package search finds text in the reports of a report directory: titles,
// descriptions, block text and run set filters.
package search

import (
	"context"

	"github.com/arthur-debert/nanoreport/nanoreport"
)

// Options configures search behavior
type Options struct {
	// Query is the text to look for
	Query string

	// Kinds limits the fields searched. Values are "title", "description",
	// "run-set" or a block type such as "heading" or "code-block". Empty
	// searches everything.
	Kinds []string

	// CaseSensitive controls whether search is case-sensitive
	CaseSensitive bool

	// ExactMatch requires the entire field to match the query
	// When false, performs substring matching
	ExactMatch bool

	// EnableHighlight includes the field text with marked matches
	EnableHighlight bool

	// Markers around highlighted matches, "**" when empty
	HighlightStartMarker string
	HighlightEndMarker   string

	// MaxResults limits the number of reports returned, 0 means no limit
	MaxResults int
}

// Field is one searchable piece of text in a report
type Field struct {
	// Name locates the text: "title", "description", "blocks/2" or "runsets/0/1"
	Name string
	// Kind is what Options.Kinds matches against
	Kind string
	Text string
}

// FieldMatch describes the matches found in one field
type FieldMatch struct {
	Field       string  `json:"field" yaml:"field"`
	Kind        string  `json:"kind" yaml:"kind"`
	Text        string  `json:"text" yaml:"text"`
	Highlighted string  `json:"highlighted,omitempty" yaml:"highlighted,omitempty"`
	Count       int     `json:"count" yaml:"count"`
	Score       float64 `json:"score" yaml:"score"`
}

// Result is a report with at least one match
type Result struct {
	Ref   string `json:"ref" yaml:"ref"`
	Title string `json:"title" yaml:"title"`

	// Score is the best field score (0.0 to 1.0, higher is better)
	Score     float64      `json:"score" yaml:"score"`
	MatchType MatchType    `json:"matchType" yaml:"matchType"`
	Matches   []FieldMatch `json:"matches" yaml:"matches"`
}

// MatchType indicates where the best match was found
type MatchType string

const (
	MatchExactTitle   MatchType = "exact_title"
	MatchPartialTitle MatchType = "partial_title"
	MatchExactBlock   MatchType = "exact_block"
	MatchPartialBlock MatchType = "partial_block"
	MatchRunSet       MatchType = "run_set"
)

// Document is a report together with the name it is stored under
type Document struct {
	Ref    string
	Report *nanoreport.Report
}

// ReportProvider defines the interface for accessing reports
// This allows for dependency injection and easy mocking in tests
type ReportProvider interface {
	Reports(ctx context.Context) ([]Document, error)
}

// Searcher defines the main search interface
type Searcher interface {
	// Search performs a search and returns ranked results
	Search(ctx context.Context, options Options) ([]Result, error)
}
