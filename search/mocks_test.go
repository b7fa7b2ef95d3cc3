package search

import (
	"context"
	"testing"

	"github.com/arthur-debert/nanoreport/nanoreport"
)

// MockReportProvider implements ReportProvider for testing
type MockReportProvider struct {
	docs []Document
	err  error
}

// NewMockReportProvider creates a new mock with the given reports
func NewMockReportProvider(docs []Document) *MockReportProvider {
	return &MockReportProvider{docs: docs}
}

// SetError configures the mock to return an error
func (m *MockReportProvider) SetError(err error) {
	m.err = err
}

// Reports returns the mock reports or error
func (m *MockReportProvider) Reports(context.Context) ([]Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

func newReport(t *testing.T, title string, blocks ...nanoreport.Block) *nanoreport.Report {
	t.Helper()
	r, err := nanoreport.NewReport("megatruong", "report-editing")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.SetTitle(title); err != nil {
		t.Fatal(err)
	}
	if err := r.SetBlocks(blocks...); err != nil {
		t.Fatal(err)
	}
	return r
}

// SampleReports provides sample reports for testing:
//   - weekly: "Weekly Meeting Notes", meeting in a paragraph, a run set
//     "baseline runs" filtering finished runs
//   - budget: "Budget Review", meeting in a code block
//   - shouting: "MEETING", no blocks
func SampleReports(t *testing.T) []Document {
	t.Helper()

	weekly := newReport(t, "Weekly Meeting Notes",
		nanoreport.H1("Agenda"),
		nanoreport.P("discuss the meeting budget"),
	)
	grid := weekly.NewPanelGrid()
	if err := weekly.SetBlocks(append(weekly.Blocks(), grid)...); err != nil {
		t.Fatal(err)
	}
	rs := weekly.PanelGrids()[0].RunSets()[0]
	if err := rs.Set("name", "baseline runs"); err != nil {
		t.Fatal(err)
	}
	if err := rs.SetFiltersWithExpr(`State == "finished"`); err != nil {
		t.Fatal(err)
	}

	return []Document{
		{Ref: "weekly.json", Report: weekly},
		{Ref: "budget.json", Report: newReport(t, "Budget Review",
			nanoreport.P("Quarterly numbers"),
			nanoreport.NewCodeBlock("meeting = True", "python"),
		)},
		{Ref: "shouting.json", Report: newReport(t, "MEETING")},
	}
}
