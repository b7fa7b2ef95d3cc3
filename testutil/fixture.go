package testutil

import (
	_ "embed"
	"testing"

	"github.com/arthur-debert/nanoreport/nanoreport"
)

//go:embed testdata/report.json
var reportJSON []byte

// Run set ids of the fixture report
const (
	EditingRunSetID = "abcdef123"
	FinanceRunSetID = "ghijklm456"
)

// ReportData provides typed access to the fixture report
type ReportData struct {
	Report *nanoreport.Report

	Heading   *nanoreport.Heading   // "H1 Heading", level 1
	Paragraph *nanoreport.Paragraph // "Some text"
	Grid      *nanoreport.PanelGrid // open run set 0, no panels

	// EditingRunSet filters State == 'crashed' and team == 'amazing team',
	// sorts +CreatedTimestamp -Runtime and groups by User, something
	EditingRunSet *nanoreport.RunSet
	// FinanceRunSet has the default filters, order and grouping
	FinanceRunSet *nanoreport.RunSet
}

// ReportJSON returns the raw fixture envelope. Its spec is a JSON encoded
// string, the way the backend serves it.
func ReportJSON() []byte {
	return append([]byte(nil), reportJSON...)
}

// LoadReport parses the fixture report and resolves its entities. The report
// starts unmodified.
func LoadReport(t *testing.T) (*nanoreport.Report, *ReportData) {
	t.Helper()

	r, err := nanoreport.Parse(ReportJSON())
	if err != nil {
		t.Fatalf("failed to parse fixture report: %v", err)
	}

	blocks := r.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("fixture report has %d blocks, want 3", len(blocks))
	}
	data := &ReportData{Report: r}

	var ok bool
	if data.Heading, ok = blocks[0].(*nanoreport.Heading); !ok {
		t.Fatalf("fixture block 0 is %T, want *Heading", blocks[0])
	}
	if data.Paragraph, ok = blocks[1].(*nanoreport.Paragraph); !ok {
		t.Fatalf("fixture block 1 is %T, want *Paragraph", blocks[1])
	}
	if data.Grid, ok = blocks[2].(*nanoreport.PanelGrid); !ok {
		t.Fatalf("fixture block 2 is %T, want *PanelGrid", blocks[2])
	}

	runSets := data.Grid.RunSets()
	if len(runSets) != 2 {
		t.Fatalf("fixture grid has %d run sets, want 2", len(runSets))
	}
	data.EditingRunSet, data.FinanceRunSet = runSets[0], runSets[1]

	if r.Modified() {
		t.Fatal("fixture report is modified right after loading")
	}
	return r, data
}
