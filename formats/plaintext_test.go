package formats

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/nanoreport/nanoreport"
	"github.com/arthur-debert/nanoreport/testutil"
)

func TestBlockLabel(t *testing.T) {
	raw, err := nanoreport.NewRaw(map[string]interface{}{"type": "spotify"})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		block nanoreport.Block
		want  string
	}{
		{nanoreport.H2("x"), "Heading 2"},
		{nanoreport.NewCodeBlock("x", "go"), "Code Block"},
		{nanoreport.NewTableOfContents(), "Table Of Contents"},
		{nanoreport.NewPanelGrid("e", "p"), "Panel Grid"},
		{nanoreport.NewInlineLaTeX("a", "b", "c"), "Inline LaTeX"},
		{nanoreport.P("x"), "Paragraph"},
		{raw, "Spotify"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := blockLabel(tt.block); got != tt.want {
				t.Errorf("blockLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlaintextFixture(t *testing.T) {
	r, _ := testutil.LoadReport(t)
	got := Plaintext.Render(r)

	for _, want := range []string{
		"Project about cool stuff\n========================\n\nLook at how descriptive this is!\n\n",
		"[Heading 1] H1 Heading\n[Paragraph] Some text\n",
		"[Panel Grid]\n  2 run sets, 0 panels\n",
		`  - The report-editing run set: State == "crashed" and team == "amazing team"` + "\n",
		"  - Financial data runs",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() has no %q:\n%s", want, got)
		}
	}
}

func TestPlaintextMultilineBodies(t *testing.T) {
	r, err := nanoreport.NewReport("", "demo")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.SetTitle(""); err != nil {
		t.Fatal(err)
	}
	if err := r.SetBlocks(
		nanoreport.NewCodeBlock("a = 1\nb = 2", "python"),
		nanoreport.NewHorizontalRule(),
		nanoreport.OrderedList("one"),
	); err != nil {
		t.Fatal(err)
	}
	want := "[Code Block]\n  a = 1\n  b = 2\n[Horizontal Rule]\n[List] 1. one\n"
	if diff := cmp.Diff(want, Plaintext.Render(r)); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrefixLines(t *testing.T) {
	if got := prefixLines("a\n\nb", "> "); got != "> a\n>\n> b" {
		t.Errorf("prefixLines() = %q", got)
	}
}
