package search

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/nanoreport/nanoreport"
)

// Kinds of the fields that are not blocks
const (
	KindTitle       = "title"
	KindDescription = "description"
	KindRunSet      = "run-set"
)

// Fields lists the searchable text of a report in document order. Blocks
// without text are skipped.
func Fields(r *nanoreport.Report) []Field {
	fields := []Field{
		{Name: "title", Kind: KindTitle, Text: r.Title()},
		{Name: "description", Kind: KindDescription, Text: r.Description()},
	}
	gridIndex := 0
	for i, b := range r.Blocks() {
		if text := blockText(b); text != "" {
			fields = append(fields, Field{Name: fmt.Sprintf("blocks/%d", i), Kind: b.Type(), Text: text})
		}
		g, ok := b.(*nanoreport.PanelGrid)
		if !ok {
			continue
		}
		for j, rs := range g.RunSets() {
			text := rs.Name()
			if expr, err := rs.FilterExpr(); err == nil && expr != "" {
				text += ": " + expr
			}
			fields = append(fields, Field{Name: fmt.Sprintf("runsets/%d/%d", gridIndex, j), Kind: KindRunSet, Text: text})
		}
		gridIndex++
	}
	return fields
}

func blockText(b nanoreport.Block) string {
	switch b := b.(type) {
	case *nanoreport.Heading:
		return b.Text()
	case *nanoreport.Paragraph:
		return b.Text()
	case *nanoreport.InlineLaTeX:
		return b.Before() + b.Content() + b.After()
	case *nanoreport.BlockQuote:
		return b.Text()
	case *nanoreport.Callout:
		return b.Text()
	case *nanoreport.List:
		return strings.Join(b.Items(), "\n")
	case *nanoreport.CodeBlock:
		return b.Code()
	case *nanoreport.Image:
		return b.Caption()
	case *nanoreport.LaTeX:
		return b.Content()
	case *nanoreport.Markdown:
		return b.Content()
	}
	return ""
}
