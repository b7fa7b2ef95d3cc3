package formats

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/nanoreport/nanoreport"
)

// Plaintext renders a report as a labelled outline of its blocks
var Plaintext = &DocumentFormat{
	Name:      "plaintext",
	Extension: ".txt",
	Render:    renderPlaintext,
}

func init() {
	if err := Register(Plaintext); err != nil {
		panic(fmt.Sprintf("failed to register plaintext format: %v", err))
	}
}

func renderPlaintext(r *nanoreport.Report) string {
	var b strings.Builder
	if title := r.Title(); title != "" {
		b.WriteString(title + "\n")
		b.WriteString(strings.Repeat("=", len([]rune(title))) + "\n\n")
	}
	if r.Description() != "" {
		b.WriteString(r.Description() + "\n\n")
	}
	for _, block := range r.Blocks() {
		b.WriteString("[" + blockLabel(block) + "]")
		if body := plaintextBody(block); body != "" {
			if strings.Contains(body, "\n") {
				b.WriteString("\n" + prefixLines(body, "  "))
			} else {
				b.WriteString(" " + body)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func plaintextBody(b nanoreport.Block) string {
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
		return markdownList(b)
	case *nanoreport.CodeBlock:
		return b.Code()
	case *nanoreport.Image:
		if b.Caption() != "" {
			return b.Caption() + " <" + b.URL() + ">"
		}
		return b.URL()
	case *nanoreport.Gallery:
		return strings.Join(b.IDs(), ", ")
	case *nanoreport.LaTeX:
		return b.Content()
	case *nanoreport.Markdown:
		return b.Content()
	case *nanoreport.PanelGrid:
		return plaintextPanelGrid(b)
	}
	return ""
}

func plaintextPanelGrid(g *nanoreport.PanelGrid) string {
	runSets, panels := g.RunSets(), g.Panels()
	lines := []string{fmt.Sprintf("%d run sets, %d panels", len(runSets), len(panels))}
	for _, rs := range runSets {
		s := summarizeRunSet(rs)
		line := "- " + s.Name
		if s.Filters != "" {
			line += ": " + s.Filters
		}
		lines = append(lines, line)
	}
	for _, p := range panels {
		lines = append(lines, "- "+p.ViewType()+" "+panelLayout(p))
	}
	return strings.Join(lines, "\n")
}
