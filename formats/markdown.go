package formats

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/nanoreport/nanoreport"
)

// Markdown renders a report as a markdown document
var Markdown = &DocumentFormat{
	Name:      "markdown",
	Extension: ".md",
	Render:    renderMarkdown,
}

func init() {
	if err := Register(Markdown); err != nil {
		panic(fmt.Sprintf("failed to register markdown format: %v", err))
	}
}

func renderMarkdown(r *nanoreport.Report) string {
	var parts []string
	if r.Title() != "" {
		parts = append(parts, "# "+r.Title())
	}
	if r.Description() != "" {
		parts = append(parts, r.Description())
	}
	for _, b := range r.Blocks() {
		if s := markdownBlock(b); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func markdownBlock(b nanoreport.Block) string {
	switch b := b.(type) {
	case *nanoreport.Heading:
		return strings.Repeat("#", b.Level()) + " " + b.Text()
	case *nanoreport.Paragraph:
		return b.Text()
	case *nanoreport.InlineLaTeX:
		return b.Before() + "$" + b.Content() + "$" + b.After()
	case *nanoreport.BlockQuote:
		return prefixLines(b.Text(), "> ")
	case *nanoreport.Callout:
		return prefixLines(b.Text(), "> ")
	case *nanoreport.List:
		return markdownList(b)
	case *nanoreport.CodeBlock:
		return "```" + b.Language() + "\n" + b.Code() + "\n```"
	case *nanoreport.Image:
		return fmt.Sprintf("![%s](%s)", b.Caption(), b.URL())
	case *nanoreport.Gallery:
		return "<!-- gallery: " + strings.Join(b.IDs(), ", ") + " -->"
	case *nanoreport.HorizontalRule:
		return "---"
	case *nanoreport.TableOfContents:
		return "[TOC]"
	case *nanoreport.LaTeX:
		return "$$\n" + b.Content() + "\n$$"
	case *nanoreport.Markdown:
		return b.Content()
	case *nanoreport.PanelGrid:
		return markdownPanelGrid(b)
	}
	return "<!-- " + b.Type() + " block -->"
}

func markdownList(l *nanoreport.List) string {
	checked := l.Checked()
	var lines []string
	for i, item := range l.Items() {
		switch l.Style() {
		case nanoreport.ListOrdered:
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
		case nanoreport.ListChecked:
			mark := " "
			if i < len(checked) && checked[i] {
				mark = "x"
			}
			lines = append(lines, "- ["+mark+"] "+item)
		default:
			lines = append(lines, "- "+item)
		}
	}
	return strings.Join(lines, "\n")
}

func markdownPanelGrid(g *nanoreport.PanelGrid) string {
	lines := []string{
		"| Run set | Project | Filters | Order | Group by |",
		"|---|---|---|---|---|",
	}
	for _, rs := range g.RunSets() {
		s := summarizeRunSet(rs)
		cells := []string{s.Name, s.Project, s.Filters, s.Order, s.GroupBy}
		for i, c := range cells {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}

	panels := g.Panels()
	if len(panels) == 0 {
		return strings.Join(lines, "\n")
	}
	lines = append(lines, "")
	for _, p := range panels {
		line := "- " + p.ViewType()
		if title := panelTitle(p); title != "" {
			line += ": " + title
		}
		lines = append(lines, line+" ("+panelLayout(p)+")")
	}
	return strings.Join(lines, "\n")
}
