package nanoreport

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/nanoreport/internal/validation"
	"github.com/arthur-debert/nanoreport/nanoreport/attr"
	"github.com/arthur-debert/nanoreport/nanoreport/tree"
)

// DefaultCodeLanguage is the language of code blocks created without one
const DefaultCodeLanguage = "python"

// textField reads and writes the plain text held by a block's children
func textField(name string) attr.Field {
	return attr.Field{
		Name: name,
		Kind: attr.String,
		Get: func(n *tree.Node) (interface{}, error) {
			v, _ := n.Get("children")
			return plainText(v), nil
		},
		Set: func(n *tree.Node, value interface{}) error {
			return n.Set([]string{"children"}, textChildren(value.(string)))
		},
	}
}

// stringList converts a validated list value into strings
func stringList(value interface{}) []string {
	list, _ := tree.Normalize(value).([]interface{})
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, _ := item.(string)
		out = append(out, s)
	}
	return out
}

func boolList(value interface{}) []bool {
	list, _ := tree.Normalize(value).([]interface{})
	out := make([]bool, 0, len(list))
	for _, item := range list {
		b, _ := item.(bool)
		out = append(out, b)
	}
	return out
}

var (
	headingSchema = blockSchema.Extend("heading",
		textField("text"),
		attr.Field{Name: "level", Kind: attr.Int, Default: 1.0, Validators: []attr.Validator{attr.Check(validation.IntRange(1, 3))}},
	)
	paragraphSchema  = blockSchema.Extend("paragraph", textField("text"))
	blockQuoteSchema = blockSchema.Extend("block-quote", textField("text"))
)

// Heading is a level 1 to 3 heading
type Heading struct{ blockBase }

func heading(level int, text string) *Heading {
	return &Heading{blockBase: newBlock(headingSchema, tree.New(map[string]interface{}{
		"type":     TypeHeading,
		"children": textChildren(text),
		"level":    level,
	}).Root())}
}

// H1 creates a top level heading
func H1(text string) *Heading { return heading(1, text) }

// H2 creates a second level heading
func H2(text string) *Heading { return heading(2, text) }

// H3 creates a third level heading
func H3(text string) *Heading { return heading(3, text) }

func (h *Heading) Text() string { return h.str("text") }
func (h *Heading) Level() int   { return h.integer("level") }

// Paragraph is a block of plain text
type Paragraph struct{ blockBase }

// P creates a paragraph
func P(text string) *Paragraph {
	return &Paragraph{blockBase: newBlock(paragraphSchema, tree.New(paragraphSpec(text)).Root())}
}

func (p *Paragraph) Text() string { return p.str("text") }

// BlockQuote is a quoted block of text
type BlockQuote struct{ blockBase }

// NewBlockQuote creates a block quote
func NewBlockQuote(text string) *BlockQuote {
	return &BlockQuote{blockBase: newBlock(blockQuoteSchema, tree.New(map[string]interface{}{
		"type":     TypeBlockQuote,
		"children": textChildren(text),
	}).Root())}
}

func (q *BlockQuote) Text() string { return q.str("text") }

// ListStyle distinguishes the list flavours sharing the list block type
type ListStyle string

const (
	ListOrdered   ListStyle = "ordered"
	ListUnordered ListStyle = "unordered"
	ListChecked   ListStyle = "checked"
)

var listSchema = blockSchema.Extend("list",
	attr.Field{
		Name: "items",
		Kind: attr.List,
		Validators: []attr.Validator{
			attr.Check(validation.Each(validation.IsString())),
		},
		Get: func(n *tree.Node) (interface{}, error) {
			return listItems(n), nil
		},
		Set: func(n *tree.Node, value interface{}) error {
			items := stringList(value)
			checked := listChecked(n)
			for len(checked) < len(items) {
				checked = append(checked, false)
			}
			return n.Set([]string{"children"}, listChildren(listStyle(n), items, checked[:len(items)]))
		},
	},
	attr.Field{
		Name: "checked",
		Kind: attr.List,
		Validators: []attr.Validator{
			attr.Check(validation.Each(validation.IsBool())),
			func(n *tree.Node, value interface{}) error {
				if listStyle(n) != ListChecked {
					return fmt.Errorf("only checked lists have checked items")
				}
				if got, want := len(boolList(value)), n.Len("children"); got != want {
					return fmt.Errorf("need one flag per item: got %d, want %d", got, want)
				}
				return nil
			},
		},
		Get: func(n *tree.Node) (interface{}, error) {
			var out []interface{}
			for _, c := range listChecked(n) {
				out = append(out, c)
			}
			return out, nil
		},
		Set: func(n *tree.Node, value interface{}) error {
			return n.Set([]string{"children"}, listChildren(ListChecked, listItems(n), boolList(value)))
		},
	},
	attr.Field{Name: "ordered", Kind: attr.Bool, Default: false, ReadOnly: true},
)

// List is an ordered, unordered or checked list of plain text items
type List struct{ blockBase }

func newList(style ListStyle, items []string, checked []bool) *List {
	spec := map[string]interface{}{
		"type":     TypeList,
		"children": listChildren(style, items, checked),
	}
	if style == ListOrdered {
		spec["ordered"] = true
	}
	return &List{blockBase: newBlock(listSchema, tree.New(spec).Root())}
}

// OrderedList creates a numbered list
func OrderedList(items ...string) *List {
	return newList(ListOrdered, items, nil)
}

// UnorderedList creates a bulleted list
func UnorderedList(items ...string) *List {
	return newList(ListUnordered, items, nil)
}

// CheckedList creates a task list. Missing checked flags default to false.
func CheckedList(items []string, checked []bool) *List {
	flags := make([]bool, len(items))
	copy(flags, checked)
	return newList(ListChecked, items, flags)
}

// Style reports which flavour of list the block is
func (l *List) Style() ListStyle { return listStyle(l.node) }

// Items returns the text of every list item
func (l *List) Items() []string { return listItems(l.node) }

// Checked returns the checked flag of every item, all false for unchecked lists
func (l *List) Checked() []bool { return listChecked(l.node) }

func listStyle(n *tree.Node) ListStyle {
	if ordered, _ := n.Get("ordered"); ordered == true {
		return ListOrdered
	}
	for _, child := range n.List("children") {
		if item, ok := child.(map[string]interface{}); ok {
			if _, has := item["checked"]; has {
				return ListChecked
			}
		}
	}
	return ListUnordered
}

func listItems(n *tree.Node) []string {
	children := n.List("children")
	out := make([]string, 0, len(children))
	for _, child := range children {
		out = append(out, plainText(child))
	}
	return out
}

func listChecked(n *tree.Node) []bool {
	children := n.List("children")
	out := make([]bool, 0, len(children))
	for _, child := range children {
		item, _ := child.(map[string]interface{})
		c, _ := item["checked"].(bool)
		out = append(out, c)
	}
	return out
}

func listChildren(style ListStyle, items []string, checked []bool) []interface{} {
	children := make([]interface{}, 0, len(items))
	for i, text := range items {
		item := map[string]interface{}{
			"type":     "list-item",
			"children": []interface{}{paragraphSpec(text)},
		}
		switch style {
		case ListOrdered:
			item["ordered"] = true
		case ListChecked:
			item["checked"] = i < len(checked) && checked[i]
		}
		children = append(children, item)
	}
	return children
}

var calloutSchema = blockSchema.Extend("callout-block",
	attr.Field{
		Name: "text",
		Kind: attr.String,
		Get: func(n *tree.Node) (interface{}, error) {
			return joinLines(n.List("children")), nil
		},
		Set: func(n *tree.Node, value interface{}) error {
			return n.Set([]string{"children"}, lineChildren("callout-line", value.(string), nil))
		},
	},
)

// Callout is a highlighted block of text
type Callout struct{ blockBase }

// NewCallout creates a callout. Each line of text becomes one callout line.
func NewCallout(text string) *Callout {
	return &Callout{blockBase: newBlock(calloutSchema, tree.New(map[string]interface{}{
		"type":     TypeCallout,
		"children": lineChildren("callout-line", text, nil),
	}).Root())}
}

func (c *Callout) Text() string { return c.str("text") }

var codeBlockSchema = blockSchema.Extend("code-block",
	attr.Field{
		Name: "code",
		Kind: attr.String,
		Get: func(n *tree.Node) (interface{}, error) {
			return joinLines(n.List("children")), nil
		},
		Set: func(n *tree.Node, value interface{}) error {
			lang, _ := n.Get("language")
			return n.Set([]string{"children"}, lineChildren("code-line", value.(string), lang))
		},
	},
	attr.Field{
		Name:       "language",
		Kind:       attr.String,
		Default:    DefaultCodeLanguage,
		Validators: []attr.Validator{attr.Check(validation.NotEmpty())},
		Set: func(n *tree.Node, value interface{}) error {
			code := joinLines(n.List("children"))
			children := lineChildren("code-line", code, value)
			spec := n.Map()
			spec["language"] = value
			spec["children"] = children
			return n.SetValue(spec)
		},
	},
)

// CodeBlock is a block of source code, one code line per source line
type CodeBlock struct{ blockBase }

// NewCodeBlock creates a code block. An empty language selects DefaultCodeLanguage.
func NewCodeBlock(code, language string) *CodeBlock {
	if language == "" {
		language = DefaultCodeLanguage
	}
	return &CodeBlock{blockBase: newBlock(codeBlockSchema, tree.New(map[string]interface{}{
		"type":     TypeCodeBlock,
		"children": lineChildren("code-line", code, language),
		"language": language,
	}).Root())}
}

func (c *CodeBlock) Code() string     { return c.str("code") }
func (c *CodeBlock) Language() string { return c.str("language") }

func lineChildren(lineType, text string, language interface{}) []interface{} {
	lines := strings.Split(text, "\n")
	out := make([]interface{}, 0, len(lines))
	for _, line := range lines {
		item := map[string]interface{}{
			"type":     lineType,
			"children": textChildren(line),
		}
		if language != nil {
			item["language"] = language
		}
		out = append(out, item)
	}
	return out
}

func joinLines(children []interface{}) string {
	lines := make([]string, 0, len(children))
	for _, child := range children {
		lines = append(lines, plainText(child))
	}
	return strings.Join(lines, "\n")
}

var (
	imageSchema = blockSchema.Extend("image",
		attr.Field{Name: "url", Kind: attr.String, Default: ""},
		textField("caption"),
	)
	gallerySchema = blockSchema.Extend("gallery",
		attr.Field{Name: "ids", Kind: attr.List, Default: []interface{}{}, Validators: []attr.Validator{
			attr.Check(validation.Each(validation.IsString())),
		}},
	)
	latexSchema = blockSchema.Extend("latex",
		attr.Field{Name: "content", Kind: attr.String, Default: ""},
	)
	markdownSchema = blockSchema.Extend("markdown-block",
		attr.Field{Name: "content", Kind: attr.String, Default: ""},
	)
	weaveSchema = blockSchema.Extend("weave-panel",
		attr.Field{Name: "config", Kind: attr.Object, Default: map[string]interface{}{}},
	)
)

// Image shows a picture from a URL
type Image struct{ blockBase }

// NewImage creates an image block
func NewImage(url string) *Image {
	return &Image{blockBase: newBlock(imageSchema, tree.New(map[string]interface{}{
		"type":     TypeImage,
		"children": emptyChildren(),
		"url":      url,
	}).Root())}
}

func (i *Image) URL() string     { return i.str("url") }
func (i *Image) Caption() string { return i.str("caption") }

// Gallery shows a set of reports or media by id
type Gallery struct{ blockBase }

// NewGallery creates a gallery block
func NewGallery(ids ...string) *Gallery {
	return &Gallery{blockBase: newBlock(gallerySchema, tree.New(map[string]interface{}{
		"type":     TypeGallery,
		"children": emptyChildren(),
		"ids":      append([]string{}, ids...),
	}).Root())}
}

func (g *Gallery) IDs() []string { return g.strs("ids") }

// HorizontalRule separates sections
type HorizontalRule struct{ blockBase }

// NewHorizontalRule creates a horizontal rule
func NewHorizontalRule() *HorizontalRule {
	return &HorizontalRule{blockBase: newBlock(blockSchema, tree.New(map[string]interface{}{
		"type":     TypeHorizontalRule,
		"children": emptyChildren(),
	}).Root())}
}

// TableOfContents lists the report headings
type TableOfContents struct{ blockBase }

// NewTableOfContents creates a table of contents block
func NewTableOfContents() *TableOfContents {
	return &TableOfContents{blockBase: newBlock(blockSchema, tree.New(map[string]interface{}{
		"type":     TypeTableOfContents,
		"children": emptyChildren(),
	}).Root())}
}

// LaTeX is a display math block
type LaTeX struct{ blockBase }

// NewLaTeX creates a display math block
func NewLaTeX(content string) *LaTeX {
	return &LaTeX{blockBase: newBlock(latexSchema, tree.New(map[string]interface{}{
		"type":     TypeLaTeX,
		"children": emptyChildren(),
		"content":  content,
		"block":    true,
	}).Root())}
}

func (l *LaTeX) Content() string { return l.str("content") }

// Markdown is a block of raw markdown source
type Markdown struct{ blockBase }

// NewMarkdown creates a markdown block
func NewMarkdown(content string) *Markdown {
	return &Markdown{blockBase: newBlock(markdownSchema, tree.New(map[string]interface{}{
		"type":     TypeMarkdown,
		"children": emptyChildren(),
		"content":  content,
	}).Root())}
}

func (m *Markdown) Content() string { return m.str("content") }

// inline math is a paragraph whose middle child is a latex leaf
const (
	inlineBefore = 0
	inlineMath   = 1
	inlineAfter  = 2
)

func isInlineLaTeX(n *tree.Node) bool {
	children := n.List("children")
	if len(children) != 3 {
		return false
	}
	mid, _ := children[inlineMath].(map[string]interface{})
	return mid["type"] == TypeLaTeX
}

func inlinePart(name string, index int, key string) attr.Field {
	return attr.Field{
		Name: name,
		Kind: attr.String,
		Path: []string{"children", fmt.Sprint(index), key},
	}
}

var inlineLaTeXSchema = blockSchema.Extend("inline-latex",
	inlinePart("before", inlineBefore, "text"),
	inlinePart("content", inlineMath, "content"),
	inlinePart("after", inlineAfter, "text"),
)

// InlineLaTeX is a paragraph with math between two runs of text
type InlineLaTeX struct{ blockBase }

// NewInlineLaTeX creates a paragraph holding before, inline math and after
func NewInlineLaTeX(before, content, after string) *InlineLaTeX {
	return &InlineLaTeX{blockBase: newBlock(inlineLaTeXSchema, tree.New(map[string]interface{}{
		"type": TypeParagraph,
		"children": []interface{}{
			map[string]interface{}{"text": before},
			map[string]interface{}{
				"type":     TypeLaTeX,
				"children": emptyChildren(),
				"content":  content,
			},
			map[string]interface{}{"text": after},
		},
	}).Root())}
}

func (l *InlineLaTeX) Before() string  { return l.str("before") }
func (l *InlineLaTeX) Content() string { return l.str("content") }
func (l *InlineLaTeX) After() string   { return l.str("after") }

// Weave embeds an opaque weave panel
type Weave struct{ blockBase }

// NewWeave wraps a complete weave-panel spec
func NewWeave(spec map[string]interface{}) *Weave {
	spec = tree.CopyMap(spec)
	spec["type"] = TypeWeave
	if _, ok := spec["children"]; !ok {
		spec["children"] = emptyChildren()
	}
	return &Weave{blockBase: newBlock(weaveSchema, tree.New(spec).Root())}
}

// Config returns a copy of the panel configuration
func (w *Weave) Config() map[string]interface{} {
	return w.node.Child("config").Map()
}

// Raw preserves a fragment of a type this package does not model
type Raw struct{ blockBase }

// NewRaw wraps an arbitrary block spec. It fails when the spec has no type.
func NewRaw(spec map[string]interface{}) (*Raw, error) {
	if _, ok := spec["type"].(string); !ok {
		return nil, fmt.Errorf("block spec has no type: %v", spec)
	}
	return &Raw{blockBase: newBlock(blockSchema, tree.New(spec).Root())}, nil
}
