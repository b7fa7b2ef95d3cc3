package nanoreport

import (
	"fmt"

	"github.com/arthur-debert/nanoreport/nanoreport/attr"
	"github.com/arthur-debert/nanoreport/nanoreport/tree"
)

// Block type names as they appear in the spec
const (
	TypeHeading         = "heading"
	TypeParagraph       = "paragraph"
	TypeList            = "list"
	TypeBlockQuote      = "block-quote"
	TypeCallout         = "callout-block"
	TypeCodeBlock       = "code-block"
	TypeImage           = "image"
	TypeGallery         = "gallery"
	TypeHorizontalRule  = "horizontal-rule"
	TypeTableOfContents = "table-of-contents"
	TypeLaTeX           = "latex"
	TypeMarkdown        = "markdown-block"
	TypePanelGrid       = "panel-grid"
	TypeWeave           = "weave-panel"
)

// Block is one element of a report's block sequence. Every block is a view over
// its spec fragment: reads and writes go straight to the fragment.
type Block interface {
	// Type returns the spec type name of the block
	Type() string
	Node() *tree.Node
	Spec() map[string]interface{}
	Modified() bool
	Fields() []string
	Get(field string) (interface{}, error)
	Set(field string, value interface{}) error

	view() *entity
}

// blockSchema holds the fields every block has
var blockSchema = attr.NewSchema("block",
	attr.Field{Name: "type", Kind: attr.String, ReadOnly: true},
)

// Equal reports whether two blocks have the same spec
func Equal(a, b Block) bool {
	if a == nil || b == nil {
		return a == b
	}
	return tree.Equal(a.Spec(), b.Spec())
}

// BlockFromSpec builds a detached block owning a copy of spec. Fragments of
// unknown type become Raw blocks.
func BlockFromSpec(spec map[string]interface{}) (Block, error) {
	if spec == nil {
		return nil, fmt.Errorf("block spec is nil")
	}
	if _, ok := spec["type"].(string); !ok {
		return nil, fmt.Errorf("block spec has no type: %v", spec)
	}
	return blockAt(nil, tree.New(spec).Root()), nil
}

// blockAt builds the view matching the fragment at n
func blockAt(r *Report, n *tree.Node) Block {
	typ, _ := n.Get("type")
	switch typ {
	case TypeHeading:
		return &Heading{blockBase: newBlock(headingSchema, n)}
	case TypeParagraph:
		if isInlineLaTeX(n) {
			return &InlineLaTeX{blockBase: newBlock(inlineLaTeXSchema, n)}
		}
		return &Paragraph{blockBase: newBlock(paragraphSchema, n)}
	case TypeList:
		return &List{blockBase: newBlock(listSchema, n)}
	case TypeBlockQuote:
		return &BlockQuote{blockBase: newBlock(blockQuoteSchema, n)}
	case TypeCallout:
		return &Callout{blockBase: newBlock(calloutSchema, n)}
	case TypeCodeBlock:
		return &CodeBlock{blockBase: newBlock(codeBlockSchema, n)}
	case TypeImage:
		return &Image{blockBase: newBlock(imageSchema, n)}
	case TypeGallery:
		return &Gallery{blockBase: newBlock(gallerySchema, n)}
	case TypeHorizontalRule:
		return &HorizontalRule{blockBase: newBlock(blockSchema, n)}
	case TypeTableOfContents:
		return &TableOfContents{blockBase: newBlock(blockSchema, n)}
	case TypeLaTeX:
		return &LaTeX{blockBase: newBlock(latexSchema, n)}
	case TypeMarkdown:
		return &Markdown{blockBase: newBlock(markdownSchema, n)}
	case TypePanelGrid:
		return &PanelGrid{blockBase: newBlock(panelGridSchema, n), report: r}
	case TypeWeave:
		return &Weave{blockBase: newBlock(weaveSchema, n)}
	}
	return &Raw{blockBase: newBlock(blockSchema, n)}
}

// blockBase carries the methods shared by every block variant
type blockBase struct {
	entity
}

func newBlock(schema *attr.Schema, n *tree.Node) blockBase {
	return blockBase{entity: newEntity(schema, n)}
}

// Type returns the spec type name of the block
func (b *blockBase) Type() string {
	typ, _ := b.node.Get("type")
	s, _ := typ.(string)
	return s
}

func (b *blockBase) view() *entity {
	return &b.entity
}
