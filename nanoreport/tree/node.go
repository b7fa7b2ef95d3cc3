package tree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// Node is a handle on one position of a Document
type Node struct {
	doc    *Document
	tokens []string
}

// Document returns the owning document
func (n *Node) Document() *Document {
	return n.doc
}

// Tokens returns the decoded pointer tokens of the handle
func (n *Node) Tokens() []string {
	return append([]string(nil), n.tokens...)
}

// Pointer returns the RFC 6901 pointer of the handle
func (n *Node) Pointer() string {
	return pointerOf(n.tokens)
}

// Child returns a handle below n
func (n *Node) Child(tokens ...string) *Node {
	return &Node{doc: n.doc, tokens: n.join(tokens)}
}

// Index returns a handle on the i-th element of the list at n
func (n *Node) Index(i int) *Node {
	return n.Child(strconv.Itoa(i))
}

// Track registers n with its document. Writes to the document then keep n
// positioned on its fragment: Assign moves it along a Graft, and a write that
// replaces an ancestor of n detaches it.
func (n *Node) Track() *Node {
	n.doc.track(n)
	return n
}

// Graft asks Assign to move every tracked handle at or under From to the same
// relative position under To
type Graft struct {
	From *Node
	To   *Node
}

// Get resolves the value at tokens below n. The returned value is live and must
// not be mutated by callers.
func (n *Node) Get(tokens ...string) (interface{}, bool) {
	ptr, err := jsonpointer.New(pointerOf(n.join(tokens)))
	if err != nil {
		return nil, false
	}
	v, _, err := ptr.Get(n.doc.root)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Value is Get without a path
func (n *Node) Value() interface{} {
	v, _ := n.Get()
	return v
}

// Exists reports whether a value is present at tokens below n
func (n *Node) Exists(tokens ...string) bool {
	_, ok := n.Get(tokens...)
	return ok
}

// Snapshot returns a deep copy of the value at n
func (n *Node) Snapshot() interface{} {
	return Copy(n.Value())
}

// Map returns a deep copy of the object at n, or an empty object
func (n *Node) Map() map[string]interface{} {
	m, _ := n.Value().(map[string]interface{})
	return CopyMap(m)
}

// List returns the live list at tokens below n, or nil
func (n *Node) List(tokens ...string) []interface{} {
	v, _ := n.Get(tokens...)
	l, _ := v.([]interface{})
	return l
}

// Len returns the length of the list at tokens below n
func (n *Node) Len(tokens ...string) int {
	return len(n.List(tokens...))
}

// Set writes a normalized copy of value at tokens below n, creating missing
// parent objects, and records the write
func (n *Node) Set(tokens []string, value interface{}) error {
	return n.Assign(tokens, value)
}

// Assign is Set that also re-points tracked handles. Handles matched by a graft
// follow it, the first match winning. Other handles strictly below the written
// position are detached onto a copy of the value they were looking at.
func (n *Node) Assign(tokens []string, value interface{}, grafts ...Graft) error {
	full := n.join(tokens)
	moves := n.doc.plan(full, grafts, false)
	if err := n.doc.put(full, Normalize(value)); err != nil {
		return err
	}
	apply(moves)
	return nil
}

func (d *Document) put(full []string, norm interface{}) error {
	if len(full) == 0 {
		root, ok := norm.(map[string]interface{})
		if !ok {
			return fmt.Errorf("document root must be an object, got %T", norm)
		}
		d.root = root
		d.markDirty("")
		return nil
	}

	parent, err := d.container(full, len(full)-1, true)
	if err != nil {
		return err
	}
	last := full[len(full)-1]
	switch p := parent.(type) {
	case map[string]interface{}:
		p[last] = norm
	case []interface{}:
		idx, err := index(last, len(p))
		if err != nil {
			return fmt.Errorf("at %s: %w", pointerOf(full), err)
		}
		p[idx] = norm
	default:
		return fmt.Errorf("cannot set below %T at %s", parent, pointerOf(full[:len(full)-1]))
	}
	d.markDirty(pointerOf(full))
	return nil
}

// move is one planned handle relocation
type move struct {
	handle *Node
	doc    *Document
	tokens []string
}

// plan works out where every tracked handle goes once full is overwritten,
// or removed when removing is set. Graft sources are usually tracked handles
// themselves.
func (d *Document) plan(full []string, grafts []Graft, removing bool) []move {
	type span struct {
		fromDoc, toDoc     *Document
		fromTokens, tokens []string
	}
	// Copy graft positions before any handle moves
	spans := make([]span, 0, len(grafts))
	for _, g := range grafts {
		spans = append(spans, span{
			fromDoc:    g.From.doc,
			toDoc:      g.To.doc,
			fromTokens: g.From.Tokens(),
			tokens:     g.To.Tokens(),
		})
	}

	// Candidates are the handles of d and of every graft source, once each
	seen := make(map[*Node]bool)
	var candidates []*Node
	for _, doc := range append([]*Document{d}, sourceDocs(grafts)...) {
		for _, h := range doc.live() {
			if !seen[h] {
				seen[h] = true
				candidates = append(candidates, h)
			}
		}
	}

	var moves []move
	var detached *Document
	for _, h := range candidates {
		// grafted handles follow their graft
		matched := false
		for _, sp := range spans {
			if h.doc == sp.fromDoc && hasPrefix(h.tokens, sp.fromTokens) {
				moves = append(moves, move{
					handle: h,
					doc:    sp.toDoc,
					tokens: append(append([]string(nil), sp.tokens...), h.tokens[len(sp.fromTokens):]...),
				})
				matched = true
				break
			}
		}
		if matched || h.doc != d || !hasPrefix(h.tokens, full) {
			continue
		}
		if len(h.tokens) == len(full) && !removing {
			continue
		}

		// the handle's fragment is being replaced: keep it on a private copy
		if detached == nil {
			old, _ := (&Node{doc: d, tokens: full}).Get()
			detached = New(map[string]interface{}{"detached": old})
		}
		moves = append(moves, move{
			handle: h,
			doc:    detached,
			tokens: append([]string{"detached"}, h.tokens[len(full):]...),
		})
	}
	return moves
}

func apply(moves []move) {
	for _, m := range moves {
		if m.handle.doc != m.doc {
			m.doc.track(m.handle)
		}
		m.handle.doc = m.doc
		m.handle.tokens = m.tokens
	}
}

func sourceDocs(grafts []Graft) []*Document {
	out := make([]*Document, 0, len(grafts))
	for _, g := range grafts {
		out = append(out, g.From.doc)
	}
	return out
}

func hasPrefix(tokens, prefix []string) bool {
	if len(tokens) < len(prefix) {
		return false
	}
	for i, tok := range prefix {
		if tokens[i] != tok {
			return false
		}
	}
	return true
}

// SetValue replaces the value at n itself
func (n *Node) SetValue(value interface{}) error {
	return n.Set(nil, value)
}

// Delete removes the key at tokens below n. Missing keys are not an error.
// Tracked handles at or below the removed key are detached.
func (n *Node) Delete(tokens ...string) error {
	full := n.join(tokens)
	if len(full) == 0 {
		return fmt.Errorf("cannot delete the document root")
	}
	parent, err := n.doc.container(full, len(full)-1, false)
	if err != nil {
		return nil
	}
	p, ok := parent.(map[string]interface{})
	if !ok {
		return fmt.Errorf("can only delete object keys, found %T at %s", parent, pointerOf(full[:len(full)-1]))
	}
	if _, present := p[full[len(full)-1]]; !present {
		return nil
	}
	moves := n.doc.plan(full, nil, true)
	delete(p, full[len(full)-1])
	n.doc.markDirty(pointerOf(full))
	apply(moves)
	return nil
}

// Modified reports whether anything at, below or above n was written
func (n *Node) Modified() bool {
	return n.doc.dirtyNear(n.Pointer())
}

// Contains reports whether other lies at or below n in the same document
func (n *Node) Contains(other *Node) bool {
	if n.doc != other.doc {
		return false
	}
	p, q := n.Pointer(), other.Pointer()
	return p == q || isUnder(q, p)
}

func (n *Node) join(tokens []string) []string {
	out := make([]string, 0, len(n.tokens)+len(tokens))
	out = append(out, n.tokens...)
	return append(out, tokens...)
}

func pointerOf(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteByte('/')
		b.WriteString(jsonpointer.Escape(tok))
	}
	return b.String()
}

func index(tok string, length int) (int, error) {
	idx, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid list index %q", tok)
	}
	if idx < 0 || idx >= length {
		return 0, fmt.Errorf("list index %d out of range [0, %d)", idx, length)
	}
	return idx, nil
}
