package tree

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"weak"
)

const minCompact = 64

// Document is the single owner of a JSON-shaped tree. It also keeps weak
// references to the tracked handles positioned in it, so that writes can move
// or detach them.
type Document struct {
	root    map[string]interface{}
	dirty   map[string]struct{}
	handles []weak.Pointer[Node]
	compact int
}

// New creates a document owning a normalized copy of root
func New(root map[string]interface{}) *Document {
	return &Document{
		root:  CopyMap(root),
		dirty: make(map[string]struct{}),
	}
}

// Parse decodes a JSON object into a new document
func Parse(data []byte) (*Document, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	root, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("document root must be a JSON object, got %T", raw)
	}
	return New(root), nil
}

// Root returns a handle on the whole document
func (d *Document) Root() *Node {
	return &Node{doc: d}
}

// Modified reports whether any write happened since creation or the last ClearModified
func (d *Document) Modified() bool {
	return len(d.dirty) > 0
}

// ClearModified forgets every recorded write
func (d *Document) ClearModified() {
	d.dirty = make(map[string]struct{})
}

// DirtyPointers lists the pointers written since the last ClearModified, sorted
func (d *Document) DirtyPointers() []string {
	out := make([]string, 0, len(d.dirty))
	for p := range d.dirty {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a deep copy of the whole tree
func (d *Document) Snapshot() map[string]interface{} {
	return CopyMap(d.root)
}

// MarshalJSON implements json.Marshaler
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.root)
}

// track registers a handle positioned in d
func (d *Document) track(n *Node) {
	if len(d.handles) >= max(d.compact, minCompact) {
		kept := d.handles[:0]
		for _, w := range d.handles {
			if h := w.Value(); h != nil && h.doc == d {
				kept = append(kept, w)
			}
		}
		clear(d.handles[len(kept):])
		d.handles = kept
		d.compact = 2 * len(kept)
	}
	d.handles = append(d.handles, weak.Make(n))
}

// live returns the tracked handles still positioned in d
func (d *Document) live() []*Node {
	out := make([]*Node, 0, len(d.handles))
	for _, w := range d.handles {
		if h := w.Value(); h != nil && h.doc == d {
			out = append(out, h)
		}
	}
	return out
}

func (d *Document) markDirty(pointer string) {
	d.dirty[pointer] = struct{}{}
}

// dirtyNear reports whether a write happened at pointer, below it or above it
func (d *Document) dirtyNear(pointer string) bool {
	for p := range d.dirty {
		if p == pointer || isUnder(p, pointer) || isUnder(pointer, p) {
			return true
		}
	}
	return false
}

// isUnder reports whether pointer p lies strictly below ancestor
func isUnder(p, ancestor string) bool {
	return strings.HasPrefix(p, ancestor+"/")
}

// container walks the first depth tokens from the root, creating missing
// objects along the way when create is set. An object is never created where
// the following token is a list index.
func (d *Document) container(tokens []string, depth int, create bool) (interface{}, error) {
	var cur interface{} = d.root
	for i, tok := range tokens[:depth] {
		switch c := cur.(type) {
		case map[string]interface{}:
			next, ok := c[tok]
			if !ok || next == nil {
				if !create {
					return nil, fmt.Errorf("no value at %s", pointerOf(tokens[:i+1]))
				}
				if isIndex(tokens[i+1]) {
					return nil, fmt.Errorf("no list at %s to index with %s", pointerOf(tokens[:i+1]), tokens[i+1])
				}
				next = map[string]interface{}{}
				c[tok] = next
			}
			cur = next
		case []interface{}:
			idx, err := index(tok, len(c))
			if err != nil {
				return nil, fmt.Errorf("at %s: %w", pointerOf(tokens[:i+1]), err)
			}
			cur = c[idx]
		default:
			return nil, fmt.Errorf("cannot descend into %T at %s", cur, pointerOf(tokens[:i]))
		}
	}
	return cur, nil
}

func isIndex(tok string) bool {
	return tok != "" && strings.Trim(tok, "0123456789") == ""
}
