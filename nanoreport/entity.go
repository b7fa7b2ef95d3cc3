package nanoreport

import (
	"fmt"

	"github.com/arthur-debert/nanoreport/nanoreport/attr"
	"github.com/arthur-debert/nanoreport/nanoreport/tree"
)

// kindKeys are the fields naming what a fragment is, panels first
var kindKeys = []string{"viewType", "type"}

// entity is the view every document object is built on: a tracked handle into
// the document plus the schema of its fields. kind is the block type or panel
// view type the fragment had when the view was made.
type entity struct {
	node   *tree.Node
	schema *attr.Schema
	kind   string
}

func newEntity(schema *attr.Schema, node *tree.Node) entity {
	e := entity{node: node.Track(), schema: schema}
	e.kind = e.kindOf()
	return e
}

func (e *entity) kindOf() string {
	for _, key := range kindKeys {
		if v, ok := e.node.Get(key); ok {
			s, _ := v.(string)
			return s
		}
	}
	return ""
}

// checkFragment refuses to write through a view whose fragment is gone or now
// holds a different kind of object
func (e *entity) checkFragment() error {
	if _, ok := e.node.Value().(map[string]interface{}); !ok {
		return fmt.Errorf("%w: no object at %q", ErrStaleView, e.node.Pointer())
	}
	if kind := e.kindOf(); kind != e.kind {
		return fmt.Errorf("%w: %q holds %q, view is %q", ErrStaleView, e.node.Pointer(), kind, e.kind)
	}
	return nil
}

// Node returns the handle of the entity's fragment
func (e *entity) Node() *tree.Node {
	return e.node
}

// Spec returns a copy of the entity's fragment
func (e *entity) Spec() map[string]interface{} {
	return e.node.Map()
}

// Modified reports whether the fragment was written since the last clear
func (e *entity) Modified() bool {
	return e.node.Modified()
}

// Fields lists the names accepted by Get and Set
func (e *entity) Fields() []string {
	return e.schema.Fields()
}

// Get reads a field by name
func (e *entity) Get(field string) (interface{}, error) {
	return e.schema.Get(e.node, field)
}

// Set validates and writes a field by name
func (e *entity) Set(field string, value interface{}) error {
	if err := e.checkFragment(); err != nil {
		return err
	}
	return e.schema.Set(e.node, field, value)
}

// graft moves the entity, and every view inside it, to position to
func (e *entity) graft(to *tree.Node) tree.Graft {
	return tree.Graft{From: e.node, To: to}
}

func (e *entity) str(field string) string   { return e.schema.String(e.node, field) }
func (e *entity) boolean(field string) bool { return e.schema.Bool(e.node, field) }
func (e *entity) integer(field string) int  { return e.schema.Int(e.node, field) }
func (e *entity) number(field string) float64 {
	return e.schema.Float(e.node, field)
}
func (e *entity) strs(field string) []string { return e.schema.Strings(e.node, field) }
