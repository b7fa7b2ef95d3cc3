package nanoreport

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arthur-debert/nanoreport/internal/validation"
	"github.com/arthur-debert/nanoreport/nanoreport/attr"
	"github.com/arthur-debert/nanoreport/nanoreport/layout"
	"github.com/arthur-debert/nanoreport/nanoreport/tree"
)

// DefaultTitle is the title of reports created without one
const DefaultTitle = "Untitled Report"

// Report widths
const (
	WidthReadable = "readable"
	WidthFixed    = "fixed"
	WidthFluid    = "fluid"
)

var blocksPath = []string{"spec", "blocks"}

var reportSchema = attr.NewSchema("report",
	attr.Field{Name: "id", Kind: attr.String, ReadOnly: true, Default: ""},
	attr.Field{Name: "title", Path: []string{"displayName"}, Kind: attr.String, Default: DefaultTitle},
	attr.Field{Name: "description", Kind: attr.String, Default: ""},
	attr.Field{
		Name:       "width",
		Path:       []string{"spec", "width"},
		Kind:       attr.String,
		Default:    WidthReadable,
		Validators: []attr.Validator{attr.Check(validation.OneOf(WidthReadable, WidthFixed, WidthFluid))},
	},
	attr.Field{Name: "entity", Path: []string{"project", "entityName"}, Kind: attr.String, ReadOnly: true, Default: ""},
	attr.Field{Name: "project", Path: []string{"project", "name"}, Kind: attr.String, ReadOnly: true, Default: ""},
	attr.Field{Name: "created_at", Path: []string{"createdAt"}, Kind: attr.String, ReadOnly: true, Default: ""},
	attr.Field{Name: "updated_at", Path: []string{"updatedAt"}, Kind: attr.String, ReadOnly: true, Default: ""},
)

// Report is the root of a report document: an envelope of metadata around a
// versioned spec holding the block sequence
type Report struct {
	entity
	doc    *tree.Document
	packer layout.Packer
}

// NewReport creates an empty report in entity/project. The project is required.
func NewReport(entity, project string) (*Report, error) {
	if err := validation.NotEmpty()(project); err != nil {
		return nil, &attr.ValidationError{
			Entity:   "report",
			Field:    "project",
			Value:    project,
			Expected: "non-empty string",
			Err:      err,
		}
	}
	return FromEnvelope(map[string]interface{}{
		"displayName": DefaultTitle,
		"description": "",
		"project": map[string]interface{}{
			"name":       project,
			"entityName": entity,
		},
		"spec": map[string]interface{}{
			"version":           SpecVersion,
			"panelSettings":     map[string]interface{}{},
			"blocks":            []interface{}{},
			"width":             WidthReadable,
			"authors":           []interface{}{},
			"discussionThreads": []interface{}{},
			"ref":               map[string]interface{}{},
		},
	})
}

// FromEnvelope builds a report over a copy of envelope. The spec may be an
// object or a JSON encoded string; either way its version must be SpecVersion.
func FromEnvelope(envelope map[string]interface{}) (*Report, error) {
	if envelope == nil {
		return nil, errors.New("report envelope is nil")
	}
	envelope = tree.CopyMap(envelope)
	spec, err := decodeSpec(envelope["spec"])
	if err != nil {
		return nil, err
	}
	if err := checkVersion(spec); err != nil {
		logger.Debug("refused report spec", "id", envelope["id"], "error", err)
		return nil, err
	}
	envelope["spec"] = spec

	doc := tree.New(envelope)
	return &Report{
		entity: newEntity(reportSchema, doc.Root()),
		doc:    doc,
		packer: layout.DefaultPacker(),
	}, nil
}

// Parse decodes a JSON report envelope
func Parse(data []byte) (*Report, error) {
	var envelope map[string]interface{}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return FromEnvelope(envelope)
}

func decodeSpec(v interface{}) (map[string]interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, nil
	case string:
		var spec map[string]interface{}
		if err := json.Unmarshal([]byte(t), &spec); err != nil {
			return nil, fmt.Errorf("failed to parse report spec: %w", err)
		}
		return tree.CopyMap(spec), nil
	case nil:
		return nil, errors.New("report has no spec")
	}
	return nil, fmt.Errorf("report spec must be an object or a JSON string, got %T", v)
}

func checkVersion(spec map[string]interface{}) error {
	v, ok := spec["version"]
	if !ok || v == nil {
		return &SchemaVersionError{Want: SpecVersion}
	}
	if n, ok := validation.AsInt(v); !ok || n != SpecVersion {
		return &SchemaVersionError{Got: v, Want: SpecVersion}
	}
	return nil
}

// Document returns the document owning the report tree
func (r *Report) Document() *tree.Document {
	return r.doc
}

func (r *Report) ID() string          { return r.str("id") }
func (r *Report) Title() string       { return r.str("title") }
func (r *Report) Description() string { return r.str("description") }
func (r *Report) Width() string       { return r.str("width") }
func (r *Report) Entity() string      { return r.str("entity") }
func (r *Report) Project() string     { return r.str("project") }
func (r *Report) CreatedAt() string   { return r.str("created_at") }
func (r *Report) UpdatedAt() string   { return r.str("updated_at") }

func (r *Report) SetTitle(title string) error      { return r.Set("title", title) }
func (r *Report) SetDescription(desc string) error { return r.Set("description", desc) }
func (r *Report) SetWidth(width string) error      { return r.Set("width", width) }

// Packer returns the placement policy used when assigning panels
func (r *Report) Packer() layout.Packer {
	return r.packer
}

// SetPacker changes the placement policy used when assigning panels
func (r *Report) SetPacker(p layout.Packer) {
	r.packer = p
}

// Modified reports whether anything in the report was written since it was
// loaded, created or last cleared
func (r *Report) Modified() bool {
	return r.doc.Modified()
}

// ClearModified marks the report as unchanged
func (r *Report) ClearModified() {
	r.doc.ClearModified()
}

// Spec returns a copy of the versioned spec
func (r *Report) Spec() map[string]interface{} {
	return r.node.Child("spec").Map()
}

// Envelope returns a copy of the whole report, spec included as an object
func (r *Report) Envelope() map[string]interface{} {
	return r.doc.Snapshot()
}

// MarshalJSON implements json.Marshaler
func (r *Report) MarshalJSON() ([]byte, error) {
	return r.doc.MarshalJSON()
}

// Blocks returns views over the report's blocks
func (r *Report) Blocks() []Block {
	count := r.node.Len(blocksPath...)
	out := make([]Block, count)
	for i := range out {
		out[i] = blockAt(r, r.node.Child(blocksPath...).Index(i))
	}
	return out
}

// SetBlocks replaces the block sequence. Every given block becomes a view
// into the report.
func (r *Report) SetBlocks(blocks ...Block) error {
	specs := make([]interface{}, len(blocks))
	grafts := make([]tree.Graft, len(blocks))
	for i, b := range blocks {
		if b == nil {
			return fmt.Errorf("block %d is nil", i)
		}
		specs[i] = b.Spec()
		grafts[i] = b.view().graft(r.node.Child(blocksPath...).Index(i))
	}
	if err := r.node.Assign(blocksPath, specs, grafts...); err != nil {
		return err
	}
	for _, b := range blocks {
		if g, ok := b.(*PanelGrid); ok {
			g.report = r
		}
	}
	return nil
}

// PanelGrids returns the panel grid blocks in order
func (r *Report) PanelGrids() []*PanelGrid {
	var out []*PanelGrid
	for _, b := range r.Blocks() {
		if g, ok := b.(*PanelGrid); ok {
			out = append(out, g)
		}
	}
	return out
}

// RunSets returns the run sets of every panel grid, one slice per grid
func (r *Report) RunSets() [][]*RunSet {
	grids := r.PanelGrids()
	out := make([][]*RunSet, len(grids))
	for i, g := range grids {
		out[i] = g.RunSets()
	}
	return out
}

// NewPanelGrid creates a detached panel grid over this report's project
func (r *Report) NewPanelGrid() *PanelGrid {
	g := NewPanelGrid(r.Entity(), r.Project())
	g.report = r
	return g
}

// NewRunSet creates a detached run set over this report's project
func (r *Report) NewRunSet() *RunSet {
	return NewRunSet(r.Entity(), r.Project())
}
