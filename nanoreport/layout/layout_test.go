package layout_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/nanoreport/nanoreport/layout"
	"github.com/arthur-debert/nanoreport/types"
)

func rect(x, y, w, h int) types.Rect { return types.Rect{X: x, Y: y, W: w, H: h} }

func ptr(r types.Rect) *types.Rect { return &r }

func TestCollides(t *testing.T) {
	a := rect(0, 0, 4, 4)
	tests := []struct {
		name string
		b    types.Rect
		want bool
	}{
		{"touching right edge", rect(4, 0, 4, 4), false},
		{"overlapping by one column", rect(3, 0, 4, 4), true},
		{"touching bottom edge", rect(0, 4, 4, 4), false},
		{"touching corner", rect(4, 4, 4, 4), false},
		{"contained", rect(1, 1, 2, 2), true},
		{"identical", rect(0, 0, 4, 4), true},
		{"far away", rect(10, 10, 1, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := layout.Collides(a, tt.b); got != tt.want {
				t.Errorf("Collides(%v, %v) = %v, want %v", a, tt.b, got, tt.want)
			}
			if got := layout.Collides(tt.b, a); got != tt.want {
				t.Errorf("Collides is not symmetric for %v", tt.b)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	rects := []types.Rect{
		rect(0, 0, 12, 6),
		rect(12, 0, 12, 6),
		rect(6, 3, 12, 6),
		rect(0, 20, 4, 4),
	}
	want := []layout.Pair{{A: 0, B: 2}, {A: 1, B: 2}}
	if diff := cmp.Diff(want, layout.Validate(rects)); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}
	if got := layout.Validate(rects[:2]); len(got) != 0 {
		t.Errorf("Validate() = %v, want no pairs", got)
	}
}

func TestCheck(t *testing.T) {
	err := layout.Check([]types.Rect{rect(0, 0, 4, 4), rect(2, 2, 4, 4)})
	var cerr *layout.CollisionError
	if !errors.As(err, &cerr) {
		t.Fatalf("Check() error = %v, want CollisionError", err)
	}
	if len(cerr.Pairs) != 1 {
		t.Errorf("Pairs = %v, want one pair", cerr.Pairs)
	}
	if err := layout.Check(nil); err != nil {
		t.Errorf("Check(nil) = %v", err)
	}
}

func TestPlaceAutoIsRowMajor(t *testing.T) {
	p := layout.DefaultPacker()
	got, err := p.Place([]*types.Rect{nil, nil, nil, nil, nil})
	if err != nil {
		t.Fatalf("Place() failed: %v", err)
	}
	want := []types.Rect{
		rect(0, 0, 12, 6),
		rect(12, 0, 12, 6),
		rect(0, 6, 12, 6),
		rect(12, 6, 12, 6),
		rect(0, 12, 12, 6),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Place() mismatch (-want +got):\n%s", diff)
	}
	if pairs := layout.Validate(got); len(pairs) != 0 {
		t.Errorf("auto placement collides: %v", pairs)
	}
}

func TestPlaceAroundExplicit(t *testing.T) {
	p := layout.DefaultPacker()
	got, err := p.Place([]*types.Rect{nil, ptr(rect(0, 0, 12, 6)), nil})
	if err != nil {
		t.Fatalf("Place() failed: %v", err)
	}
	want := []types.Rect{
		rect(12, 0, 12, 6),
		rect(0, 0, 12, 6),
		rect(0, 6, 12, 6),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Place() mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaceRejectsCollisions(t *testing.T) {
	p := layout.DefaultPacker()
	_, err := p.Place([]*types.Rect{ptr(rect(0, 0, 8, 6)), nil, ptr(rect(4, 0, 8, 6))})
	var cerr *layout.CollisionError
	if !errors.As(err, &cerr) {
		t.Fatalf("Place() error = %v, want CollisionError", err)
	}
	if diff := cmp.Diff([]layout.Pair{{A: 0, B: 2}}, cerr.Pairs); diff != "" {
		t.Errorf("Pairs mismatch (-want +got):\n%s", diff)
	}
	if cerr.Error() == "" {
		t.Error("expected a message")
	}
}

func TestPlaceRejectsInvalidRects(t *testing.T) {
	p := layout.DefaultPacker()
	for _, r := range []types.Rect{rect(-1, 0, 4, 4), rect(0, 0, 0, 4), rect(0, 0, 4, -2)} {
		if _, err := p.Place([]*types.Rect{ptr(r)}); err == nil {
			t.Errorf("Place(%v) succeeded, want error", r)
		}
	}
}

func TestRepack(t *testing.T) {
	p := layout.DefaultPacker()
	got, moved := p.Repack([]*types.Rect{
		ptr(rect(0, 0, 8, 6)),
		ptr(rect(4, 0, 8, 6)),
		nil,
		ptr(rect(0, 0, 0, 0)),
	})
	want := []types.Rect{
		rect(0, 0, 8, 6),
		rect(8, 0, 8, 6),
		rect(12, 6, 12, 6),
		rect(0, 6, 12, 6),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Repack() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 3}, moved); diff != "" {
		t.Errorf("moved mismatch (-want +got):\n%s", diff)
	}
	if pairs := layout.Validate(got); len(pairs) != 0 {
		t.Errorf("repacked layout collides: %v", pairs)
	}
}

func TestFirstFitFillsGaps(t *testing.T) {
	p := layout.DefaultPacker()
	placed := []types.Rect{rect(0, 0, 24, 4), rect(0, 4, 6, 6)}
	got := p.FirstFit(placed, 12, 6)
	if got != rect(6, 4, 12, 6) {
		t.Errorf("FirstFit() = %v, want %v", got, rect(6, 4, 12, 6))
	}
}

func TestPackerDefaults(t *testing.T) {
	w, h := layout.Packer{}.CellSize()
	if w != 12 || h != 6 {
		t.Errorf("CellSize() = %d x %d, want 12 x 6", w, h)
	}
	w, _ = layout.Packer{GridWidth: 24, Columns: 3}.CellSize()
	if w != 8 {
		t.Errorf("CellSize() width = %d, want 8", w)
	}
}
