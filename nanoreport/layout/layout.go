// Package layout detects and resolves overlapping panel placements on the
// report grid. Rectangles are half-open: a panel at x with width w covers
// columns x through x+w-1, so panels sharing an edge do not overlap.
package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/nanoreport/types"
)

// Pair identifies two colliding rectangles by index, with A < B
type Pair struct {
	A int
	B int
}

// CollisionError lists every colliding pair of a layout
type CollisionError struct {
	Pairs []Pair
	Rects []types.Rect
}

// Error implements the error interface
func (e *CollisionError) Error() string {
	parts := make([]string, 0, len(e.Pairs))
	for _, p := range e.Pairs {
		parts = append(parts, fmt.Sprintf("%d%v and %d%v", p.A, e.Rects[p.A], p.B, e.Rects[p.B]))
	}
	return fmt.Sprintf("%d panel layout collision(s): %s", len(e.Pairs), strings.Join(parts, "; "))
}

// Collides reports whether a and b overlap
func Collides(a, b types.Rect) bool {
	return a.X < b.Right() && b.X < a.Right() && a.Y < b.Bottom() && b.Y < a.Bottom()
}

// Validate returns every unordered colliding pair, each once, ordered by A then B
func Validate(rects []types.Rect) []Pair {
	var pairs []Pair
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			if Collides(rects[i], rects[j]) {
				pairs = append(pairs, Pair{A: i, B: j})
			}
		}
	}
	return pairs
}

// Check is Validate returning a *CollisionError when any pair collides
func Check(rects []types.Rect) error {
	pairs := Validate(rects)
	if len(pairs) == 0 {
		return nil
	}
	return &CollisionError{Pairs: pairs, Rects: append([]types.Rect(nil), rects...)}
}

// CheckRect rejects negative positions and empty sizes
func CheckRect(r types.Rect) error {
	if r.X < 0 || r.Y < 0 {
		return fmt.Errorf("layout %v has a negative position", r)
	}
	if r.W <= 0 || r.H <= 0 {
		return fmt.Errorf("layout %v must have a positive size", r)
	}
	return nil
}

// Packer places panels on a grid of GridWidth columns. Auto-placed panels are
// GridWidth/Columns wide and RowHeight tall.
type Packer struct {
	GridWidth int
	Columns   int
	RowHeight int
}

// DefaultPacker is two panels per row on the 24 column report grid
func DefaultPacker() Packer {
	return Packer{GridWidth: 24, Columns: 2, RowHeight: 6}
}

func (p Packer) normalized() Packer {
	d := DefaultPacker()
	if p.GridWidth <= 0 {
		p.GridWidth = d.GridWidth
	}
	if p.Columns <= 0 {
		p.Columns = d.Columns
	}
	if p.Columns > p.GridWidth {
		p.Columns = p.GridWidth
	}
	if p.RowHeight <= 0 {
		p.RowHeight = d.RowHeight
	}
	return p
}

// CellSize is the size given to auto-placed panels
func (p Packer) CellSize() (w, h int) {
	p = p.normalized()
	return p.GridWidth / p.Columns, p.RowHeight
}

// FirstFit returns the top-most, then left-most position of a w by h panel
// that overlaps nothing in placed
func (p Packer) FirstFit(placed []types.Rect, w, h int) types.Rect {
	p = p.normalized()
	if w > p.GridWidth {
		w = p.GridWidth
	}

	// Candidate origins: column starts plus the right and bottom edges of placed panels
	xs := map[int]bool{0: true}
	ys := map[int]bool{0: true}
	cell, _ := p.CellSize()
	for x := cell; x < p.GridWidth; x += cell {
		xs[x] = true
	}
	for _, r := range placed {
		xs[r.Right()] = true
		ys[r.Bottom()] = true
	}

	// Try them top to bottom, left to right
	candidates := make([]types.Rect, 0, len(xs)*len(ys))
	for y := range ys {
		for x := range xs {
			if x+w <= p.GridWidth {
				candidates = append(candidates, types.Rect{X: x, Y: y, W: w, H: h})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Y != candidates[j].Y {
			return candidates[i].Y < candidates[j].Y
		}
		return candidates[i].X < candidates[j].X
	})

	for _, c := range candidates {
		if !collidesAny(c, placed) {
			return c
		}
	}
	// below everything always fits
	bottom := 0
	for _, r := range placed {
		if r.Bottom() > bottom {
			bottom = r.Bottom()
		}
	}
	return types.Rect{X: 0, Y: bottom, W: w, H: h}
}

// Place resolves requested layouts where nil means auto-place. Explicit layouts
// must be valid and collision free; auto-placed panels fill the first free
// cells in row-major order around them.
func (p Packer) Place(requested []*types.Rect) ([]types.Rect, error) {
	// Collect the explicit layouts, remembering their original indexes
	explicit := make([]types.Rect, 0, len(requested))
	index := make([]int, 0, len(requested))
	for i, r := range requested {
		if r == nil {
			continue
		}
		if err := CheckRect(*r); err != nil {
			return nil, fmt.Errorf("panel %d: %w", i, err)
		}
		explicit = append(explicit, *r)
		index = append(index, i)
	}
	if pairs := Validate(explicit); len(pairs) > 0 {
		// report indexes of the requested slice, not of the explicit subset
		all := make([]types.Rect, len(requested))
		for k, i := range index {
			all[i] = explicit[k]
		}
		for k := range pairs {
			pairs[k] = Pair{A: index[pairs[k].A], B: index[pairs[k].B]}
		}
		return nil, &CollisionError{Pairs: pairs, Rects: all}
	}
	// Auto-place the rest around them
	return p.fill(requested, explicit), nil
}

// Repack keeps every explicit layout that does not collide with an earlier
// one and moves the others to the first free slot. It returns the indexes of
// moved panels.
func (p Packer) Repack(requested []*types.Rect) ([]types.Rect, []int) {
	placed := make([]types.Rect, 0, len(requested))
	out := make([]*types.Rect, len(requested))
	var moved []int
	for i, r := range requested {
		if r == nil {
			continue
		}
		rect := *r
		if CheckRect(rect) != nil || collidesAny(rect, placed) {
			// keep the requested size when it is usable
			w, h := rect.W, rect.H
			if w <= 0 || h <= 0 {
				w, h = p.CellSize()
			}
			rect = p.FirstFit(placed, w, h)
			moved = append(moved, i)
		}
		placed = append(placed, rect)
		out[i] = &rect
	}
	// Panels without a layout go last, around everything kept or moved
	return p.fill(out, placed), moved
}

func (p Packer) fill(requested []*types.Rect, placed []types.Rect) []types.Rect {
	w, h := p.CellSize()
	out := make([]types.Rect, len(requested))
	for i, r := range requested {
		if r != nil {
			out[i] = *r
			continue
		}
		rect := p.FirstFit(placed, w, h)
		placed = append(placed, rect)
		out[i] = rect
	}
	return out
}

func collidesAny(r types.Rect, placed []types.Rect) bool {
	for _, q := range placed {
		if Collides(r, q) {
			return true
		}
	}
	return false
}
