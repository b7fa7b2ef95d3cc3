package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/nanoreport/nanoreport"
	"github.com/arthur-debert/nanoreport/nanoreport/tree"
	"github.com/arthur-debert/nanoreport/types"
)

// Modifiable is anything tracking writes since the last clear
type Modifiable interface {
	Modified() bool
}

// AssertModified checks the modified flag of an entity
func AssertModified(t *testing.T, e Modifiable, want bool, context ...string) {
	t.Helper()
	if got := e.Modified(); got != want {
		ctx := ""
		if len(context) > 0 {
			ctx = " " + context[0]
		}
		t.Errorf("expected modified=%v%s, got %v", want, ctx, got)
	}
}

// AssertSpecEqual compares two JSON-shaped values after normalizing numbers
// and containers
func AssertSpecEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if diff := cmp.Diff(tree.Normalize(want), tree.Normalize(got)); diff != "" {
		t.Errorf("spec mismatch (-want +got):\n%s", diff)
	}
}

// AssertCanonical checks the two-level OR of ANDs shape of a filter tree spec
func AssertCanonical(t *testing.T, ft types.FilterTree) {
	t.Helper()
	spec := ft.Map()
	if spec["op"] != types.FilterOpOr {
		t.Errorf("outer op = %v, want %s", spec["op"], types.FilterOpOr)
	}
	groups, _ := spec["filters"].([]interface{})
	if len(groups) == 0 {
		t.Errorf("filter tree has no AND group")
	}
	for i, g := range groups {
		group, _ := g.(map[string]interface{})
		if group["op"] != types.FilterOpAnd {
			t.Errorf("group %d op = %v, want %s", i, group["op"], types.FilterOpAnd)
		}
		conds, _ := group["filters"].([]interface{})
		for j, c := range conds {
			cond, _ := c.(map[string]interface{})
			if _, nested := cond["filters"]; nested {
				t.Errorf("group %d condition %d is nested", i, j)
			}
		}
	}
}

// AssertNoCollisions checks every pair of panels for overlap
func AssertNoCollisions(t *testing.T, panels []nanoreport.Panel) {
	t.Helper()
	for i := range panels {
		for j := i + 1; j < len(panels); j++ {
			if nanoreport.PanelsCollide(panels[i], panels[j]) {
				a, _ := panels[i].Layout()
				b, _ := panels[j].Layout()
				t.Errorf("panels %d %v and %d %v collide", i, a, j, b)
			}
		}
	}
}

// AssertBlockRoundTrip rebuilds b from its spec and checks both are equal
func AssertBlockRoundTrip(t *testing.T, b nanoreport.Block) {
	t.Helper()
	again, err := nanoreport.BlockFromSpec(b.Spec())
	if err != nil {
		t.Fatalf("BlockFromSpec(%s): %v", b.Type(), err)
	}
	if !nanoreport.Equal(b, again) {
		t.Errorf("%s block changed in round trip:\n%s", b.Type(), cmp.Diff(b.Spec(), again.Spec()))
	}
}
