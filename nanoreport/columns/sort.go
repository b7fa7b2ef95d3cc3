package columns

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/nanoreport/types"
)

// SummaryPrefix is the dotted-path prefix under which summary metrics are addressed
const SummaryPrefix = "summary_metrics."

// SortKey is one entry of a run-set ordering
type SortKey struct {
	Key       types.ColumnKey
	Ascending bool
}

// Map returns the stored form. Summary columns are written as run columns under
// the summary_metrics prefix, which is what the backend sorts on.
func (k SortKey) Map() map[string]interface{} {
	key := k.Key
	if key.Section == types.SectionSummary {
		key = types.ColumnKey{Section: types.SectionRun, Name: SummaryPrefix + key.Name}
	}
	return map[string]interface{}{
		"key":       key.Map(),
		"ascending": k.Ascending,
	}
}

// SortKeyFromMap decodes a stored sort entry, accepting both summary encodings
func SortKeyFromMap(v interface{}) (SortKey, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return SortKey{}, fmt.Errorf("sort key must be an object, got %T", v)
	}
	key, err := types.ColumnKeyFromMap(m["key"])
	if err != nil {
		return SortKey{}, fmt.Errorf("invalid sort key: %w", err)
	}
	if key.Section == types.SectionRun && strings.HasPrefix(key.Name, SummaryPrefix) {
		key = types.ColumnKey{Section: types.SectionSummary, Name: strings.TrimPrefix(key.Name, SummaryPrefix)}
	}
	asc, _ := m["ascending"].(bool)
	return SortKey{Key: key, Ascending: asc}, nil
}

// ParseOrder resolves signed tokens such as "+User" or "-Runtime". Unsigned
// tokens sort ascending.
func (r *Resolver) ParseOrder(tokens []string) ([]SortKey, error) {
	out := make([]SortKey, 0, len(tokens))
	for _, tok := range tokens {
		asc := true
		name := strings.TrimSpace(tok)
		switch {
		case strings.HasPrefix(name, "+"):
			name = name[1:]
		case strings.HasPrefix(name, "-"):
			asc = false
			name = name[1:]
		}
		key, err := r.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("invalid order token %q: %w", tok, err)
		}
		out = append(out, SortKey{Key: key, Ascending: asc})
	}
	return out, nil
}

// FormatOrder renders sort keys as signed tokens accepted by ParseOrder
func (r *Resolver) FormatOrder(keys []SortKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		sign := "+"
		if !k.Ascending {
			sign = "-"
		}
		out[i] = sign + r.Name(k.Key)
	}
	return out
}

// ParseGroupBy resolves group-by tokens, preserving order
func (r *Resolver) ParseGroupBy(tokens []string) ([]types.ColumnKey, error) {
	out := make([]types.ColumnKey, 0, len(tokens))
	for _, tok := range tokens {
		key, err := r.Resolve(strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("invalid groupby token %q: %w", tok, err)
		}
		out = append(out, key)
	}
	return out, nil
}

// FormatGroupBy renders group keys as tokens accepted by ParseGroupBy
func (r *Resolver) FormatGroupBy(keys []types.ColumnKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = r.Name(k)
	}
	return out
}
