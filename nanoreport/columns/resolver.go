// Package columns maps the field names people write to the canonical
// (section, name) keys stored in sort, group and filter trees.
package columns

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/nanoreport/types"
)

// UnresolvedColumnError reports a name that cannot be turned into a column key
type UnresolvedColumnError struct {
	Name   string
	Reason string
}

// Error implements the error interface
func (e *UnresolvedColumnError) Error() string {
	return fmt.Sprintf("cannot resolve column %q: %s", e.Name, e.Reason)
}

// Alias binds a display name to a run column
type Alias struct {
	Name string
	Key  types.ColumnKey
}

// DefaultAliases is the fixed alias table. When several names map to the same
// key the first one is used for display.
var DefaultAliases = []Alias{
	{"ID", runKey("name")},
	{"Name", runKey("displayName")},
	{"State", runKey("state")},
	{"User", runKey("username")},
	{"username", runKey("username")},
	{"CreatedTimestamp", runKey("createdAt")},
	{"Runtime", runKey("duration")},
	{"JobType", runKey("jobType")},
	{"UsingArtifact", runKey("inputArtifacts")},
	{"OutputtingArtifact", runKey("outputArtifacts")},
	{"Group", runKey("group")},
	{"Tags", runKey("tags")},
	{"Sweep", runKey("sweep")},
	{"Hostname", runKey("host")},
}

func runKey(name string) types.ColumnKey {
	return types.ColumnKey{Section: types.SectionRun, Name: name}
}

// Resolver resolves names against an alias table. Resolution is exact and case-sensitive.
type Resolver struct {
	aliases map[string]types.ColumnKey
	display map[types.ColumnKey]string
}

// NewResolver builds a resolver from an alias table
func NewResolver(aliases []Alias) *Resolver {
	r := &Resolver{
		aliases: make(map[string]types.ColumnKey, len(aliases)),
		display: make(map[types.ColumnKey]string, len(aliases)),
	}
	for _, a := range aliases {
		r.aliases[a.Name] = a.Key
		if _, taken := r.display[a.Key]; !taken {
			r.display[a.Key] = a.Name
		}
	}
	return r
}

var defaultResolver = NewResolver(DefaultAliases)

// Default returns the resolver over DefaultAliases
func Default() *Resolver {
	return defaultResolver
}

// Resolve maps a name to its column key. Aliases win; names qualified as
// "section:name" with a known section are taken literally; anything else is a
// summary metric.
func (r *Resolver) Resolve(name string) (types.ColumnKey, error) {
	if strings.TrimSpace(name) == "" {
		return types.ColumnKey{}, &UnresolvedColumnError{Name: name, Reason: "empty column name"}
	}
	if key, ok := r.aliases[name]; ok {
		return key, nil
	}
	if section, rest, ok := strings.Cut(name, ":"); ok && types.Section(section).IsValid() {
		if rest == "" {
			return types.ColumnKey{}, &UnresolvedColumnError{Name: name, Reason: "qualified name has no column after the section"}
		}
		return types.ColumnKey{Section: types.Section(section), Name: rest}, nil
	}
	return types.ColumnKey{Section: types.SectionSummary, Name: name}, nil
}

// IsAlias reports whether name is in the alias table
func (r *Resolver) IsAlias(name string) bool {
	_, ok := r.aliases[name]
	return ok
}

// Name is the inverse of Resolve: it returns a name that resolves back to key
func (r *Resolver) Name(key types.ColumnKey) string {
	if name, ok := r.display[key]; ok {
		return name
	}
	if key.Section == types.SectionSummary && !r.IsAlias(key.Name) && !isQualified(key.Name) {
		return key.Name
	}
	return key.String()
}

func isQualified(name string) bool {
	section, _, ok := strings.Cut(name, ":")
	return ok && types.Section(section).IsValid()
}
