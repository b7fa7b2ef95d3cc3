package filter

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/nanoreport/nanoreport/columns"
	"github.com/arthur-debert/nanoreport/types"
)

const (
	configPrefix   = "config."
	configSuffix   = ".value"
	tagPrefix      = "tags."
	keysInfoPrefix = "keys_info.keys."
)

// Path returns the dotted query path of a column key. Run columns stay bare.
func Path(key types.ColumnKey) (string, error) {
	if key.Name == "" {
		return "", fmt.Errorf("column key %s has no name", key)
	}
	switch key.Section {
	case types.SectionRun:
		return key.Name, nil
	case types.SectionSummary:
		return columns.SummaryPrefix + key.Name, nil
	case types.SectionConfig:
		return configPrefix + key.Name + configSuffix, nil
	case types.SectionTag:
		return tagPrefix + key.Name, nil
	case types.SectionKeysInfo:
		return keysInfoPrefix + key.Name, nil
	}
	return "", fmt.Errorf("unknown section %q", key.Section)
}

// KeyFromPath is the inverse of Path. Config paths without the value suffix are accepted.
func KeyFromPath(path string) types.ColumnKey {
	switch {
	case strings.HasPrefix(path, columns.SummaryPrefix):
		return types.ColumnKey{Section: types.SectionSummary, Name: strings.TrimPrefix(path, columns.SummaryPrefix)}
	case strings.HasPrefix(path, configPrefix):
		name := strings.TrimPrefix(path, configPrefix)
		return types.ColumnKey{Section: types.SectionConfig, Name: strings.TrimSuffix(name, configSuffix)}
	case strings.HasPrefix(path, tagPrefix):
		return types.ColumnKey{Section: types.SectionTag, Name: strings.TrimPrefix(path, tagPrefix)}
	case strings.HasPrefix(path, keysInfoPrefix):
		return types.ColumnKey{Section: types.SectionKeysInfo, Name: strings.TrimPrefix(path, keysInfoPrefix)}
	}
	return types.ColumnKey{Section: types.SectionRun, Name: path}
}
