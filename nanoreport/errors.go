package nanoreport

import (
	"errors"
	"fmt"
)

// SpecVersion is the only spec version this package operates on
const SpecVersion = 5

// ErrStaleView is returned when writing through a view whose fragment was
// replaced by a different kind of object
var ErrStaleView = errors.New("view no longer matches its fragment")

// SchemaVersionError reports a spec whose version is not SpecVersion
type SchemaVersionError struct {
	Got  interface{}
	Want int
}

// Error implements the error interface
func (e *SchemaVersionError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("report spec has no version, want %d", e.Want)
	}
	return fmt.Sprintf("unsupported report spec version %v, want %d", e.Got, e.Want)
}

