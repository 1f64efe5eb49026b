package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Lllllllleong/firesafetyreport/internal/checklist"
)

// ErrSchemaMismatch is matched by every MismatchError.
var ErrSchemaMismatch = errors.New("answers do not match checklist schema")

// MismatchError lists answer keys that address no item of the schema, which usually
// means the answers were collected against a different checklist version.
type MismatchError struct {
	Keys []checklist.Key
}

func (e *MismatchError) Error() string {
	parts := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		parts[i] = k.String()
	}
	return fmt.Sprintf("%v: unknown keys [%s]", ErrSchemaMismatch, strings.Join(parts, ", "))
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}
