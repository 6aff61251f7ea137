package testers

import (
	"errors"
	"path"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Options are shared by assert and require when comparing values. nil and
// empty slices and maps compare equal.
var Options = []cmp.Option{
	cmpopts.EquateEmpty(),
}

func DumpCaller(t *testing.T) {
	_, fn, line, _ := runtime.Caller(2)
	t.Errorf("[ %s:%d ]", path.Base(fn), line)
}

// Diff returns a human-readable (-expect +got) diff, or "" when equal.
func Diff(expect, got interface{}) string {
	return cmp.Diff(expect, got, Options...)
}

// Is reports errors.Is(err, target).
func Is(err, target error) bool {
	return errors.Is(err, target)
}
