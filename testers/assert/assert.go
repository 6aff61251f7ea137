package assert

import (
	"reflect"
	"testing"

	"github.com/susji/girscan/testers"
)

func Equal(t *testing.T, expect, got interface{}) {
	if diff := testers.Diff(expect, got); diff != "" {
		testers.DumpCaller(t)
		t.Errorf("wanted equal, but got different (-expect +got):\n%s", diff)
	}
}

func Equalf(t *testing.T, expect, got interface{}, fmt string, va ...interface{}) {
	if diff := testers.Diff(expect, got); diff != "" {
		testers.DumpCaller(t)
		t.Errorf(fmt, va...)
		t.Errorf("(-expect +got):\n%s", diff)
	}
}

func True(t *testing.T, exp bool) {
	if !exp {
		testers.DumpCaller(t)
		t.Error("expected true, got false")
	}
}

func Truef(t *testing.T, exp bool, fmt string, va ...interface{}) {
	if !exp {
		testers.DumpCaller(t)
		t.Errorf(fmt, va...)
	}
}

func False(t *testing.T, exp bool) {
	if exp {
		testers.DumpCaller(t)
		t.Error("expected false, got true")
	}
}

func Nil(t *testing.T, exp interface{}) {
	if !isNil(exp) {
		testers.DumpCaller(t)
		t.Errorf("wanted nil, got %v of type %T", exp, exp)
	}
}

func NotNil(t *testing.T, exp interface{}) {
	if isNil(exp) {
		testers.DumpCaller(t)
		t.Error("wanted not nil, got nil")
	}
}

// ErrorIs checks errors.Is-style matching through the wrap chain.
func ErrorIs(t *testing.T, err, target error) {
	if !testers.Is(err, target) {
		testers.DumpCaller(t)
		t.Errorf("wanted error matching %q, got %v", target, err)
	}
}

func isNil(exp interface{}) bool {
	if exp == nil {
		return true
	}
	v := reflect.ValueOf(exp)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return v.IsNil()
	}
	return false
}
