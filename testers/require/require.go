package require

import (
	"reflect"
	"testing"

	"github.com/susji/girscan/testers"
)

func Equal(t *testing.T, expect, got interface{}) {
	if diff := testers.Diff(expect, got); diff != "" {
		testers.DumpCaller(t)
		t.Fatalf("wanted equal, but got different (-expect +got):\n%s", diff)
	}
}

func True(t *testing.T, exp bool) {
	if !exp {
		testers.DumpCaller(t)
		t.Fatal("expected true, got false")
	}
}

func Truef(t *testing.T, exp bool, fmt string, va ...interface{}) {
	if !exp {
		testers.DumpCaller(t)
		t.Fatalf(fmt, va...)
	}
}

func False(t *testing.T, exp bool) {
	if exp {
		testers.DumpCaller(t)
		t.Fatal("expected false, got true")
	}
}

func Nil(t *testing.T, exp interface{}) {
	if !isNil(exp) {
		testers.DumpCaller(t)
		t.Fatalf("wanted nil, got %v of type %T", exp, exp)
	}
}

func NotNil(t *testing.T, exp interface{}) {
	if isNil(exp) {
		testers.DumpCaller(t)
		t.Fatal("wanted not nil, got nil")
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
