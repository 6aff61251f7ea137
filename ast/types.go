package ast

import (
	"fmt"
	"strings"
)

// TypeRef is a reference to a type as it appears on parameters, fields,
// aliases and constants.
type TypeRef interface {
	String() string
	isTypeRef()
}

// Type is either a fundamental, a resolved reference to another node by its
// qualified "Namespace.Name", or an unresolved reference carrying a C type
// string or a runtime type name.
type Type struct {
	Fundamental string
	Target      string
	CType       string
	GTypeName   string
	IsConst     bool
}

// Array is a C array or one of the well-known growable array types, in which
// case Name holds the qualified container name.
type Array struct {
	Name           string
	Element        TypeRef
	CType          string
	IsConst        bool
	ZeroTerminated bool
	Size           *int64
}

// List is a linked list container.
type List struct {
	Name    string
	Element TypeRef
	CType   string
	IsConst bool
}

// Map is a hash table container.
type Map struct {
	Key, Value TypeRef
	CType      string
	IsConst    bool
}

// Varargs marks a variadic "rest" parameter.
type Varargs struct{}

func NewFundamental(fundamental string) *Type {
	return &Type{Fundamental: fundamental}
}

// NewArray returns a zero-terminated array of elem.
func NewArray(name string, elem TypeRef, ctype string) *Array {
	return &Array{
		Name:           name,
		Element:        elem,
		CType:          ctype,
		ZeroTerminated: true,
	}
}

// Resolved is true once the type is a fundamental or points to a node.
func (t *Type) Resolved() bool {
	return t.Fundamental != "" || t.Target != ""
}

func (t *Type) String() string {
	switch {
	case t.Fundamental != "":
		return fmt.Sprintf("(type %q)", t.Fundamental)
	case t.Target != "":
		return fmt.Sprintf("(type-ref %q)", t.Target)
	case t.CType != "":
		return fmt.Sprintf("(type-ctype %q)", t.CType)
	case t.GTypeName != "":
		return fmt.Sprintf("(type-gtype %q)", t.GTypeName)
	}
	return "(type unknown)"
}

func (a *Array) String() string {
	b := &strings.Builder{}
	b.WriteString("(array")
	if a.Name != "" {
		b.WriteString(fmt.Sprintf(" %q", a.Name))
	}
	b.WriteString(" " + stringOf(a.Element))
	if a.Size != nil {
		b.WriteString(fmt.Sprintf(" size=%d", *a.Size))
	}
	if !a.ZeroTerminated {
		b.WriteString(" not-zero-terminated")
	}
	b.WriteString(")")
	return b.String()
}

func (l *List) String() string {
	return fmt.Sprintf("(list %q %s)", l.Name, stringOf(l.Element))
}

func (m *Map) String() string {
	return fmt.Sprintf("(map %s %s)", stringOf(m.Key), stringOf(m.Value))
}

func (v *Varargs) String() string {
	return "(varargs)"
}

func stringOf(t TypeRef) string {
	if t == nil {
		return "(type nil)"
	}
	return t.String()
}

func (t *Type) isTypeRef()    {}
func (a *Array) isTypeRef()   {}
func (l *List) isTypeRef()    {}
func (m *Map) isTypeRef()     {}
func (v *Varargs) isTypeRef() {}
