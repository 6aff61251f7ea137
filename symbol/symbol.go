// Package symbol describes the classified C declarations a header scanner
// produces. A stream of Symbols is what the transformer consumes.
package symbol

import (
	"fmt"
	"strings"

	"github.com/susji/girscan/span"
)

// Kind is the declaration kind of a Symbol.
type Kind int

const (
	KIND_INVALID Kind = iota
	KIND_FUNCTION
	KIND_TYPEDEF
	KIND_STRUCT
	KIND_UNION
	KIND_ENUM
	KIND_MEMBER
	KIND_CONST
	KIND_OBJECT
	KIND_ELLIPSIS
)

var kindnames = [...]string{
	"invalid",
	"function",
	"typedef",
	"struct",
	"union",
	"enum",
	"member",
	"const",
	"object",
	"ellipsis",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindnames) {
		panic(fmt.Sprintf("unrecognized symbol kind: %d", int(k)))
	}
	return kindnames[k]
}

// TypeKind is the shape of a BaseType.
type TypeKind int

const (
	TYPE_INVALID TypeKind = iota
	TYPE_VOID
	TYPE_BASIC
	TYPE_TYPEDEF
	TYPE_STRUCT
	TYPE_UNION
	TYPE_ENUM
	TYPE_POINTER
	TYPE_ARRAY
	TYPE_FUNCTION
)

var typekindnames = [...]string{
	"invalid",
	"void",
	"basic-type",
	"typedef",
	"struct",
	"union",
	"enum",
	"pointer",
	"array",
	"function",
}

func (k TypeKind) String() string {
	if k < 0 || int(k) >= len(typekindnames) {
		panic(fmt.Sprintf("unrecognized type kind: %d", int(k)))
	}
	return typekindnames[k]
}

// Qualifier is a bit set of C type qualifiers.
type Qualifier int

const (
	QUAL_NONE  Qualifier = 0
	QUAL_CONST Qualifier = 1 << (iota - 1)
	QUAL_RESTRICT
	QUAL_VOLATILE
)

// BaseType is the recursive type descriptor of a declaration. Children holds
// struct/union members, enumerators, function parameters and, for arrays, a
// single Symbol carrying the element count in ConstInt.
type BaseType struct {
	Kind       TypeKind
	Name       string
	Base       *BaseType
	Qualifier  Qualifier
	Children   []*Symbol
	IsBitfield bool
}

// Symbol is one classified declaration. Only one of the Const* payloads is
// set for constants; enumerators and bit-width members use ConstInt.
type Symbol struct {
	Kind        Kind
	Ident       string
	Base        *BaseType
	ConstInt    *int64
	ConstString *string
	ConstDouble *float64
	Pos         span.Position
}

// HasPos reports whether the symbol carries a source filename.
func (s *Symbol) HasPos() bool {
	return s.Pos.File != ""
}

func (t *BaseType) String() string {
	if t == nil {
		return "(base-type nil)"
	}
	b := &strings.Builder{}
	b.WriteString(fmt.Sprintf("(%s", t.Kind))
	if t.Name != "" {
		b.WriteString(fmt.Sprintf(" %q", t.Name))
	}
	if t.Qualifier&QUAL_CONST != 0 {
		b.WriteString(" const")
	}
	if t.Base != nil {
		b.WriteString(" " + t.Base.String())
	}
	for _, child := range t.Children {
		b.WriteString(" " + child.String())
	}
	b.WriteString(")")
	return b.String()
}

func (s *Symbol) String() string {
	if s == nil {
		return "(symbol nil)"
	}
	return fmt.Sprintf("(symbol-%s %q %s)", s.Kind, s.Ident, s.Base)
}
