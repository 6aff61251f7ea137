package dwarfsrc

import (
	"github.com/blacktop/go-dwarf"

	"github.com/susji/girscan/symbol"
)

type basic interface {
	Basic() *dwarf.BasicType
}

// BaseType converts a DWARF type. Named structs, unions and enums are
// references without members; anonymous ones carry their members.
func BaseType(t dwarf.Type) *symbol.BaseType {
	switch tt := t.(type) {
	case nil:
		return symbol.Void()
	case *dwarf.VoidType:
		return symbol.Void()
	case *dwarf.UnspecifiedType:
		return symbol.Void()
	case *dwarf.PtrType:
		return symbol.Pointer(BaseType(tt.Type))
	case *dwarf.QualType:
		inner := BaseType(tt.Type)
		switch tt.Qual {
		case "const":
			inner.Qualifier |= symbol.QUAL_CONST
		case "volatile":
			inner.Qualifier |= symbol.QUAL_VOLATILE
		case "restrict":
			inner.Qualifier |= symbol.QUAL_RESTRICT
		}
		return inner
	case *dwarf.TypedefType:
		return symbol.TypedefName(tt.Name)
	case *dwarf.StructType:
		kind := symbol.TYPE_STRUCT
		if tt.Kind == "union" {
			kind = symbol.TYPE_UNION
		}
		if tt.StructName != "" {
			return symbol.Compound(kind, tt.StructName)
		}
		return symbol.Compound(kind, "", fields(tt)...)
	case *dwarf.EnumType:
		if tt.EnumName != "" {
			return symbol.Compound(symbol.TYPE_ENUM, tt.EnumName)
		}
		return enumType(tt)
	case *dwarf.FuncType:
		params := []*symbol.Symbol{}
		for _, p := range tt.ParamType {
			if _, ok := p.(*dwarf.DotDotDotType); ok {
				params = append(params, symbol.Ellipsis())
				continue
			}
			params = append(params, symbol.Param("", BaseType(p)))
		}
		return symbol.Func(BaseType(tt.ReturnType), params...)
	case *dwarf.ArrayType:
		return symbol.Array(BaseType(tt.Type), tt.Count)
	case basic:
		return symbol.Basic(tt.Basic().Name)
	}
	return symbol.Basic(t.String())
}

func fields(st *dwarf.StructType) []*symbol.Symbol {
	ret := []*symbol.Symbol{}
	for _, f := range st.Field {
		m := symbol.Member(f.Name, BaseType(f.Type))
		if f.BitSize > 0 {
			m.ConstInt = symbol.Int(f.BitSize)
		}
		ret = append(ret, m)
	}
	return ret
}

func enumType(et *dwarf.EnumType) *symbol.BaseType {
	members := []*symbol.Symbol{}
	values := []int64{}
	for _, v := range et.Val {
		members = append(members, symbol.Enumerator(v.Name, v.Val))
		values = append(values, v.Val)
	}
	bt := symbol.Compound(symbol.TYPE_ENUM, et.EnumName, members...)
	bt.IsBitfield = looksLikeFlags(values)
	return bt
}

// looksLikeFlags guesses whether enumerator values are bit flags: every
// value is zero or a power of two, and they are not just 0, 1, 2.
func looksLikeFlags(values []int64) bool {
	if len(values) < 2 {
		return false
	}
	sequential := true
	for i, v := range values {
		if v < 0 || v&(v-1) != 0 {
			return false
		}
		if v != int64(i) {
			sequential = false
		}
	}
	return !sequential
}

// declaration builds the symbol declaring a named type. Incomplete structs
// and unions are reported so that a later definition can replace them.
func declaration(t dwarf.Type) (*symbol.Symbol, bool) {
	switch tt := t.(type) {
	case *dwarf.TypedefType:
		return &symbol.Symbol{
			Kind:  symbol.KIND_TYPEDEF,
			Ident: tt.Name,
			Base:  BaseType(tt.Type),
		}, false
	case *dwarf.StructType:
		if tt.StructName == "" {
			return nil, false
		}
		kind, tkind := symbol.KIND_STRUCT, symbol.TYPE_STRUCT
		if tt.Kind == "union" {
			kind, tkind = symbol.KIND_UNION, symbol.TYPE_UNION
		}
		return &symbol.Symbol{
			Kind:  kind,
			Ident: tt.StructName,
			Base:  symbol.Compound(tkind, tt.StructName, fields(tt)...),
		}, tt.Incomplete
	case *dwarf.EnumType:
		if tt.EnumName == "" {
			return nil, false
		}
		return &symbol.Symbol{
			Kind:  symbol.KIND_ENUM,
			Ident: tt.EnumName,
			Base:  enumType(tt),
		}, false
	}
	return nil, false
}
