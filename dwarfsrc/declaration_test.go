package dwarfsrc

import (
	"testing"

	"github.com/blacktop/go-dwarf"

	"github.com/susji/girscan/symbol"
	"github.com/susji/girscan/testers/assert"
	"github.com/susji/girscan/testers/require"
)

func TestDeclaration(t *testing.T) {
	member := &dwarf.StructField{
		Name: "count",
		Type: &dwarf.IntType{BasicType: dwarf.BasicType{CommonType: dwarf.CommonType{Name: "int"}}},
	}
	widget := &dwarf.StructType{StructName: "_FooWidget", Kind: "struct", Field: []*dwarf.StructField{member}}

	sym, incomplete := declaration(widget)
	require.NotNil(t, sym)
	assert.False(t, incomplete)
	assert.Equal(t, symbol.KIND_STRUCT, sym.Kind)
	assert.Equal(t, "_FooWidget", sym.Ident)
	assert.Equal(t, 1, len(sym.Base.Children))

	sym, _ = declaration(&dwarf.TypedefType{CommonType: dwarf.CommonType{Name: "FooWidget"}, Type: widget})
	require.NotNil(t, sym)
	assert.Equal(t, symbol.KIND_TYPEDEF, sym.Kind)
	assert.Equal(t, `(struct "_FooWidget")`, sym.Base.String())

	sym, incomplete = declaration(&dwarf.StructType{StructName: "_FooValue", Kind: "union", Incomplete: true})
	require.NotNil(t, sym)
	assert.True(t, incomplete)
	assert.Equal(t, symbol.KIND_UNION, sym.Kind)

	sym, _ = declaration(&dwarf.EnumType{EnumName: "FooMode", Val: []*dwarf.EnumValue{{Name: "FOO_MODE_A", Val: 0}}})
	require.NotNil(t, sym)
	assert.Equal(t, symbol.KIND_ENUM, sym.Kind)
	assert.Equal(t, "FOO_MODE_A", sym.Base.Children[0].Ident)

	sym, _ = declaration(&dwarf.StructType{Kind: "struct"})
	assert.Nil(t, sym)
}

func TestCollector(t *testing.T) {
	c := &collector{seen: map[seenKey]int{}, empty: map[seenKey]bool{}}
	opaque := &symbol.Symbol{Kind: symbol.KIND_STRUCT, Ident: "_Foo"}
	full := &symbol.Symbol{Kind: symbol.KIND_STRUCT, Ident: "_Foo", Base: symbol.Compound(symbol.TYPE_STRUCT, "_Foo")}
	later := &symbol.Symbol{Kind: symbol.KIND_STRUCT, Ident: "_Foo"}
	typedef := &symbol.Symbol{Kind: symbol.KIND_TYPEDEF, Ident: "_Foo"}

	c.add(opaque, true)
	c.add(typedef, false)
	c.add(full, false)
	c.add(later, false)

	require.Equal(t, 2, len(c.syms))
	assert.True(t, c.syms[0] == full)
	assert.True(t, c.syms[1] == typedef)
}
