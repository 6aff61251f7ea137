package dwarfsrc_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/blacktop/go-dwarf"

	"github.com/susji/girscan/dwarfsrc"
	"github.com/susji/girscan/symbol"
	"github.com/susji/girscan/testers/assert"
	"github.com/susji/girscan/testers/require"
)

func intType(name string) *dwarf.IntType {
	return &dwarf.IntType{BasicType: dwarf.BasicType{CommonType: dwarf.CommonType{Name: name, ByteSize: 4}}}
}

func charType() *dwarf.CharType {
	return &dwarf.CharType{BasicType: dwarf.BasicType{CommonType: dwarf.CommonType{Name: "char", ByteSize: 1}}}
}

func TestBaseType(t *testing.T) {
	widget := &dwarf.StructType{StructName: "_FooWidget", Kind: "struct"}
	type entry struct {
		name string
		typ  dwarf.Type
		want string
	}
	table := []entry{
		{"nil", nil, `(void)`},
		{"void", &dwarf.VoidType{}, `(void)`},
		{"int", intType("int"), `(basic-type "int")`},
		{"void pointer", &dwarf.PtrType{}, `(pointer (void))`},
		{
			"const char pointer",
			&dwarf.PtrType{Type: &dwarf.QualType{Qual: "const", Type: charType()}},
			`(pointer (basic-type "char" const))`,
		},
		{
			"typedef",
			&dwarf.TypedefType{CommonType: dwarf.CommonType{Name: "FooWidget"}, Type: widget},
			`(typedef "FooWidget")`,
		},
		{"named struct", widget, `(struct "_FooWidget")`},
		{
			"anonymous union",
			&dwarf.StructType{Kind: "union", Field: []*dwarf.StructField{
				{Name: "i", Type: intType("int")},
			}},
			`(union (symbol-member "i" (basic-type "int")))`,
		},
		{"array", &dwarf.ArrayType{Type: intType("int"), Count: -1}, `(array (basic-type "int"))`},
		{
			"function",
			&dwarf.FuncType{
				ReturnType: intType("int"),
				ParamType:  []dwarf.Type{&dwarf.PtrType{Type: charType()}, &dwarf.DotDotDotType{}},
			},
			`(function (basic-type "int") (symbol-member "" (pointer (basic-type "char"))) (symbol-ellipsis "" (base-type nil)))`,
		},
		{"named enum", &dwarf.EnumType{EnumName: "FooMode"}, `(enum "FooMode")`},
	}
	for _, e := range table {
		t.Run(e.name, func(t *testing.T) {
			assert.Equal(t, e.want, dwarfsrc.BaseType(e.typ).String())
		})
	}
}

func TestBaseTypeDetails(t *testing.T) {
	arr := dwarfsrc.BaseType(&dwarf.ArrayType{Type: charType(), Count: 16})
	require.Equal(t, 1, len(arr.Children))
	assert.Equal(t, int64(16), *arr.Children[0].ConstInt)

	st := dwarfsrc.BaseType(&dwarf.StructType{Kind: "struct", Field: []*dwarf.StructField{
		{Name: "flag", Type: intType("unsigned int"), BitSize: 1},
		{Name: "count", Type: intType("int")},
	}})
	require.Equal(t, 2, len(st.Children))
	require.NotNil(t, st.Children[0].ConstInt)
	assert.Equal(t, int64(1), *st.Children[0].ConstInt)
	assert.Nil(t, st.Children[1].ConstInt)

	vol := dwarfsrc.BaseType(&dwarf.QualType{Qual: "volatile", Type: intType("int")})
	assert.True(t, vol.Qualifier&symbol.QUAL_VOLATILE != 0)
	assert.True(t, vol.Qualifier&symbol.QUAL_CONST == 0)
}

func TestBaseTypeAnonymousEnum(t *testing.T) {
	type entry struct {
		name     string
		values   []int64
		bitfield bool
	}
	table := []entry{
		{"sequence", []int64{0, 1, 2, 3}, false},
		{"flags", []int64{1, 2, 4, 8}, true},
		{"flags with none", []int64{0, 1, 2, 4}, true},
		{"not powers", []int64{1, 3, 5}, false},
		{"single", []int64{4}, false},
	}
	for _, e := range table {
		t.Run(e.name, func(t *testing.T) {
			et := &dwarf.EnumType{}
			for i, v := range e.values {
				et.Val = append(et.Val, &dwarf.EnumValue{Name: string(rune('A' + i)), Val: v})
			}
			bt := dwarfsrc.BaseType(et)
			assert.Equal(t, symbol.TYPE_ENUM, bt.Kind)
			assert.Equal(t, len(e.values), len(bt.Children))
			assert.Equal(t, e.bitfield, bt.IsBitfield)
		})
	}
}

func TestLoadELFMissing(t *testing.T) {
	_, err := dwarfsrc.LoadELF(filepath.Join(t.TempDir(), "nothing.so"))
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadELFNotELF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libfoo.so")
	require.Nil(t, os.WriteFile(path, []byte("this is not an object file"), 0644))
	_, err := dwarfsrc.LoadELF(path)
	assert.NotNil(t, err)
}
