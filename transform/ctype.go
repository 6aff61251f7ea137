package transform

import (
	"strings"

	"github.com/susji/girscan/ast"
	"github.com/susji/girscan/symbol"
)

// Canonicalize maps a C type string onto fundamental spellings one pointer
// level at a time. A spelling with its own fundamental, like "char*", is
// mapped as a whole.
func Canonicalize(ctype string) string {
	if f, ok := ast.LookupFundamental(ctype); ok {
		return f
	}
	if !strings.HasSuffix(ctype, "*") {
		return ctype
	}
	return Canonicalize(ctype[:len(ctype)-1]) + "*"
}

// ParseCType removes all pointers from the canonical form of ctype, since
// values are passed by value unless annotated otherwise. Struct and union
// members keep pointerness: a pointer to a basic type becomes gpointer.
func ParseCType(ctype string, isMember bool) string {
	canonical := Canonicalize(ctype)
	derefed := strings.ReplaceAll(canonical, "*", "")
	if isMember && strings.HasSuffix(canonical, "*") && ast.IsBasic(derefed) {
		return ast.TYPE_ANY
	}
	return derefed
}

var (
	listTypes = map[string]string{
		"GList":      "GLib.List",
		"GSList":     "GLib.SList",
		"GLib.List":  "GLib.List",
		"GLib.SList": "GLib.SList",
	}
	arrayTypes = map[string]string{
		"GArray":         "GLib.Array",
		"GPtrArray":      "GLib.PtrArray",
		"GByteArray":     "GLib.ByteArray",
		"GLib.Array":     "GLib.Array",
		"GLib.PtrArray":  "GLib.PtrArray",
		"GLib.ByteArray": "GLib.ByteArray",
	}
	mapTypes = map[string]bool{
		"GHashTable":     true,
		"GLib.HashTable": true,
	}
)

// containerType recognizes the well-known list, array and hash table types
// by their pointer-stripped name. Element types are gpointer.
func containerType(base, ctype string, isConst bool) ast.TypeRef {
	if name, ok := listTypes[base]; ok {
		return &ast.List{
			Name:    name,
			Element: ast.NewFundamental(ast.TYPE_ANY),
			CType:   ctype,
			IsConst: isConst,
		}
	}
	if name, ok := arrayTypes[base]; ok {
		arr := ast.NewArray(name, ast.NewFundamental(ast.TYPE_ANY), ctype)
		arr.IsConst = isConst
		return arr
	}
	if mapTypes[base] {
		return &ast.Map{
			Key:     ast.NewFundamental(ast.TYPE_ANY),
			Value:   ast.NewFundamental(ast.TYPE_ANY),
			CType:   ctype,
			IsConst: isConst,
		}
	}
	return nil
}

// TypeFromCType builds a type reference for a C type string. Fundamentals
// and containers are recognized directly; anything else stays unresolved
// until ResolveType.
func TypeFromCType(ctype string, isConst, isParameter, isReturn bool) ast.TypeRef {
	canonical := Canonicalize(ctype)
	base := strings.ReplaceAll(canonical, "*", "")

	if (isReturn && canonical == ast.TYPE_STRING+"*") || base == "GStrv" {
		arr := ast.NewArray("", ast.NewFundamental(ast.TYPE_STRING), ctype)
		arr.IsConst = isConst
		return arr
	}
	if f, ok := ast.LookupFundamental(base); ok {
		return &ast.Type{Fundamental: f, CType: ctype, IsConst: isConst}
	}
	if c := containerType(base, ctype, isConst); c != nil {
		return c
	}
	return &ast.Type{CType: ctype, IsConst: isConst}
}

// TypeFromGTypeName returns a fundamental or a runtime-type-name reference
// to be resolved later.
func TypeFromGTypeName(name string) *ast.Type {
	if f, ok := ast.LookupFundamental(name); ok {
		return ast.NewFundamental(f)
	}
	return &ast.Type{GTypeName: name}
}

// sourceType renders a base type as a C type string. Arrays render as their
// element type.
func sourceType(bt *symbol.BaseType) string {
	if bt == nil {
		return "void"
	}
	switch bt.Kind {
	case symbol.TYPE_VOID:
		return "void"
	case symbol.TYPE_BASIC, symbol.TYPE_TYPEDEF:
		return bt.Name
	case symbol.TYPE_ARRAY:
		return sourceType(bt.Base)
	case symbol.TYPE_POINTER:
		return sourceType(bt.Base) + "*"
	}
	return ast.TYPE_ANY
}

func isConstPointer(bt *symbol.BaseType) bool {
	return bt != nil && bt.Kind == symbol.TYPE_POINTER &&
		bt.Base != nil && bt.Base.Qualifier&symbol.QUAL_CONST != 0
}

func typeFromBase(bt *symbol.BaseType, isParameter, isReturn bool) ast.TypeRef {
	return TypeFromCType(sourceType(bt), isConstPointer(bt), isParameter, isReturn)
}

// memberType is typeFromBase for struct and union members.
func memberType(bt *symbol.BaseType) ast.TypeRef {
	ctype := sourceType(bt)
	if strings.HasSuffix(Canonicalize(ctype), "*") && ParseCType(ctype, true) == ast.TYPE_ANY {
		return &ast.Type{Fundamental: ast.TYPE_ANY, CType: ctype, IsConst: isConstPointer(bt)}
	}
	return typeFromBase(bt, false, false)
}

// ResolveType tries to attribute a type reference to a node. Composite types
// resolve when all their element types do. Resolving an already resolved
// type is a no-op.
func (t *Transformer) ResolveType(tr ast.TypeRef) (bool, error) {
	switch typ := tr.(type) {
	case *ast.Array:
		return t.ResolveType(typ.Element)
	case *ast.List:
		return t.ResolveType(typ.Element)
	case *ast.Map:
		kok, kerr := t.ResolveType(typ.Key)
		vok, verr := t.ResolveType(typ.Value)
		if kerr != nil {
			return false, kerr
		}
		if verr != nil {
			return false, verr
		}
		return kok && vok, nil
	case *ast.Varargs:
		return true, nil
	case *ast.Type:
		switch {
		case typ.Resolved():
			return true, nil
		case typ.CType != "":
			return t.resolveFromCType(typ)
		case typ.GTypeName != "":
			return t.resolveFromGTypeName(typ), nil
		}
	}
	return false, nil
}

func (t *Transformer) resolveFromCType(typ *ast.Type) (bool, error) {
	stripped := strings.ReplaceAll(typ.CType, "*", "")
	matches, err := t.SplitIdentifier(stripped)
	if err != nil {
		return false, &TypeResolutionError{CType: typ.CType, Wrapped: err}
	}
	for _, m := range matches {
		target := m.Namespace.Get(m.Name)
		if target == nil {
			target = m.Namespace.GetByCType(stripped)
		}
		if target != nil {
			typ.Target = m.Namespace.Name + "." + target.Name()
			return true, nil
		}
	}
	return false, nil
}

func (t *Transformer) resolveFromGTypeName(typ *ast.Type) bool {
	for _, ns := range t.namespaces() {
		for _, n := range ns.Nodes() {
			switch n.(type) {
			case *ast.Class, *ast.Interface, *ast.Boxed, *ast.Record, *ast.Union, *ast.Enum, *ast.Bitfield:
			default:
				continue
			}
			if tn := n.(ast.TypeNamed).GTypeName(); tn != "" && tn == typ.GTypeName {
				typ.Target = ns.Name + "." + n.Name()
				return true
			}
		}
	}
	return false
}

// TypeFromUserString parses a type as written in an annotation. Both
// "Namespace.Name" and C spellings are accepted. C spellings are resolved
// right away; failure to resolve is not an error.
func (t *Transformer) TypeFromUserString(typestr string) (ast.TypeRef, error) {
	if strings.Contains(typestr, ".") {
		if c := containerType(typestr, "", false); c != nil {
			return c, nil
		}
		return &ast.Type{Target: typestr}, nil
	}
	tr := TypeFromCType(typestr, false, false, false)
	if _, err := t.ResolveType(tr); err != nil {
		return nil, err
	}
	switch typ := tr.(type) {
	case *ast.Type:
		typ.CType = ""
	case *ast.Array:
		typ.CType = ""
	case *ast.List:
		typ.CType = ""
	case *ast.Map:
		typ.CType = ""
	}
	return tr, nil
}
