package symbol

// Helpers for assembling symbol streams by hand.

func Int(v int64) *int64 {
	return &v
}

func String(v string) *string {
	return &v
}

func Double(v float64) *float64 {
	return &v
}

func Void() *BaseType {
	return &BaseType{Kind: TYPE_VOID}
}

func Basic(name string) *BaseType {
	return &BaseType{Kind: TYPE_BASIC, Name: name}
}

func TypedefName(name string) *BaseType {
	return &BaseType{Kind: TYPE_TYPEDEF, Name: name}
}

func Pointer(to *BaseType) *BaseType {
	return &BaseType{Kind: TYPE_POINTER, Base: to}
}

func Const(t *BaseType) *BaseType {
	t.Qualifier |= QUAL_CONST
	return t
}

// Compound returns a struct, union or enum type with the given members.
func Compound(kind TypeKind, name string, children ...*Symbol) *BaseType {
	return &BaseType{Kind: kind, Name: name, Children: children}
}

// Func returns a function type returning ret.
func Func(ret *BaseType, params ...*Symbol) *BaseType {
	return &BaseType{Kind: TYPE_FUNCTION, Base: ret, Children: params}
}

// Array returns an array type of elem; n < 0 leaves the length unknown.
func Array(elem *BaseType, n int64) *BaseType {
	t := &BaseType{Kind: TYPE_ARRAY, Base: elem}
	if n >= 0 {
		t.Children = []*Symbol{{Kind: KIND_CONST, ConstInt: Int(n)}}
	}
	return t
}

func Member(ident string, t *BaseType) *Symbol {
	return &Symbol{Kind: KIND_MEMBER, Ident: ident, Base: t}
}

func Param(ident string, t *BaseType) *Symbol {
	return &Symbol{Kind: KIND_MEMBER, Ident: ident, Base: t}
}

func Ellipsis() *Symbol {
	return &Symbol{Kind: KIND_ELLIPSIS}
}

func Enumerator(ident string, v int64) *Symbol {
	return &Symbol{Kind: KIND_MEMBER, Ident: ident, ConstInt: Int(v)}
}
