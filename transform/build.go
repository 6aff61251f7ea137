package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/susji/girscan/ast"
	"github.com/susji/girscan/symbol"
)

// Only #defines looking like public constants are kept.
var ucaseConstantRe = regexp.MustCompile(`^[_A-Z0-9]+$`)

func addSymbolReference(n ast.Node, sym *symbol.Symbol) {
	for _, pos := range symbolPositions(sym) {
		n.AddPosition(pos)
	}
}

// traverse builds the node for one symbol. A nil node without an error means
// the symbol was skipped.
func (t *Transformer) traverse(sym *symbol.Symbol) (ast.Node, error) {
	switch sym.Kind {
	case symbol.KIND_FUNCTION:
		return t.createFunction(sym)
	case symbol.KIND_TYPEDEF:
		return t.createTypedef(sym)
	case symbol.KIND_STRUCT:
		return t.createCompound(sym, symbol.TYPE_STRUCT, false)
	case symbol.KIND_UNION:
		return t.createCompound(sym, symbol.TYPE_UNION, false)
	case symbol.KIND_ENUM:
		return t.createEnum(sym)
	case symbol.KIND_MEMBER:
		return t.createMember(sym)
	case symbol.KIND_CONST:
		return t.createConst(sym)
	case symbol.KIND_OBJECT:
		t.log.Note("Ignoring variable declaration", symbolPositions(sym), fmt.Sprintf("symbol=%q", sym.Ident))
		return nil, nil
	case symbol.KIND_ELLIPSIS, symbol.KIND_INVALID:
		return nil, fmt.Errorf("%w: %s", ErrUnhandledSymbol, sym)
	}
	panic(fmt.Sprintf("unrecognized symbol kind: %d", int(sym.Kind)))
}

func (t *Transformer) createParameters(bt *symbol.BaseType) []*ast.Parameter {
	if bt == nil {
		return nil
	}
	params := []*ast.Parameter{}
	for _, child := range bt.Children {
		params = append(params, t.createParameter(child))
	}
	return params
}

func (t *Transformer) createParameter(sym *symbol.Symbol) *ast.Parameter {
	if sym.Kind == symbol.KIND_ELLIPSIS {
		return &ast.Parameter{Name: sym.Ident, Type: &ast.Varargs{}}
	}
	return &ast.Parameter{Name: sym.Ident, Type: typeFromBase(sym.Base, true, false)}
}

func (t *Transformer) createReturn(bt *symbol.BaseType) *ast.Return {
	return &ast.Return{Type: typeFromBase(bt, false, true)}
}

func (t *Transformer) createFunction(sym *symbol.Symbol) (ast.Node, error) {
	params := t.createParameters(sym.Base)
	var ret *ast.Return
	if sym.Base != nil {
		ret = t.createReturn(sym.Base.Base)
	} else {
		ret = t.createReturn(nil)
	}
	name, err := t.stripSymbol(sym, false)
	if name == "" {
		return nil, err
	}
	fn := ast.NewFunction(name, sym.Ident, ret, params)
	addSymbolReference(fn, sym)
	return fn, nil
}

func (t *Transformer) createCallback(sym *symbol.Symbol, member bool) (ast.Node, error) {
	fntype := sym.Base.Base
	params := t.createParameters(fntype)
	ret := t.createReturn(fntype.Base)

	// Mark the user_data arguments.
	for _, param := range params {
		if typ, ok := param.Type.(*ast.Type); ok &&
			typ.Fundamental == ast.TYPE_ANY && param.Name == "user_data" {
			param.ClosureName = param.Name
		}
	}

	var name string
	var err error
	switch {
	case member:
		name = sym.Ident
	case strings.Index(sym.Ident, "_") > 0:
		name, err = t.stripSymbol(sym, false)
	default:
		name, err = t.StripIdentifier(sym.Ident)
	}
	if name == "" {
		return nil, err
	}
	cb := ast.NewCallback(name, sym.Ident, ret, params)
	addSymbolReference(cb, sym)
	return cb, nil
}

// commonTokens returns the leading underscore-delimited tokens shared by
// prefix and toks. Unless both are identical, the result is shortened so
// that no member is consumed entirely; exact tells whether prefix itself is
// still a full member name.
func commonTokens(prefix, toks []string, exact bool) ([]string, bool) {
	i := 0
	for i < len(prefix) && i < len(toks) && prefix[i] == toks[i] {
		i++
	}
	if exact && i == len(prefix) && i == len(toks) {
		return prefix, true
	}
	if i == len(toks) || (exact && i == len(prefix)) {
		i--
	}
	return prefix[:i], false
}

// enumCommonPrefix finds the word-boundary prefix shared by every member,
// like "FOO_BAR_" for FOO_BAR_ALPHA and FOO_BAR_BETA. It returns "" when
// there is none.
func enumCommonPrefix(members []*symbol.Symbol) string {
	if len(members) < 2 {
		return ""
	}
	prefix := strings.Split(members[0].Ident, "_")
	exact := true
	for _, m := range members[1:] {
		prefix, exact = commonTokens(prefix, strings.Split(m.Ident, "_"), exact)
		if len(prefix) == 0 {
			return ""
		}
	}
	if exact {
		return strings.Join(prefix, "_")
	}
	return strings.Join(prefix, "_") + "_"
}

func (t *Transformer) createEnum(sym *symbol.Symbol) (ast.Node, error) {
	var children []*symbol.Symbol
	if sym.Base != nil {
		children = sym.Base.Children
	}
	prefix := enumCommonPrefix(children)
	members := []*ast.Member{}
	for _, child := range children {
		var name string
		if prefix != "" {
			name = child.Ident[len(prefix):]
		} else {
			// No consistent prefix among the members, so just remove the
			// namespace prefix.
			var err error
			if name, err = t.stripSymbol(child, true); err != nil {
				return nil, err
			}
			if name == "" {
				continue
			}
		}
		var value int64
		if child.ConstInt != nil {
			value = *child.ConstInt
		}
		members = append(members, &ast.Member{
			Name:   strings.ToLower(name),
			Value:  value,
			Symbol: child.Ident,
		})
	}

	name, err := t.StripIdentifier(sym.Ident)
	if name == "" {
		return nil, err
	}
	var n ast.Node
	if sym.Base != nil && sym.Base.IsBitfield {
		n = ast.NewBitfield(name, sym.Ident, members)
	} else {
		n = ast.NewEnum(name, sym.Ident, members)
	}
	addSymbolReference(n, sym)
	return n, nil
}

func (t *Transformer) createMember(sym *symbol.Symbol) (ast.Node, error) {
	st := sym.Base
	if st == nil {
		st = symbol.Void()
	}
	switch {
	case st.Kind == symbol.TYPE_POINTER && st.Base != nil && st.Base.Kind == symbol.TYPE_FUNCTION:
		return t.createCallback(sym, true)
	case st.Kind == symbol.TYPE_STRUCT && st.Name == "":
		return t.createCompound(sym, symbol.TYPE_STRUCT, true)
	case st.Kind == symbol.TYPE_UNION && st.Name == "":
		return t.createCompound(sym, symbol.TYPE_UNION, true)
	}

	var ftype ast.TypeRef
	if st.Kind == symbol.TYPE_ARRAY {
		ctype := sourceType(st)
		derefed := strings.TrimSuffix(Canonicalize(ctype), "*")
		arr := ast.NewArray("", TypeFromCType(ctype, false, false, false), derefed)
		arr.ZeroTerminated = false
		if len(st.Children) > 0 && st.Children[0].ConstInt != nil {
			size := *st.Children[0].ConstInt
			arr.Size = &size
		}
		ftype = arr
	} else {
		ftype = memberType(st)
	}
	bits := 0
	if sym.ConstInt != nil {
		bits = int(*sym.ConstInt)
	}
	// Fields are assumed to be read-write.
	return ast.NewField(sym.Ident, ftype, true, true, bits), nil
}

func (t *Transformer) createTypedef(sym *symbol.Symbol) (ast.Node, error) {
	st := sym.Base
	if st == nil {
		return nil, fmt.Errorf("%w: symbol %q without a type", ErrUnhandledTypedef, sym.Ident)
	}
	pointee := symbol.TYPE_INVALID
	if st.Kind == symbol.TYPE_POINTER && st.Base != nil {
		pointee = st.Base.Kind
	}
	switch {
	case pointee == symbol.TYPE_FUNCTION:
		return t.createCallback(sym, false)
	case pointee == symbol.TYPE_STRUCT:
		return nil, t.createTypedefCompound(sym, symbol.TYPE_STRUCT, true)
	case st.Kind == symbol.TYPE_STRUCT:
		return nil, t.createTypedefCompound(sym, symbol.TYPE_STRUCT, false)
	case st.Kind == symbol.TYPE_UNION:
		return nil, t.createTypedefCompound(sym, symbol.TYPE_UNION, false)
	case st.Kind == symbol.TYPE_ENUM:
		return t.createEnum(sym)
	}

	switch st.Kind {
	case symbol.TYPE_TYPEDEF, symbol.TYPE_POINTER, symbol.TYPE_BASIC, symbol.TYPE_VOID:
		name, err := t.StripIdentifier(sym.Ident)
		if name == "" {
			return nil, err
		}
		var target ast.TypeRef
		if st.Name != "" {
			target = TypeFromCType(st.Name, false, false, false)
		} else {
			target = ast.NewFundamental(ast.TYPE_ANY)
		}
		if ast.IsFundamentalName(name) {
			return nil, nil
		}
		alias := ast.NewAlias(name, sym.Ident, target)
		addSymbolReference(alias, sym)
		return alias, nil
	}
	return nil, fmt.Errorf("%w: symbol %q of type %s", ErrUnhandledTypedef, sym.Ident, st.Kind)
}

func newCompound(kind symbol.TypeKind, name, ctype string, disguised bool) ast.Compound {
	if kind == symbol.TYPE_UNION {
		return ast.NewUnion(name, ctype)
	}
	return ast.NewRecord(name, ctype, disguised)
}

func compoundKind(c ast.Compound) symbol.TypeKind {
	if _, ok := c.(*ast.Union); ok {
		return symbol.TYPE_UNION
	}
	return symbol.TYPE_STRUCT
}

// createTypedefCompound handles typedefs of structs and unions. The compound
// is not appended right away but collected for reconciliation, unless the
// typedef names an already appended hidden compound, which then takes the
// typedef's name.
func (t *Transformer) createTypedefCompound(sym *symbol.Symbol, kind symbol.TypeKind, disguised bool) error {
	name, err := t.StripIdentifier(sym.Ident)
	if name == "" {
		return err
	}
	if !disguised {
		if claimed, err := t.claimHidden(sym, kind, name); claimed || err != nil {
			return err
		}
	}
	compound := newCompound(kind, name, sym.Ident, disguised)
	if err := t.populate(sym, compound); err != nil {
		return err
	}
	addSymbolReference(compound, sym)
	t.typedefs.set(sym.Ident, compound)
	return nil
}

// claimHidden renames a compound appended under a hidden "_Foo" name when a
// typedef for its tag shows up.
func (t *Transformer) claimHidden(sym *symbol.Symbol, kind symbol.TypeKind, name string) (bool, error) {
	tag := sym.Base.Name
	if !strings.HasPrefix(tag, "_") {
		return false, nil
	}
	existing, ok := t.ns.GetByCType(tag).(ast.Compound)
	if !ok || compoundKind(existing) != kind || !strings.HasPrefix(existing.Name(), "_") {
		return false, nil
	}
	if existing.Name() != name {
		if other := t.ns.Get(name); other != nil {
			return true, t.log.Error(
				fmt.Sprintf("Namespace conflict for '%s'", name),
				other.Positions().Union(symbolPositions(sym)), "")
		}
		if err := t.ns.Rename(existing.Name(), name); err != nil {
			return true, err
		}
	}
	if err := t.populate(sym, existing); err != nil {
		return true, err
	}
	addSymbolReference(existing, sym)
	t.ns.AddCType(sym.Ident, existing)
	return true, nil
}

// populate fills the fields of a compound from the symbol's members. Fields
// already present are never replaced.
func (t *Transformer) populate(sym *symbol.Symbol, compound ast.Compound) error {
	if sym.Base == nil || len(compound.FieldList()) > 0 {
		return nil
	}
	fields := []*ast.Field{}
	for _, child := range sym.Base.Children {
		n, err := t.traverse(child)
		if err != nil {
			return err
		}
		if n == nil {
			continue
		}
		if field, ok := n.(*ast.Field); ok {
			fields = append(fields, field)
		} else {
			fields = append(fields, ast.NewAnonymousField(child.Ident, n))
		}
	}
	compound.SetFields(fields)
	return nil
}

func (t *Transformer) createCompound(sym *symbol.Symbol, kind symbol.TypeKind, anonymous bool) (ast.Node, error) {
	var compound ast.Compound
	if !anonymous {
		compound = t.typedefs.get(sym.Ident)
		if compound == nil && strings.HasPrefix(sym.Ident, "_") {
			compound = t.typedefs.get(sym.Ident[1:])
		}
	}
	if compound == nil {
		name := sym.Ident
		if !anonymous {
			var err error
			if name, err = t.StripIdentifier(sym.Ident); name == "" {
				return nil, err
			}
		}
		compound = newCompound(kind, name, sym.Ident, false)
	}
	if err := t.populate(sym, compound); err != nil {
		return nil, err
	}
	addSymbolReference(compound, sym)
	return compound, nil
}

func (t *Transformer) createConst(sym *symbol.Symbol) (ast.Node, error) {
	// Constants only come from public headers.
	if !sym.HasPos() || !strings.HasSuffix(sym.Pos.File, ".h") {
		return nil, nil
	}
	if !ucaseConstantRe.MatchString(sym.Ident) {
		return nil, nil
	}
	name, err := t.stripSymbol(sym, true)
	if name == "" {
		return nil, err
	}

	literals := 0
	var typ *ast.Type
	var value string
	if sym.ConstString != nil {
		literals++
		typ, value = ast.NewFundamental(ast.TYPE_STRING), *sym.ConstString
	}
	if sym.ConstInt != nil {
		literals++
		typ, value = ast.NewFundamental(ast.TYPE_INT), fmt.Sprintf("%d", *sym.ConstInt)
	}
	if sym.ConstDouble != nil {
		literals++
		typ, value = ast.NewFundamental(ast.TYPE_DOUBLE), fmt.Sprintf("%f", *sym.ConstDouble)
	}
	if literals != 1 {
		return nil, fmt.Errorf("%w: %q has %d", ErrMalformedConstant, sym.Ident, literals)
	}
	c := ast.NewConstant(name, typ, value)
	addSymbolReference(c, sym)
	return c, nil
}
