// Package ast is the language-neutral description of a C library's public
// API: functions, callbacks, compound types, enumerations, aliases and
// constants, grouped in namespaces.
package ast

import (
	"fmt"
	"strings"

	"github.com/susji/girscan/span"
)

// Node is implemented by everything a Namespace can hold. Every Node has a
// namespace-local name, the C identifier or symbol it originated from and
// the source positions it was declared at.
type Node interface {
	Name() string
	CType() string
	Positions() span.Positions
	AddPosition(pos span.Position)
	String() string
	setName(name string)
}

// Compound is a Record or a Union.
type Compound interface {
	Node
	FieldList() []*Field
	SetFields(fields []*Field)
}

// TypeNamed is implemented by nodes registered with the runtime type
// system. GTypeName is empty for nodes which are not.
type TypeNamed interface {
	GTypeName() string
}

type Common struct {
	name  string
	ctype string
	pos   span.Positions
}

func (c *Common) Name() string {
	return c.name
}

func (c *Common) setName(name string) {
	c.name = name
}

func (c *Common) CType() string {
	return c.ctype
}

func (c *Common) Positions() span.Positions {
	return c.pos
}

func (c *Common) AddPosition(pos span.Position) {
	c.pos.Add(pos)
}

type Parameter struct {
	Name        string
	Type        TypeRef
	ClosureName string
}

type Return struct {
	Type TypeRef
}

type Function struct {
	Common
	Return     *Return
	Parameters []*Parameter
}

type Callback struct {
	Common
	Return     *Return
	Parameters []*Parameter
}

type Field struct {
	Common
	Type      TypeRef
	Readable  bool
	Writable  bool
	Bits      int
	Anonymous Node
}

// Record and Union carry a TypeName when registered as boxed types.
type Record struct {
	Common
	Fields    []*Field
	Disguised bool
	TypeName  string
}

type Union struct {
	Common
	Fields   []*Field
	TypeName string
}

type Member struct {
	Name   string
	Value  int64
	Symbol string
}

type Enum struct {
	Common
	Members  []*Member
	TypeName string
}

type Bitfield struct {
	Common
	Members  []*Member
	TypeName string
}

type Alias struct {
	Common
	Target TypeRef
}

type Constant struct {
	Common
	Type  TypeRef
	Value string
}

// Class, Interface and Boxed are never produced from C declarations; they
// come from included namespaces and take part in runtime type name lookup.
type Class struct {
	Common
	TypeName string
	Parent   string
}

type Interface struct {
	Common
	TypeName string
}

type Boxed struct {
	Common
	TypeName string
}

func NewFunction(name, symbol string, ret *Return, params []*Parameter) *Function {
	return &Function{Common: Common{name: name, ctype: symbol}, Return: ret, Parameters: params}
}

func NewCallback(name, ctype string, ret *Return, params []*Parameter) *Callback {
	return &Callback{Common: Common{name: name, ctype: ctype}, Return: ret, Parameters: params}
}

func NewField(name string, t TypeRef, readable, writable bool, bits int) *Field {
	return &Field{
		Common:   Common{name: name},
		Type:     t,
		Readable: readable,
		Writable: writable,
		Bits:     bits,
	}
}

// NewAnonymousField wraps a nested compound or callback.
func NewAnonymousField(name string, n Node) *Field {
	return &Field{
		Common:    Common{name: name},
		Readable:  true,
		Anonymous: n,
	}
}

func NewRecord(name, ctype string, disguised bool) *Record {
	return &Record{Common: Common{name: name, ctype: ctype}, Disguised: disguised}
}

func NewUnion(name, ctype string) *Union {
	return &Union{Common: Common{name: name, ctype: ctype}}
}

func NewEnum(name, ctype string, members []*Member) *Enum {
	return &Enum{Common: Common{name: name, ctype: ctype}, Members: members}
}

func NewBitfield(name, ctype string, members []*Member) *Bitfield {
	return &Bitfield{Common: Common{name: name, ctype: ctype}, Members: members}
}

func NewAlias(name, ctype string, target TypeRef) *Alias {
	return &Alias{Common: Common{name: name, ctype: ctype}, Target: target}
}

func NewConstant(name string, t TypeRef, value string) *Constant {
	return &Constant{Common: Common{name: name}, Type: t, Value: value}
}

func NewClass(name, ctype, typename, parent string) *Class {
	return &Class{Common: Common{name: name, ctype: ctype}, TypeName: typename, Parent: parent}
}

func NewInterface(name, ctype, typename string) *Interface {
	return &Interface{Common: Common{name: name, ctype: ctype}, TypeName: typename}
}

func NewBoxed(name, ctype, typename string) *Boxed {
	return &Boxed{Common: Common{name: name, ctype: ctype}, TypeName: typename}
}

func (r *Record) FieldList() []*Field       { return r.Fields }
func (r *Record) SetFields(fields []*Field) { r.Fields = fields }
func (u *Union) FieldList() []*Field        { return u.Fields }
func (u *Union) SetFields(fields []*Field)  { u.Fields = fields }

func (r *Record) GTypeName() string    { return r.TypeName }
func (u *Union) GTypeName() string     { return u.TypeName }
func (c *Class) GTypeName() string     { return c.TypeName }
func (i *Interface) GTypeName() string { return i.TypeName }
func (b *Boxed) GTypeName() string     { return b.TypeName }
func (e *Enum) GTypeName() string      { return e.TypeName }
func (b *Bitfield) GTypeName() string  { return b.TypeName }

func paramsString(params []*Parameter) string {
	b := &strings.Builder{}
	b.WriteString("(params")
	for _, p := range params {
		b.WriteString(" " + p.String())
	}
	b.WriteString(")")
	return b.String()
}

func fieldsString(fields []*Field) string {
	b := &strings.Builder{}
	b.WriteString("(fields")
	for _, f := range fields {
		b.WriteString(" " + f.String())
	}
	b.WriteString(")")
	return b.String()
}

func membersString(members []*Member) string {
	b := &strings.Builder{}
	b.WriteString("(members")
	for _, m := range members {
		b.WriteString(fmt.Sprintf(" (%s %d)", m.Name, m.Value))
	}
	b.WriteString(")")
	return b.String()
}

func (p *Parameter) String() string {
	if p.ClosureName != "" {
		return fmt.Sprintf("(param %q %s closure)", p.Name, stringOf(p.Type))
	}
	return fmt.Sprintf("(param %q %s)", p.Name, stringOf(p.Type))
}

func (r *Return) String() string {
	if r == nil {
		return "(return nil)"
	}
	return fmt.Sprintf("(return %s)", stringOf(r.Type))
}

func (f *Function) String() string {
	return fmt.Sprintf("(function %q %s %s)", f.name, f.Return, paramsString(f.Parameters))
}

func (c *Callback) String() string {
	return fmt.Sprintf("(callback %q %s %s)", c.name, c.Return, paramsString(c.Parameters))
}

func (f *Field) String() string {
	if f.Anonymous != nil {
		return fmt.Sprintf("(field %q %s)", f.name, f.Anonymous)
	}
	if f.Bits > 0 {
		return fmt.Sprintf("(field %q %s bits=%d)", f.name, stringOf(f.Type), f.Bits)
	}
	return fmt.Sprintf("(field %q %s)", f.name, stringOf(f.Type))
}

func (r *Record) String() string {
	if r.Disguised {
		return fmt.Sprintf("(record %q disguised %s)", r.name, fieldsString(r.Fields))
	}
	return fmt.Sprintf("(record %q %s)", r.name, fieldsString(r.Fields))
}

func (u *Union) String() string {
	return fmt.Sprintf("(union %q %s)", u.name, fieldsString(u.Fields))
}

func (e *Enum) String() string {
	return fmt.Sprintf("(enum %q %s)", e.name, membersString(e.Members))
}

func (b *Bitfield) String() string {
	return fmt.Sprintf("(bitfield %q %s)", b.name, membersString(b.Members))
}

func (a *Alias) String() string {
	return fmt.Sprintf("(alias %q %s)", a.name, stringOf(a.Target))
}

func (c *Constant) String() string {
	return fmt.Sprintf("(constant %q %s %q)", c.name, stringOf(c.Type), c.Value)
}

func (c *Class) String() string {
	return fmt.Sprintf("(class %q %q)", c.name, c.TypeName)
}

func (i *Interface) String() string {
	return fmt.Sprintf("(interface %q %q)", i.name, i.TypeName)
}

func (b *Boxed) String() string {
	return fmt.Sprintf("(boxed %q %q)", b.name, b.TypeName)
}
