package ast

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrNameTaken    = errors.New("name already taken")
	ErrNameNotFound = errors.New("no such name")
)

// Namespace is a named, versioned collection of nodes. Nodes iterate in the
// order they were appended.
type Namespace struct {
	Name               string
	Version            string
	IdentifierPrefixes []string
	SymbolPrefixes     []string

	nodes  []Node
	names  map[string]Node
	ctypes map[string]Node
}

func NewNamespace(name, version string, identifierPrefixes, symbolPrefixes []string) *Namespace {
	return &Namespace{
		Name:               name,
		Version:            version,
		IdentifierPrefixes: identifierPrefixes,
		SymbolPrefixes:     symbolPrefixes,
		names:              map[string]Node{},
		ctypes:             map[string]Node{},
	}
}

// Append adds n at the end of the namespace.
func (ns *Namespace) Append(n Node) error {
	if _, ok := ns.names[n.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrNameTaken, n.Name())
	}
	ns.nodes = append(ns.nodes, n)
	ns.names[n.Name()] = n
	ns.indexCType(n.CType(), n)
	return nil
}

func (ns *Namespace) indexCType(ctype string, n Node) {
	if ctype == "" {
		return
	}
	if _, ok := ns.ctypes[ctype]; !ok {
		ns.ctypes[ctype] = n
	}
}

// AddCType makes n reachable through an additional C type spelling.
func (ns *Namespace) AddCType(ctype string, n Node) {
	ns.indexCType(ctype, n)
}

// Rename changes the local name of a node, keeping its position.
func (ns *Namespace) Rename(old, name string) error {
	n, ok := ns.names[old]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNameNotFound, old)
	}
	if _, ok := ns.names[name]; ok {
		return fmt.Errorf("%w: %q", ErrNameTaken, name)
	}
	delete(ns.names, old)
	n.setName(name)
	ns.names[name] = n
	return nil
}

func (ns *Namespace) Get(name string) Node {
	return ns.names[name]
}

func (ns *Namespace) GetByCType(ctype string) Node {
	return ns.ctypes[ctype]
}

func (ns *Namespace) Contains(name string) bool {
	_, ok := ns.names[name]
	return ok
}

// Nodes returns a snapshot of the nodes in insertion order.
func (ns *Namespace) Nodes() []Node {
	ret := make([]Node, len(ns.nodes))
	copy(ret, ns.nodes)
	return ret
}

func (ns *Namespace) Len() int {
	return len(ns.nodes)
}

func (ns *Namespace) String() string {
	b := &strings.Builder{}
	b.WriteString(fmt.Sprintf("(namespace %q %q", ns.Name, ns.Version))
	for _, n := range ns.nodes {
		b.WriteString(" " + n.String())
	}
	b.WriteString(")")
	return b.String()
}

var (
	upperPat1 = regexp.MustCompile(`([^A-Z])([A-Z])`)
	upperPat2 = regexp.MustCompile(`([A-Z][A-Z])([A-Z][0-9a-z])`)
)

// ToUnderscores converts a StudlyCaps name like DBusFoo to dbus_foo.
func ToUnderscores(name string) string {
	name = upperPat1.ReplaceAllString(name, "${1}_${2}")
	name = upperPat2.ReplaceAllString(name, "${1}_${2}")
	return strings.ToLower(name)
}

// DefaultIdentifierPrefixes is used when a namespace declares none.
func DefaultIdentifierPrefixes(name string) []string {
	return []string{name}
}

// DefaultSymbolPrefixes is used when a namespace declares none.
func DefaultSymbolPrefixes(name string) []string {
	return []string{ToUnderscores(name)}
}
