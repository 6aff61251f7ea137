// package gir reads the parts of an introspection repository file that an
// including namespace needs: the repository's own includes and packages,
// its namespace prefixes and the names, C types and runtime type names of
// its top-level nodes. Function signatures and fields are not read.
package gir

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/susji/girscan/ast"
	"github.com/susji/girscan/include"
)

var ErrMalformed = errors.New("malformed repository")

// Includes and packages are matched in the core namespace only, so that C
// header includes are skipped.
type xmlRepository struct {
	Includes  []xmlInclude `xml:"http://www.gtk.org/introspection/core/1.0 include"`
	Packages  []xmlNamed   `xml:"http://www.gtk.org/introspection/core/1.0 package"`
	Namespace xmlNamespace `xml:"namespace"`
}

type xmlInclude struct {
	Name    string `xml:"name,attr"`
	Version string `xml:"version,attr"`
}

type xmlNamed struct {
	Name string `xml:"name,attr"`
}

type xmlNamespace struct {
	Name               string `xml:"name,attr"`
	Version            string `xml:"version,attr"`
	IdentifierPrefixes string `xml:"http://www.gtk.org/introspection/c/1.0 identifier-prefixes,attr"`
	SymbolPrefixes     string `xml:"http://www.gtk.org/introspection/c/1.0 symbol-prefixes,attr"`
	// Older files use the singular spellings.
	IdentifierPrefix string `xml:"http://www.gtk.org/introspection/c/1.0 prefix,attr"`
	SymbolPrefix     string `xml:"http://www.gtk.org/introspection/c/1.0 symbol-prefix,attr"`

	Nodes []xmlNode `xml:",any"`
}

type xmlNode struct {
	XMLName    xml.Name
	Name       string      `xml:"name,attr"`
	CType      string      `xml:"http://www.gtk.org/introspection/c/1.0 type,attr"`
	Identifier string      `xml:"http://www.gtk.org/introspection/c/1.0 identifier,attr"`
	TypeName   string      `xml:"http://www.gtk.org/introspection/glib/1.0 type-name,attr"`
	GLibName   string      `xml:"http://www.gtk.org/introspection/glib/1.0 name,attr"`
	Parent     string      `xml:"parent,attr"`
	Disguised  string      `xml:"disguised,attr"`
	Value      string      `xml:"value,attr"`
	Members    []xmlMember `xml:"member"`
	Type       *xmlType    `xml:"type"`
}

type xmlMember struct {
	Name       string `xml:"name,attr"`
	Value      string `xml:"value,attr"`
	Identifier string `xml:"http://www.gtk.org/introspection/c/1.0 identifier,attr"`
}

type xmlType struct {
	Name  string `xml:"name,attr"`
	CType string `xml:"http://www.gtk.org/introspection/c/1.0 type,attr"`
}

// Parser implements include.Parser for repository files.
type Parser struct{}

func (Parser) Parse(path string) (*include.Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func splitPrefixes(list, single string) []string {
	if list == "" {
		list = single
	}
	if list == "" {
		return nil
	}
	return strings.Split(list, ",")
}

// Read decodes one repository.
func Read(r io.Reader) (*include.Description, error) {
	repo := &xmlRepository{}
	if err := xml.NewDecoder(r).Decode(repo); err != nil {
		return nil, err
	}
	x := repo.Namespace
	if x.Name == "" {
		return nil, fmt.Errorf("%w: namespace without a name", ErrMalformed)
	}
	ns := ast.NewNamespace(x.Name, x.Version,
		splitPrefixes(x.IdentifierPrefixes, x.IdentifierPrefix),
		splitPrefixes(x.SymbolPrefixes, x.SymbolPrefix))
	for _, xn := range x.Nodes {
		n, err := node(ns.Name, xn)
		if err != nil {
			return nil, err
		}
		if n == nil {
			continue
		}
		if err := ns.Append(n); err != nil {
			return nil, err
		}
	}

	d := &include.Description{Namespace: ns}
	for _, inc := range repo.Includes {
		d.Includes = append(d.Includes, include.Include{Name: inc.Name, Version: inc.Version})
	}
	for _, pkg := range repo.Packages {
		d.Packages = append(d.Packages, pkg.Name)
	}
	return d, nil
}

func members(xms []xmlMember) ([]*ast.Member, error) {
	ret := []*ast.Member{}
	for _, xm := range xms {
		v, err := strconv.ParseInt(xm.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: member %q: %s", ErrMalformed, xm.Name, err)
		}
		ret = append(ret, &ast.Member{Name: xm.Name, Value: v, Symbol: xm.Identifier})
	}
	return ret, nil
}

// typeRef turns a <type> element into a reference qualified with the
// owning namespace.
func typeRef(nsname string, xt *xmlType) ast.TypeRef {
	if xt == nil {
		return ast.NewFundamental(ast.TYPE_NONE)
	}
	if f, ok := ast.LookupFundamental(xt.Name); ok {
		return &ast.Type{Fundamental: f, CType: xt.CType}
	}
	target := xt.Name
	if !strings.Contains(target, ".") {
		target = nsname + "." + target
	}
	return &ast.Type{Target: target, CType: xt.CType}
}

func node(nsname string, xn xmlNode) (ast.Node, error) {
	switch xn.XMLName.Local {
	case "class":
		return ast.NewClass(xn.Name, xn.CType, xn.TypeName, xn.Parent), nil
	case "interface":
		return ast.NewInterface(xn.Name, xn.CType, xn.TypeName), nil
	case "boxed":
		// An unqualified name attribute also matches glib:name.
		name := xn.GLibName
		if name == "" {
			name = xn.Name
		}
		return ast.NewBoxed(name, "", xn.TypeName), nil
	case "record":
		r := ast.NewRecord(xn.Name, xn.CType, xn.Disguised == "1")
		r.TypeName = xn.TypeName
		return r, nil
	case "union":
		u := ast.NewUnion(xn.Name, xn.CType)
		u.TypeName = xn.TypeName
		return u, nil
	case "enumeration", "bitfield":
		ms, err := members(xn.Members)
		if err != nil {
			return nil, err
		}
		if xn.XMLName.Local == "bitfield" {
			b := ast.NewBitfield(xn.Name, xn.CType, ms)
			b.TypeName = xn.TypeName
			return b, nil
		}
		e := ast.NewEnum(xn.Name, xn.CType, ms)
		e.TypeName = xn.TypeName
		return e, nil
	case "callback":
		return ast.NewCallback(xn.Name, xn.CType, &ast.Return{Type: ast.NewFundamental(ast.TYPE_NONE)}, nil), nil
	case "alias":
		return ast.NewAlias(xn.Name, xn.CType, typeRef(nsname, xn.Type)), nil
	case "function":
		return ast.NewFunction(xn.Name, xn.Identifier, &ast.Return{Type: ast.NewFundamental(ast.TYPE_NONE)}, nil), nil
	case "constant":
		return ast.NewConstant(xn.Name, typeRef(nsname, xn.Type), xn.Value), nil
	}
	// Docs, annotations and other extensions.
	return nil, nil
}
