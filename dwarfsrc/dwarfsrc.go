// package dwarfsrc produces the declaration stream for a library from the
// DWARF debug information of a compiled object.
package dwarfsrc

import (
	"debug/elf"
	"errors"
	"fmt"

	"github.com/blacktop/go-dwarf"

	"github.com/susji/girscan/span"
	"github.com/susji/girscan/symbol"
)

var ErrNoDebugInfo = errors.New("no DWARF debug info")

// Source walks the debug information entries of one object.
type Source struct {
	d *dwarf.Data
}

func New(d *dwarf.Data) *Source {
	return &Source{d: d}
}

// LoadELF reads the DWARF sections of an ELF object.
func LoadELF(path string) (*Source, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// These are the sections the reader needs. Others are not loaded.
	dat := map[string][]byte{"abbrev": nil, "info": nil, "str": nil, "line": nil, "ranges": nil}
	for suffix := range dat {
		s := f.Section(".debug_" + suffix)
		if s == nil {
			continue
		}
		b, err := s.Data()
		if err != nil {
			return nil, fmt.Errorf("%s: section %s: %w", path, s.Name, err)
		}
		dat[suffix] = b
	}
	if dat["info"] == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDebugInfo, path)
	}
	d, err := dwarf.New(dat["abbrev"], nil, nil, dat["info"], dat["line"], nil, dat["ranges"], dat["str"])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(d), nil
}

type seenKey struct {
	kind symbol.Kind
	name string
}

// collector keeps symbols in entry order. A type seen again is skipped
// unless it completes an earlier incomplete declaration.
type collector struct {
	syms  []*symbol.Symbol
	seen  map[seenKey]int
	empty map[seenKey]bool
}

func (c *collector) add(sym *symbol.Symbol, incomplete bool) {
	key := seenKey{kind: sym.Kind, name: sym.Ident}
	if i, ok := c.seen[key]; ok {
		if c.empty[key] && !incomplete {
			c.syms[i] = sym
			delete(c.empty, key)
		}
		return
	}
	c.seen[key] = len(c.syms)
	c.syms = append(c.syms, sym)
	if incomplete {
		c.empty[key] = true
	}
}

// Symbols converts every named function, typedef, struct, union and enum.
func (s *Source) Symbols() ([]*symbol.Symbol, error) {
	c := &collector{seen: map[seenKey]int{}, empty: map[seenKey]bool{}}
	r := s.d.Reader()
	for {
		entry, err := r.Next()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			break
		}
		name, _ := entry.Val(dwarf.AttrName).(string)

		switch entry.Tag {
		case dwarf.TagSubprogram:
			params, err := s.parameters(r, entry)
			if err != nil {
				return nil, err
			}
			if decl, _ := entry.Val(dwarf.AttrDeclaration).(bool); decl || name == "" {
				continue
			}
			sym, err := s.function(entry, name, params)
			if err != nil {
				return nil, err
			}
			c.add(sym, false)
		case dwarf.TagTypedef, dwarf.TagStructType, dwarf.TagUnionType, dwarf.TagEnumerationType:
			if name == "" {
				continue
			}
			t, err := s.d.Type(entry.Offset)
			if err != nil {
				return nil, fmt.Errorf("type %q: %w", name, err)
			}
			sym, incomplete := declaration(t)
			if sym == nil {
				continue
			}
			sym.Pos = s.position(entry)
			c.add(sym, incomplete)
		}
	}
	return c.syms, nil
}

// parameters consumes the children of a subprogram entry and returns its
// formal parameters.
func (s *Source) parameters(r *dwarf.Reader, entry *dwarf.Entry) ([]*symbol.Symbol, error) {
	params := []*symbol.Symbol{}
	if !entry.Children {
		return params, nil
	}
	depth := 1
	for depth > 0 {
		child, err := r.Next()
		if err != nil {
			return nil, err
		}
		if child == nil {
			break
		}
		if child.Tag == 0 {
			depth--
			continue
		}
		if depth == 1 {
			switch child.Tag {
			case dwarf.TagFormalParameter:
				name, _ := child.Val(dwarf.AttrName).(string)
				bt, err := s.entryType(child)
				if err != nil {
					return nil, err
				}
				params = append(params, symbol.Param(name, bt))
			case dwarf.TagUnspecifiedParameters:
				params = append(params, symbol.Ellipsis())
			}
		}
		if child.Children {
			depth++
		}
	}
	return params, nil
}

// entryType converts the type an entry refers to. A missing type is void.
func (s *Source) entryType(entry *dwarf.Entry) (*symbol.BaseType, error) {
	off, ok := entry.Val(dwarf.AttrType).(dwarf.Offset)
	if !ok {
		return symbol.Void(), nil
	}
	t, err := s.d.Type(off)
	if err != nil {
		return nil, err
	}
	return BaseType(t), nil
}

func (s *Source) function(entry *dwarf.Entry, name string, params []*symbol.Symbol) (*symbol.Symbol, error) {
	ret, err := s.entryType(entry)
	if err != nil {
		return nil, fmt.Errorf("function %q: %w", name, err)
	}
	return &symbol.Symbol{
		Kind:  symbol.KIND_FUNCTION,
		Ident: name,
		Base:  symbol.Func(ret, params...),
		Pos:   s.position(entry),
	}, nil
}

// position returns the declaration file and line of an entry, if known.
func (s *Source) position(entry *dwarf.Entry) span.Position {
	line, _ := entry.Val(dwarf.AttrDeclLine).(int64)
	fileidx, ok := entry.Val(dwarf.AttrDeclFile).(int64)
	if !ok {
		return span.Position{}
	}
	files, err := s.d.FilesForEntry(entry)
	if err != nil || fileidx < 0 || int(fileidx) >= len(files) || files[fileidx] == nil {
		return span.Position{}
	}
	return span.New(files[fileidx].Name, int(line), -1)
}
