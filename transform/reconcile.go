package transform

import (
	"strings"

	"github.com/susji/girscan/ast"
)

type typedefEntry struct {
	ident    string
	compound ast.Compound
}

// typedefs maps typedef'd C identifiers to their compounds in the order
// they were first seen.
type typedefs struct {
	entries []typedefEntry
	index   map[string]int
}

func newTypedefs() *typedefs {
	return &typedefs{index: map[string]int{}}
}

func (td *typedefs) set(ident string, c ast.Compound) {
	if i, ok := td.index[ident]; ok {
		td.entries[i].compound = c
		return
	}
	td.index[ident] = len(td.entries)
	td.entries = append(td.entries, typedefEntry{ident: ident, compound: c})
}

func (td *typedefs) get(ident string) ast.Compound {
	if td == nil {
		return nil
	}
	if i, ok := td.index[ident]; ok {
		return td.entries[i].compound
	}
	return nil
}

func copyPositions(to, from ast.Node) {
	for _, pos := range from.Positions() {
		to.AddPosition(pos)
	}
}

// reconcile merges the typedef'd compounds with the namespace. A compound
// already appended under its name, or its hidden "_Name" spelling, gets the
// typedef's fields if it has none. A compound never appended is added, as a
// disguised placeholder when it has no fields.
func (t *Transformer) reconcile() error {
	for _, entry := range t.typedefs.entries {
		c := entry.compound
		existing := t.ns.Get(c.Name())
		if existing == nil && !strings.HasPrefix(c.Name(), "_") {
			existing = t.ns.Get("_" + c.Name())
		}
		if existing == nil {
			if len(c.FieldList()) == 0 {
				placeholder := ast.NewRecord(c.Name(), entry.ident, true)
				copyPositions(placeholder, c)
				if err := t.appendNode(placeholder); err != nil {
					return err
				}
				continue
			}
			if err := t.appendNode(c); err != nil {
				return err
			}
			continue
		}
		target, ok := existing.(ast.Compound)
		if !ok || len(target.FieldList()) > 0 {
			continue
		}
		target.SetFields(c.FieldList())
	}
	return nil
}
