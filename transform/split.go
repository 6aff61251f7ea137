package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/susji/girscan/ast"
	"github.com/susji/girscan/span"
	"github.com/susji/girscan/symbol"
)

// Match attributes a C name to a namespace. Name is what remains after the
// namespace prefix.
type Match struct {
	Namespace *ast.Namespace
	Name      string
}

type prefixMatch struct {
	Match
	prefixlen int
}

// SplitIdentifier splits a StudlyCaps identifier like FooBar. See split.
func (t *Transformer) SplitIdentifier(ident string) ([]Match, error) {
	return t.split(ident, true)
}

// SplitSymbol splits a snake_case symbol like foo_bar_do_baz. See split.
func (t *Transformer) SplitSymbol(sym string) ([]Match, error) {
	return t.split(sym, false)
}

// split returns every namespace whose prefix name starts with. Matches in
// other namespaces are ordered by ascending prefix length; a match in the
// current namespace always comes last. A name equal to its prefix keeps its
// full spelling.
func (t *Transformer) split(name string, isIdentifier bool) ([]Match, error) {
	matches := []prefixMatch{}
	unprefixed := []*ast.Namespace{}
	for _, ns := range t.namespaces() {
		prefixes := ns.SymbolPrefixes
		if isIdentifier {
			prefixes = ns.IdentifierPrefixes
		}
		if len(prefixes) == 0 {
			unprefixed = append(unprefixed, ns)
			continue
		}
		for _, prefix := range prefixes {
			if !isIdentifier && !strings.HasSuffix(prefix, "_") {
				prefix += "_"
			}
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			rest := name[len(prefix):]
			if rest == "" {
				rest = name
			}
			matches = append(matches, prefixMatch{
				Match:     Match{Namespace: ns, Name: rest},
				prefixlen: len(prefix),
			})
			break
		}
	}

	if len(matches) > 0 {
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].Namespace == t.ns {
				return false
			}
			if matches[j].Namespace == t.ns {
				return true
			}
			return matches[i].prefixlen < matches[j].prefixlen
		})
		ret := make([]Match, 0, len(matches))
		for _, m := range matches {
			ret = append(ret, m.Match)
		}
		return ret, nil
	}
	if t.opts.AcceptUnprefixed {
		return []Match{{Namespace: t.ns, Name: name}}, nil
	}
	for _, ns := range unprefixed {
		if ns.Contains(name) {
			return []Match{{Namespace: ns, Name: name}}, nil
		}
	}
	what := "symbol"
	if isIdentifier {
		what = "identifier"
	}
	return nil, fmt.Errorf("%w for %s %q", ErrUnknownNamespace, what, name)
}

// StripIdentifier turns a C identifier into a name local to the current
// namespace. A leading underscore is kept. An empty name means the
// identifier was skipped and a warning raised; the error is non-nil only
// when that warning is fatal.
func (t *Transformer) StripIdentifier(ident string) (string, error) {
	hidden := strings.HasPrefix(ident, "_")
	if hidden {
		ident = ident[1:]
	}
	matches, err := t.SplitIdentifier(ident)
	if err != nil {
		return "", t.log.Warn(err.Error(), nil, "")
	}
	for _, m := range matches {
		if m.Namespace != t.ns {
			continue
		}
		if hidden {
			return "_" + m.Name, nil
		}
		return m.Name, nil
	}
	last := matches[len(matches)-1]
	return "", t.log.Warnf("Skipping foreign identifier %q from namespace %s", ident, last.Namespace.Name)
}

func symbolPositions(sym *symbol.Symbol) span.Positions {
	if !sym.HasPos() {
		return nil
	}
	return span.Positions{span.New(sym.Pos.File, sym.Pos.Line, -1)}
}

func (t *Transformer) symbolWarning(sym *symbol.Symbol, text string) error {
	return t.log.Warn(text, symbolPositions(sym), fmt.Sprintf("symbol=%q", sym.Ident))
}

// stripSymbol is StripIdentifier for C symbols. Constants are matched in
// lower case and returned in upper case.
func (t *Transformer) stripSymbol(sym *symbol.Symbol, isConstant bool) (string, error) {
	ident := sym.Ident
	if isConstant {
		ident = strings.ToLower(ident)
	}
	hidden := strings.HasPrefix(ident, "_")
	if hidden {
		ident = ident[1:]
	}
	matches, err := t.SplitSymbol(ident)
	if err != nil {
		return "", t.symbolWarning(sym, "Unknown namespace")
	}
	m := matches[len(matches)-1]
	if m.Namespace != t.ns {
		return "", t.symbolWarning(sym, fmt.Sprintf("Skipping foreign symbol from namespace %s", m.Namespace.Name))
	}
	name := m.Name
	if isConstant {
		name = strings.ToUpper(name)
	}
	if hidden {
		return "_" + name, nil
	}
	return name, nil
}
