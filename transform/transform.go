// package transform lowers a stream of classified C declarations into the
// nodes of a namespace. It attributes unprefixed C names to namespaces,
// canonicalizes C type strings, merges the typedef/struct duplication of the
// "typedef struct _Foo Foo" idiom and resolves type references against the
// namespace being built and every included namespace.
package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/susji/girscan/ast"
	"github.com/susji/girscan/diag"
	"github.com/susji/girscan/include"
	"github.com/susji/girscan/symbol"
)

var (
	ErrUnknownNamespace  = errors.New("unknown namespace")
	ErrMalformedConstant = errors.New("constant without exactly one literal value")
	ErrUnhandledTypedef  = errors.New("unhandled typedef")
	ErrUnhandledSymbol   = errors.New("unhandled symbol")
	ErrAliasCycle        = errors.New("alias cycle")
	ErrNoIncludeParser   = errors.New("no include parser configured")
)

// TypeResolutionError means a type reference could not be attributed to any
// namespace. Resolution may succeed later, once more includes are known.
type TypeResolutionError struct {
	CType   string
	Wrapped error
}

func (e *TypeResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %q: %s", e.CType, e.Wrapped)
}

func (e *TypeResolutionError) Unwrap() error {
	return e.Wrapped
}

// Options configure a Transformer. Finder, Parser and Cache are only needed
// for RegisterInclude.
type Options struct {
	// AcceptUnprefixed attributes names matching no prefix to the current
	// namespace.
	AcceptUnprefixed bool
	Finder           *include.Finder
	Parser           include.Parser
	Cache            include.Cache
}

// Transformer holds the namespace under construction and every namespace it
// includes.
type Transformer struct {
	ns   *ast.Namespace
	log  *diag.Logger
	opts Options

	// includes are the included namespaces by name, includeorder keeps
	// their registration order for deterministic iteration.
	includes     map[string]*ast.Namespace
	includeorder []string
	// includenames holds every include registered so far by name, including
	// ones still being parsed.
	includenames map[string]include.Include
	includelist  []include.Include
	packages     []string

	// typedefs collects typedef'd compounds while Parse runs. It is nil
	// otherwise.
	typedefs *typedefs
}

func New(ns *ast.Namespace, log *diag.Logger, opts Options) *Transformer {
	if opts.Cache == nil {
		opts.Cache = include.NewMemoryCache()
	}
	return &Transformer{
		ns:           ns,
		log:          log,
		opts:         opts,
		includes:     map[string]*ast.Namespace{},
		includenames: map[string]include.Include{},
	}
}

func (t *Transformer) Namespace() *ast.Namespace {
	return t.ns
}

// Warned reports whether any warning was raised, shown or not.
func (t *Transformer) Warned() bool {
	return t.log.Warned()
}

// Parse builds nodes for every symbol, in order, and then merges the
// typedef'd compounds into the namespace. The first fatal condition stops
// processing and is returned.
func (t *Transformer) Parse(symbols []*symbol.Symbol) error {
	t.typedefs = newTypedefs()
	for _, sym := range symbols {
		n, err := t.traverse(sym)
		if err != nil {
			return err
		}
		if n == nil {
			continue
		}
		if err := t.appendNode(n); err != nil {
			return err
		}
	}
	err := t.reconcile()
	t.typedefs = nil
	return err
}

func (t *Transformer) appendNode(n ast.Node) error {
	original := t.ns.Get(n.Name())
	if original == nil {
		return t.ns.Append(n)
	}
	// Constants may be defined more than once under different #ifdefs; the
	// first definition stays.
	_, oc := original.(*ast.Constant)
	_, nc := n.(*ast.Constant)
	if oc && nc {
		for _, pos := range n.Positions() {
			original.AddPosition(pos)
		}
		return nil
	}
	return t.log.Error(
		fmt.Sprintf("Namespace conflict for '%s'", n.Name()),
		original.Positions().Union(n.Positions()), "")
}

// AddInclude registers an already loaded namespace as included.
func (t *Transformer) AddInclude(ns *ast.Namespace) {
	if _, ok := t.includes[ns.Name]; !ok {
		t.includeorder = append(t.includeorder, ns.Name)
	}
	t.includes[ns.Name] = ns
}

// RegisterInclude locates, loads and registers an include and, recursively,
// everything it includes. Each name is handled once; asking for another
// version of a registered name is a warning.
func (t *Transformer) RegisterInclude(inc include.Include) error {
	if prev, ok := t.includenames[inc.Name]; ok {
		if prev.Version != inc.Version {
			return t.log.Warnf("Include %s conflicts with already included %s", inc, prev)
		}
		return nil
	}
	if t.opts.Finder == nil || t.opts.Parser == nil {
		return fmt.Errorf("%w: %s", ErrNoIncludeParser, inc)
	}
	path, err := t.opts.Finder.Find(inc)
	if err != nil {
		return err
	}
	t.includenames[inc.Name] = inc
	t.includelist = append(t.includelist, inc)
	return t.parseInclude(path)
}

func (t *Transformer) parseInclude(path string) error {
	d, ok := t.opts.Cache.Load(path)
	if !ok {
		var err error
		if d, err = t.opts.Parser.Parse(path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		t.opts.Cache.Store(path, d)
	}
	for _, inc := range d.Includes {
		if err := t.RegisterInclude(inc); err != nil {
			return err
		}
	}
	for _, pkg := range d.Packages {
		t.addPackage(pkg)
	}
	t.AddInclude(d.Namespace)
	return nil
}

func (t *Transformer) addPackage(pkg string) {
	for _, cur := range t.packages {
		if cur == pkg {
			return
		}
	}
	t.packages = append(t.packages, pkg)
}

// Includes lists the registered includes in registration order.
func (t *Transformer) Includes() []include.Include {
	return append([]include.Include{}, t.includelist...)
}

// Packages lists the packages collected from included descriptions.
func (t *Transformer) Packages() []string {
	return append([]string{}, t.packages...)
}

// namespaces returns the current namespace first, then the includes.
func (t *Transformer) namespaces() []*ast.Namespace {
	ret := []*ast.Namespace{t.ns}
	for _, name := range t.includeorder {
		ret = append(ret, t.includes[name])
	}
	return ret
}

// LookupGIName finds a node by "Name" in the current namespace or by
// "Namespace.Name" anywhere. An unknown namespace is an error, an unknown
// name is not.
func (t *Transformer) LookupGIName(name string) (ast.Node, error) {
	if !strings.Contains(name, ".") {
		return t.ns.Get(name), nil
	}
	parts := strings.SplitN(name, ".", 2)
	if parts[0] == t.ns.Name {
		return t.ns.Get(parts[1]), nil
	}
	inc, ok := t.includes[parts[0]]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNamespace, parts[0])
	}
	return inc.Get(parts[1]), nil
}

// LookupTypeNode returns the node a resolved type points to, or nil.
func (t *Transformer) LookupTypeNode(tr ast.TypeRef) (ast.Node, error) {
	if typ, ok := tr.(*ast.Type); ok && typ.Target != "" {
		return t.LookupGIName(typ.Target)
	}
	return nil, nil
}

func (t *Transformer) qualify(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return t.ns.Name + "." + name
}

// FollowAliases walks alias chains starting at name and returns the name,
// or fundamental, the chain ends at.
func (t *Transformer) FollowAliases(name string) (string, error) {
	seen := map[string]bool{}
	for {
		seen[t.qualify(name)] = true
		n, err := t.LookupGIName(name)
		if err != nil {
			return "", err
		}
		alias, ok := n.(*ast.Alias)
		if !ok {
			return name, nil
		}
		target, ok := alias.Target.(*ast.Type)
		switch {
		case !ok:
			return name, nil
		case target.Fundamental != "":
			return target.Fundamental, nil
		case target.Target == "":
			return name, nil
		case seen[t.qualify(target.Target)]:
			return "", fmt.Errorf("%w: %q", ErrAliasCycle, name)
		}
		name = target.Target
	}
}
