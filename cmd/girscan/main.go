// girscan builds a namespace from the DWARF debug info of a C library and
// prints it, or the results of a jq filter over its JSON dump.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/susji/girscan/ast"
	"github.com/susji/girscan/config"
	"github.com/susji/girscan/diag"
	"github.com/susji/girscan/dwarfsrc"
	"github.com/susji/girscan/gir"
	"github.com/susji/girscan/include"
	"github.com/susji/girscan/symbol"
	"github.com/susji/girscan/transform"
)

func fatal(f string, va ...interface{}) {
	fmt.Fprintf(os.Stderr, "fatal: "+f+"\n", va...)
	os.Exit(1)
}

func note(verbose bool, f string, va ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[] "+f+"\n", va...)
	}
}

// list collects a repeatable flag. Commas separate values too.
type list []string

func (l *list) String() string {
	return strings.Join(*l, ",")
}

func (l *list) Set(v string) error {
	for _, s := range strings.Split(v, ",") {
		if s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}

type flags struct {
	configpath       string
	binary           string
	namespace        string
	version          string
	symbolprefixes   list
	identprefixes    list
	includes         list
	includepaths     list
	acceptunprefixed bool
	verbose          bool
	fatalwarnings    bool
	query            string
}

// configure merges the command line over the configuration file.
func configure(fl *flags) (*config.Config, error) {
	c := &config.Config{}
	if fl.configpath != "" {
		var err error
		if c, err = config.Load(fl.configpath); err != nil {
			return nil, err
		}
	}
	if fl.namespace != "" {
		c.Namespace = fl.namespace
	}
	if fl.version != "" {
		c.Version = fl.version
	}
	if len(fl.symbolprefixes) > 0 {
		c.SymbolPrefixes = fl.symbolprefixes
	}
	if len(fl.identprefixes) > 0 {
		c.IdentifierPrefixes = fl.identprefixes
	}
	c.Includes = append(c.Includes, fl.includes...)
	c.IncludePaths = append(c.IncludePaths, fl.includepaths...)
	c.AcceptUnprefixed = c.AcceptUnprefixed || fl.acceptunprefixed
	c.Verbose = c.Verbose || fl.verbose
	c.FatalWarnings = c.FatalWarnings || fl.fatalwarnings
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// scan registers the configured includes and transforms the symbols.
func scan(c *config.Config, parser include.Parser, syms []*symbol.Symbol, stderr io.Writer) (*transform.Transformer, error) {
	cwd, _ := os.Getwd()
	log := diag.New(stderr, c.Namespace, cwd)
	log.Verbose = c.Verbose
	log.FatalWarnings = c.FatalWarnings

	t := transform.New(c.EmptyNamespace(), log, transform.Options{
		AcceptUnprefixed: c.AcceptUnprefixed,
		Finder:           include.DefaultFinder(c.IncludePaths),
		Parser:           parser,
	})
	incs, err := c.ParsedIncludes()
	if err != nil {
		return nil, err
	}
	for _, inc := range incs {
		if err := t.RegisterInclude(inc); err != nil {
			return nil, err
		}
	}
	if err := t.Parse(syms); err != nil {
		return nil, err
	}
	return t, nil
}

// query runs a jq filter over the namespace dump and writes one JSON value
// per line.
func query(src string, ns *ast.Namespace, w io.Writer) error {
	q, err := gojq.Parse(src)
	if err != nil {
		return fmt.Errorf("query %q: %w", src, err)
	}
	iter := q.Run(ns.Dump())
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, ok := v.(error); ok {
			return fmt.Errorf("query %q: %w", src, err)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n", b); err != nil {
			return err
		}
	}
}

func dump(ns *ast.Namespace, w io.Writer) error {
	for _, n := range ns.Nodes() {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	fl := &flags{}
	flag.StringVar(&fl.configpath, "config", "", "YAML scan configuration")
	flag.StringVar(&fl.binary, "binary", "", "ELF object with DWARF debug info")
	flag.StringVar(&fl.namespace, "namespace", "", "namespace name")
	flag.StringVar(&fl.version, "version", "", "namespace version")
	flag.Var(&fl.symbolprefixes, "symbol-prefix", "symbol prefix, repeatable")
	flag.Var(&fl.identprefixes, "identifier-prefix", "identifier prefix, repeatable")
	flag.Var(&fl.includes, "include", "included namespace as Name-Version, repeatable")
	flag.Var(&fl.includepaths, "include-path", "extra directory searched for includes, repeatable")
	flag.BoolVar(&fl.acceptunprefixed, "accept-unprefixed", false, "attribute unprefixed names to the namespace")
	flag.BoolVar(&fl.verbose, "v", false, "print warnings")
	flag.BoolVar(&fl.fatalwarnings, "fatal-warnings", false, "treat warnings as errors")
	flag.StringVar(&fl.query, "query", "", "jq filter over the JSON dump")
	flag.Parse()

	if fl.binary == "" {
		fmt.Fprintln(os.Stderr, "error: -binary flag is required")
		flag.Usage()
		os.Exit(1)
	}
	c, err := configure(fl)
	if err != nil {
		fatal("configuration: %s", err)
	}
	src, err := dwarfsrc.LoadELF(fl.binary)
	if err != nil {
		fatal("%s", err)
	}
	syms, err := src.Symbols()
	if err != nil {
		fatal("%s: %s", fl.binary, err)
	}
	note(c.Verbose, "%d symbols from %s", len(syms), fl.binary)

	t, err := scan(c, gir.Parser{}, syms, os.Stderr)
	if err != nil {
		// Fatal diagnostics have been printed already.
		var fe *diag.FatalError
		if errors.As(err, &fe) {
			os.Exit(1)
		}
		fatal("%s", err)
	}
	note(c.Verbose, "%d nodes, warnings: %t", t.Namespace().Len(), t.Warned())

	if fl.query != "" {
		err = query(fl.query, t.Namespace(), os.Stdout)
	} else {
		err = dump(t.Namespace(), os.Stdout)
	}
	if err != nil {
		fatal("%s", err)
	}
}
