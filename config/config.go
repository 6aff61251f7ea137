// package config reads the description of one scan: the namespace being
// built, its prefixes and the namespaces it includes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/susji/girscan/ast"
	"github.com/susji/girscan/include"
)

var (
	ErrNoNamespace = errors.New("namespace name missing")
	ErrBadInclude  = errors.New("include must look like Name-Version")
)

type Config struct {
	Namespace          string   `yaml:"namespace"`
	Version            string   `yaml:"version"`
	IdentifierPrefixes []string `yaml:"identifier_prefixes"`
	SymbolPrefixes     []string `yaml:"symbol_prefixes"`
	IncludePaths       []string `yaml:"include_paths"`
	Includes           []string `yaml:"includes"`
	AcceptUnprefixed   bool     `yaml:"accept_unprefixed"`
	Verbose            bool     `yaml:"verbose"`
	FatalWarnings      bool     `yaml:"fatal_warnings"`
}

// Load reads a configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML configuration. Unknown keys are rejected.
func Parse(b []byte) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	// An empty document leaves everything at defaults.
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return c, nil
}

// Validate checks the fields EmptyNamespace and ParsedIncludes need.
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return ErrNoNamespace
	}
	_, err := c.ParsedIncludes()
	return err
}

// EmptyNamespace returns an empty namespace as configured. Prefixes default to
// ones derived from the namespace name.
func (c *Config) EmptyNamespace() *ast.Namespace {
	idents := c.IdentifierPrefixes
	if len(idents) == 0 {
		idents = ast.DefaultIdentifierPrefixes(c.Namespace)
	}
	syms := c.SymbolPrefixes
	if len(syms) == 0 {
		syms = ast.DefaultSymbolPrefixes(c.Namespace)
	}
	return ast.NewNamespace(c.Namespace, c.Version, idents, syms)
}

// ParsedIncludes splits each include at its last dash.
func (c *Config) ParsedIncludes() ([]include.Include, error) {
	ret := []include.Include{}
	for _, inc := range c.Includes {
		i := strings.LastIndex(inc, "-")
		if i <= 0 || i == len(inc)-1 {
			return nil, fmt.Errorf("%w: %q", ErrBadInclude, inc)
		}
		ret = append(ret, include.Include{Name: inc[:i], Version: inc[i+1:]})
	}
	return ret, nil
}
