// Package include locates and loads the descriptions of namespaces a library
// depends on. Parsing the description format itself is left to a Parser.
package include

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/susji/girscan/ast"
)

const (
	Suffix = "gir"
	SubDir = "gir-1.0"
	// SysDir is the built-in directory consulted last.
	SysDir = "/usr/share/gir-1.0"
)

// Include names a versioned namespace.
type Include struct {
	Name    string
	Version string
}

func (i Include) String() string {
	return fmt.Sprintf("%s-%s", i.Name, i.Version)
}

// Filename is the description file name searched for.
func (i Include) Filename() string {
	return fmt.Sprintf("%s.%s", i, Suffix)
}

// Description is a parsed namespace description.
type Description struct {
	Includes  []Include
	Packages  []string
	Namespace *ast.Namespace
}

// Parser reads a description from a file.
type Parser interface {
	Parse(path string) (*Description, error)
}

// Cache memoizes parsed descriptions by path.
type Cache interface {
	Load(path string) (*Description, bool)
	Store(path string, d *Description)
}

// NotFoundError is returned when no search directory holds an include.
type NotFoundError struct {
	Filename string
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Couldn't find include %q (search path: %q)", e.Filename, e.Searched)
}

// Finder searches Paths first, then DataDirs (each with SubDir appended), and
// finally SysDir.
type Finder struct {
	Paths    []string
	DataDirs []string
	SysDir   string
}

// DefaultFinder returns a Finder using XDG_DATA_DIRS and the usual fallbacks.
func DefaultFinder(paths []string) *Finder {
	return &Finder{
		Paths:    paths,
		DataDirs: DataDirs(os.Getenv("XDG_DATA_DIRS")),
		SysDir:   SysDir,
	}
}

// DataDirs splits a colon-separated directory list and appends the two fixed
// fallbacks. Empty entries are dropped.
func DataDirs(env string) []string {
	ret := []string{}
	for _, dir := range append(strings.Split(env, ":"), "/usr/local/share", "/usr/share") {
		if dir != "" {
			ret = append(ret, dir)
		}
	}
	return ret
}

// SearchPath lists the directories Find looks into, in order.
func (f *Finder) SearchPath() []string {
	dirs := append([]string{}, f.Paths...)
	for _, dir := range f.DataDirs {
		dirs = append(dirs, filepath.Join(dir, SubDir))
	}
	if f.SysDir != "" {
		dirs = append(dirs, f.SysDir)
	}
	return dirs
}

// Find returns the path of the first matching description file.
func (f *Finder) Find(inc Include) (string, error) {
	fn := inc.Filename()
	dirs := f.SearchPath()
	for _, dir := range dirs {
		path := filepath.Join(dir, fn)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", &NotFoundError{Filename: fn, Searched: dirs}
}

// MemoryCache is a Cache living as long as the process.
type MemoryCache struct {
	descs map[string]*Description
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{descs: map[string]*Description{}}
}

func (c *MemoryCache) Load(path string) (*Description, bool) {
	d, ok := c.descs[path]
	return d, ok
}

func (c *MemoryCache) Store(path string, d *Description) {
	c.descs[path] = d
}
