package transform_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/susji/girscan/ast"
	"github.com/susji/girscan/gir"
	"github.com/susji/girscan/testers/assert"
	"github.com/susji/girscan/testers/require"
	"github.com/susji/girscan/transform"
)

func TestCanonicalize(t *testing.T) {
	type entry struct {
		ctype string
		want  string
	}
	table := []entry{
		{"int", "gint"},
		{"int*", "gint*"},
		{"char*", "utf8"},
		{"char**", "utf8*"},
		{"void*", "gpointer"},
		{"void**", "gpointer*"},
		{"size_t", "gulong"},
		{"FooBar*", "FooBar*"},
		{"GObject", "GObject"},
	}
	for _, e := range table {
		t.Run(e.ctype, func(t *testing.T) {
			got := transform.Canonicalize(e.ctype)
			assert.Equal(t, e.want, got)
			assert.Equal(t, got, transform.Canonicalize(got))
		})
	}
}

func TestParseCType(t *testing.T) {
	type entry struct {
		ctype    string
		isMember bool
		want     string
	}
	table := []entry{
		{"int", false, "gint"},
		{"int**", false, "gint"},
		{"int*", true, "gpointer"},
		{"FooBar*", true, "FooBar"},
		{"FooBar**", false, "FooBar"},
		{"char*", true, "utf8"},
	}
	for _, e := range table {
		t.Run(e.ctype, func(t *testing.T) {
			assert.Equal(t, e.want, transform.ParseCType(e.ctype, e.isMember))
		})
	}
}

func TestParseCTypePointerRoundTrip(t *testing.T) {
	for _, ctype := range []string{"FooBar", "gint", "GObject", "unsigned long"} {
		base := transform.ParseCType(ctype, false)
		assert.Equal(t, base, transform.ParseCType(ctype+"*", false))
		assert.Equal(t, base, transform.ParseCType(ctype+"**", false))
	}
}

func TestTypeFromCTypeContainers(t *testing.T) {
	list, ok := transform.TypeFromCType("GList*", false, true, false).(*ast.List)
	require.True(t, ok)
	assert.Equal(t, "GLib.List", list.Name)
	assert.Equal(t, ast.TYPE_ANY, list.Element.(*ast.Type).Fundamental)

	slist, ok := transform.TypeFromCType("GSList*", true, true, false).(*ast.List)
	require.True(t, ok)
	assert.Equal(t, "GLib.SList", slist.Name)
	assert.True(t, slist.IsConst)

	arr, ok := transform.TypeFromCType("GPtrArray*", false, false, true).(*ast.Array)
	require.True(t, ok)
	assert.Equal(t, "GLib.PtrArray", arr.Name)
	assert.Equal(t, "GPtrArray*", arr.CType)

	m, ok := transform.TypeFromCType("GHashTable*", false, false, false).(*ast.Map)
	require.True(t, ok)
	assert.Equal(t, ast.TYPE_ANY, m.Key.(*ast.Type).Fundamental)
	assert.Equal(t, ast.TYPE_ANY, m.Value.(*ast.Type).Fundamental)

	strv, ok := transform.TypeFromCType("GStrv", false, true, false).(*ast.Array)
	require.True(t, ok)
	assert.Equal(t, ast.TYPE_STRING, strv.Element.(*ast.Type).Fundamental)
	assert.True(t, strv.ZeroTerminated)

	// Only returned string vectors become arrays.
	param := transform.TypeFromCType("char**", false, true, false).(*ast.Type)
	assert.Equal(t, ast.TYPE_STRING, param.Fundamental)

	raw := transform.TypeFromCType("FooBar*", false, true, false).(*ast.Type)
	assert.False(t, raw.Resolved())
	assert.Equal(t, "FooBar*", raw.CType)
}

func TestResolveType(t *testing.T) {
	tr, _ := newTransformer(transform.Options{})
	require.Nil(t, tr.Namespace().Append(ast.NewRecord("Bar", "FooBar", false)))
	gtk := ast.NewNamespace("Gtk", "3.0", []string{"Gtk"}, []string{"gtk"})
	require.Nil(t, gtk.Append(ast.NewClass("Widget", "GtkWidget", "GtkWidget", "")))
	require.Nil(t, gtk.Append(ast.NewEnum("Align", "GtkAlign", nil)))
	tr.AddInclude(gtk)

	type entry struct {
		name   string
		typ    *ast.Type
		ok     bool
		target string
	}
	table := []entry{
		{"local", &ast.Type{CType: "FooBar*"}, true, "Foo.Bar"},
		{"include", &ast.Type{CType: "GtkWidget*"}, true, "Gtk.Widget"},
		{"missing", &ast.Type{CType: "FooNothing"}, false, ""},
		{"gtype", transform.TypeFromGTypeName("GtkWidget"), true, "Gtk.Widget"},
		{"gtype missing", transform.TypeFromGTypeName("GtkNothing"), false, ""},
		{"fundamental", transform.TypeFromGTypeName("gint"), true, ""},
	}
	for _, e := range table {
		t.Run(e.name, func(t *testing.T) {
			ok, err := tr.ResolveType(e.typ)
			require.Nil(t, err)
			assert.Equal(t, e.ok, ok)
			assert.Equal(t, e.target, e.typ.Target)
		})
	}

	// Resolving again changes nothing.
	typ := &ast.Type{CType: "FooBar*"}
	for i := 0; i < 2; i++ {
		ok, err := tr.ResolveType(typ)
		require.Nil(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Foo.Bar", typ.Target)
	}

	n, err := tr.LookupTypeNode(typ)
	require.Nil(t, err)
	assert.Equal(t, "Bar", n.Name())
}

func TestResolveTypeComposite(t *testing.T) {
	tr, _ := newTransformer(transform.Options{})
	require.Nil(t, tr.Namespace().Append(ast.NewRecord("Bar", "FooBar", false)))

	list := &ast.List{Name: "GLib.List", Element: &ast.Type{CType: "FooBar*"}}
	ok, err := tr.ResolveType(list)
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Foo.Bar", list.Element.(*ast.Type).Target)

	m := &ast.Map{Key: ast.NewFundamental(ast.TYPE_STRING), Value: &ast.Type{CType: "FooMissing"}}
	ok, err = tr.ResolveType(m)
	require.Nil(t, err)
	assert.False(t, ok)
}

func TestResolveTypeUnknownNamespace(t *testing.T) {
	tr, _ := newTransformer(transform.Options{})
	_, err := tr.ResolveType(&ast.Type{CType: "XyzThing*"})
	var rerr *transform.TypeResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "XyzThing*", rerr.CType)
	assert.ErrorIs(t, err, transform.ErrUnknownNamespace)
}

func TestResolveTypeAfterInclude(t *testing.T) {
	tr, _ := newTransformer(transform.Options{})
	typ := &ast.Type{CType: "GBytes*"}
	ok, err := tr.ResolveType(typ)
	var rerr *transform.TypeResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.False(t, ok)

	glib := ast.NewNamespace("GLib", "2.0", []string{"G"}, []string{"g"})
	require.Nil(t, glib.Append(ast.NewRecord("Bytes", "GBytes", false)))
	tr.AddInclude(glib)

	ok, err = tr.ResolveType(typ)
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "GLib.Bytes", typ.Target)
}

const boxedRepo = `<repository xmlns="http://www.gtk.org/introspection/core/1.0"
            xmlns:c="http://www.gtk.org/introspection/c/1.0"
            xmlns:glib="http://www.gtk.org/introspection/glib/1.0">
  <namespace name="GLib" version="2.0" c:identifier-prefixes="G" c:symbol-prefixes="g">
    <record name="Bytes" c:type="GBytes" glib:type-name="GBytes"/>
    <record name="Plain" c:type="GPlain"/>
    <union name="Mutex" c:type="GMutex" glib:type-name="GMutex"/>
  </namespace>
</repository>`

func TestResolveBoxedFromInclude(t *testing.T) {
	d, err := gir.Read(strings.NewReader(boxedRepo))
	require.Nil(t, err)
	tr, _ := newTransformer(transform.Options{})
	tr.AddInclude(d.Namespace)

	type entry struct {
		gtype  string
		ok     bool
		target string
	}
	table := []entry{
		{"GBytes", true, "GLib.Bytes"},
		{"GMutex", true, "GLib.Mutex"},
		{"GPlain", false, ""},
	}
	for _, e := range table {
		t.Run(e.gtype, func(t *testing.T) {
			typ := transform.TypeFromGTypeName(e.gtype)
			ok, err := tr.ResolveType(typ)
			require.Nil(t, err)
			assert.Equal(t, e.ok, ok)
			assert.Equal(t, e.target, typ.Target)
		})
	}
}

func TestTypeFromUserString(t *testing.T) {
	tr, _ := newTransformer(transform.Options{})
	require.Nil(t, tr.Namespace().Append(ast.NewRecord("Bar", "FooBar", false)))

	got, err := tr.TypeFromUserString("Gio.File")
	require.Nil(t, err)
	assert.Equal(t, "Gio.File", got.(*ast.Type).Target)

	got, err = tr.TypeFromUserString("GLib.HashTable")
	require.Nil(t, err)
	_, ok := got.(*ast.Map)
	assert.True(t, ok)

	got, err = tr.TypeFromUserString("int")
	require.Nil(t, err)
	assert.Equal(t, ast.TYPE_INT, got.(*ast.Type).Fundamental)
	assert.Equal(t, "", got.(*ast.Type).CType)

	got, err = tr.TypeFromUserString("FooBar")
	require.Nil(t, err)
	assert.Equal(t, "Foo.Bar", got.(*ast.Type).Target)
	assert.Equal(t, "", got.(*ast.Type).CType)
}
