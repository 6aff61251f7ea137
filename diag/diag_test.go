package diag_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/susji/girscan/diag"
	"github.com/susji/girscan/span"
	"github.com/susji/girscan/testers/assert"
	"github.com/susji/girscan/testers/require"
)

func TestFormat(t *testing.T) {
	type entry struct {
		name      string
		sev       diag.Severity
		positions span.Positions
		prefix    string
		want      string
	}
	table := []entry{
		{
			name: "unknown",
			sev:  diag.SEVERITY_WARNING,
			want: "<unknown>:: warning: Foo: something\n",
		},
		{
			name:      "single",
			sev:       diag.SEVERITY_WARNING,
			positions: span.Positions{span.New("/src/foo.h", 10, -1)},
			prefix:    "symbol='foo_bar'",
			want:      "foo.h:10: warning: Foo: symbol='foo_bar': something\n",
		},
		{
			name: "multiple",
			sev:  diag.SEVERITY_ERROR,
			positions: span.Positions{
				span.New("/src/foo.h", 10, 2),
				span.New("/elsewhere/bar.h", -1, -1),
				span.New("/src/baz.h", 3, -1),
			},
			want: "foo.h:10:2:\n/elsewhere/bar.h::\nbaz.h:3: error: Foo: something\n",
		},
	}
	l := diag.New(&bytes.Buffer{}, "Foo", "/src")
	for _, cur := range table {
		t.Run(cur.name, func(t *testing.T) {
			assert.Equal(t, cur.want, l.Format(cur.sev, "something", cur.positions, cur.prefix))
		})
	}
}

func TestWarnQuiet(t *testing.T) {
	b := &bytes.Buffer{}
	l := diag.New(b, "Foo", "")
	assert.False(t, l.Warned())
	assert.Nil(t, l.Warn("quiet", nil, ""))
	assert.True(t, l.Warned())
	assert.Equal(t, "", b.String())
}

func TestWarnVerbose(t *testing.T) {
	b := &bytes.Buffer{}
	l := diag.New(b, "Foo", "")
	l.Verbose = true
	assert.Nil(t, l.Warnf("loud %d", 1))
	assert.Equal(t, "<unknown>:: warning: Foo: loud 1\n", b.String())
}

func TestNote(t *testing.T) {
	type entry struct {
		verbose bool
		want    string
	}
	table := []entry{
		{false, ""},
		{true, "foo.h:2: note: Foo: symbol=\"x\": skipped\n"},
	}
	for _, e := range table {
		t.Run(fmt.Sprint(e.verbose), func(t *testing.T) {
			b := &bytes.Buffer{}
			l := diag.New(b, "Foo", "")
			l.Verbose = e.verbose
			l.Note("skipped", span.Positions{span.New("foo.h", 2, -1)}, `symbol="x"`)
			assert.False(t, l.Warned())
			assert.Equal(t, e.want, b.String())
		})
	}
}

func TestError(t *testing.T) {
	b := &bytes.Buffer{}
	l := diag.New(b, "Foo", "")
	err := l.Error("broken", span.Positions{span.New("foo.h", 1, -1)}, "")
	require.NotNil(t, err)
	var fe *diag.FatalError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "broken", fe.Text)
	assert.Equal(t, "Foo: broken", err.Error())
	assert.Equal(t, "foo.h:1: error: Foo: broken\n", b.String())
}

func TestFatalWarnings(t *testing.T) {
	b := &bytes.Buffer{}
	l := diag.New(b, "Foo", "")
	l.FatalWarnings = true
	err := l.Warn("escalated", nil, "")
	require.NotNil(t, err)
	assert.Equal(t, "<unknown>:: error: Foo: escalated\n", b.String())
}
