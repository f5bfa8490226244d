package terminal

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

func TestConfirm(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		def   string
		want  bool
	}{
		{name: "yes", input: "y\n", def: "n", want: true},
		{name: "long yes", input: "YES\n", def: "n", want: true},
		{name: "no", input: "n\n", def: "y", want: false},
		{name: "default yes", input: "\n", def: "y", want: true},
		{name: "default no", input: "\n", def: "n", want: false},
		{name: "retry after invalid", input: "maybe\ny\n", def: "n", want: true},
		{name: "eof", input: "", def: "y", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out strings.Builder
			got := Confirm(strings.NewReader(tt.input), &out, "Proceed?", tt.def)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Proceed?")
		})
	}
}

func TestConfirmShowsDefault(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	Confirm(strings.NewReader("\n"), &out, "Delete?", "y")
	assert.Contains(t, out.String(), "[Y/n]")

	out.Reset()
	Confirm(strings.NewReader("\n"), &out, "Delete?", "n")
	assert.Contains(t, out.String(), "[y/N]")
}

func TestReadAll(t *testing.T) {
	t.Parallel()
	got, err := readAll(strings.NewReader("hello\nworld\n\n"))
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", got)
}

func TestTagSuggestions(t *testing.T) {
	t.Parallel()
	sg := tagSuggestions(map[string]int{"go": 3})
	require.Len(t, sg, 1)
	assert.Equal(t, "go", sg[0].Text)
	assert.Equal(t, "(3)", sg[0].Description)
}

func TestWidth(t *testing.T) {
	t.Parallel()
	w := Width(80)
	assert.Positive(t, w)
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		assert.Equal(t, 80, w)
	}
}
