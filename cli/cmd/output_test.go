package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		text string
		want any
	}{
		{"true", true},
		{"false", false},
		{"42", 42.0},
		{"-1.5", -1.5},
		{".5", 0.5},
		{"+3", 3.0},
		{`"42"`, "42"},
		{`"a\tb"`, "a\tb"},
		{`"unterminated`, `"unterminated`},
		{"1.2.3", "1.2.3"},
		{"TRUE", "TRUE"},
		{"hello", "hello"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := parseValue(tt.text); got != tt.want {
				t.Errorf("parseValue(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLoadVars(t *testing.T) {
	dir := t.TempDir()

	base := writeFile(t, dir, "base.yaml", `
server:
  host: localhost
  port: 8080
debug: false
`)
	override := writeFile(t, dir, "override.yaml", `
server:
  port: 9090
name: lala
`)

	tests := []struct {
		name    string
		files   []string
		assigns map[string]string
		want    map[string]any
		wantErr error
	}{
		{
			name: "empty",
			want: map[string]any{},
		},
		{
			name:  "files merge in order",
			files: []string{base, override},
			want: map[string]any{
				"server": map[string]any{"host": "localhost", "port": 9090.0},
				"debug":  false,
				"name":   "lala",
			},
		},
		{
			name:    "assignments override files",
			files:   []string{base},
			assigns: map[string]string{"server.port": "1", "debug": "true", "extra.on": "yes"},
			want: map[string]any{
				"server": map[string]any{"host": "localhost", "port": 1.0},
				"debug":  true,
				"extra":  map[string]any{"on": "yes"},
			},
		},
		{
			name:    "string slot keeps string type",
			files:   []string{override},
			assigns: map[string]string{"name": "7"},
			want: map[string]any{
				"server": map[string]any{"port": 9090.0},
				"name":   "7",
			},
		},
		{
			name:    "empty path",
			assigns: map[string]string{"": "1"},
			wantErr: ErrVarAssign,
		},
		{
			name:    "empty segment",
			assigns: map[string]string{"a..b": "1"},
			wantErr: ErrVarAssign,
		},
		{
			name:    "missing file",
			files:   []string{filepath.Join(dir, "absent.yaml")},
			wantErr: ErrReadVars,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loadVars(tt.files, tt.assigns)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if diff := pretty.Compare(got, tt.want); diff != "" {
				t.Errorf("variables (-got +want):\n%s", diff)
			}
		})
	}
}

func TestWriteVariables(t *testing.T) {
	var buf bytes.Buffer

	err := writeVariables(&buf, map[string]any{
		"b":     "two words",
		"a":     map[string]any{"y": true, "x": 1.5},
		"empty": map[string]any{},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := `a.x = 1.5
a.y = true
b = "two words"
empty = {}
`

	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteValue(t *testing.T) {
	v := map[string]any{"a": map[string]any{"b": 1.5}}

	tests := []struct {
		format string
		indent int
		want   string
	}{
		{OutputJSON, 0, "{\"a\":{\"b\":1.5}}\n"},
		{OutputJSON, 2, "{\n  \"a\": {\n    \"b\": 1.5\n  }\n}\n"},
		{OutputYAML, 2, "a:\n  b: 1.5\n"},
		{OutputYAML, 4, "a:\n    b: 1.5\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		if err := writeValue(&buf, tt.format, v, tt.indent); err != nil {
			t.Fatalf("%s/%d: %v", tt.format, tt.indent, err)
		}

		if buf.String() != tt.want {
			t.Errorf("%s/%d: got %q, want %q", tt.format, tt.indent, buf.String(), tt.want)
		}
	}
}
