package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestPathEnv(t *testing.T) {
	if got := pathEnv(); got != "LALA_PATH" {
		t.Errorf("pathEnv() = %q, want %q", got, "LALA_PATH")
	}
}

func TestSearchPath(t *testing.T) {
	root := t.TempDir()

	dir := func(name string) string {
		path := filepath.Join(root, name)
		if err := os.Mkdir(path, 0o755); err != nil {
			t.Fatal(err)
		}

		return path
	}

	inc, env1, env2 := dir("include"), dir("env1"), dir("env2")
	missing := filepath.Join(root, "missing")

	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	sep := string(os.PathListSeparator)
	t.Setenv(pathEnv(), strings.Join([]string{env1, missing, file, "", env2}, sep))

	got := searchPath(inc)

	want := []string{inc, env1, env2}
	if len(got) < len(want) {
		t.Fatalf("searchPath = %v, want prefix %v", got, want)
	}

	if diff := pretty.Compare(got[:len(want)], want); diff != "" {
		t.Errorf("searchPath (-got +want):\n%s", diff)
	}

	// the configuration directory is searched last, when it exists
	if len(got) > len(want) && got[len(got)-1] != configDir() {
		t.Errorf("last entry = %q, want %q", got[len(got)-1], configDir())
	}
}

func TestUserDir(t *testing.T) {
	base := func(dir string, err error) func() (string, error) {
		return func() (string, error) { return dir, err }
	}

	if got, want := userDir(base("/cfg", nil), ".config"), filepath.Join("/cfg", basePrefix()); got != want {
		t.Errorf("userDir = %q, want %q", got, want)
	}

	t.Setenv("HOME", "/home/someone")

	got := userDir(base("", os.ErrNotExist), ".cache")
	if want := filepath.Join("/home/someone", ".cache", basePrefix()); got != want {
		t.Errorf("userDir fallback = %q, want %q", got, want)
	}
}
