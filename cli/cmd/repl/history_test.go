package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)
	h := NewHistory(path)

	steps := []struct {
		line string
		mode inputMode
	}{
		{"x = 1", modeEval},
		{"  ", modeEval},
		{"list", modeCtrl},
		{"list", modeCtrl},
		{"y = 2", modeEval},
		{"x = 1", modeEval},
	}

	for _, s := range steps {
		if err := h.Write(s.line, s.mode); err != nil {
			t.Fatalf("Write(%q): %v", s.line, err)
		}
	}

	want := []HistoryEntry{
		{Line: "list", Mode: modeCtrl},
		{Line: "y = 2", Mode: modeEval},
		{Line: "x = 1", Mode: modeEval},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "C:list\nE:y = 2\nE:x = 1\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatal(err)
	}

	if got := loaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("loaded entries = %v, want %v", got, want)
	}
}

func TestHistory_Load(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		h := NewHistory(filepath.Join(t.TempDir(), "absent"))
		if err := h.Load(); err != nil {
			t.Fatalf("Load: %v", err)
		}

		if h.Len() != 0 {
			t.Errorf("Len = %d, want 0", h.Len())
		}
	})

	t.Run("unprefixed_lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), HistoryFile)
		if err := os.WriteFile(path, []byte("a + 1\n\nC:help\nE:b\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		h := NewHistory(path)
		if err := h.Load(); err != nil {
			t.Fatal(err)
		}

		want := []HistoryEntry{
			{Line: "a + 1", Mode: modeEval},
			{Line: "help", Mode: modeCtrl},
			{Line: "b", Mode: modeEval},
		}

		if got := h.Entries(); !slices.Equal(got, want) {
			t.Errorf("entries = %v, want %v", got, want)
		}
	})
}

func TestHistory_Entry(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), HistoryFile))
	if err := h.Write("x", modeEval); err != nil {
		t.Fatal(err)
	}

	if e, err := h.Entry(0); err != nil || e.Line != "x" {
		t.Errorf("Entry(0) = %v, %v", e, err)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}
}
