package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lala/lang"
	"github.com/ardnew/lala/log"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	searchPathKey struct{}
	languageKey   struct{}
)

// WithSearchPath returns a new context.Context containing the directories
// searched for scripts given by bare name.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// WithLanguage returns a new context.Context containing the language used
// by every command. Without one, commands use [lang.Default].
func WithLanguage(ctx context.Context, l *lang.Language) context.Context {
	return context.WithValue(ctx, languageKey{}, l)
}

// languageFrom returns the language stored in ctx, logging through the
// package logger.
func languageFrom(ctx context.Context) *lang.Language {
	l, ok := ctx.Value(languageKey{}).(*lang.Language)
	if !ok || l == nil {
		l = lang.Default()
	}

	return l.With(lang.WithLogger(log.Default()))
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// ScriptExt is the file extension of lala scripts.
const ScriptExt = ".lala"

// resolveScript returns the path of the script named name.
//
// Names containing a path separator, and names of existing files, are used
// as given. Otherwise each directory of the search path is tried in order,
// first with name itself and then with [ScriptExt] appended.
func resolveScript(ctx context.Context, name string) (string, error) {
	if name == stdinSource || strings.ContainsRune(name, filepath.Separator) {
		return name, nil
	}

	if isFile(name) {
		return name, nil
	}

	for _, dir := range searchPathFrom(ctx) {
		for _, cand := range []string{name, name + ScriptExt} {
			if path := filepath.Join(dir, cand); isFile(path) {
				return path, nil
			}
		}
	}

	return "", ErrScriptNotFound.With(slog.String("name", name))
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// readScript returns the text of the named script, reading standard input
// for "-".
func readScript(ctx context.Context, name string, stdin io.Reader) (text, path string, err error) {
	if path, err = resolveScript(ctx, name); err != nil {
		return "", "", err
	}

	if path == stdinSource {
		text, err = lang.ReadSource(stdin)

		return text, path, err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", path, ErrReadScript.With(slog.String("file", path)).Wrap(err)
	}
	defer f.Close()

	text, err = lang.ReadSource(f)

	return text, path, err
}

// fileKey uniquely identifies a file by its device and inode numbers.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueSources drops repeated names from sources, including different
// names of the same file (relative paths, symlinks and hard links). Every
// "-" after the first is dropped. Names that cannot be resolved are kept,
// so that reading them reports the error.
func uniqueSources(sources []string) []string {
	seen := make(map[fileKey]struct{})
	out := make([]string, 0, len(sources))

	stdin := false

	for _, src := range sources {
		if src == stdinSource {
			if !stdin {
				out = append(out, src)
				stdin = true
			}

			continue
		}

		info, err := os.Stat(src)
		if err != nil {
			out = append(out, src)

			continue
		}

		key, ok := makeFileKey(info)
		if !ok {
			out = append(out, src)

			continue
		}

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, src)
	}

	return out
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// stdoutFrom returns the standard output writer of the kong application in
// ctx, or os.Stdout.
func stdoutFrom(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderrFrom returns the standard error writer of the kong application in
// ctx, or os.Stderr.
func stderrFrom(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}
