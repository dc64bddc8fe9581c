package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/lala/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

var defaultDirMode os.FileMode = 0o700

// basePrefix returns the name used for the configuration and cache
// directories: the base name of the executable, without extension.
//
// Debugger builds ("__debug_bin1234") use [pkg.Name], and leading dots are
// removed.
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))

		id = regexp.MustCompile(`^__debug_bin\d*$`).ReplaceAllString(id, pkg.Name)
		id = strings.TrimLeft(id, ".")

		if id == "" {
			return pkg.Name
		}

		return id
	},
)

// userDir returns the directory from base, or from the given subdirectory of
// the home directory when base fails, or the working directory as a last
// resort.
func userDir(base func() (string, error), home string) string {
	dir, err := base()
	if err != nil {
		if dir, err = os.UserHomeDir(); err == nil {
			dir = filepath.Join(dir, home)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

// pathEnv is the environment variable listing script directories.
func pathEnv() string { return pkg.Prefix() + "PATH" }

// searchPath returns the directories searched for scripts given by bare
// name: include first, then each entry of $LALA_PATH, then the configuration
// directory. Entries that are not directories are dropped.
func searchPath(include ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(pathEnv())),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(include...),
	).String()

	var dirs []string

	for _, dir := range append(filepath.SplitList(list), configDir()) {
		if dir == "" {
			continue
		}

		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}
