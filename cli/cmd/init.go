package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lala/lang"
	"github.com/ardnew/lala/log"
	"github.com/ardnew/lala/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a configuration file holding the current flag values.
type Init struct {
	Force  bool   `help:"Overwrite existing configuration file" short:"f"`
	Format string `help:"Configuration file format"              default:"lala" enum:"lala,yaml"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	base, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: configuration path undefined")
	}

	confPath := base + "." + i.Format

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	settings := i.settings(ctx)

	if i.Format == OutputYAML {
		env := lang.NewEnvironment(nil)
		for _, s := range settings {
			env.Assign(lang.ParsePath(s.path), s.value)
		}

		err = writeValue(file, OutputYAML, env.Map(), defaultConfigIndent)
	} else {
		err = i.script(settings).WriteSource(ctx, file, defaultConfigIndent)
	}

	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("settings", len(settings)),
	)

	return nil
}

// setting is one configuration variable and its value.
type setting struct {
	path  string
	value any
}

// settings returns the configurable flags of the application with their
// current values. Help, version, profiling and unset flags are skipped.
func (i *Init) settings(ctx context.Context) []setting {
	ktx := kongContextFrom(ctx)

	var out []setting

	skip := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(skip, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if value := flagValue(ktx.FlagValue(flag)); value != nil {
			out = append(out, setting{path: variablePath(flag), value: value})
		}
	}

	return out
}

// script returns a program assigning every setting.
func (i *Init) script(settings []setting) *lang.Node {
	b := lang.NewBuilder()
	nodes := make([]*lang.Node, 0, len(settings))

	for _, s := range settings {
		var value *lang.Node

		switch v := s.value.(type) {
		case bool:
			value = b.Bool(v)
		case float64:
			value = b.Number(v)
		default:
			value = b.String(fmt.Sprint(v))
		}

		nodes = append(nodes, b.Assign(s.path, value))
	}

	return b.Block(nodes...)
}

// variablePath returns the configuration variable for flag. A flag of a
// group is nested under the group's key, and the remaining hyphens become
// underscores: --log-time-layout is log.time_layout.
func variablePath(flag *kong.Flag) string {
	name := flag.Name

	if flag.Group != nil && flag.Group.Key != "" {
		if rest, ok := strings.CutPrefix(name, flag.Group.Key+"-"); ok {
			return flag.Group.Key + "." + strings.ReplaceAll(rest, "-", "_")
		}
	}

	return strings.ReplaceAll(name, "-", "_")
}

// flagValue converts a flag value to a variable value: a bool, a float64 or
// a string. Slices are joined with commas. Empty values yield nil.
func flagValue(val any) any {
	if val == nil {
		return nil
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())

	case reflect.Float32, reflect.Float64:
		return rv.Float()

	case reflect.Slice:
		if rv.Len() == 0 {
			return nil
		}

		items := make([]string, rv.Len())
		for j := range items {
			items[j] = fmt.Sprint(rv.Index(j).Interface())
		}

		return strings.Join(items, ",")

	case reflect.Map:
		return nil

	default:
		if s := fmt.Sprint(val); s != "" {
			return s
		}

		return nil
	}
}
