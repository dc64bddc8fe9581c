package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/lala/lang"
)

// loadScript returns a [kong.ConfigurationLoader] for configuration files
// written in lala itself.
//
// The script runs against an empty environment, and every leaf variable it
// assigns becomes the default of the flag with the same name, after dots
// and underscores are replaced by hyphens:
//
//	log.level = "debug"
//	log.time_layout = "kitchen"
//	if (year() > 2030) { log.pretty = false }
//
// is equivalent to
//
//	--log-level=debug --log-time-layout=kitchen
//
// Command-line flags override configuration values.
func loadScript(ctx context.Context, language *lang.Language) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		text, err := lang.ReadSource(r)
		if err != nil {
			return nil, err
		}

		prog, err := language.Compile(ctx, text)
		if err != nil {
			return nil, err
		}

		res, err := prog.Run(ctx, nil)
		if err != nil {
			return nil, err
		}

		return makeConfig(res.Variables), nil
	}
}

// loadYAML is a [kong.ConfigurationLoader] for YAML configuration files.
// Nested mappings are flattened the same way as in [loadScript]:
//
//	log:
//	  level: debug
//	  time_layout: kitchen
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var vars map[string]any

	err := yaml.NewDecoder(r).Decode(&vars)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return makeConfig(vars), nil
}

// config implements [kong.Resolver] over flattened flag names.
type config map[string]any

// makeConfig flattens the variable tree vars into flag names.
func makeConfig(vars map[string]any) config {
	env := lang.NewEnvironment(vars)
	cfg := make(config)

	for _, path := range env.Paths() {
		value, _ := env.Lookup(lang.ParsePath(path))

		switch v := value.(type) {
		case bool, []any:
			cfg[flagName(path)] = v

		default:
			// kong parses scalar flag values from their text
			cfg[flagName(path)] = lang.Stringify(v)
		}
	}

	return cfg
}

var flagReplacer = strings.NewReplacer(".", "-", "_", "-")

// flagName returns the flag named by a dotted variable path.
func flagName(path string) string { return flagReplacer.Replace(path) }

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flagName(flag.Name)]; ok {
		return value, nil
	}

	return nil, nil
}
