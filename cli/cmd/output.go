package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/lala/lang"
)

// Output formats shared by the commands that print values.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// writeValue encodes v to w as JSON or YAML. JSON has no representation
// for infinite or NaN numbers, so they are written as strings.
func writeValue(w io.Writer, format string, v any, indent int) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", strings.Repeat(" ", indent))

		if err := enc.Encode(finite(v)); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil

	default:
		data, err := yaml.MarshalWithOptions(v, yaml.Indent(max(indent, 1)))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err
	}
}

// finite applies [lang.Finite] to the values a command may print.
func finite(v any) any {
	switch x := v.(type) {
	case runOutput:
		x.ReturnValue = lang.Finite(x.ReturnValue)
		x.Variables, _ = lang.Finite(x.Variables).(map[string]any)

		return x
	case lang.Result:
		x.ReturnValue = lang.Finite(x.ReturnValue)
		x.Variables, _ = lang.Finite(x.Variables).(map[string]any)

		return x
	default:
		return lang.Finite(v)
	}
}

// writeVariables writes one "path = value" line per leaf of vars, sorted by
// path. String values are quoted.
func writeVariables(w io.Writer, vars map[string]any) error {
	env := lang.NewEnvironment(vars)

	for _, path := range env.Paths() {
		value, _ := env.Lookup(lang.ParsePath(path))

		if _, err := fmt.Fprintf(w, "%s = %s\n", path, literal(value)); err != nil {
			return err
		}
	}

	return nil
}

// literal renders v as it would be written in a script.
func literal(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case map[string]any:
		if len(x) == 0 {
			return "{}"
		}

		return lang.Stringify(x)
	default:
		return lang.Stringify(x)
	}
}

// loadVars builds the initial variable tree of a run. Each YAML file is
// merged in order, then each assignment is applied in path order, so
// assignments take precedence over files.
func loadVars(files []string, assigns map[string]string) (map[string]any, error) {
	env := lang.NewEnvironment(nil)

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, ErrReadVars.With(slog.String("file", file)).Wrap(err)
		}

		var vars map[string]any
		if err := yaml.Unmarshal(data, &vars); err != nil {
			return nil, ErrReadVars.With(slog.String("file", file)).Wrap(err)
		}

		merge(env, vars)
	}

	for _, key := range slices.Sorted(maps.Keys(assigns)) {
		path := lang.ParsePath(key)
		if len(path) == 0 || slices.Contains(path, "") {
			return nil, ErrVarAssign.With(slog.String("name", key))
		}

		env.Assign(path, parseValue(assigns[key]))
	}

	return env.Map(), nil
}

// merge assigns every leaf of vars into env.
func merge(env *lang.Environment, vars map[string]any) {
	src := lang.NewEnvironment(vars)

	for _, path := range src.Paths() {
		value, _ := src.Lookup(lang.ParsePath(path))
		env.Assign(lang.ParsePath(path), value)
	}
}

// parseValue returns the value of a command-line assignment: a boolean for
// "true" and "false", a number for decimal text, the unquoted string for
// double-quoted text, and text itself otherwise.
func parseValue(text string) any {
	switch text {
	case "true":
		return true
	case "false":
		return false
	}

	if strings.HasPrefix(text, `"`) {
		if s, err := strconv.Unquote(text); err == nil {
			return s
		}
	}

	if strings.ContainsAny(text[:min(len(text), 1)], "+-.0123456789") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f
		}
	}

	return text
}
