package lang

import (
	"maps"
	"slices"
	"strings"
)

// Path addresses a value in an [Environment] by a sequence of map keys.
type Path []string

// ParsePath splits a dot-separated variable name into a [Path].
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}

	return strings.Split(s, ".")
}

// String joins the path with dots.
func (p Path) String() string { return strings.Join(p, ".") }

// Environment is the variable tree a script reads and assigns.
//
// The tree is a map[string]any whose nested maps are addressed by [Path]
// segments. The map given to [NewEnvironment] is the live object, so the
// host observes assignments made by a run. An Environment must not be shared
// between concurrent runs.
type Environment struct {
	vars map[string]any
}

// NewEnvironment returns an environment over vars, or over a new empty map
// when vars is nil.
func NewEnvironment(vars map[string]any) *Environment {
	if vars == nil {
		vars = make(map[string]any)
	}

	return &Environment{vars: vars}
}

// Map returns the live variable map.
func (e *Environment) Map() map[string]any { return e.vars }

// Lookup returns the value at path. It reports false if any segment is
// missing or if an intermediate value is not a map.
//
// Integer values supplied by the host are returned as float64.
func (e *Environment) Lookup(path Path) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}

	var cur any = e.vars

	for _, key := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}

		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}

	return normalize(cur), true
}

// Assign stores value at path and returns the value actually stored.
//
// Missing intermediate maps are created, and intermediate values that are
// not maps are replaced by maps. If the slot already holds a string, the
// new value is converted to its string form before it is stored.
func (e *Environment) Assign(path Path, value any) any {
	if len(path) == 0 {
		return value
	}

	m := e.vars

	for _, key := range path[:len(path)-1] {
		next, ok := asMap(m[key])
		if !ok {
			next = make(map[string]any)
			m[key] = next
		}

		m = next
	}

	leaf := path[len(path)-1]

	if _, ok := m[leaf].(string); ok {
		value = Stringify(value)
	}

	m[leaf] = value

	return value
}

// Paths returns the sorted dot-separated paths of every leaf value.
func (e *Environment) Paths() []string {
	var paths []string

	var walk func(prefix string, m map[string]any)

	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}

			if sub, ok := asMap(v); ok && len(sub) > 0 {
				walk(p, sub)

				continue
			}

			paths = append(paths, p)
		}
	}

	walk("", e.vars)
	slices.Sort(paths)

	return paths
}

// Clone returns an environment over a deep copy of the variable tree.
func (e *Environment) Clone() *Environment {
	return &Environment{vars: cloneMap(e.vars)}
}

func cloneMap(m map[string]any) map[string]any {
	out := maps.Clone(m)

	for k, v := range out {
		if sub, ok := asMap(v); ok {
			out[k] = cloneMap(sub)
		}
	}

	return out
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)

	return m, ok
}

// normalize converts host-supplied numeric kinds to float64.
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}
