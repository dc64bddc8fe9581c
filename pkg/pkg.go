// Package pkg holds the identity of the lala project.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It also names the configuration and cache
	// directories and prefixes environment variables.
	Name = "lala"

	// Description is the one-line summary shown in help output.
	Description = "Embeddable conditional and templating micro-language"
)

// Prefix returns the prefix of environment variables read by the command,
// such as LALA_PATH.
func Prefix() string { return strings.ToUpper(Name) + "_" }
