// Package cmd implements the subcommands of the lala command: run, check,
// tokens, init and repl.
//
// Commands receive their [context.Context] from kong. The context carries
// the kong.Context ([WithContext]), the script search path
// ([WithSearchPath]) and, optionally, the language to use
// ([WithLanguage]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration file, without extension.
	ConfigIdentifier = "config"
)
