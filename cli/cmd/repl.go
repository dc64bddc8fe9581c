package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ardnew/lala/cli/cmd/repl"
	"github.com/ardnew/lala/log"
)

// Repl starts an interactive session. Variables persist from one line to
// the next.
type Repl struct {
	Var  map[string]string `help:"Set a variable before starting (repeatable)" placeholder:"PATH=VALUE" short:"v"`
	Vars []string          `help:"Load initial variables from YAML file(s)"    type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	vars, err := loadVars(r.Vars, r.Var)
	if err != nil {
		return err
	}

	cache := os.TempDir()
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
			cache = dir
		}
	}

	return repl.Run(ctx, languageFrom(ctx), vars,
		filepath.Join(cache, repl.HistoryFile), log.Default())
}
