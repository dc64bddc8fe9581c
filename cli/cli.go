package cli

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lala/cli/cmd"
	"github.com/ardnew/lala/lang"
	"github.com/ardnew/lala/log"
	"github.com/ardnew/lala/pkg"
)

// CLI is the top-level command-line interface for lala.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Include []string         `help:"Directory searched for scripts before those in ${pathEnv}" placeholder:"DIR" short:"I" type:"existingdir"`
	Version kong.VersionFlag `help:"Print version and exit"                                            short:"V"`

	Run    cmd.Run    `cmd:"" default:"withargs" help:"Run a script"`
	Check  cmd.Check  `cmd:""                    help:"Parse scripts without running them"`
	Tokens cmd.Tokens `cmd:""                    help:"Print the token stream of a script"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive session"`
}

// Run executes the lala CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configBase := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configBase,
		cmd.CacheIdentifier:  cacheDir(),
		"pathEnv":            pathEnv(),
		"version":            pkg.Name + " " + pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags take effect before kong reports any parse error.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadYAML, configBase+".yaml"),
		kong.Configuration(loadScript(ctx, lang.Default()), configBase+cmd.ScriptExt),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	dirs := searchPath(cli.Include...)

	log.DebugContext(ctx, "search path", slog.Any("dirs", dirs))

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, dirs)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Commands receive ctx, as last assigned above, from the singleton
	// provider.
	return ktx.Run()
}
