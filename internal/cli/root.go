// Package cli wires configuration, logging, storage and the todo store
// behind the tada command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/ui"
)

// exitError carries a process exit code (0 ok, 1 error, 2 usage).
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func usageErrorf(format string, args ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}

// usageArgs turns cobra's positional-arg errors into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageErrorf("%s\nusage: %s", err, cmd.UseLine())
		}
		return nil
	}
}

type rootFlags struct {
	configPath string
	backend    string
	dataPath   string
	theme      string
	logFile    string
	color      bool
	noColor    bool
	verbose    bool
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	flags rootFlags
	cfg   config.Config
	log   *zap.Logger

	backend store.Backend
	adapter *store.Adapter
	store   *todo.Store
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{log: zap.NewNop()})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tada",
		Short: "tada - a tiny todo list for the terminal",
		Long: `tada keeps a todo list in a local key-value store.

Run without arguments to open the interactive list. Every change is saved
immediately.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: a.runUI,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageErrorf("%s", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tada/config.toml)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: json, sqlite or memory")
	pf.StringVar(&a.flags.dataPath, "data", "", "storage file path")
	pf.StringVar(&a.flags.theme, "theme", "", "output theme: classic, neon or mono")
	pf.StringVar(&a.flags.logFile, "log-file", "", "write JSON logs to this file")
	pf.BoolVar(&a.flags.color, "color", false, "force coloured output")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable coloured output")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug-level logging")

	root.AddCommand(
		newUICmd(a),
		newListCmd(a),
		newAddCmd(a),
		newToggleCmd(a),
		newRemoveCmd(a),
		newSampleCmd(a),
		newToggleAllCmd(a),
		newClearCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the command line in os.Args and returns the exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{log: zap.NewNop()}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	if err == nil {
		return 0
	}
	ui.Fail(stderr, err.Error())
	var exitErr interface{ ExitCode() int }
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("backend") {
		cfg.Storage.Backend = a.flags.backend
	}
	if f.Changed("data") {
		cfg.Storage.Path = a.flags.dataPath
	}
	if f.Changed("theme") {
		cfg.UI.Theme = a.flags.theme
	}
	if f.Changed("log-file") {
		cfg.Log.File = a.flags.logFile
	}
	if err := cfg.Validate(); err != nil {
		return usageErrorf("%s", err)
	}
	a.cfg = cfg

	ui.SetColorForcing(a.flags.color, a.flags.noColor)
	if err := ui.SetTheme(cfg.UI.Theme); err != nil {
		return usageErrorf("%s", err)
	}

	log, err := logging.New(cfg.Log, a.flags.verbose)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

// open connects the configured backend and loads the collection. Commands
// that touch todos call it; config does not.
func (a *app) open(ctx context.Context) error {
	b, err := openBackend(a.cfg.Storage)
	if err != nil {
		return err
	}
	a.backend = b
	a.adapter = store.NewAdapter(b, a.log)
	a.store = todo.New(a.adapter.Load(ctx), todo.WithLogger(a.log))
	a.store.Subscribe(a.adapter.Persist(ctx))
	a.log.Debug("storage opened", zap.String("backend", a.cfg.Storage.Backend), zap.Int("todos", a.store.Len()))
	return nil
}

func openBackend(cfg config.Storage) (store.Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := sqlitestore.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendMemory:
		return store.NewMemory(), nil
	default:
		s, err := jsonstore.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func (a *app) close() error {
	var err error
	if a.backend != nil {
		err = a.backend.Close()
		a.backend = nil
	}
	_ = a.log.Sync()
	return err
}
