// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/coresolve/coresolve/internal/config"
	"github.com/coresolve/coresolve/internal/coredb"
	"github.com/coresolve/coresolve/internal/discovery"
	"github.com/coresolve/coresolve/internal/issue"
	"github.com/coresolve/coresolve/pkg/coredesc"
	"github.com/coresolve/coresolve/pkg/vlnv"
)

type (
	// App wires CLI services and shared state for one invocation. Command
	// handlers receive an App and load configuration and cores through it.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
		logger *log.Logger

		verbose    bool
		cfgFile    string
		lockFile   string
		ignoreLock bool

		cfg *config.Config
		db  *coredb.DB
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// configLoadError marks failures to load the configuration file.
	configLoadError struct {
		err error
	}
)

func (e *configLoadError) Error() string { return e.err.Error() }

func (e *configLoadError) Unwrap() error { return e.err }

// NewApp creates an App, filling unset dependencies with defaults.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}

	logger := log.NewWithOptions(deps.Stderr, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: false,
	})

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		logger: logger,
	}
}

// setupLogging routes slog records through the charm logger.
func (a *App) setupLogging() {
	if a.verbose {
		a.logger.SetLevel(log.DebugLevel)
		a.logger.SetReportTimestamp(true)
	}
	slog.SetDefault(slog.New(a.logger))
}

// loadConfig loads the configuration once per invocation. The configured log
// level applies unless --verbose was given.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		return nil, &configLoadError{err: err}
	}
	if !a.verbose {
		if level, lerr := log.ParseLevel(cfg.LogLevel.String()); lerr == nil {
			a.logger.SetLevel(level)
		}
	}

	a.cfg = cfg
	return cfg, nil
}

// database discovers and indexes every core in the configured libraries,
// honoring the lock file when one exists.
func (a *App) database(ctx context.Context) (*coredb.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	var lock *coredb.LockFile
	if !a.ignoreLock {
		if lock, err = coredb.ReadLockFile(a.lockPath()); err != nil {
			return nil, err
		}
	}

	d := discovery.New(cfg)
	slog.Debug("discovering cores", "roots", d.Roots())
	res, err := d.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover cores: %w", err)
	}
	for _, diag := range res.Diagnostics {
		slog.Log(ctx, diag.Severity.Level(), diag.Message, "diagnostic", diag)
	}

	a.db = coredb.FromDiscovery(res, coredb.WithLockFile(lock))
	slog.Debug("indexed cores", "count", a.db.Len())
	return a.db, nil
}

func (a *App) lockPath() string {
	if a.lockFile != "" {
		return a.lockFile
	}
	return coredb.LockFileName
}

// openCore resolves a core argument. A path to a .core file is parsed
// directly; anything else is a core name looked up in the libraries.
func (a *App) openCore(ctx context.Context, arg string) (*coredesc.Descriptor, error) {
	if isCorePath(arg) {
		return coredesc.Parse(arg)
	}

	ref, err := vlnv.ParseDependency(arg)
	if err != nil {
		return nil, err
	}
	db, err := a.database(ctx)
	if err != nil {
		return nil, err
	}
	core, err := db.Find(ref)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("find core").
			WithResource(arg).
			WithSuggestion("Run 'coresolve list' to see the discovered cores").
			WithSuggestion("Pass the path of a .core file instead of a name").
			Wrap(err).
			BuildError()
	}
	return core, nil
}

// openCoreWithDB is openCore for commands that also resolve dependencies.
// A core given by path joins the index unless the same identifier is
// already known.
func (a *App) openCoreWithDB(ctx context.Context, arg string) (*coredesc.Descriptor, *coredb.DB, error) {
	core, err := a.openCore(ctx, arg)
	if err != nil {
		return nil, nil, err
	}
	db, err := a.database(ctx)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := db.Get(core.ID); !ok {
		db.Add(core)
	}
	return core, db, nil
}

// loadOptions returns the config source selected by the global flags.
func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.cfgFile}
}

func isCorePath(arg string) bool {
	if strings.HasSuffix(arg, ".core") {
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && info.Mode().IsRegular()
}

// isConfigLoadError reports whether err came from loading the configuration.
func isConfigLoadError(err error) bool {
	var cle *configLoadError
	return errors.As(err, &cle)
}
