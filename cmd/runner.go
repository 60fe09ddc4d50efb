package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/catalog"
	"github.com/desertthunder/sortify/internal/library"
	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/repositories"
	"github.com/desertthunder/sortify/internal/shared"
	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Storage and the library are opened lazily on first use so that commands like setup can run
// before a database exists.
type Runner struct {
	config      *shared.Config
	configPath  string
	catalogPath string
	logger      *log.Logger
	output      io.Writer
	open        func(string) error
	now         func() time.Time

	store models.KeyValueStore
	db    *sql.DB
	prefs *repositories.Preferences
	lib   *library.Library
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	// Store replaces the configured database.
	Store models.KeyValueStore
	// Open launches a link in the browser.
	Open func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		open:       opts.Open,
		now:        time.Now,
		store:      opts.Store,
	}
}

// SetLogger swaps the logger used by the runner and anything it opens afterwards.
func (r *Runner) SetLogger(logger *log.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:     "sortify",
		Usage:    "Browse, filter and reorder a saved playlist collection",
		Version:  version,
		Flags:    globalFlags(),
		Before:   r.before,
		After:    r.after,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, playlistsCommand, authCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before loads the config file named by --config when it exists; defaults apply otherwise.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if cmd.IsSet("config") || r.configPath == "" {
		r.configPath = cmd.String("config")
	}

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.logger.Debug("loaded config", "path", r.configPath)
	} else if errors.Is(err, fs.ErrNotExist) {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	} else {
		return ctx, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	r.catalogPath = r.config.Catalog.Path
	if path := cmd.String("catalog"); path != "" {
		r.catalogPath = path
	}

	return ctx, nil
}

func (r *Runner) after(context.Context, *cli.Command) error {
	return r.Close()
}

// Close releases the database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.store = nil
	r.prefs = nil
	r.lib = nil
	return err
}

// preferences opens storage on first use.
func (r *Runner) preferences() (*repositories.Preferences, error) {
	if r.prefs != nil {
		return r.prefs, nil
	}

	if r.store == nil {
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
		r.db = db
		r.store = repositories.NewKVRepository(db)
	}

	r.prefs = repositories.NewPreferences(repositories.PreferencesOpts{
		Store:    r.store,
		Logger:   r.logger,
		TokenKey: r.config.Auth.TokenKey,
	})
	return r.prefs, nil
}

// library loads the catalog and overlays stored order and listened state.
func (r *Runner) library(ctx context.Context) (*library.Library, error) {
	if r.lib != nil {
		return r.lib, nil
	}

	prefs, err := r.preferences()
	if err != nil {
		return nil, err
	}

	entries, err := catalog.NewLoader(r.logger).LoadFile(r.catalogPath)
	if err != nil {
		return nil, err
	}

	theme, err := models.ParseTheme(r.config.UI.Theme)
	if err != nil {
		r.logger.Warn("unknown theme in config, using light", "theme", r.config.UI.Theme)
		theme = models.ThemeLight
	}

	lib, err := library.New(library.Opts{Persistence: prefs, Logger: r.logger, Theme: theme})
	if err != nil {
		return nil, err
	}
	if err := lib.Initialize(ctx, entries); err != nil {
		return nil, err
	}

	r.lib = lib
	return lib, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
