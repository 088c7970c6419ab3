package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ymx/internal/repositories"
	"github.com/desertthunder/ymx/internal/services"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/desertthunder/ymx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// yandexLibrary is the Yandex Music surface the commands use beyond liked-track export.
type yandexLibrary interface {
	tasks.SourceCatalog
	Playlists(ctx context.Context) ([]services.YandexPlaylist, error)
	PlaylistArtists(ctx context.Context, kind int) ([]string, error)
}

// ytmusicProxy is the YouTube Music surface the commands use beyond the engine.
type ytmusicProxy interface {
	tasks.TargetCatalog
	Health(ctx context.Context) error
	SetupAuth(ctx context.Context, headersRaw, authFile string) error
}

var (
	_ yandexLibrary = (*services.YandexService)(nil)
	_ ytmusicProxy  = (*services.YouTubeService)(nil)
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	yandex      yandexLibrary
	youtube     ytmusicProxy
	db          *sql.DB
	ownsDB      bool
	logger      *log.Logger
	output      io.Writer
	engine      *tasks.PlaylistEngine
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Yandex      yandexLibrary
	YouTube     ytmusicProxy
	DB          *sql.DB
	Logger      *log.Logger
	Output      io.Writer
	OpenBrowser func(string) error
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
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	r := &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		yandex:      opts.Yandex,
		youtube:     opts.YouTube,
		db:          opts.DB,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
	}
	r.buildEngine()
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, yandexCommand, ytmusicCommand, transferCommand, organizeCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config and connects the services it describes.
//
// Services injected through [RunnerOpts] are kept.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}

	if level := cmd.String("log-level"); level != "" {
		r.config.Logging.Level = level
	}
	if err := r.config.Validate(); err != nil {
		return ctx, err
	}

	lvl, _ := shared.ParseLogLevel(r.config.Logging.Level)
	if cmd.Bool("log-file") {
		logger, path, err := shared.NewTeeLogger(os.Stderr, r.config.Logging.Dir)
		if err != nil {
			return ctx, err
		}
		r.logger = logger
		r.logger.Debug("writing log file", "path", path)
	}
	shared.SetLogLevel(r.logger, lvl)

	if err := r.connect(ctx); err != nil {
		return ctx, err
	}
	r.buildEngine()
	return ctx, nil
}

// After releases the database opened for run history, if any.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	if r.db != nil && r.ownsDB {
		return r.db.Close()
	}
	return nil
}

// connect builds the services the configuration has credentials for.
func (r *Runner) connect(ctx context.Context) error {
	creds := r.config.Credentials

	if r.yandex == nil && creds.Yandex.Token != "" {
		yandex := services.NewYandexService("")
		yandex.SetLogger(r.logger)
		if err := yandex.Authenticate(ctx, map[string]string{"token": creds.Yandex.Token}); err != nil {
			return err
		}
		r.yandex = yandex
	}

	if r.youtube == nil && creds.YouTube.ProxyURL != "" {
		youtube := services.NewYouTubeService(creds.YouTube.ProxyURL)
		youtube.SetRateLimit(r.config.Limits.RequestsPerSecond)
		youtube.SetLimits(r.config.Library.PlaylistLimit, r.config.Library.PlaylistTrackLimit)
		if err := youtube.SetProxy(creds.YouTube.HTTPProxy); err != nil {
			return err
		}
		if creds.YouTube.AuthFile != "" {
			if err := youtube.Authenticate(ctx, map[string]string{"auth_file": creds.YouTube.AuthFile}); err != nil {
				return err
			}
		}
		r.youtube = youtube
	}
	return nil
}

// buildEngine rebuilds the engine from the current services and logger.
func (r *Runner) buildEngine() {
	var (
		source tasks.SourceCatalog
		target tasks.TargetCatalog
	)
	if r.yandex != nil {
		source = r.yandex
	}
	if r.youtube != nil {
		target = r.youtube
	}

	coverage := tasks.CoverageOptions{LikedID: r.config.Library.LikedPlaylistID}
	if id := r.config.Library.SystemPlaylistID; id != "" {
		coverage.Excluded = []string{id}
	}
	r.engine = tasks.NewPlaylistEngine(source, target, r.logger, coverage)
}

// SetLogger replaces the logger used by the runner and the clients it wires.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if l, ok := r.yandex.(interface{ SetLogger(*log.Logger) }); ok {
		l.SetLogger(logger)
	}
	r.buildEngine()
}

func (r *Runner) requireYandex() error {
	if r.yandex != nil {
		return nil
	}
	if err := r.config.RequireYandex(); err != nil {
		return fmt.Errorf("%w: %v (run 'ymx setup yandex')", shared.ErrServiceUnavailable, err)
	}
	return fmt.Errorf("%w: Yandex Music service not initialized", shared.ErrServiceUnavailable)
}

func (r *Runner) requireYouTube() error {
	if r.youtube != nil {
		return nil
	}
	if err := r.config.RequireYouTube(); err != nil {
		return fmt.Errorf("%w: %v (run 'ymx setup youtube')", shared.ErrServiceUnavailable, err)
	}
	return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
}

// runRepository opens the history database on first use, applying migrations.
func (r *Runner) runRepository() (*repositories.RunRepository, error) {
	if r.db == nil {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		r.db = db
		r.ownsDB = true
	}
	return repositories.NewRunRepository(r.db), nil
}

// showProgress prints updates until the returned stop function is called.
//
// stop closes the channel and waits for the printer to drain it.
func (r *Runner) showProgress() (chan<- tasks.ProgressUpdate, func()) {
	ch := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range ch {
			r.printUpdate(update)
		}
	}()
	return ch, func() {
		close(ch)
		wg.Wait()
	}
}

func (r *Runner) printUpdate(update tasks.ProgressUpdate) {
	switch {
	case update.Total > 0 && update.Step > 0:
		r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
	case update.Message != "":
		r.writePlain("%s\n", update.Message)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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
