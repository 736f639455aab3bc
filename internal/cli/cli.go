// Package cli implements the deckview command-line interface.
//
// Commands load the settings file once (see [config]), attach the logger
// to the command context and build their collaborators (cache, sheet
// client, pipeline runner) from the loaded settings.
//
// # Commands
//
//   - login, logout, whoami: manage the signed-in Google session
//   - fetch: print or export the sheet rows
//   - layout: write a layout's target set as JSON
//   - snapshot: render transition frames to image files
//   - play: animate the cards in the terminal
//   - cache: clear or locate the response cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deckview/pkg/buildinfo"
	"github.com/matzehuels/deckview/pkg/cache"
	"github.com/matzehuels/deckview/pkg/config"
	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/pipeline"
	"github.com/matzehuels/deckview/pkg/session"
	"github.com/matzehuels/deckview/pkg/source"
	"github.com/matzehuels/deckview/pkg/tween"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "deckview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// out receives command results; errOut the spinner.
	out, errOut io.Writer

	configPath string
	noAuth     bool
	config     config.Config

	// sessionDir overrides the session store location ("" for the default).
	sessionDir string
	now        func() time.Time
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		errOut: w,
		config: config.Default(),
		now:    time.Now,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "deckview animates spreadsheet rows as cards in 3-D layouts",
		Long: `deckview loads rows from a Google Sheet (or a CSV file), turns each row into a
card and animates the cards between table, sphere, helix, grid and pyramid
layouts. Frames can be played in the terminal or rendered to PNG/WebP files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.out = cmd.OutOrStdout()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			registerHooks(c.Logger)
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVar(&c.noAuth, "no-auth", false, "skip sign-in and use a local session")

	root.AddCommand(c.loginCommand())
	root.AddCommand(c.logoutCommand())
	root.AddCommand(c.whoamiCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the settings file and environment into c.config. A
// missing default file is fine; a missing --config file is not.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		path = config.DefaultPath()
	} else if _, err := os.Stat(path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner whose cache keys are scoped to the
// session's user.
func (c *CLI) newRunner(ctx context.Context, sess *session.Session, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), sess.UserID()+":")
	client := source.NewClient(cc,
		source.WithKeyer(keyer),
		source.WithLogger(c.Logger),
	)
	return pipeline.NewRunner(cc, keyer, c.Logger, client), nil
}

// newCache opens the configured cache backend, capped at cache.ttl.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config.Cache
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}

	var cc cache.Cache
	switch cfg.Backend {
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   appName + ":",
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "open redis cache")
		}
		cc = rc
	default:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				c.Logger.Warn("no cache directory, caching disabled", "error", err)
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		cc = fc
	}
	return cache.WithMaxTTL(cc, cfg.TTL.Duration), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/deckview/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// sourceFlags selects where a command's items come from.
type sourceFlags struct {
	input   string
	sheet   string
	count   int
	refresh bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "read items from a CSV file")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "spreadsheet ID (overrides sheet.spreadsheet_id)")
	cmd.Flags().IntVarP(&f.count, "count", "n", 0, "use N placeholder cards instead of data")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass cached sheet data and frames")
	cmd.MarkFlagsMutuallyExclusive("input", "sheet", "count")
}

// apply fills the load options of opts. The configured sheet is used only
// when neither --input nor --count is given.
func (f *sourceFlags) apply(opts *pipeline.Options, cfg config.Config) {
	opts.Input = f.input
	opts.Count = f.count
	opts.Refresh = f.refresh
	if f.input != "" || f.count > 0 {
		return
	}
	opts.Sheet = cfg.SheetOptions()
	if f.sheet != "" {
		opts.Sheet.SpreadsheetID = f.sheet
	}
}

// setCLIDefaults applies the configured animation and render settings to
// opts. Flags set afterwards override them.
func setCLIDefaults(opts *pipeline.Options, cfg config.Config) {
	opts.InitialLayout = cfg.Animation.InitialLayout
	opts.Duration = cfg.Animation.Duration.Duration
	opts.Easing = cfg.Animation.Easing
	opts.FPS = cfg.Animation.FPS
	opts.Seed = cfg.Seed
	opts.Width = cfg.Render.Width
	opts.Height = cfg.Render.Height
	opts.Supersample = cfg.Render.Supersample
	opts.Format = cfg.Render.Format
}

// animFlags override the [animation] settings for one run.
type animFlags struct {
	initial  string
	duration time.Duration
	easing   string
	fps      int
	seed     uint64
}

func (f *animFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.initial, "initial", "", "layout the cards settle into at startup (default animation.initial_layout)")
	cmd.Flags().DurationVar(&f.duration, "duration", 0, "transition duration (default animation.duration)")
	cmd.Flags().StringVar(&f.easing, "easing", "", "easing: "+strings.Join(tween.EasingNames(), ", "))
	cmd.Flags().IntVar(&f.fps, "fps", 0, "simulated frames per second (default animation.fps)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for the initial scatter (default seed)")
}

// apply overrides opts with the flags the user set.
func (f *animFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fl := cmd.Flags()
	if fl.Changed("initial") {
		opts.InitialLayout = f.initial
	}
	if fl.Changed("duration") {
		opts.Duration = f.duration
	}
	if fl.Changed("easing") {
		opts.Easing = f.easing
	}
	if fl.Changed("fps") {
		opts.FPS = f.fps
	}
	if fl.Changed("seed") {
		opts.Seed = f.seed
	}
}
