// Package config loads deckview settings from a TOML file and the
// environment.
//
// Precedence, lowest first: [Default], the TOML file, environment variables
// (see [Config.ApplyEnv]), then command-line flags applied by the caller.
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
//	cfg.ApplyEnv(os.Getenv)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/layout"
	"github.com/matzehuels/deckview/pkg/render"
	"github.com/matzehuels/deckview/pkg/source"
	"github.com/matzehuels/deckview/pkg/tween"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Frame formats.
const (
	FormatPNG  = render.FormatPNG
	FormatWebP = render.FormatWebP
)

// Environment variables read by ApplyEnv.
const (
	EnvGoogleClientID = "GOOGLE_CLIENT_ID"
	EnvSpreadsheetID  = "SPREADSHEET_ID"
	EnvSheetName      = "SHEET_NAME"
	EnvAPIKey         = "API_KEY"
	EnvUsePublicSheet = "USE_PUBLIC_SHEET"
)

// Config is the full set of deckview settings.
type Config struct {
	Auth      AuthConfig      `toml:"auth"`
	Sheet     SheetConfig     `toml:"sheet"`
	Cache     CacheConfig     `toml:"cache"`
	Animation AnimationConfig `toml:"animation"`
	Render    RenderConfig    `toml:"render"`
	Seed      uint64          `toml:"seed"`
}

type AuthConfig struct {
	GoogleClientID string `toml:"google_client_id"`
}

type SheetConfig struct {
	SpreadsheetID  string `toml:"spreadsheet_id"`
	SheetName      string `toml:"sheet_name"`
	GID            string `toml:"gid"`
	APIKey         string `toml:"api_key"`
	UsePublicSheet bool   `toml:"use_public_sheet"`
}

type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

type AnimationConfig struct {
	Duration      Duration `toml:"duration"`
	Easing        string   `toml:"easing"`
	InitialLayout string   `toml:"initial_layout"`
	FPS           int      `toml:"fps"`
}

type RenderConfig struct {
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Supersample int    `toml:"supersample"`
	Format      string `toml:"format"`
}

// Duration is a time.Duration written as a Go duration string ("5s", "1m30s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Sheet: SheetConfig{
			SheetName:      source.DefaultSheetName,
			GID:            source.DefaultGID,
			UsePublicSheet: true,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
		},
		Animation: AnimationConfig{
			Duration:      Duration{5 * time.Second},
			Easing:        tween.DefaultEasing,
			InitialLayout: string(layout.Table),
			FPS:           60,
		},
		Render: RenderConfig{
			Width:       1280,
			Height:      720,
			Supersample: 2,
			Format:      FormatPNG,
		},
		Seed: 42,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/deckview/config.toml, falling back to
// ~/.config/deckview/config.toml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "deckview", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".deckview", "config.toml")
	}
	return filepath.Join(home, ".config", "deckview", "config.toml")
}

// Load reads path on top of Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(string(data), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode parses TOML into cfg, keeping fields the document does not set.
// Unknown keys are rejected.
func Decode(data string, cfg *Config) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config file")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides settings from the environment. Empty variables are
// ignored. USE_PUBLIC_SHEET is true for any value other than "false".
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvGoogleClientID); v != "" {
		c.Auth.GoogleClientID = v
	}
	if v := getenv(EnvSpreadsheetID); v != "" {
		c.Sheet.SpreadsheetID = v
	}
	if v := getenv(EnvSheetName); v != "" {
		c.Sheet.SheetName = v
	}
	if v := getenv(EnvAPIKey); v != "" {
		c.Sheet.APIKey = v
	}
	if v := getenv(EnvUsePublicSheet); v != "" {
		c.Sheet.UsePublicSheet = v != "false"
	}
}

// Validate checks every section and reports the first problem.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return invalid("cache.redis_addr is required for the redis backend")
		}
	default:
		return invalid("cache.backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return invalid("cache.ttl must not be negative")
	}

	if c.Animation.Duration.Duration <= 0 {
		return invalid("animation.duration must be positive")
	}
	if _, ok := tween.ByName(c.Animation.Easing); !ok {
		return invalid("animation.easing: %q (must be one of: %s)",
			c.Animation.Easing, strings.Join(tween.EasingNames(), ", "))
	}
	if _, err := layout.ParseName(c.Animation.InitialLayout); err != nil {
		return invalid("animation.initial_layout: %q", c.Animation.InitialLayout)
	}
	if c.Animation.FPS <= 0 || c.Animation.FPS > 240 {
		return invalid("animation.fps must be between 1 and 240")
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return invalid("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.Supersample < 1 || c.Render.Supersample > 4 {
		return invalid("render.supersample must be between 1 and 4")
	}
	if err := ValidateFormat(c.Render.Format); err != nil {
		return err
	}

	if c.Sheet.SpreadsheetID != "" {
		if err := errors.ValidateSpreadsheetID(c.Sheet.SpreadsheetID); err != nil {
			return err
		}
	}
	if err := errors.ValidateSheetName(c.Sheet.SheetName); err != nil {
		return err
	}
	return nil
}

// ValidateFormat checks a frame format name.
func ValidateFormat(format string) error {
	switch format {
	case FormatPNG, FormatWebP:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, webp)", format)
}

// SheetOptions converts the sheet section into fetch options.
func (c *Config) SheetOptions() source.SheetOptions {
	return source.SheetOptions{
		SpreadsheetID: c.Sheet.SpreadsheetID,
		SheetName:     c.Sheet.SheetName,
		GID:           c.Sheet.GID,
		APIKey:        c.Sheet.APIKey,
		Public:        c.Sheet.UsePublicSheet,
	}
}

// EasingFunc resolves the configured easing, falling back to the default.
func (c *Config) EasingFunc() tween.Easing {
	if e, ok := tween.ByName(c.Animation.Easing); ok {
		return e
	}
	e, _ := tween.ByName(tween.DefaultEasing)
	return e
}
