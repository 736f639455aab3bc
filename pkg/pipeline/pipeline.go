// Package pipeline renders layout transitions to image frames.
//
// The pipeline has three stages:
//
//  1. Load: read items from a CSV file, a Google Sheet, or generate
//     placeholders
//  2. Animate: scatter the cards, settle them into the initial layout, then
//     run one transition per requested layout on a simulated clock,
//     capturing evenly spaced snapshots
//  3. Render: rasterize every snapshot and encode it as PNG or WebP
//
// The CLI uses it for the snapshot command:
//
//	runner := pipeline.NewRunner(cache, nil, logger, client)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "people.csv",
//	    Layouts: []string{"sphere", "helix"},
//	    Frames:  12,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, name := range result.Names {
//	    os.WriteFile(name, result.Artifacts[name], 0644)
//	}
//
// Rendered frame sets are cached by the hash of the items and every option
// that changes the pixels.
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deckview/pkg/cache"
	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/layout"
	"github.com/matzehuels/deckview/pkg/render"
	"github.com/matzehuels/deckview/pkg/source"
	"github.com/matzehuels/deckview/pkg/transition"
	"github.com/matzehuels/deckview/pkg/tween"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFrames is the number of snapshots captured per transition.
	DefaultFrames = 12

	// DefaultFPS is the simulated frame rate. Snapshots are taken at the
	// first simulated frame at or after each capture time.
	DefaultFPS = 60

	DefaultWidth       = 1280
	DefaultHeight      = 720
	DefaultSupersample = 2

	// DefaultSeed seeds the initial scatter.
	DefaultSeed = uint64(42)

	// MaxFrames caps the snapshots per transition.
	MaxFrames = 600
)

// DefaultFormat is the default frame encoding.
const DefaultFormat = render.FormatPNG

// Load sources, reported to observability hooks.
const (
	SourceCSV         = "csv"
	SourceSheet       = "sheet"
	SourcePlaceholder = "placeholder"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Load options. Exactly one source is used, in this order: Input, Sheet,
	// Count.
	Input  string              `json:"input,omitempty"`
	Sheet  source.SheetOptions `json:"-"`
	Count  int                 `json:"count,omitempty"`
	Photos bool                `json:"photos,omitempty"`

	// Animation options
	Layouts       []string      `json:"layouts,omitempty"`
	InitialLayout string        `json:"initial_layout,omitempty"`
	Duration      time.Duration `json:"duration,omitempty"`
	Easing        string        `json:"easing,omitempty"`
	FPS           int           `json:"fps,omitempty"`
	Frames        int           `json:"frames,omitempty"`
	Seed          uint64        `json:"seed,omitempty"`

	// Render options
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Supersample int    `json:"supersample,omitempty"`
	Format      string `json:"format,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	layouts   []layout.Name
	initial   layout.Name
	easing    tween.Easing
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	Items     []source.Item
	ItemsHash string

	// Names lists artifact names in capture order:
	// "{layout}-{frame:03d}.{format}".
	Names     []string
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items       int
	Transitions int
	Frames      int
	Ticks       int // simulated frames across all transitions
	LoadTime    time.Duration
	AnimateTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // frames came from cache; nothing was animated
}

// =============================================================================
// Validation
// =============================================================================

// ValidateAndSetDefaults checks options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" && o.Sheet.SpreadsheetID == "" && o.Count <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no items: set an input file, a spreadsheet or a count")
	}
	return o.SetDefaults()
}

// SetDefaults validates and fills the animation and render options, leaving
// the item source unchecked. It is idempotent.
func (o *Options) SetDefaults() error {
	if o.validated {
		return nil
	}
	if o.InitialLayout == "" {
		o.InitialLayout = string(layout.Table)
	}
	initial, err := layout.ParseName(o.InitialLayout)
	if err != nil {
		return err
	}
	o.initial = initial

	if len(o.Layouts) == 0 {
		for _, n := range layout.Names() {
			o.Layouts = append(o.Layouts, string(n))
		}
	}
	o.layouts = nil
	for _, s := range o.Layouts {
		n, err := layout.ParseName(s)
		if err != nil {
			return err
		}
		o.layouts = append(o.layouts, n)
	}

	if o.Duration == 0 {
		o.Duration = transition.DefaultDuration
	}
	if o.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "duration must be positive")
	}
	if o.Easing == "" {
		o.Easing = tween.DefaultEasing
	}
	e, ok := tween.ByName(o.Easing)
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid easing: %q (must be one of: %s)",
			o.Easing, strings.Join(tween.EasingNames(), ", "))
	}
	o.easing = e

	if o.FPS == 0 {
		o.FPS = DefaultFPS
	}
	if o.Frames == 0 {
		o.Frames = DefaultFrames
	}
	if o.FPS < 0 || o.Frames < 0 || o.Frames > MaxFrames {
		return errors.New(errors.ErrCodeInvalidInput, "frames must be between 1 and %d and fps positive", MaxFrames)
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Supersample == 0 {
		o.Supersample = DefaultSupersample
	}
	if o.Width < 0 || o.Height < 0 || o.Supersample < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid frame size %dx%d", o.Width, o.Height)
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateFormat checks that a frame format is supported.
func ValidateFormat(format string) error {
	switch format {
	case render.FormatPNG, render.FormatWebP:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, webp)", format)
}

// ArtifactKeyOpts returns cache key options for the rendered frame set.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	names := make([]string, len(o.layouts))
	for i, n := range o.layouts {
		names[i] = string(n)
	}
	return cache.ArtifactKeyOpts{
		Layouts:     names,
		Initial:     string(o.initial),
		Frames:      o.Frames,
		Duration:    o.Duration.String(),
		Easing:      o.Easing,
		Width:       o.Width,
		Height:      o.Height,
		Supersample: o.Supersample,
		Format:      o.Format,
		Seed:        o.Seed,
		Photos:      o.Photos,
	}
}

// ArtifactName returns "{layout}-{frame:03d}.{format}".
func ArtifactName(name layout.Name, frame int, format string) string {
	return fmt.Sprintf("%s-%03d.%s", name, frame, format)
}
