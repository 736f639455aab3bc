package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/deckview/pkg/cache"
	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/observability"
	"github.com/matzehuels/deckview/pkg/render"
	"github.com/matzehuels/deckview/pkg/scene"
	"github.com/matzehuels/deckview/pkg/source"
)

// photoConcurrency bounds parallel photo downloads.
const photoConcurrency = 8

// Fetcher loads sheets and photos. *source.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, opts source.SheetOptions) ([]source.Item, error)
	FetchPhoto(ctx context.Context, rawURL string) ([]byte, error)
}

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators. Multiple goroutines
// can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Source Fetcher // nil disables sheets and photos
}

// NewRunner creates a runner. A nil keyer uses DefaultKeyer, a nil cache
// disables caching and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, src Fetcher) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Source: src,
	}
}

// frameSet is the cached form of a run's artifacts.
type frameSet struct {
	Names     []string          `json:"names"`
	Artifacts map[string][]byte `json:"artifacts"`
}

// Execute runs the complete load → animate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString(), Artifacts: make(map[string][]byte)}
	logger := r.Logger.With("run", result.RunID)

	// Stage 1: Load
	loadStart := time.Now()
	items, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Items = items
	result.ItemsHash = source.HashItems(items)
	result.Stats.Items = len(items)
	result.Stats.LoadTime = time.Since(loadStart)

	logger.Info("loaded items", "items", len(items), "duration", result.Stats.LoadTime)

	cacheKey := r.Keyer.ArtifactKey(result.ItemsHash, opts.ArtifactKeyOpts())
	if !opts.Refresh {
		if fs, ok := r.cachedFrames(ctx, cacheKey); ok {
			result.Names = fs.Names
			result.Artifacts = fs.Artifacts
			result.Stats.Frames = len(fs.Names)
			result.CacheInfo.RenderHit = true
			logger.Info("frames from cache", "frames", len(fs.Names))
			return result, nil
		}
	}

	var photos []*image.NRGBA
	if opts.Photos {
		photos = r.LoadPhotos(ctx, items)
	}

	// Stage 2: Animate
	animateStart := time.Now()
	anim, err := r.Animate(ctx, items, opts)
	if err != nil {
		return nil, fmt.Errorf("animate: %w", err)
	}
	result.Stats.Transitions = len(anim.Sequences)
	result.Stats.Ticks = anim.Ticks
	result.Stats.AnimateTime = time.Since(animateStart)

	logger.Info("animated transitions",
		"transitions", len(anim.Sequences),
		"ticks", anim.Ticks,
		"duration", result.Stats.AnimateTime)

	// Stage 3: Render
	renderStart := time.Now()
	names, artifacts, err := r.RenderFrames(ctx, items, photos, anim.Sequences, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Names = names
	result.Artifacts = artifacts
	result.Stats.Frames = len(names)
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered frames",
		"frames", len(names),
		"format", opts.Format,
		"duration", result.Stats.RenderTime)

	if data, err := json.Marshal(frameSet{Names: names, Artifacts: artifacts}); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return result, nil
}

func (r *Runner) cachedFrames(ctx context.Context, key string) (frameSet, bool) {
	var fs frameSet
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return fs, false
	}
	if err := json.Unmarshal(data, &fs); err != nil {
		r.Logger.Debug("discarding corrupt frame cache entry", "error", err)
		return fs, false
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return fs, true
}

// Load returns the items selected by opts: a CSV file, a sheet, or Count
// placeholder items.
func (r *Runner) Load(ctx context.Context, opts Options) (items []source.Item, err error) {
	kind := SourcePlaceholder
	switch {
	case opts.Input != "":
		kind = SourceCSV
	case opts.Sheet.SpreadsheetID != "":
		kind = SourceSheet
	}

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, kind)
	defer func() {
		observability.Pipeline().OnLoadComplete(ctx, kind, len(items), time.Since(start), err)
	}()

	switch kind {
	case SourceCSV:
		return source.ReadCSVFile(opts.Input)
	case SourceSheet:
		if r.Source == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "no data source configured for sheet %s", opts.Sheet.SpreadsheetID)
		}
		sheet := opts.Sheet
		sheet.Refresh = sheet.Refresh || opts.Refresh
		return r.Source.Fetch(ctx, sheet)
	default:
		if opts.Count <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "count must be positive")
		}
		return scene.Placeholder(opts.Count), nil
	}
}

// LoadPhotos downloads and decodes each item's photo. The result has one
// entry per item; entries are nil where the item has no photo or it could
// not be loaded. Failures are logged, not returned.
func (r *Runner) LoadPhotos(ctx context.Context, items []source.Item) []*image.NRGBA {
	photos := make([]*image.NRGBA, len(items))
	if r.Source == nil {
		r.Logger.Warn("photos requested without a data source")
		return photos
	}

	byURL := make(map[string][]int)
	var urls []string
	for i, it := range items {
		u := it.Photo()
		if u == "" {
			continue
		}
		if _, seen := byURL[u]; !seen {
			urls = append(urls, u)
		}
		byURL[u] = append(byURL[u], i)
	}

	decoded := make([]*image.NRGBA, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(photoConcurrency)
	for j, u := range urls {
		g.Go(func() error {
			data, err := r.Source.FetchPhoto(gctx, u)
			if err != nil {
				r.Logger.Warn("photo fetch failed", "url", u, "error", err)
				return nil
			}
			img, err := render.DecodePhoto(data)
			if err != nil {
				r.Logger.Warn("photo decode failed", "url", u, "error", err)
				return nil
			}
			decoded[j] = img
			return nil
		})
	}
	_ = g.Wait()

	for j, u := range urls {
		for _, i := range byURL[u] {
			photos[i] = decoded[j]
		}
	}
	return photos
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
