package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/deckview/pkg/cache"
	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/layout"
	"github.com/matzehuels/deckview/pkg/observability"
	"github.com/matzehuels/deckview/pkg/scene"
	"github.com/matzehuels/deckview/pkg/source"
)

func smallOptions() Options {
	return Options{
		Count:       6,
		Layouts:     []string{"grid"},
		Frames:      2,
		FPS:         30,
		Duration:    time.Second,
		Width:       32,
		Height:      24,
		Supersample: 1,
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Count: 3}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	want := []string{"table", "sphere", "helix", "grid", "tetrahedron"}
	if diff := cmp.Diff(want, opts.Layouts); diff != "" {
		t.Errorf("Layouts mismatch (-want +got):\n%s", diff)
	}
	if opts.Duration != 5*time.Second || opts.Frames != DefaultFrames || opts.Format != "png" {
		t.Errorf("defaults = %+v", opts)
	}
	if opts.InitialLayout != "table" || opts.Easing != "exponential-in-out" {
		t.Errorf("initial = %q, easing = %q", opts.InitialLayout, opts.Easing)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no source", Options{}, errors.ErrCodeInvalidInput},
		{"bad layout", Options{Count: 1, Layouts: []string{"cube"}}, errors.ErrCodeInvalidLayout},
		{"bad initial", Options{Count: 1, InitialLayout: "cube"}, errors.ErrCodeInvalidLayout},
		{"bad easing", Options{Count: 1, Easing: "bounce"}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Count: 1, Format: "gif"}, errors.ErrCodeInvalidFormat},
		{"too many frames", Options{Count: 1, Frames: MaxFrames + 1}, errors.ErrCodeInvalidInput},
		{"negative duration", Options{Count: 1, Duration: -time.Second}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("ValidateAndSetDefaults() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestPyramidAlias(t *testing.T) {
	opts := Options{Count: 1, Layouts: []string{"Pyramid"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.ArtifactKeyOpts().Layouts[0] != "tetrahedron" {
		t.Errorf("layouts = %v", opts.ArtifactKeyOpts().Layouts)
	}
}

func TestArtifactName(t *testing.T) {
	if got := ArtifactName(layout.Helix, 7, "webp"); got != "helix-007.webp" {
		t.Errorf("ArtifactName() = %q", got)
	}
}

func TestCaptureTimes(t *testing.T) {
	start := epoch
	got := captureTimes(start, 4*time.Second, 5)
	want := []time.Time{start, start.Add(time.Second), start.Add(2 * time.Second), start.Add(3 * time.Second), start.Add(4 * time.Second)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("captureTimes() mismatch (-want +got):\n%s", diff)
	}
	if got := captureTimes(start, time.Second, 1); len(got) != 1 || !got[0].Equal(start.Add(time.Second)) {
		t.Errorf("captureTimes(n=1) = %v", got)
	}
	if got := captureTimes(start, time.Second, 0); got != nil {
		t.Errorf("captureTimes(n=0) = %v", got)
	}
}

func TestAnimate(t *testing.T) {
	const n = 7
	items := scene.Placeholder(n)
	opts := Options{
		Layouts:  []string{"sphere", "helix"},
		Frames:   5,
		FPS:      30,
		Duration: time.Second,
	}
	anim, err := NewRunner(nil, nil, nil, nil).Animate(context.Background(), items, opts)
	if err != nil {
		t.Fatalf("Animate() error: %v", err)
	}
	if len(anim.Sequences) != 2 {
		t.Fatalf("sequences = %d, want 2", len(anim.Sequences))
	}

	table := layout.Build(layout.TableAt, n)
	sphere := layout.Build(layout.SphereAt, n)
	helix := layout.Build(layout.HelixAt, n)

	first := anim.Sequences[0]
	if first.Layout != layout.Sphere || len(first.Frames) != 5 {
		t.Fatalf("first sequence = %s with %d frames", first.Layout, len(first.Frames))
	}
	for i := 0; i < n; i++ {
		if got := first.Frames[0][i].Position; got != table[i].Position {
			t.Errorf("frame 0 card %d = %v, want settled table position %v", i, got, table[i].Position)
		}
		if got := first.Frames[4][i].Position; got != sphere[i].Position {
			t.Errorf("last frame card %d = %v, want sphere target %v", i, got, sphere[i].Position)
		}
		if got := anim.Sequences[1].Frames[4][i].Position; got != helix[i].Position {
			t.Errorf("helix card %d = %v, want %v", i, got, helix[i].Position)
		}
	}
	if anim.Sequences[1].Frames[0][0].Position != sphere[0].Position {
		t.Error("second transition should start where the first ended")
	}

	// 1s at 30 fps plus the 20% render margin: ticks 0..37.
	if anim.Ticks != 2*38 {
		t.Errorf("ticks = %d, want 76", anim.Ticks)
	}
	if anim.Redraws == 0 {
		t.Error("render callback never fired")
	}
}

func TestAnimateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, nil, nil).Animate(ctx, scene.Placeholder(3), smallOptions())
	if err != context.Canceled {
		t.Errorf("Animate() = %v, want context.Canceled", err)
	}
}

func TestExecute(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil, nil)
	ctx := context.Background()

	result, err := runner.Execute(ctx, smallOptions())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	want := []string{"grid-000.png", "grid-001.png"}
	if diff := cmp.Diff(want, result.Names); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
	if result.CacheInfo.RenderHit {
		t.Error("first run should not hit the cache")
	}
	img, err := png.Decode(bytes.NewReader(result.Artifacts["grid-001.png"]))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 32, 24) {
		t.Errorf("frame bounds = %v", img.Bounds())
	}
	if result.Stats.Items != 6 || result.Stats.Frames != 2 || result.Stats.Transitions != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}

	again, err := runner.Execute(ctx, smallOptions())
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !again.CacheInfo.RenderHit {
		t.Error("second run should hit the cache")
	}
	if again.RunID == "" || again.RunID == result.RunID {
		t.Errorf("RunID = %q, want a fresh ID per run", again.RunID)
	}
	if !bytes.Equal(again.Artifacts["grid-000.png"], result.Artifacts["grid-000.png"]) {
		t.Error("cached frame differs from rendered frame")
	}

	refresh := smallOptions()
	refresh.Refresh = true
	fresh, err := runner.Execute(ctx, refresh)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	data := "Name,Photo,Age,Country,Interest,Net Worth\nAda,,36,UK,Maths,\"$250,000\"\nAlan,,41,UK,Logic,$90000\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	opts := smallOptions()
	opts.Input = path
	opts.Format = "webp"

	result, err := NewRunner(nil, nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(result.Items) != 2 || result.Items[0].Name() != "Ada" {
		t.Errorf("items = %+v", result.Items)
	}
	if _, ok := result.Artifacts["grid-000.webp"]; !ok {
		t.Errorf("artifacts = %v", result.Names)
	}
}

func TestExecuteSheetWithoutSource(t *testing.T) {
	opts := smallOptions()
	opts.Count = 0
	opts.Sheet = source.SheetOptions{SpreadsheetID: "1AbCdEfGhIjKlMnOp", Public: true}
	_, err := NewRunner(nil, nil, nil, nil).Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Execute() = %v, want INVALID_CONFIG", err)
	}
}

type fakeFetcher struct {
	items       []source.Item
	photo       []byte
	photoCalls  atomic.Int32
	lastRefresh bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, opts source.SheetOptions) ([]source.Item, error) {
	f.lastRefresh = opts.Refresh
	return f.items, nil
}

func (f *fakeFetcher) FetchPhoto(ctx context.Context, rawURL string) ([]byte, error) {
	f.photoCalls.Add(1)
	if rawURL == "https://example.com/missing.png" {
		return nil, errors.New(errors.ErrCodeNotFound, "not found")
	}
	return f.photo, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExecuteSheet(t *testing.T) {
	f := &fakeFetcher{items: scene.Placeholder(4)}
	opts := smallOptions()
	opts.Count = 0
	opts.Refresh = true
	opts.Sheet = source.SheetOptions{SpreadsheetID: "1AbCdEfGhIjKlMnOp", Public: true}

	result, err := NewRunner(nil, nil, nil, f).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(result.Items) != 4 {
		t.Errorf("items = %d, want 4", len(result.Items))
	}
	if !f.lastRefresh {
		t.Error("Refresh should be passed to the sheet fetch")
	}
}

func TestLoadPhotos(t *testing.T) {
	f := &fakeFetcher{photo: pngBytes(t)}
	items := []source.Item{
		{Fields: map[string]string{source.FieldPhoto: "https://example.com/a.png"}},
		{Fields: map[string]string{}},
		{Fields: map[string]string{source.FieldPhoto: "https://example.com/a.png"}},
		{Fields: map[string]string{source.FieldPhoto: "https://example.com/missing.png"}},
	}
	photos := NewRunner(nil, nil, nil, f).LoadPhotos(context.Background(), items)
	if len(photos) != 4 {
		t.Fatalf("len = %d, want 4", len(photos))
	}
	if photos[0] == nil || photos[0] != photos[2] {
		t.Error("items sharing a URL should share the decoded photo")
	}
	if photos[1] != nil || photos[3] != nil {
		t.Error("items without a loadable photo should have nil entries")
	}
	if got := f.photoCalls.Load(); got != 2 {
		t.Errorf("photo fetches = %d, want 2", got)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu          sync.Mutex
	loads       []string
	transitions []string
	renders     int
}

func (h *recordingHooks) OnLoadComplete(_ context.Context, src string, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loads = append(h.loads, src)
}

func (h *recordingHooks) OnTransitionComplete(_ context.Context, name string, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.transitions = append(h.transitions, name)
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, _ string, frames int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders += frames
}

func TestExecuteHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	t.Cleanup(observability.Reset)

	opts := smallOptions()
	opts.Layouts = []string{"helix", "table"}
	if _, err := NewRunner(nil, nil, nil, nil).Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{SourcePlaceholder}, h.loads); diff != "" {
		t.Errorf("loads mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"helix", "table"}, h.transitions); diff != "" {
		t.Errorf("transitions mismatch (-want +got):\n%s", diff)
	}
	if h.renders != 4 {
		t.Errorf("rendered frames = %d, want 4", h.renders)
	}
}
