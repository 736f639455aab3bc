package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/observability"
	"github.com/matzehuels/deckview/pkg/pipeline"
)

// snapshotCommand renders transition frames to image files.
func (c *CLI) snapshotCommand() *cobra.Command {
	var (
		src     sourceFlags
		anim    animFlags
		rflags  pipeline.Options
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render transition frames to PNG or WebP files",
		Long: `Render the cards as they move between layouts.

The cards start scattered, settle into the initial layout, then transition
to each layout in --layouts. Every transition is sampled at --frames evenly
spaced points and each sample is written as {layout}-{frame}.{format}.

Frames are cached by the items and options; --refresh re-renders them.`,
		Example: `  deckview snapshot --count 40 --layouts sphere,helix -o frames
  deckview snapshot --input people.csv --frames 30 --format webp --photos`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts pipeline.Options
			setCLIDefaults(&opts, c.config)
			src.apply(&opts, c.config)
			anim.apply(cmd, &opts)
			applyRenderFlags(cmd, &opts, rflags)
			return c.runSnapshot(cmd.Context(), opts, output, noCache)
		},
	}

	src.register(cmd)
	anim.register(cmd)
	cmd.Flags().StringSliceVarP(&rflags.Layouts, "layouts", "l", nil, "layouts to transition to, in order (default all)")
	cmd.Flags().IntVarP(&rflags.Frames, "frames", "f", pipeline.DefaultFrames, "frames captured per transition")
	cmd.Flags().IntVar(&rflags.Width, "width", 0, "frame width in pixels (default render.width)")
	cmd.Flags().IntVar(&rflags.Height, "height", 0, "frame height in pixels (default render.height)")
	cmd.Flags().IntVar(&rflags.Supersample, "supersample", 0, "supersampling factor (default render.supersample)")
	cmd.Flags().StringVar(&rflags.Format, "format", "", "frame format: png, webp (default render.format)")
	cmd.Flags().BoolVar(&rflags.Photos, "photos", false, "download item photos onto the cards")
	cmd.Flags().StringVarP(&output, "output", "o", "frames", "output directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// applyRenderFlags copies the render flags the user set from flags into
// opts.
func applyRenderFlags(cmd *cobra.Command, opts *pipeline.Options, flags pipeline.Options) {
	fl := cmd.Flags()
	opts.Layouts = flags.Layouts
	opts.Frames = flags.Frames
	opts.Photos = flags.Photos
	if fl.Changed("width") {
		opts.Width = flags.Width
	}
	if fl.Changed("height") {
		opts.Height = flags.Height
	}
	if fl.Changed("supersample") {
		opts.Supersample = flags.Supersample
	}
	if fl.Changed("format") {
		opts.Format = flags.Format
	}
}

// runSnapshot executes the pipeline and writes every frame into dir.
func (c *CLI) runSnapshot(ctx context.Context, opts pipeline.Options, dir string, noCache bool) error {
	if err := errors.ValidateOutputPath(dir); err != nil {
		return err
	}
	sess, err := c.requireSession(ctx)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, sess, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	start := time.Now()
	spin := startSpinner(ctx, c.errOut, "Starting...")
	prev := observability.SetPipelineHooks(spinnerHooks{spinner: spin})
	defer observability.SetPipelineHooks(prev)

	result, err := runner.Execute(ctx, opts)
	spin.Stop()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for _, name := range result.Names {
		if err := errors.ValidatePath(name); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), result.Artifacts[name], 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	logElapsed(c.Logger, start, "wrote frames", "count", len(result.Names), "run", result.RunID)
	p := c.print()
	p.success("Rendered %d transitions", result.Stats.Transitions)
	p.stats(result.Stats.Items, result.Stats.Frames, result.CacheInfo.RenderHit)
	p.file(dir)
	return nil
}
