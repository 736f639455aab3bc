package pipeline

import (
	"context"
	"image"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/deckview/pkg/geom"
	"github.com/matzehuels/deckview/pkg/observability"
	"github.com/matzehuels/deckview/pkg/render"
	"github.com/matzehuels/deckview/pkg/source"
)

type frameJob struct {
	name       string
	transforms []geom.Transform
}

// RenderFrames rasterizes and encodes every snapshot in seqs. Names are
// returned in capture order.
func (r *Runner) RenderFrames(ctx context.Context, items []source.Item, photos []*image.NRGBA, seqs []Sequence, opts Options) (names []string, artifacts map[string][]byte, err error) {
	if err := opts.SetDefaults(); err != nil {
		return nil, nil, err
	}

	var jobs []frameJob
	for _, seq := range seqs {
		for k, frame := range seq.Frames {
			jobs = append(jobs, frameJob{
				name:       ArtifactName(seq.Layout, k, opts.Format),
				transforms: frame,
			})
		}
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Format)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Format, len(names), time.Since(start), err)
	}()

	raster := render.NewRasterizer(render.NewCamera(), opts.Width, opts.Height, opts.Supersample)
	encoded := make([][]byte, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img := raster.Render(render.Cards(items, job.transforms, photos))
			data, err := render.EncodeBytes(img, opts.Format)
			if err != nil {
				return err
			}
			encoded[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	names = make([]string, len(jobs))
	artifacts = make(map[string][]byte, len(jobs))
	for i, job := range jobs {
		names[i] = job.name
		artifacts[job.name] = encoded[i]
	}
	return names, artifacts, nil
}
