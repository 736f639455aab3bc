// Package pkg provides the core libraries for deckview.
//
// # Overview
//
// deckview turns spreadsheet rows into cards and animates them between 3-D
// layouts. The pkg directory is organized into four main areas:
//
//  1. Domain logic ([geom], [layout], [tween], [scene], [transition])
//  2. Data ([source], [auth], [session])
//  3. Output ([render], [pipeline])
//  4. Infrastructure ([cache], [config], [errors], [observability], [buildinfo])
//
// # Architecture
//
// The typical data flow:
//
//	Google Sheet / CSV file
//	         ↓
//	    [source] package (fetch rows, classify net worth)
//	         ↓
//	    [scene] package (scattered cards + cached target sets from [layout])
//	         ↓
//	    [transition] package (tweens driven by the [tween] scheduler)
//	         ↓
//	    [render] package (camera, rasterizer, PNG/WebP frames)
//
// # Quick Start
//
// Animate placeholder cards into a helix and render the settled frame:
//
//	import (
//	    "time"
//	    "github.com/matzehuels/deckview/pkg/layout"
//	    "github.com/matzehuels/deckview/pkg/render"
//	    "github.com/matzehuels/deckview/pkg/scene"
//	    "github.com/matzehuels/deckview/pkg/transition"
//	    "github.com/matzehuels/deckview/pkg/tween"
//	)
//
//	items := scene.Placeholder(40)
//	sc := scene.New(items, 1)
//	ctrl := transition.New(sc, tween.NewScheduler())
//
//	start := time.Now()
//	_ = ctrl.TransitionTo(layout.Helix, 2*time.Second)
//	ctrl.TickAt(start.Add(3 * time.Second))
//
//	img := render.NewRasterizer(nil, 1280, 720, 2).
//	    Render(render.Cards(items, sc.Snapshot(), nil))
//
// # Main Packages
//
// ## Domain Logic
//
// [geom] - Vectors, 3×3 matrices, Euler angles and the look-at helpers the
// layouts use to orient cards.
//
// [layout] - The five layout generators (table, sphere, helix, grid,
// tetrahedron) mapping (index, count) to a target transform, plus JSON
// export of target sets.
//
// [tween] - Value interpolation with easing curves and a scheduler that
// advances every running tween from one clock reading.
//
// [scene] - The card transforms and the target sets of every layout for the
// current item count.
//
// [transition] - Moves a scene to a layout: clears running tweens and starts
// one position and one rotation tween per card.
//
// ## Data
//
// [source] - Rows from the Google Sheets CSV export, the Sheets values API or
// a local CSV file, with net worth tiers.
//
// [auth] and [session] - Google ID token claims and the signed-in session
// stored on disk.
//
// ## Output
//
// [render] - Perspective camera, painter's-order rasterizer with photo and
// label faces, and frame encoders.
//
// [pipeline] - load → settle → transition → render, with frames cached by
// item hash and options.
//
// ## Infrastructure
//
// [cache] - File, Redis and null caches behind one interface, key builders
// and retry helpers.
//
// [config] - TOML settings with environment overrides.
//
// [errors] - Coded errors and path validation.
//
// [observability] - Hooks for pipeline stages, cache access and HTTP calls.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/layout/...     # Specific package
//	go test -run Example ./...   # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/geom
// [layout]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/layout
// [tween]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/tween
// [scene]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/scene
// [transition]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/transition
// [source]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/source
// [auth]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/auth
// [session]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/session
// [render]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/deckview/pkg/buildinfo
package pkg
