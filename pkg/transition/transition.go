// Package transition animates a scene from its current transforms to a
// layout's target transforms.
//
// A transition is a hard cut: starting one discards every tween of the
// previous transition, wherever it was, and animates from the cards'
// current transforms. Rotations take the shortest way round on each axis.
//
//	ctrl := transition.New(sc, tween.NewScheduler(), transition.WithRenderFunc(draw))
//	ctrl.TransitionTo(layout.Sphere, transition.DefaultDuration)
//	for ctrl.Tick() {
//	    // wait for next frame
//	}
package transition

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/geom"
	"github.com/matzehuels/deckview/pkg/layout"
	"github.com/matzehuels/deckview/pkg/scene"
	"github.com/matzehuels/deckview/pkg/tween"
)

const (
	// DefaultDuration is the length of a layout switch.
	DefaultDuration = 5 * time.Second

	// RenderMargin stretches the render-refresh tween past the card tweens
	// so the final frame is always drawn.
	RenderMargin = 1.2
)

// Controller starts transitions on a scene and advances them.
type Controller struct {
	scene  *scene.Scene
	sched  *tween.Scheduler
	clock  func() time.Time
	easing tween.Easing
	render func()
	logger *log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the time source used by TransitionTo and Tick. Offline
// renderers pass a simulated clock.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.clock = now }
}

// WithEasing sets the easing of position and rotation tweens.
func WithEasing(e tween.Easing) Option {
	return func(c *Controller) {
		if e != nil {
			c.easing = e
		}
	}
}

// WithRenderFunc sets the callback invoked on every tick of a running
// transition.
func WithRenderFunc(fn func()) Option {
	return func(c *Controller) { c.render = fn }
}

// WithLogger enables debug logging of transitions.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a controller for sc that schedules its tweens on sched.
func New(sc *scene.Scene, sched *tween.Scheduler, opts ...Option) *Controller {
	c := &Controller{
		scene:  sc,
		sched:  sched,
		clock:  time.Now,
		easing: tween.ExponentialInOut,
		render: func() {},
	}
	for _, o := range opts {
		o(c)
	}
	if c.render == nil {
		c.render = func() {}
	}
	return c
}

// Transition animates every card to its entry in targets over d, starting
// now according to the controller's clock.
func (c *Controller) Transition(targets layout.TargetSet, d time.Duration, name layout.Name) error {
	return c.TransitionAt(c.clock(), targets, d, name)
}

// TransitionAt is Transition with an explicit start time.
//
// It clears all running tweens, marks name active, then starts one position
// tween and one rotation tween per card plus a render-refresh tween lasting
// d·RenderMargin. It fails without side effects if targets does not have
// one entry per card.
func (c *Controller) TransitionAt(now time.Time, targets layout.TargetSet, d time.Duration, name layout.Name) error {
	if len(targets) != c.scene.Len() {
		return errors.New(errors.ErrCodeInvalidInput,
			"layout %s has %d targets for %d cards", name, len(targets), c.scene.Len())
	}

	c.sched.RemoveAll()
	c.scene.SetActive(name)

	for i := range c.scene.Objects {
		obj := &c.scene.Objects[i]
		target := targets[i]
		rotation := geom.NearestEquivalent(obj.Rotation, target.Rotation)

		c.sched.Start(tween.OfVec3(&obj.Position).ToVec3(d, target.Position).Easing(c.easing), now)
		c.sched.Start(tween.OfVec3(&obj.Rotation).ToVec3(d, rotation).Easing(c.easing), now)
	}

	margin := time.Duration(float64(d) * RenderMargin)
	c.sched.Start(tween.New().To(margin).OnUpdate(func(float64) { c.render() }), now)

	if c.logger != nil {
		c.logger.Debug("transition", "layout", name, "cards", c.scene.Len(), "duration", d)
	}
	return nil
}

// TransitionTo looks up the scene's cached targets for name and transitions
// to them.
func (c *Controller) TransitionTo(name layout.Name, d time.Duration) error {
	canon, err := layout.ParseName(string(name))
	if err != nil {
		return err
	}
	targets, err := c.scene.Targets(canon)
	if err != nil {
		return err
	}
	return c.Transition(targets, d, canon)
}

// Tick advances running tweens to the controller's clock and reports
// whether any are still running.
func (c *Controller) Tick() bool {
	return c.sched.Update(c.clock())
}

// TickAt advances running tweens to now.
func (c *Controller) TickAt(now time.Time) bool {
	return c.sched.Update(now)
}

// Running reports whether a transition is in flight.
func (c *Controller) Running() bool {
	return c.sched.Len() > 0
}

// Active returns the name of the last layout transitioned to.
func (c *Controller) Active() layout.Name {
	return c.scene.Active()
}

// Scene returns the controlled scene.
func (c *Controller) Scene() *scene.Scene {
	return c.scene
}
