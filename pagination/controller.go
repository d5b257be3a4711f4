package pagination

// Measurer reports the rendered pixel height of the editing surface's
// content under the currently applied margins. Implementations return 0
// when the surface is not mounted yet; the controller treats that as
// empty content rather than a fault.
type Measurer interface {
	ContentHeight() int
}

// Renderer consumes one recompute cycle's output: the page chrome and
// the visibility mask for the editing surface.
type Renderer interface {
	RenderFrames(pages []PageWindow)
	ApplyMask(profile VisibilityProfile)
}

// FrameScheduler defers a callback until after the render engine's next
// layout pass. Measuring synchronously with the triggering mutation
// would read a stale height, so the controller only ever measures from
// inside a scheduled callback. Tests drive a manual implementation.
type FrameScheduler interface {
	AfterLayout(fn func())
}

// State is the controller's position in the recompute cycle.
type State int

const (
	// StateIdle: geometry and mask reflect the latest completed cycle.
	StateIdle State = iota
	// StateMeasurePending: a mutation arrived; measurement is scheduled
	// for after the next layout pass.
	StateMeasurePending
	// StateRecomputing: measure/geometry/mask/frames are running.
	StateRecomputing
)

// Controller orchestrates the pagination cycle: it listens for content
// and margin changes, defers measurement past the next layout pass, and
// runs measure → geometry → mask → frames as one synchronous sequence.
// Rapid triggers coalesce: however many arrive, at most one further
// recompute is pending at any time.
//
// The controller owns the margin configuration; the pure computations
// receive it as an argument on every cycle.
type Controller struct {
	opts      Options
	margins   Margins
	measurer  Measurer
	renderer  Renderer
	scheduler FrameScheduler

	state    State
	rerun    bool
	geometry Geometry
	profile  VisibilityProfile
}

// NewController returns an idle controller. The initial geometry is the
// valid single empty page, never an undefined zero value.
func NewController(measurer Measurer, renderer Renderer, scheduler FrameScheduler, margins Margins, opts Options) *Controller {
	c := &Controller{
		opts:      opts,
		margins:   margins.Clamped(),
		measurer:  measurer,
		renderer:  renderer,
		scheduler: scheduler,
	}
	c.geometry = Compute(0, c.margins, c.opts)
	c.profile = BuildProfile(c.geometry.Pages)
	return c
}

// Invalidate marks the current geometry stale and schedules a recompute.
// It is the registered change observer of the editing buffer. Calls made
// while a measurement is already pending are absorbed; calls made during
// a running cycle collapse into exactly one follow-up cycle.
func (c *Controller) Invalidate() {
	switch c.state {
	case StateIdle:
		c.state = StateMeasurePending
		c.scheduler.AfterLayout(c.runCycle)
	case StateMeasurePending:
		// Already scheduled; the pending measurement will see this
		// mutation's layout.
	case StateRecomputing:
		c.rerun = true
	}
}

func (c *Controller) runCycle() {
	c.state = StateRecomputing

	height := c.measurer.ContentHeight()
	c.geometry = Compute(height, c.margins, c.opts)
	c.profile = BuildProfile(c.geometry.Pages)
	c.renderer.ApplyMask(c.profile)
	c.renderer.RenderFrames(c.geometry.Pages)

	if c.rerun {
		c.rerun = false
		c.state = StateMeasurePending
		c.scheduler.AfterLayout(c.runCycle)
		return
	}
	c.state = StateIdle
}

// SetMargin updates one side of the margin configuration, clamped to be
// non-negative, and invalidates the geometry. Side names are "top",
// "bottom", "left", "right"; unknown sides are ignored.
func (c *Controller) SetMargin(side string, value int) {
	if value < 0 {
		value = 0
	}
	m := c.margins
	switch side {
	case "top":
		m.Top = value
	case "bottom":
		m.Bottom = value
	case "left":
		m.Left = value
	case "right":
		m.Right = value
	default:
		return
	}
	if m == c.margins {
		return
	}
	c.margins = m
	c.Invalidate()
}

// SetMargins replaces the whole margin configuration, used when loading
// a letter's persisted settings.
func (c *Controller) SetMargins(m Margins) {
	m = m.Clamped()
	if m == c.margins {
		return
	}
	c.margins = m
	c.Invalidate()
}

// Margins returns the current margin configuration.
func (c *Controller) Margins() Margins {
	return c.margins
}

// Geometry returns the result of the most recently completed cycle.
func (c *Controller) Geometry() Geometry {
	return c.geometry
}

// Profile returns the visibility profile of the most recently completed
// cycle.
func (c *Controller) Profile() VisibilityProfile {
	return c.profile
}

// State returns the controller's current cycle state.
func (c *Controller) State() State {
	return c.state
}
