package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// manualScheduler queues callbacks until the test pumps a layout pass,
// standing in for the render engine's after-layout hook.
type manualScheduler struct {
	queued []func()
}

func (s *manualScheduler) AfterLayout(fn func()) {
	s.queued = append(s.queued, fn)
}

func (s *manualScheduler) pump() int {
	ran := 0
	for len(s.queued) > 0 {
		fn := s.queued[0]
		s.queued = s.queued[1:]
		fn()
		ran++
	}
	return ran
}

type stubMeasurer struct {
	height int
	calls  int
}

func (m *stubMeasurer) ContentHeight() int {
	m.calls++
	return m.height
}

type recordingRenderer struct {
	pages       []PageWindow
	profile     VisibilityProfile
	maskApplied int
	rendered    int
}

func (r *recordingRenderer) RenderFrames(pages []PageWindow) {
	r.pages = pages
	r.rendered++
}

func (r *recordingRenderer) ApplyMask(profile VisibilityProfile) {
	r.profile = profile
	r.maskApplied++
}

func newTestController(height int) (*Controller, *stubMeasurer, *recordingRenderer, *manualScheduler) {
	m := &stubMeasurer{height: height}
	r := &recordingRenderer{}
	s := &manualScheduler{}
	c := NewController(m, r, s, DefaultMargins(), a4Options())
	return c, m, r, s
}

func TestController_InitialGeometryValid(t *testing.T) {
	c, _, _, _ := newTestController(0)

	// Before any cycle the controller already holds a one-page geometry,
	// never an undefined zero value.
	assert.Equal(t, 1, c.Geometry().PageCount)
	assert.NotEmpty(t, c.Profile())
	assert.Equal(t, StateIdle, c.State())
}

func TestController_CycleSequence(t *testing.T) {
	c, m, r, s := newTestController(2000)
	c.SetMargins(Margins{Top: 72, Bottom: 72})

	assert.Equal(t, StateMeasurePending, c.State())
	assert.Equal(t, 0, m.calls, "measurement must not run in the triggering tick")

	s.pump()

	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 1, m.calls)
	assert.Equal(t, 3, c.Geometry().PageCount)
	assert.Len(t, r.pages, 3)
	assert.Equal(t, 1, r.maskApplied)
	assert.Equal(t, c.Profile(), r.profile)
}

func TestController_CoalescesRapidMutations(t *testing.T) {
	c, m, _, s := newTestController(500)

	// Ten rapid mutations inside one render frame collapse into a single
	// scheduled cycle.
	for i := 0; i < 10; i++ {
		c.Invalidate()
	}
	assert.Len(t, s.queued, 1)

	ran := s.pump()
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, m.calls)
	assert.Equal(t, StateIdle, c.State())
}

func TestController_MutationDuringRecomputeRunsOneMore(t *testing.T) {
	c, m, _, s := newTestController(500)

	// The measurer fires mutations mid-cycle: they must collapse into
	// exactly one follow-up cycle, not a queue.
	interrupted := false
	measuring := &funcMeasurer{fn: func() int {
		if !interrupted {
			interrupted = true
			c.Invalidate()
			c.Invalidate()
			c.Invalidate()
		}
		return 500
	}}
	c.measurer = measuring

	c.Invalidate()
	s.pump()

	assert.Equal(t, 2, measuring.calls, "one initial cycle plus one coalesced follow-up")
	assert.Equal(t, StateIdle, c.State())
	_ = m
}

type funcMeasurer struct {
	fn    func() int
	calls int
}

func (m *funcMeasurer) ContentHeight() int {
	m.calls++
	return m.fn()
}

func TestController_UnmountedMeasurerYieldsOnePage(t *testing.T) {
	c, _, r, s := newTestController(0)

	c.Invalidate()
	s.pump()

	assert.Equal(t, 1, c.Geometry().PageCount)
	assert.Len(t, r.pages, 1)
}

func TestController_SetMarginClampsAndRecomputes(t *testing.T) {
	c, m, _, s := newTestController(2000)
	c.SetMargins(Margins{Top: 72, Bottom: 72})
	s.pump()
	assert.Equal(t, 3, c.Geometry().PageCount)

	c.SetMargin("top", 300)
	assert.Equal(t, StateMeasurePending, c.State())
	s.pump()

	// Usable height 1123-300-72 = 751; ceil(2000/751) = 3 still, then a
	// larger margin pushes it to 4.
	assert.Equal(t, 3, c.Geometry().PageCount)

	c.SetMargin("bottom", 400)
	s.pump()
	assert.Equal(t, 5, c.Geometry().PageCount)

	c.SetMargin("left", -50)
	assert.Equal(t, 0, c.Margins().Left)

	_ = m
}

func TestController_SetMarginSameValueNoRecompute(t *testing.T) {
	c, _, _, s := newTestController(500)
	c.SetMargin("top", DefaultMarginPx)
	assert.Empty(t, s.queued)
	assert.Equal(t, StateIdle, c.State())
}

func TestController_MarginGrowthMonotonicPageCount(t *testing.T) {
	c, _, _, s := newTestController(2000)
	c.SetMargins(Margins{Top: 0, Bottom: 72})
	s.pump()

	prev := c.Geometry().PageCount
	for top := 25; top <= 500; top += 25 {
		c.SetMargin("top", top)
		s.pump()
		count := c.Geometry().PageCount
		assert.GreaterOrEqual(t, count, prev)
		prev = count
	}
}

func TestController_StaleMaskNeverSurvivesNewerCycle(t *testing.T) {
	c, m, r, s := newTestController(500)

	c.Invalidate()
	s.pump()
	first := r.profile

	m.height = 4000
	c.Invalidate()
	s.pump()

	assert.NotEqual(t, first, r.profile, "renderer holds the newest cycle's mask")
	assert.Equal(t, c.Profile(), r.profile)
	assert.Equal(t, c.Geometry().PageCount, len(r.pages))
}
