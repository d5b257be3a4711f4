// Package pagination simulates fixed-height printable pages over a single
// continuous editing surface. Given the measured height of the flowing
// content and a margin configuration it computes how many pages are
// needed, where each page's content window sits along the content axis,
// and which vertical bands of the surface must be hidden so content never
// bleeds into margins or inter-page gaps.
package pagination

// Page dimension constants at 96 dpi. A4 is 210mm x 297mm.
const (
	DefaultPageWidthPx  = 794
	DefaultPageHeightPx = 1123
	DefaultPageGapPx    = 20
	DefaultMarginPx     = 72 // one inch
)

// Margins are the per-side page insets in pixels. All values are
// non-negative; SetMargin on the controller clamps on the way in.
type Margins struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// DefaultMargins returns the one-inch defaults used when no persisted
// configuration exists.
func DefaultMargins() Margins {
	return Margins{Top: DefaultMarginPx, Bottom: DefaultMarginPx, Left: DefaultMarginPx, Right: DefaultMarginPx}
}

// Clamped returns a copy with negative sides raised to zero.
func (m Margins) Clamped() Margins {
	if m.Top < 0 {
		m.Top = 0
	}
	if m.Bottom < 0 {
		m.Bottom = 0
	}
	if m.Left < 0 {
		m.Left = 0
	}
	if m.Right < 0 {
		m.Right = 0
	}
	return m
}

// Options are the fixed page dimensions. They are passed explicitly on
// every computation so the pure functions carry no ambient state.
type Options struct {
	PageWidthPx  int `json:"page_width_px"`
	PageHeightPx int `json:"page_height_px"`
	PageGapPx    int `json:"page_gap_px"`
}

// DefaultOptions returns A4-at-96dpi pages with a 20px gap.
func DefaultOptions() Options {
	return Options{
		PageWidthPx:  DefaultPageWidthPx,
		PageHeightPx: DefaultPageHeightPx,
		PageGapPx:    DefaultPageGapPx,
	}
}

// UsableHeight is the vertical space available for content on one page:
// page height minus vertical margins, clamped to at least 1px so
// degenerate margins degrade to "many pages" instead of dividing by zero.
func (o Options) UsableHeight(m Margins) int {
	usable := o.PageHeightPx - m.Top - m.Bottom
	if usable < 1 {
		usable = 1
	}
	return usable
}

// PageWindow locates one page and its content-visible window along the
// single continuous content axis.
type PageWindow struct {
	Index          int `json:"index"`
	TopOffsetPx    int `json:"top_offset_px"`
	ContentStartPx int `json:"content_start_px"`
	ContentEndPx   int `json:"content_end_px"`
}

// Geometry is the derived page layout for one measured content height.
// It is ephemeral: valid until the next recompute.
type Geometry struct {
	PageCount    int          `json:"page_count"`
	PageWidthPx  int          `json:"page_width_px"`
	PageHeightPx int          `json:"page_height_px"`
	PageGapPx    int          `json:"page_gap_px"`
	Margins      Margins      `json:"margins"`
	Pages        []PageWindow `json:"pages"`
}

// Compute derives the page geometry for the given content height. The
// page count is the minimum number of pages whose cumulative usable
// height covers the content, and is never below one: empty content still
// renders a single page.
func Compute(contentHeightPx int, m Margins, opts Options) Geometry {
	m = m.Clamped()
	if contentHeightPx < 0 {
		contentHeightPx = 0
	}

	usable := opts.UsableHeight(m)
	count := (contentHeightPx + usable - 1) / usable
	if count < 1 {
		count = 1
	}

	pages := make([]PageWindow, count)
	for i := 0; i < count; i++ {
		top := i * (opts.PageHeightPx + opts.PageGapPx)
		pages[i] = PageWindow{
			Index:          i,
			TopOffsetPx:    top,
			ContentStartPx: top + m.Top,
			// Start + usable equals top + pageHeight - bottom except under
			// degenerate margins, where the clamp keeps the window valid.
			ContentEndPx: top + m.Top + usable,
		}
	}

	return Geometry{
		PageCount:    count,
		PageWidthPx:  opts.PageWidthPx,
		PageHeightPx: opts.PageHeightPx,
		PageGapPx:    opts.PageGapPx,
		Margins:      m,
		Pages:        pages,
	}
}

// TotalHeight is the full rendered height of the page stack including
// inter-page gaps, used to size the editor scroll container.
func (g Geometry) TotalHeight() int {
	if g.PageCount == 0 {
		return 0
	}
	return g.PageCount*g.PageHeightPx + (g.PageCount-1)*g.PageGapPx
}
