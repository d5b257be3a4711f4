package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func a4Options() Options {
	return Options{PageWidthPx: 794, PageHeightPx: 1123, PageGapPx: 20}
}

func TestCompute_PageCount(t *testing.T) {
	opts := a4Options()
	oneInch := Margins{Top: 72, Bottom: 72}

	tests := []struct {
		name          string
		contentHeight int
		margins       Margins
		expectedCount int
	}{
		{
			name:          "Empty content still yields one page",
			contentHeight: 0,
			margins:       oneInch,
			expectedCount: 1,
		},
		{
			name:          "Content shorter than one page",
			contentHeight: 500,
			margins:       oneInch,
			expectedCount: 1,
		},
		{
			name:          "Content exactly one usable height",
			contentHeight: 979,
			margins:       oneInch,
			expectedCount: 1,
		},
		{
			name:          "One pixel past a page boundary",
			contentHeight: 980,
			margins:       oneInch,
			expectedCount: 2,
		},
		{
			name:          "2000px across three pages",
			contentHeight: 2000,
			margins:       oneInch,
			expectedCount: 3,
		},
		{
			name:          "Zero margins use the full page",
			contentHeight: 1123,
			margins:       Margins{},
			expectedCount: 1,
		},
		{
			name:          "Negative content height treated as empty",
			contentHeight: -50,
			margins:       oneInch,
			expectedCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Compute(tt.contentHeight, tt.margins, opts)
			assert.Equal(t, tt.expectedCount, g.PageCount)
			assert.Len(t, g.Pages, tt.expectedCount)
		})
	}
}

func TestCompute_PageWindows(t *testing.T) {
	// Spec'd boundary case: usable height 1123-72-72 = 979, three pages
	// for 2000px of content.
	g := Compute(2000, Margins{Top: 72, Bottom: 72}, a4Options())

	assert.Equal(t, 3, g.PageCount)

	assert.Equal(t, 0, g.Pages[0].TopOffsetPx)
	assert.Equal(t, 72, g.Pages[0].ContentStartPx)
	assert.Equal(t, 1051, g.Pages[0].ContentEndPx)

	// Second page starts after one page plus the inter-page gap.
	assert.Equal(t, 1143, g.Pages[1].TopOffsetPx)
	assert.Equal(t, 1215, g.Pages[1].ContentStartPx)
	assert.Equal(t, 2194, g.Pages[1].ContentEndPx)

	assert.Equal(t, 2286, g.Pages[2].TopOffsetPx)

	for _, p := range g.Pages {
		assert.Equal(t, 979, p.ContentEndPx-p.ContentStartPx, "usable height per page")
	}
}

func TestCompute_MonotonicPageGrowth(t *testing.T) {
	opts := a4Options()
	m := Margins{Top: 100, Bottom: 40}

	prev := 0
	for h := 0; h <= 6000; h += 137 {
		count := Compute(h, m, opts).PageCount
		assert.GreaterOrEqual(t, count, prev, "page count must not shrink as content grows (h=%d)", h)
		assert.GreaterOrEqual(t, count, 1)
		prev = count
	}
}

func TestCompute_DegenerateMargins(t *testing.T) {
	opts := a4Options()

	// Margins consume more than the whole page: usable height clamps to
	// 1px and the computation degrades to many pages instead of failing.
	g := Compute(500, Margins{Top: 600, Bottom: 600}, opts)
	assert.Equal(t, 500, g.PageCount)
	assert.GreaterOrEqual(t, g.PageCount, 1)
	for _, p := range g.Pages {
		assert.Equal(t, 1, p.ContentEndPx-p.ContentStartPx)
	}

	g = Compute(0, Margins{Top: 600, Bottom: 600}, opts)
	assert.Equal(t, 1, g.PageCount)
}

func TestCompute_NegativeMarginsClamped(t *testing.T) {
	g := Compute(100, Margins{Top: -30, Bottom: -1}, a4Options())
	assert.Equal(t, Margins{}, g.Margins)
	assert.Equal(t, 0, g.Pages[0].ContentStartPx)
}

func TestCompute_MarginChangeRecount(t *testing.T) {
	opts := a4Options()
	const contentHeight = 2000

	// Increasing the top margin can only hold or raise the page count
	// for fixed content.
	prev := 0
	for top := 0; top <= 500; top += 25 {
		count := Compute(contentHeight, Margins{Top: top, Bottom: 72}, opts).PageCount
		assert.GreaterOrEqual(t, count, prev, "top margin %d", top)
		prev = count
	}
}

func TestGeometry_TotalHeight(t *testing.T) {
	g := Compute(2000, Margins{Top: 72, Bottom: 72}, a4Options())
	// Three pages with two gaps.
	assert.Equal(t, 3*1123+2*20, g.TotalHeight())
}

func TestOptions_UsableHeight(t *testing.T) {
	opts := a4Options()
	assert.Equal(t, 979, opts.UsableHeight(Margins{Top: 72, Bottom: 72}))
	assert.Equal(t, 1123, opts.UsableHeight(Margins{}))
	assert.Equal(t, 1, opts.UsableHeight(Margins{Top: 600, Bottom: 600}))
}
