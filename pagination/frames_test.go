package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameSet_RenderFramesReconciles(t *testing.T) {
	fs := NewFrameSet(a4Options())

	g := Compute(2000, Margins{Top: 72, Bottom: 72}, a4Options())
	fs.RenderFrames(g.Pages)

	assert.Len(t, fs.Frames(), 3)
	assert.Equal(t, 3, fs.Mutations())
	assert.Equal(t, 1143, fs.Frames()[1].TopOffsetPx)

	// Re-rendering the same geometry must not touch existing frames.
	fs.RenderFrames(g.Pages)
	assert.Equal(t, 3, fs.Mutations())

	// Shrinking content drops trailing frames only.
	g2 := Compute(500, Margins{Top: 72, Bottom: 72}, a4Options())
	fs.RenderFrames(g2.Pages)
	assert.Len(t, fs.Frames(), 1)
	assert.Equal(t, 5, fs.Mutations())

	// Growing again appends without moving the surviving frame.
	fs.RenderFrames(g.Pages)
	assert.Len(t, fs.Frames(), 3)
	assert.Equal(t, 7, fs.Mutations())
}

func TestFrameSet_FramesHTML(t *testing.T) {
	fs := NewFrameSet(a4Options())
	g := Compute(2000, Margins{Top: 72, Bottom: 72}, a4Options())
	fs.RenderFrames(g.Pages)

	htmlOut := fs.FramesHTML()
	assert.Contains(t, htmlOut, `data-page="0"`)
	assert.Contains(t, htmlOut, `data-page="2"`)
	assert.Contains(t, htmlOut, "top:1143px")
	assert.Contains(t, htmlOut, "width:794px")
	assert.Contains(t, htmlOut, "height:1123px")
}

func TestFrameSet_MaskCSSReflectsAppliedProfile(t *testing.T) {
	fs := NewFrameSet(a4Options())
	assert.Equal(t, "", fs.MaskCSS(), "no mask before a cycle")

	g := Compute(2000, Margins{Top: 72, Bottom: 72}, a4Options())
	fs.ApplyMask(BuildProfile(g.Pages))

	css := fs.MaskCSS()
	assert.Contains(t, css, "transparent 0px")
	assert.Contains(t, css, "#000 72px")
	assert.Contains(t, css, "#000 1051px")
	assert.Contains(t, css, "transparent 1215px")
}

func TestFrameSet_ImplementsRenderer(t *testing.T) {
	var _ Renderer = NewFrameSet(a4Options())
}
