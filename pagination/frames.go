package pagination

import (
	"fmt"
	"strings"
)

// Frame is one piece of page chrome: a fixed-size background box drawn
// at a page's offset, behind the editing surface.
type Frame struct {
	Index       int
	TopOffsetPx int
}

// FrameSet is the HTML/CSS renderer for the page chrome and the mask.
// It keeps the frame list between renders and only adds or removes
// frames when the page count changes, so steady-state edits never churn
// the chrome elements.
type FrameSet struct {
	opts      Options
	frames    []Frame
	mask      VisibilityProfile
	mutations int
}

// NewFrameSet returns an empty frame renderer for the given page
// dimensions.
func NewFrameSet(opts Options) *FrameSet {
	return &FrameSet{opts: opts}
}

// RenderFrames reconciles the frame list with the computed page windows.
// Frames whose offset is unchanged are left untouched.
func (f *FrameSet) RenderFrames(pages []PageWindow) {
	for len(f.frames) > len(pages) {
		f.frames = f.frames[:len(f.frames)-1]
		f.mutations++
	}
	for i, p := range pages {
		if i < len(f.frames) {
			if f.frames[i].TopOffsetPx != p.TopOffsetPx {
				f.frames[i].TopOffsetPx = p.TopOffsetPx
				f.mutations++
			}
			continue
		}
		f.frames = append(f.frames, Frame{Index: p.Index, TopOffsetPx: p.TopOffsetPx})
		f.mutations++
	}
}

// ApplyMask stores the visibility profile for the render layer.
func (f *FrameSet) ApplyMask(profile VisibilityProfile) {
	f.mask = profile
}

// Frames returns the current chrome state.
func (f *FrameSet) Frames() []Frame {
	return f.frames
}

// Mutations counts frame additions, removals and moves since creation.
func (f *FrameSet) Mutations() int {
	return f.mutations
}

// FramesHTML renders the chrome as absolutely positioned page boxes for
// the editor template. The editing surface sits above these boxes and is
// revealed through the mask.
func (f *FrameSet) FramesHTML() string {
	var sb strings.Builder
	for _, fr := range f.frames {
		fmt.Fprintf(&sb,
			`<div class="page-frame" data-page="%d" style="top:%dpx;width:%dpx;height:%dpx;"></div>`,
			fr.Index, fr.TopOffsetPx, f.opts.PageWidthPx, f.opts.PageHeightPx)
	}
	return sb.String()
}

// MaskCSS renders the stored visibility profile as a CSS mask-image
// gradient for the editing surface: opaque inside page content windows,
// transparent across margins and gaps.
func (f *FrameSet) MaskCSS() string {
	return MaskImageCSS(f.mask)
}

// MaskImageCSS converts a visibility profile into a hard-stop
// linear-gradient usable as mask-image / -webkit-mask-image.
func MaskImageCSS(profile VisibilityProfile) string {
	if len(profile) == 0 {
		return ""
	}
	var parts []string
	for i, stop := range profile {
		color := "transparent"
		if stop.State == Visible {
			color = "#000"
		}
		parts = append(parts, fmt.Sprintf("%s %dpx", color, stop.OffsetPx))
		if i+1 < len(profile) {
			parts = append(parts, fmt.Sprintf("%s %dpx", color, profile[i+1].OffsetPx))
		}
	}
	return "linear-gradient(to bottom, " + strings.Join(parts, ", ") + ")"
}
