package pagination

// BandState says whether a vertical band of the flowing content is shown
// or hidden by the page mask.
type BandState int

const (
	Hidden BandState = iota
	Visible
)

func (s BandState) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// Stop is one boundary of the visibility profile: from OffsetPx down to
// the next stop (or infinity) the content is in State.
type Stop struct {
	OffsetPx int       `json:"offset_px"`
	State    BandState `json:"state"`
}

// VisibilityProfile is a 1-D mask along the vertical axis of the flowing
// content: an ordered list of stops with strictly increasing offsets,
// always starting at offset 0. Applied to the editing surface's render
// layer it hides margins and inter-page gaps while leaving each page's
// content window visible.
type VisibilityProfile []Stop

// BuildProfile derives the visibility profile from the page windows. One
// hidden band spans from each page's content end to the next page's
// content start, covering the bottom margin, the inter-page gap and the
// following top margin in one stretch. The profile starts hidden at 0
// (the first page's own top margin) unless the top margin is zero.
func BuildProfile(pages []PageWindow) VisibilityProfile {
	if len(pages) == 0 {
		return VisibilityProfile{{OffsetPx: 0, State: Visible}}
	}

	var profile VisibilityProfile
	push := func(offset int, state BandState) {
		if n := len(profile); n > 0 {
			if profile[n-1].State == state {
				return
			}
			if profile[n-1].OffsetPx == offset {
				// Zero-width band: the newer state wins so offsets stay
				// strictly increasing.
				profile[n-1].State = state
				if n > 1 && profile[n-2].State == state {
					profile = profile[:n-1]
				}
				return
			}
		}
		profile = append(profile, Stop{OffsetPx: offset, State: state})
	}

	push(0, Hidden)
	for _, p := range pages {
		push(p.ContentStartPx, Visible)
		push(p.ContentEndPx, Hidden)
	}
	return profile
}

// VisibleAt reports the state of the profile at the given offset.
func (p VisibilityProfile) VisibleAt(offsetPx int) bool {
	state := Hidden
	for _, s := range p {
		if s.OffsetPx > offsetPx {
			break
		}
		state = s.State
	}
	return state == Visible
}
