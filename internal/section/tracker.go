package section

// Tracker holds the active section and scroll hint for one page instance.
// It is not safe for concurrent use; feed it from a single event loop.
type Tracker struct {
	extents  []Extent
	active   ID
	showHint bool
}

// NewTracker creates a tracker over extents given in document order.
func NewTracker(extents []Extent) *Tracker {
	t := &Tracker{active: About, showHint: true}
	t.SetExtents(extents)
	return t
}

// SetExtents replaces the measured layout, e.g. after a resize. The active
// section is kept until the next Scroll.
func (t *Tracker) SetExtents(extents []Extent) {
	t.extents = append(t.extents[:0], extents...)
}

// Extents returns a copy of the current layout.
func (t *Tracker) Extents() []Extent {
	return append([]Extent(nil), t.extents...)
}

// Scroll handles one scroll event (or the initial load) and returns the
// active section afterwards.
func (t *Tracker) Scroll(offset, viewportHeight float64) ID {
	probe := ProbeY(offset, viewportHeight)
	t.showHint = ShowScrollHint(probe, viewportHeight)
	t.active = ComputeActive(probe, t.extents, t.active)
	return t.active
}

// Active returns the currently highlighted section.
func (t *Tracker) Active() ID { return t.active }

// ShowScrollHint reports whether the "scroll down" indicator is visible.
func (t *Tracker) ShowScrollHint() bool { return t.showHint }

// Stack lays out sections back to back starting at top, using the given
// heights in Order. Sections missing from heights are skipped.
func Stack(top float64, heights map[ID]float64) []Extent {
	out := make([]Extent, 0, len(heights))
	for _, id := range Order {
		h, ok := heights[id]
		if !ok {
			continue
		}
		out = append(out, Extent{ID: id, Top: top, Height: h})
		top += h
	}
	return out
}
