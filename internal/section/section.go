// Package section tracks which labeled page region is currently in view.
package section

import "fmt"

// ID names one labeled region of the page.
type ID string

const (
	About      ID = "about"
	Experience ID = "experience"
	Education  ID = "education"
	Skills     ID = "skills"
	Projects   ID = "projects"
	Contact    ID = "contact"
)

// Order is the top-to-bottom document order of the page regions.
var Order = []ID{About, Experience, Education, Skills, Projects, Contact}

var titles = map[ID]string{
	About:      "About",
	Experience: "Experience",
	Education:  "Education",
	Skills:     "Skills",
	Projects:   "Projects",
	Contact:    "Contact",
}

// Title returns the navigation label for the section.
func (id ID) Title() string {
	if t, ok := titles[id]; ok {
		return t
	}
	return string(id)
}

// Anchor returns the in-page link target, e.g. "#skills".
func (id ID) Anchor() string {
	return "#" + string(id)
}

// Index returns the position of id in Order, or -1.
func (id ID) Index() int {
	for i, o := range Order {
		if o == id {
			return i
		}
	}
	return -1
}

// Parse validates a section name.
func Parse(s string) (ID, error) {
	id := ID(s)
	if id.Index() < 0 {
		return "", fmt.Errorf("unknown section %q", s)
	}
	return id, nil
}

// Extent is the rendered vertical span of a section.
type Extent struct {
	ID     ID      `json:"id"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Contains reports whether y falls in [Top, Top+Height).
func (e Extent) Contains(y float64) bool {
	return y >= e.Top && y < e.Top+e.Height
}

// ProbeY is the sampling point used for containment: a third of the way
// down the viewport.
func ProbeY(scrollOffset, viewportHeight float64) float64 {
	return scrollOffset + viewportHeight/3
}

// ShowScrollHint reports whether the "scroll down" indicator stays visible:
// only until the probe passes half the viewport height.
func ShowScrollHint(probeY, viewportHeight float64) bool {
	return probeY <= viewportHeight/2
}

// ComputeActive returns the first extent, in slice order, containing probeY.
// When none does, previous is returned unchanged.
func ComputeActive(probeY float64, extents []Extent, previous ID) ID {
	for _, e := range extents {
		if e.Contains(probeY) {
			return e.ID
		}
	}
	return previous
}
