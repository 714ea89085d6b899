// Package gallery is the tabbed image viewer: one active slide out of a fixed
// list, moved by tab clicks, arrows or a horizontal swipe.
package gallery

import (
	"fmt"
	"math"

	"eiendom_showcase/internal/domain"
)

// SwipeThreshold is how far (in CSS pixels) a touch must travel to count as a swipe.
const SwipeThreshold = 50.0

const DefaultTitle = "Plaace Analytics"

type Viewer struct {
	Title string

	items  []domain.Screenshot
	active int

	touchStartX float64
	touchEndX   float64
}

func New(items []domain.Screenshot) *Viewer {
	return &Viewer{Title: DefaultTitle, items: items}
}

func (v *Viewer) Len() int    { return len(v.items) }
func (v *Viewer) Empty() bool { return len(v.items) == 0 }
func (v *Viewer) Active() int { return v.active }

// Select activates tab i. Indices outside the list are ignored.
func (v *Viewer) Select(i int) {
	if i >= 0 && i < len(v.items) {
		v.active = i
	}
}

func (v *Viewer) CanPrev() bool { return v.active > 0 }
func (v *Viewer) CanNext() bool { return v.active < len(v.items)-1 }

func (v *Viewer) Prev() {
	if v.CanPrev() {
		v.active--
	}
}

func (v *Viewer) Next() {
	if v.CanNext() {
		v.active++
	}
}

func (v *Viewer) TouchStart(x float64) { v.touchStartX = x }

// TouchEnd records where the finger lifted and applies the swipe, if any.
func (v *Viewer) TouchEnd(x float64) {
	v.touchEndX = x
	v.swipe()
}

// swipe: a leftward drag (start right of end) shows the next slide.
func (v *Viewer) swipe() {
	diff := v.touchStartX - v.touchEndX
	if math.Abs(diff) <= SwipeThreshold {
		return
	}
	if diff > 0 {
		v.Next()
	} else {
		v.Prev()
	}
}

// Position is the "2 av 5" counter under the slides.
func (v *Viewer) Position() string {
	if v.Empty() {
		return ""
	}
	return fmt.Sprintf("%d av %d", v.active+1, len(v.items))
}

// Slide is a screenshot as rendered: all slides are emitted, only one is active.
type Slide struct {
	Index int
	domain.Screenshot
	Active bool
	// Eager marks the first slide; the rest load lazily.
	Eager bool
}

func (v *Viewer) Slides() []Slide {
	out := make([]Slide, len(v.items))
	for i, s := range v.items {
		out[i] = Slide{Index: i, Screenshot: s, Active: i == v.active, Eager: i == 0}
	}
	return out
}
