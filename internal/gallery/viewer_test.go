package gallery_test

import (
	"testing"

	"eiendom_showcase/internal/domain"
	"eiendom_showcase/internal/gallery"
)

func abc() []domain.Screenshot {
	return []domain.Screenshot{
		{Filnavn: "A", Path: "/a.png"},
		{Filnavn: "B", Path: "/b.png"},
		{Filnavn: "C", Path: "/c.png"},
	}
}

func TestViewer_TabsAndArrows(t *testing.T) {
	v := gallery.New(abc())
	if v.Active() != 0 {
		t.Fatalf("initial index %d", v.Active())
	}

	v.Prev()
	if v.Active() != 0 || v.CanPrev() {
		t.Fatalf("left arrow at 0 must be a no-op and disabled")
	}

	v.Select(2)
	if v.Active() != 2 {
		t.Fatalf("tab click: got %d", v.Active())
	}
	v.Next()
	if v.Active() != 2 || v.CanNext() {
		t.Fatalf("right arrow at last must be a no-op and disabled")
	}

	v.Prev()
	if v.Active() != 1 || !v.CanPrev() || !v.CanNext() {
		t.Fatalf("expected middle tab with both arrows, got %d", v.Active())
	}

	v.Select(7)
	v.Select(-1)
	if v.Active() != 1 {
		t.Fatalf("invalid tab indices must be ignored, got %d", v.Active())
	}
}

func TestViewer_Swipe(t *testing.T) {
	cases := []struct {
		name       string
		from       int
		start, end float64
		want       int
	}{
		{"leftward past threshold advances", 0, 300, 200, 1},
		{"below threshold ignored", 0, 300, 260, 0},
		{"exactly threshold ignored", 0, 300, 250, 0},
		{"rightward goes back", 2, 100, 200, 1},
		{"rightward at first clamps", 0, 100, 400, 0},
		{"leftward at last clamps", 2, 400, 100, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := gallery.New(abc())
			v.Select(tc.from)
			v.TouchStart(tc.start)
			v.TouchEnd(tc.end)
			if v.Active() != tc.want {
				t.Fatalf("got %d, want %d", v.Active(), tc.want)
			}
		})
	}
}

func TestViewer_SlidesExactlyOneActive(t *testing.T) {
	v := gallery.New(abc())
	v.Select(1)
	slides := v.Slides()
	if len(slides) != 3 {
		t.Fatalf("all slides must be present, got %d", len(slides))
	}
	active := 0
	for _, s := range slides {
		if s.Active {
			active++
			if s.Index != 1 {
				t.Fatalf("wrong active slide %d", s.Index)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active slide, got %d", active)
	}
	if !slides[0].Eager || slides[1].Eager {
		t.Fatalf("only the first slide loads eagerly")
	}
	if v.Position() != "2 av 3" {
		t.Fatalf("position %q", v.Position())
	}
}

func TestViewer_Empty(t *testing.T) {
	v := gallery.New(nil)
	if !v.Empty() || v.Position() != "" || len(v.Slides()) != 0 {
		t.Fatalf("empty viewer should render nothing")
	}
	v.Next()
	v.TouchStart(300)
	v.TouchEnd(0)
	if v.Active() != 0 {
		t.Fatalf("empty viewer must stay at 0, got %d", v.Active())
	}
}
