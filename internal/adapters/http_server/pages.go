package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"eiendom_showcase/internal/compare"
	"eiendom_showcase/internal/domain"
	"eiendom_showcase/internal/gallery"
	"eiendom_showcase/internal/web"
)

// Pages renders the HTML side of the showcase. Q may be the in-process
// query service or an API client.
type Pages struct {
	Q   PropertyQueries
	Loc *time.Location
}

type compareOption struct {
	ID, Adresse string
	Left, Right bool
}

type compareTable struct {
	Cards        []domain.Property
	LeftHeading  string
	RightHeading string
	Rows         []compare.Row
}

type comparePage struct {
	Loading bool
	Options []compareOption
	SwapURL string
	Table   *compareTable
}

// galleryTab is labelled by the screenshot's file name; the category is the hover title.
type galleryTab struct {
	Label  string
	Title  string
	URL    string
	Active bool
}

type galleryView struct {
	Title            string
	Tabs             []galleryTab
	Slides           []gallery.Slide
	PrevURL, NextURL string
	CanPrev, CanNext bool
	Position         string
}

type propertyPage struct {
	Property domain.Property
	Gallery  *galleryView
}

func (s *Server) MountPages(p *Pages) {
	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/eiendommer", http.StatusFound)
	})
	s.mux.Get("/eiendommer", p.list)
	s.mux.Get("/eiendommer/{id}", p.property)
	s.mux.Get("/sammenlign", p.compare)
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.Render(w, name, data); err != nil {
		log.Error().Err(err).Str("page", name).Str("path", r.URL.Path).Msg("render page failed")
		http.Error(w, "Noe gikk galt", http.StatusInternalServerError)
	}
}

func (p *Pages) list(w http.ResponseWriter, r *http.Request) {
	items, err := p.Q.ListProperties(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list properties for overview failed")
	}
	p.render(w, r, "list", items)
}

func (p *Pages) compare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := compare.NewView(ctx, p.Q, log.Logger)
	defer v.Close()

	v.Mount(ctx)
	q := r.URL.Query()
	if id := q.Get("left"); id != "" {
		v.Select(compare.Left, id)
	}
	if id := q.Get("right"); id != "" {
		v.Select(compare.Right, id)
	}
	if q.Get("swap") != "" {
		v.Swap()
	}
	v.Wait()

	st := v.State()
	page := comparePage{Loading: st.Loading()}
	for _, it := range st.Properties {
		page.Options = append(page.Options, compareOption{
			ID:      it.ID,
			Adresse: it.Adresse,
			Left:    it.ID == st.Selected[compare.Left],
			Right:   it.ID == st.Selected[compare.Right],
		})
	}
	// swap=1 replays Swap, so following the link twice restores the order
	sq := url.Values{}
	sq.Set("left", st.Selected[compare.Left])
	sq.Set("right", st.Selected[compare.Right])
	sq.Set("swap", "1")
	page.SwapURL = "/sammenlign?" + sq.Encode()

	if st.Comparable() {
		l, rt := *st.Detail[compare.Left], *st.Detail[compare.Right]
		page.Table = &compareTable{
			Cards:        []domain.Property{l, rt},
			LeftHeading:  compare.Heading(l.Adresse),
			RightHeading: compare.Heading(rt.Adresse),
			Rows:         compare.Rows(l, rt, p.Loc),
		}
	}
	p.render(w, r, "compare", page)
}

func (p *Pages) property(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	prop, err := p.Q.GetProperty(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Eiendom ikke funnet", http.StatusNotFound)
		return
	case err != nil:
		log.Error().Err(err).Str("id", id).Msg("get property for page failed")
		http.Error(w, "Noe gikk galt", http.StatusInternalServerError)
		return
	}

	g := gallery.New(prop.PlaaceData.Screenshots)
	applyGalleryEvents(g, r.URL.Query())
	p.render(w, r, "property", propertyPage{Property: prop, Gallery: galleryPage(g, "/eiendommer/"+url.PathEscape(id))})
}

// applyGalleryEvents replays tab, nav and touch parameters in that order.
func applyGalleryEvents(g *gallery.Viewer, q url.Values) {
	if tab, err := strconv.Atoi(q.Get("tab")); err == nil {
		g.Select(tab)
	}
	switch q.Get("nav") {
	case "prev":
		g.Prev()
	case "next":
		g.Next()
	}
	start, err1 := strconv.ParseFloat(q.Get("touch_start"), 64)
	end, err2 := strconv.ParseFloat(q.Get("touch_end"), 64)
	if err1 == nil && err2 == nil {
		g.TouchStart(start)
		g.TouchEnd(end)
	}
}

func galleryPage(g *gallery.Viewer, base string) *galleryView {
	if g.Empty() {
		return nil
	}
	tabURL := func(i int) string { return base + "?tab=" + strconv.Itoa(i) }
	out := &galleryView{
		Title:    g.Title,
		Slides:   g.Slides(),
		CanPrev:  g.CanPrev(),
		CanNext:  g.CanNext(),
		Position: g.Position(),
		PrevURL:  tabURL(max(g.Active()-1, 0)),
		NextURL:  tabURL(min(g.Active()+1, g.Len()-1)),
	}
	for _, s := range out.Slides {
		out.Tabs = append(out.Tabs, galleryTab{Label: s.Filnavn, Title: s.Kategori, URL: tabURL(s.Index), Active: s.Active})
	}
	return out
}
