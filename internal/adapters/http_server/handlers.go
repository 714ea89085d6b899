// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"

	"eiendom_showcase/internal/domain"
)

// PropertyQueries is the read side the API and pages need. *app.QueryService
// and *propertyapi.Client both satisfy it.
type PropertyQueries interface {
	ListProperties(ctx context.Context) ([]domain.Property, error)
	GetProperty(ctx context.Context, id string) (domain.Property, error)
}

type Handlers struct{ Q PropertyQueries }

type APIOptions struct {
	CORSOrigins []string
	RateLimit   int // requests per minute per IP, 0 disables
}

type errorBody struct {
	Error string `json:"error"`
}

const (
	msgListFailed   = "Failed to fetch properties"
	msgNotFound     = "Property not found"
	msgDetailFailed = "Failed to fetch property"
)

func (s *Server) MountHandlers(h *Handlers, opt APIOptions) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	origins := opt.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mws := []func(http.Handler) http.Handler{
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "If-None-Match"},
			ExposedHeaders: []string{"ETag"},
			MaxAge:         300,
		}),
	}
	if opt.RateLimit > 0 {
		// one limiter shared by both mount points
		mws = append(mws, httprate.LimitByIP(opt.RateLimit, time.Minute))
	}

	api := func(r chi.Router) {
		r.Use(mws...)
		r.Get("/", h.listProperties)
		r.Get("/{id}", h.getProperty)
	}
	s.mux.Route("/properties", api)
	s.mux.Route("/api/eiendommer", api)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorBody{Error: msg})
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body, nil
}

// writeCached writes v as JSON with a weak ETag, or 304 when the client
// already holds that version.
func writeCached(w http.ResponseWriter, r *http.Request, v any, failMsg string) {
	etag, body, err := calcETagAndBody(v)
	if err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("marshal response failed")
		writeError(w, r, http.StatusInternalServerError, failMsg)
		return
	}
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("write response body failed")
	}
}

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListProperties(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list properties failed")
		writeError(w, r, http.StatusInternalServerError, msgListFailed)
		return
	}
	if out == nil {
		out = []domain.Property{}
	}
	writeCached(w, r, out, msgListFailed)
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.Q.GetProperty(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, msgNotFound)
		return
	case err != nil:
		log.Error().Err(err).Str("id", id).Msg("get property failed")
		writeError(w, r, http.StatusInternalServerError, msgDetailFailed)
		return
	}
	writeCached(w, r, p, msgDetailFailed)
}
