package v1

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"github.com/yourorg/listings-api/internal/catalog"
	"github.com/yourorg/listings-api/internal/filter"
	"github.com/yourorg/listings-api/listing"
)

const basePath = "/v1/properties"

// Catalog is the part of catalog.Service the handlers use.
type Catalog interface {
	GetAll(ctx context.Context) []listing.Property
	GetByID(ctx context.Context, id string) (*listing.Property, error)
	Create(ctx context.Context, in catalog.CreateInput) (listing.Property, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type PropertiesDeps struct {
	Catalog Catalog
	// Defaults apply to every list request; query parameters win.
	Defaults filter.State
}

type listResponse struct {
	OK            bool               `json:"ok"`
	Count         int                `json:"count"`
	Total         int                `json:"total"`
	ActiveFilters int                `json:"active_filters"`
	Query         string             `json:"query"`
	Properties    []listing.Property `json:"properties"`
}

func RegisterProperties(r chi.Router, d PropertiesDeps) {
	r.Route(basePath, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) { listProperties(w, req, d) })
		r.Post("/", func(w http.ResponseWriter, req *http.Request) { createProperty(w, req, d) })
		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) { getProperty(w, req, d) })
		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) { deleteProperty(w, req, d) })
	})
}

func listProperties(w http.ResponseWriter, req *http.Request, d PropertiesDeps) {
	q := req.URL.Query()
	defaults := d.Defaults.Clone()
	// Mission toggles are request options, not part of the shareable query.
	if flag(q.Get("section8")) {
		defaults.Section8Only = true
	}
	if flag(q.Get("veteran")) {
		defaults.VeteranPreferred = true
	}

	sess := filter.NewSession(q, defaults, nil)
	all := d.Catalog.GetAll(req.Context())
	matched := sess.Apply(all)
	canonical := sess.Query()

	loc := basePath
	if canonical != "" {
		loc += "?" + canonical
	}
	w.Header().Set("Content-Location", loc)
	render.JSON(w, req, listResponse{
		OK:            true,
		Count:         len(matched),
		Total:         len(all),
		ActiveFilters: sess.State().ActiveCount(),
		Query:         canonical,
		Properties:    matched,
	})
}

func getProperty(w http.ResponseWriter, req *http.Request, d PropertiesDeps) {
	id := chi.URLParam(req, "id")
	p, err := d.Catalog.GetByID(req.Context(), id)
	if err != nil {
		zerolog.Ctx(req.Context()).Warn().Err(err).Str("property_id", id).Msg("property lookup aborted")
		render.Status(req, http.StatusServiceUnavailable)
		render.JSON(w, req, map[string]any{"error": "lookup_aborted"})
		return
	}
	if p == nil {
		render.Status(req, http.StatusNotFound)
		render.JSON(w, req, map[string]any{"error": "not_found", "id": id})
		return
	}
	render.JSON(w, req, p)
}

func createProperty(w http.ResponseWriter, req *http.Request, d PropertiesDeps) {
	var body catalog.CreateInput
	if err := render.DecodeJSON(req.Body, &body); err != nil {
		render.Status(req, http.StatusBadRequest)
		render.JSON(w, req, map[string]any{"error": "invalid_json", "detail": err.Error()})
		return
	}
	if body.Title == "" {
		render.Status(req, http.StatusBadRequest)
		render.JSON(w, req, map[string]any{"error": "title_required"})
		return
	}
	p, err := d.Catalog.Create(req.Context(), body)
	if err != nil {
		zerolog.Ctx(req.Context()).Error().Err(err).Msg("create property failed")
		render.Status(req, http.StatusInternalServerError)
		render.JSON(w, req, map[string]any{"error": "create_failed"})
		return
	}
	render.Status(req, http.StatusCreated)
	render.JSON(w, req, p)
}

func deleteProperty(w http.ResponseWriter, req *http.Request, d PropertiesDeps) {
	id := chi.URLParam(req, "id")
	if _, err := d.Catalog.Delete(req.Context(), id); err != nil {
		zerolog.Ctx(req.Context()).Error().Err(err).Str("property_id", id).Msg("delete property failed")
		render.Status(req, http.StatusInternalServerError)
		render.JSON(w, req, map[string]any{"error": "delete_failed"})
		return
	}
	render.JSON(w, req, map[string]any{"ok": true})
}

func flag(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
