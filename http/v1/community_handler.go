package v1

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"github.com/yourorg/listings-api/community"
	"github.com/yourorg/listings-api/internal/portal"
)

// Portal is the part of portal.Service the handlers use.
type Portal interface {
	Metrics(ctx context.Context) []community.Metric
	FinancialBreakdown() []community.FinancialShare
	Standards() []community.Standard
	CreateRequest(ctx context.Context, in community.NewRequest) (community.MaintenanceRequest, error)
	ResidentRequests(ctx context.Context, residentID string) ([]community.MaintenanceRequest, error)
}

type CommunityDeps struct {
	Portal Portal
}

func RegisterCommunity(r chi.Router, d CommunityDeps) {
	r.Get("/v1/impact/metrics", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]any{"metrics": d.Portal.Metrics(req.Context())})
	})
	r.Get("/v1/impact/financials", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]any{"breakdown": d.Portal.FinancialBreakdown()})
	})
	r.Get("/v1/transparency/standards", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]any{"standards": d.Portal.Standards()})
	})
	r.Post("/v1/maintenance-requests", func(w http.ResponseWriter, req *http.Request) { createRequest(w, req, d) })
	r.Get("/v1/residents/{residentID}/maintenance-requests", func(w http.ResponseWriter, req *http.Request) { residentRequests(w, req, d) })
}

func createRequest(w http.ResponseWriter, req *http.Request, d CommunityDeps) {
	var body community.NewRequest
	if err := render.DecodeJSON(req.Body, &body); err != nil {
		render.Status(req, http.StatusBadRequest)
		render.JSON(w, req, map[string]any{"error": "invalid_json", "detail": err.Error()})
		return
	}
	out, err := d.Portal.CreateRequest(req.Context(), body)
	if err != nil {
		if portal.IsValidation(err) {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "invalid_request", "detail": err.Error()})
			return
		}
		zerolog.Ctx(req.Context()).Error().Err(err).Str("resident_id", body.ResidentID).Msg("create maintenance request failed")
		render.Status(req, http.StatusInternalServerError)
		render.JSON(w, req, map[string]any{"error": "create_failed"})
		return
	}
	render.Status(req, http.StatusCreated)
	render.JSON(w, req, out)
}

func residentRequests(w http.ResponseWriter, req *http.Request, d CommunityDeps) {
	id := chi.URLParam(req, "residentID")
	list, err := d.Portal.ResidentRequests(req.Context(), id)
	if err != nil {
		zerolog.Ctx(req.Context()).Error().Err(err).Str("resident_id", id).Msg("list maintenance requests failed")
		render.Status(req, http.StatusInternalServerError)
		render.JSON(w, req, map[string]any{"error": "lookup_failed"})
		return
	}
	render.JSON(w, req, map[string]any{"count": len(list), "requests": list})
}
