package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	httpapi "github.com/yourorg/listings-api/http"
	httpv1 "github.com/yourorg/listings-api/http/v1"
	"github.com/yourorg/listings-api/internal/logger"
)

func BuildRouter(log zerolog.Logger, ratePerMin int, props httpv1.PropertiesDeps, comm httpv1.CommunityDeps, health httpapi.HealthDeps) http.Handler {
	if ratePerMin <= 0 {
		ratePerMin = 100
	}
	r := chi.NewRouter()
	r.Use(logger.Middleware(log))
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(ratePerMin, 1*time.Minute)) // protect upstream quota
	r.Use(render.SetContentType(render.ContentTypeJSON))

	httpapi.RegisterHealth(r, health)
	httpv1.RegisterProperties(r, props)
	if comm.Portal != nil {
		httpv1.RegisterCommunity(r, comm)
	}

	return r
}
