package httpapi

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthDeps struct {
	// Checks are keyed by the name reported in the response.
	Checks  map[string]Pinger
	Timeout time.Duration
}

func RegisterHealth(r chi.Router, d HealthDeps) {
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		timeout := d.Timeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()

		names := make([]string, 0, len(d.Checks))
		for name := range d.Checks {
			names = append(names, name)
		}
		sort.Strings(names)

		ok := true
		checks := make(map[string]string, len(names))
		for _, name := range names {
			if err := d.Checks[name].Ping(ctx); err != nil {
				// Driver errors can carry hosts and DSNs; keep them in the log.
				zerolog.Ctx(req.Context()).Warn().Err(err).Str("check", name).Msg("health check failed")
				ok = false
				checks[name] = "error"
				continue
			}
			checks[name] = "ok"
		}
		if !ok {
			render.Status(req, http.StatusServiceUnavailable)
		}
		render.JSON(w, req, map[string]any{"ok": ok, "checks": checks})
	})
}
