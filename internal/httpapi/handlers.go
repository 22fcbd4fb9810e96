package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// handlers holds every collaborator Dependencies provides; its methods
// are the route targets wired in NewRouter.
type handlers struct {
	deps Dependencies
}

func (h *handlers) metricsHandler() http.HandlerFunc {
	if h.deps.Metrics == nil {
		return func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "metrics not configured", http.StatusNotFound)
		}
	}
	handler := promhttp.HandlerFor(h.deps.Metrics.Gatherer(), promhttp.HandlerOpts{})
	return handler.ServeHTTP
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func pathInt64(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func queryBool(r *http.Request, key string, def bool) bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// requireAdminOrCurator is the transport-layer mirror of the same check
// pkg/workflow.Orchestrator applies inside its transactions, used by
// handlers (export, audit, project membership) that never reach the
// orchestrator for their authorization decision.
func requireAdminOrCurator(role domain.Role) error {
	if role == domain.RoleAdmin || role == domain.RoleCurator {
		return nil
	}
	return domain.ErrTransitionForbidden
}
