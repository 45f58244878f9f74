package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Mutawai/ThiQaX-sub002/internal/stats"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
)

type statsHandler struct {
	stats *stats.Service
}

// dashboard serves the aggregated document statistics and journey score for
// one user. Cached; staleness is bounded by the cache TTL.
func (h *statsHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	owner, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	d, err := h.stats.Dashboard(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
