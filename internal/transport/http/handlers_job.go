package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Mutawai/ThiQaX-sub002/internal/job/models"
	jobservice "github.com/Mutawai/ThiQaX-sub002/internal/job/service"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
	"github.com/Mutawai/ThiQaX-sub002/pkg/requestcontext"
)

type jobHandler struct {
	jobs *jobservice.Service
}

type createJobRequest struct {
	Title     string     `json:"title"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (h *jobHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}
	job, err := h.jobs.Create(r.Context(), jobservice.CreateRequest{
		Sponsor:   requestcontext.ActorID(r.Context()),
		Title:     req.Title,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (h *jobHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, err)
		return
	}
	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

type jobTransitionRequest struct {
	Status string `json:"status"`
}

func (h *jobHandler) transition(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req jobTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	job, err := h.jobs.RequestTransition(r.Context(), id, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *jobHandler) listBySponsor(w http.ResponseWriter, r *http.Request) {
	sponsor, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	jobs, err := h.jobs.ListBySponsor(r.Context(), sponsor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}
