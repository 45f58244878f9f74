package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Mutawai/ThiQaX-sub002/internal/application/models"
	appservice "github.com/Mutawai/ThiQaX-sub002/internal/application/service"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
	"github.com/Mutawai/ThiQaX-sub002/pkg/requestcontext"
)

type applicationHandler struct {
	apps *appservice.Service
}

type createApplicationRequest struct {
	JobID string `json:"jobId"`
}

func (h *applicationHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}
	jobID, err := domain.ParseJobID(req.JobID)
	if err != nil {
		writeError(w, err)
		return
	}
	applicant := requestcontext.ActorID(r.Context())
	app, err := h.apps.Create(r.Context(), jobID, applicant)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *applicationHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		writeError(w, err)
		return
	}
	app, err := h.apps.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *applicationHandler) history(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.apps.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": entries})
}

type applicationTransitionRequest struct {
	Status string               `json:"status"`
	Notes  string               `json:"notes,omitempty"`
	Offer  *models.OfferPayload `json:"offer,omitempty"`
}

func (h *applicationHandler) transition(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req applicationTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	app, err := h.apps.RequestTransition(r.Context(), id, status, appservice.TransitionRequest{
		Notes: req.Notes,
		Offer: req.Offer,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *applicationHandler) scheduleInterview(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		writeError(w, err)
		return
	}
	var detail models.InterviewDetail
	if err := json.NewDecoder(r.Body).Decode(&detail); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}
	app, err := h.apps.ScheduleInterview(r.Context(), id, detail)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *applicationHandler) addFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		writeError(w, err)
		return
	}
	var fb models.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}
	app, err := h.apps.AddFeedback(r.Context(), id, fb)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *applicationHandler) listByJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := domain.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, err)
		return
	}
	apps, err := h.apps.ListByJob(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

func (h *applicationHandler) listByApplicant(w http.ResponseWriter, r *http.Request) {
	applicant, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	apps, err := h.apps.ListByApplicant(r.Context(), applicant)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": apps})
}
