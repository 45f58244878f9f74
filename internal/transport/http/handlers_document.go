package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Mutawai/ThiQaX-sub002/internal/document/models"
	docservice "github.com/Mutawai/ThiQaX-sub002/internal/document/service"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
	"github.com/Mutawai/ThiQaX-sub002/pkg/requestcontext"
)

type documentHandler struct {
	docs *docservice.Service
}

type registerDocumentRequest struct {
	Type       string     `json:"type"`
	FileRef    string     `json:"fileRef"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	// OwnerID lets an administrative actor register on behalf of a user.
	OwnerID string `json:"ownerId,omitempty"`
}

func (h *documentHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}
	docType, err := models.ParseType(req.Type)
	if err != nil {
		writeError(w, err)
		return
	}

	owner := requestcontext.ActorID(r.Context())
	if req.OwnerID != "" {
		if !requestcontext.ActorRole(r.Context()).IsAdministrative() {
			writeError(w, dErrors.New(dErrors.CodePermissionDenied, "only administrators may register for another user"))
			return
		}
		owner, err = domain.ParseUserID(req.OwnerID)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	doc, err := h.docs.Register(r.Context(), docservice.RegisterRequest{
		Owner:      owner,
		Type:       docType,
		FileRef:    req.FileRef,
		ExpiryDate: req.ExpiryDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *documentHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := h.docs.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *documentHandler) history(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.docs.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": entries})
}

func (h *documentHandler) expiry(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	cls, err := h.docs.ClassifyExpiry(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cls)
}

type documentTransitionRequest struct {
	Status string                  `json:"status"`
	Notes  string                  `json:"notes,omitempty"`
	Scores *models.AutomatedScores `json:"automatedScores,omitempty"`
}

func (h *documentHandler) transition(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req documentTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := h.docs.RequestTransition(r.Context(), id, status, docservice.TransitionRequest{
		Notes:  req.Notes,
		Scores: req.Scores,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *documentHandler) markNotified(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := h.docs.MarkNotified(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *documentHandler) listByOwner(w http.ResponseWriter, r *http.Request) {
	owner, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	docs, err := h.docs.ListByOwner(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}
