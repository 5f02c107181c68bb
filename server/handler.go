package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/miniBill/sdc-map/store"
)

// Handler exposes the collection API over HTTP.
type Handler struct {
	store    store.Store
	adminKey string
	geoDir   string
	log      *slog.Logger
}

// NewHandler creates a handler backed by the given store. adminKey gates the
// privileged answers fetch; geoDir, if set, is served under /geo for the
// dataset files the admin console needs.
func NewHandler(submissions store.Store, adminKey, geoDir string, log *slog.Logger) *Handler {
	return &Handler{
		store:    submissions,
		adminKey: adminKey,
		geoDir:   geoDir,
		log:      log,
	}
}

// RegisterRoutes registers the collection endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/submit", h.handleSubmit)
	r.Post("/admin/answers", h.handleAnswers)

	if h.geoDir != "" {
		r.Handle("/geo/*", http.StripPrefix("/geo/", http.FileServer(http.Dir(h.geoDir))))
	}
}

// SubmitRequest is the body of a survey submission: the sealed envelope and
// the clear captcha answer used only for grouping.
type SubmitRequest struct {
	Encrypted string `json:"encrypted"`
	Captcha   string `json:"captcha"`
}

// SubmitResponse carries the id the store assigned.
type SubmitResponse struct {
	ID string `json:"id"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse request: %v", err), http.StatusBadRequest)
		return
	}
	if req.Encrypted == "" {
		http.Error(w, "Missing encrypted payload", http.StatusBadRequest)
		return
	}

	id, err := h.store.Save(r.Context(), store.Submission{
		Encrypted: req.Encrypted,
		Captcha:   req.Captcha,
	})
	if err != nil {
		h.log.Error("saving submission failed", "err", err)
		http.Error(w, "Failed to save submission", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SubmitResponse{ID: id})
}

// AnswersRequest carries the shared admin key. This key is independent of
// the decryption secret: it grants transport access to the ciphertexts, not
// the ability to read them.
type AnswersRequest struct {
	Key string `json:"key"`
}

func (h *Handler) handleAnswers(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req AnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse request: %v", err), http.StatusBadRequest)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Key), []byte(h.adminKey)) != 1 {
		h.log.Warn("admin answers fetch with wrong key")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	answers, err := h.store.All(r.Context())
	if err != nil {
		h.log.Error("listing submissions failed", "err", err)
		http.Error(w, "Failed to list submissions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(answers)
}
