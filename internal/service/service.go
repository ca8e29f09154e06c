// Package service exposes the JSON HTTP API: receipt parsing,
// session editing and settlement.
package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/howmuchah/howmuchah/internal/auth"
	"github.com/howmuchah/howmuchah/internal/calculator"
	"github.com/howmuchah/howmuchah/internal/middleware"
	"github.com/howmuchah/howmuchah/internal/models"
	"github.com/howmuchah/howmuchah/internal/ocr"
	"github.com/howmuchah/howmuchah/internal/parser"
	"github.com/howmuchah/howmuchah/internal/session"
	"github.com/howmuchah/howmuchah/internal/storage"
)

// Handler holds the HTTP handlers for the API.
type Handler struct {
	store      storage.Store
	authn      auth.Authenticator
	jwtManager *auth.JWTManager
	ocrClient  *ocr.Client // nil disables the image endpoint
	strategy   parser.Strategy
	staticDir  string
	logger     *slog.Logger
}

// New creates the API handler. ocrClient may be nil; staticDir may be
// empty.
func New(store storage.Store, authn auth.Authenticator, jwtManager *auth.JWTManager,
	ocrClient *ocr.Client, strategy parser.Strategy, staticDir string, logger *slog.Logger) *Handler {
	return &Handler{
		store:      store,
		authn:      authn,
		jwtManager: jwtManager,
		ocrClient:  ocrClient,
		strategy:   strategy,
		staticDir:  staticDir,
		logger:     logger,
	}
}

// RegisterRoutes sets up the HTTP routes. Session routes accept an
// optional bearer token; listing sessions requires one.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	optional := middleware.OptionalAuth(h.jwtManager)
	required := middleware.RequireAuth(h.jwtManager)

	mux.HandleFunc("GET /api/health", h.handleHealth)

	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)

	mux.HandleFunc("POST /api/parse", h.handleParse)
	mux.HandleFunc("POST /api/parse/image", h.handleParseImage)
	mux.HandleFunc("POST /api/settle", h.handleSettle)

	mux.Handle("POST /api/sessions", optional(http.HandlerFunc(h.handleCreateSession)))
	mux.Handle("GET /api/sessions", required(http.HandlerFunc(h.handleListSessions)))
	mux.Handle("GET /api/sessions/{id}", optional(h.withSession(h.handleGetSession)))
	mux.Handle("DELETE /api/sessions/{id}", optional(h.withSession(h.handleDeleteSession)))
	mux.Handle("GET /api/sessions/{id}/settlement", optional(h.withSession(h.handleSessionSettlement)))

	mux.Handle("POST /api/sessions/{id}/people", optional(h.withSession(h.handleAddPerson)))
	mux.Handle("DELETE /api/sessions/{id}/people/{name}", optional(h.withSession(h.handleRemovePerson)))

	mux.Handle("POST /api/sessions/{id}/receipts", optional(h.withSession(h.handleAddReceipt)))
	mux.Handle("DELETE /api/sessions/{id}/receipts/{receiptID}", optional(h.withSession(h.handleRemoveReceipt)))
	mux.Handle("POST /api/sessions/{id}/receipts/{receiptID}/parse", optional(h.withSession(h.handleParseIntoReceipt)))
	mux.Handle("PUT /api/sessions/{id}/receipts/{receiptID}/payer", optional(h.withSession(h.handleSetPayer)))
	mux.Handle("PUT /api/sessions/{id}/receipts/{receiptID}/charges", optional(h.withSession(h.handleSetCharges)))

	mux.Handle("POST /api/sessions/{id}/receipts/{receiptID}/items", optional(h.withSession(h.handleAddItem)))
	mux.Handle("PUT /api/sessions/{id}/receipts/{receiptID}/items/{itemID}", optional(h.withSession(h.handleUpdateItem)))
	mux.Handle("DELETE /api/sessions/{id}/receipts/{receiptID}/items/{itemID}", optional(h.withSession(h.handleDeleteItem)))
	mux.Handle("POST /api/sessions/{id}/receipts/{receiptID}/items/{itemID}/assignments", optional(h.withSession(h.handleToggleAssignment)))

	// Serve SPA static files
	if h.staticDir != "" {
		fs := http.FileServer(http.Dir(h.staticDir))
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			// For SPA: serve index.html for non-file routes
			path := r.URL.Path
			if path != "/" && !strings.HasPrefix(path, "/api/") {
				fullPath := filepath.Join(h.staticDir, path)
				if _, err := os.Stat(fullPath); os.IsNotExist(err) {
					http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
					return
				}
			}
			fs.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sessionHandler is a handler that already has the session loaded and
// its ownership checked.
type sessionHandler func(w http.ResponseWriter, r *http.Request, s *models.Session)

// withSession loads the session named in the path and enforces
// ownership. Owned sessions answer 404 to everyone but their owner so
// session IDs do not leak existence; anonymous sessions are open to
// anyone holding the ID.
func (h *Handler) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.store.GetSession(r.Context(), r.PathValue("id"))
		if err != nil {
			writeHandlerError(w, err)
			return
		}
		if s.OwnerID != "" && s.OwnerID != middleware.GetUserID(r.Context()) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		next(w, r, s)
	}
}

// saveAndReturn persists the mutated session and echoes it back.
func (h *Handler) saveAndReturn(w http.ResponseWriter, r *http.Request, s *models.Session) {
	if err := h.store.UpdateSession(r.Context(), s); err != nil {
		h.logger.Error("failed to save session", "session_id", s.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(s))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeHandlerError maps domain errors onto HTTP statuses.
func writeHandlerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, session.ErrUnknownReceipt),
		errors.Is(err, session.ErrUnknownItem),
		errors.Is(err, session.ErrUnknownPerson):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrDuplicatePerson),
		errors.Is(err, session.ErrPersonLocked),
		errors.Is(err, session.ErrTooManyReceipts):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrEmptyName),
		errors.Is(err, session.ErrUnassignedItem),
		errors.Is(err, session.ErrNoPayer),
		errors.Is(err, calculator.ErrUnassignedItem),
		errors.Is(err, calculator.ErrNoPayer),
		errors.Is(err, session.ErrNoPeople):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
