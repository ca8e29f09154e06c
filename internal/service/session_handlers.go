package service

import (
	"net/http"

	"github.com/howmuchah/howmuchah/internal/calculator"
	"github.com/howmuchah/howmuchah/internal/metrics"
	"github.com/howmuchah/howmuchah/internal/middleware"
	"github.com/howmuchah/howmuchah/internal/models"
	"github.com/howmuchah/howmuchah/internal/session"
)

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	s := session.New()
	s.OwnerID = middleware.GetUserID(r.Context()) // empty for anonymous sessions

	if err := h.store.CreateSession(r.Context(), s); err != nil {
		h.logger.Error("failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, toSessionDTO(s))
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessionsByOwner(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.logger.Error("failed to list sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	dtos := make([]SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, toSessionDTO(s))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request, s *models.Session) {
	writeJSON(w, http.StatusOK, toSessionDTO(s))
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request, s *models.Session) {
	if err := h.store.DeleteSession(r.Context(), s.ID); err != nil {
		writeHandlerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSessionSettlement(w http.ResponseWriter, r *http.Request, s *models.Session) {
	if err := session.Validate(s); err != nil {
		writeHandlerError(w, err)
		return
	}

	settlement, err := calculator.ComputeSettlement(s.PeopleNames(), s.Receipts)
	if err != nil {
		metrics.SettlementsTotal.WithLabelValues("error").Inc()
		writeHandlerError(w, err)
		return
	}
	metrics.SettlementsTotal.WithLabelValues("ok").Inc()

	writeJSON(w, http.StatusOK, toSettlementDTO(settlement))
}

type personRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleAddPerson(w http.ResponseWriter, r *http.Request, s *models.Session) {
	var req personRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := session.AddPerson(s, req.Name); err != nil {
		writeHandlerError(w, err)
		return
	}
	h.saveAndReturn(w, r, s)
}

func (h *Handler) handleRemovePerson(w http.ResponseWriter, r *http.Request, s *models.Session) {
	if err := session.RemovePerson(s, r.PathValue("name")); err != nil {
		writeHandlerError(w, err)
		return
	}
	h.saveAndReturn(w, r, s)
}

func (h *Handler) handleAddReceipt(w http.ResponseWriter, r *http.Request, s *models.Session) {
	if _, err := session.AddReceipt(s); err != nil {
		writeHandlerError(w, err)
		return
	}
	h.saveAndReturn(w, r, s)
}

func (h *Handler) handleRemoveReceipt(w http.ResponseWriter, r *http.Request, s *models.Session) {
	if err := session.RemoveReceipt(s, r.PathValue("receiptID")); err != nil {
		writeHandlerError(w, err)
		return
	}
	h.saveAndReturn(w, r, s)
}

// handleParseIntoReceipt parses receipt text and replaces the
// receipt's items with the result.
func (h *Handler) handleParseIntoReceipt(w http.ResponseWriter, r *http.Request, s *models.Session) {
	var req parseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	strategy, err := h.resolveStrategy(req.Strategy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items := h.parseText(req.Text, strategy)
	if err := session.SetParsedItems(s, r.PathValue("receiptID"), items); err != nil {
		writeHandlerError(w, err)
		return
	}
	h.saveAndReturn(w, r, s)
}

func (h *Handler) handleSetPayer(w http.ResponseWriter, r *http.Request, s *models.Session) {
	var req personRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := session.SetPayer(s, r.PathValue("receiptID"), req.Name); err != nil {
		writeHandlerError(w, err)
		return
	}
	h.saveAndReturn(w, r, s)
}

type chargesRequest struct {
	ServiceCharge ChargeDTO `json:"serviceCharge"`
	GST           ChargeDTO `json:"gst"`
}

func (h *Handler) handleSetCharges(w http.ResponseWriter, r *http.Request, s *models.Session) {
	var req chargesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := session.SetCharges(s, r.PathValue("receiptID"),
		models.ChargeConfig(req.ServiceCharge), models.ChargeConfig(req.GST))
	if err != nil {
		writeHandlerError(w, err)
		return
	}
	h.saveAndReturn(w, r, s)
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request, s *models.Session) {
	if _, err := session.AddItem(s, r.PathValue("receiptID")); err != nil {
		writeHandlerError(w, err)
		return
	}
	h.saveAndReturn(w, r, s)
}

type itemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request, s *models.Session) {
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := session.UpdateItem(s, r.PathValue("receiptID"), r.PathValue("itemID"), req.Name, req.Price)
	if err != nil {
		writeHandlerError(w, err)
		return
	}
	h.saveAndReturn(w, r, s)
}

func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request, s *models.Session) {
	if err := session.DeleteItem(s, r.PathValue("receiptID"), r.PathValue("itemID")); err != nil {
		writeHandlerError(w, err)
		return
	}
	h.saveAndReturn(w, r, s)
}

func (h *Handler) handleToggleAssignment(w http.ResponseWriter, r *http.Request, s *models.Session) {
	var req personRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := session.ToggleAssignment(s, r.PathValue("receiptID"), r.PathValue("itemID"), req.Name)
	if err != nil {
		writeHandlerError(w, err)
		return
	}
	h.saveAndReturn(w, r, s)
}
