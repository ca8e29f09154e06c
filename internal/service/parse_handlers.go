package service

import (
	"errors"
	"net/http"
	"time"

	"github.com/howmuchah/howmuchah/internal/calculator"
	"github.com/howmuchah/howmuchah/internal/metrics"
	"github.com/howmuchah/howmuchah/internal/models"
	"github.com/howmuchah/howmuchah/internal/ocr"
	"github.com/howmuchah/howmuchah/internal/parser"
)

type parseRequest struct {
	Text     string `json:"text"`
	Strategy string `json:"strategy,omitempty"`
}

type parseResponse struct {
	Items []ItemDTO `json:"items"`
	Count int       `json:"count"`
	// Text echoes the OCR output on the image endpoint so the client
	// can offer manual correction.
	Text string `json:"text,omitempty"`
}

// resolveStrategy picks the parse strategy from the request, falling
// back to the server default.
func (h *Handler) resolveStrategy(name string) (parser.Strategy, error) {
	if name == "" {
		return h.strategy, nil
	}
	strategy := parser.Strategy(name)
	if _, err := parser.New(strategy); err != nil {
		return "", err
	}
	return strategy, nil
}

func (h *Handler) parseText(text string, strategy parser.Strategy) []models.LineItem {
	start := time.Now()
	items, _ := parser.ParseWith(text, strategy)
	metrics.ObserveParse(string(strategy), len(items), time.Since(start).Seconds())
	return items
}

func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, parseResponse{Items: toItemDTOs(items), Count: len(items)})
}

// handleParseImage accepts a multipart receipt photo, runs it through
// the OCR provider and parses the recognized text.
func (h *Handler) handleParseImage(w http.ResponseWriter, r *http.Request) {
	if h.ocrClient == nil {
		writeError(w, http.StatusServiceUnavailable, "image parsing is not configured")
		return
	}

	// 10MB is plenty for a receipt photo.
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded, use form field 'file'")
		return
	}
	defer file.Close()

	strategy, err := h.resolveStrategy(r.FormValue("strategy"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	text, err := h.ocrClient.ParseImage(r.Context(), file, header.Filename)
	if err != nil {
		metrics.OCRRequestsTotal.WithLabelValues("error").Inc()
		h.logger.Error("OCR request failed", "error", err)
		if errors.Is(err, ocr.ErrNoText) {
			writeError(w, http.StatusUnprocessableEntity, "no text recognized in image")
			return
		}
		writeError(w, http.StatusBadGateway, "OCR provider request failed")
		return
	}
	metrics.OCRRequestsTotal.WithLabelValues("ok").Inc()

	items := h.parseText(text, strategy)
	writeJSON(w, http.StatusOK, parseResponse{Items: toItemDTOs(items), Count: len(items), Text: text})
}

type settleRequest struct {
	People   []string     `json:"people"`
	Receipts []ReceiptDTO `json:"receipts"`
}

// handleSettle computes a settlement for client-held state, without a
// stored session. The CLI and offline clients use this.
func (h *Handler) handleSettle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.People) == 0 {
		writeError(w, http.StatusBadRequest, "people is required")
		return
	}
	if len(req.Receipts) == 0 {
		writeError(w, http.StatusBadRequest, "receipts is required")
		return
	}
	if len(req.Receipts) > models.MaxReceipts {
		writeError(w, http.StatusBadRequest, "too many receipts")
		return
	}

	receipts := make([]*models.Receipt, 0, len(req.Receipts))
	for i := range req.Receipts {
		receipts = append(receipts, fromReceiptDTO(&req.Receipts[i]))
	}

	settlement, err := calculator.ComputeSettlement(req.People, receipts)
	if err != nil {
		metrics.SettlementsTotal.WithLabelValues("error").Inc()
		writeHandlerError(w, err)
		return
	}
	metrics.SettlementsTotal.WithLabelValues("ok").Inc()

	writeJSON(w, http.StatusOK, toSettlementDTO(settlement))
}
