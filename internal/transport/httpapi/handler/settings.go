package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kislikjeka/cointrack/internal/ledger"
	"github.com/kislikjeka/cointrack/pkg/coins"
)

// QuickActionRequest is the body of POST /quick-actions
type QuickActionRequest struct {
	Text       string       `json:"text"`
	Value      coins.Amount `json:"value"`
	IsPositive bool         `json:"is_positive"`
}

// UpdateSettings handles PATCH /settings. Only goal and dark_mode can be
// changed; other keys in the body are ignored.
func (h *LedgerHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, name, ok := h.scope(w, r)
	if !ok {
		return
	}

	var patch ledger.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.ledgerService.UpdateSettings(r.Context(), userID, name, patch)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, newLedgerResponse(name, profile), http.StatusOK)
}

// AddQuickAction handles POST /quick-actions
func (h *LedgerHandler) AddQuickAction(w http.ResponseWriter, r *http.Request) {
	userID, name, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req QuickActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.ledgerService.AddQuickAction(r.Context(), userID, name, ledger.QuickAction{
		Text:       req.Text,
		Value:      req.Value.Int64(),
		IsPositive: req.IsPositive,
	})
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, newLedgerResponse(name, profile), http.StatusCreated)
}

// DeleteQuickAction handles DELETE /quick-actions/{index}
func (h *LedgerHandler) DeleteQuickAction(w http.ResponseWriter, r *http.Request) {
	userID, name, ok := h.scope(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, "invalid quick action index", http.StatusBadRequest)
		return
	}

	profile, err := h.ledgerService.DeleteQuickAction(r.Context(), userID, name, index)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, newLedgerResponse(name, profile), http.StatusOK)
}
