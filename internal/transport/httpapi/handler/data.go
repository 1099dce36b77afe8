package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kislikjeka/cointrack/internal/ledger"
)

// Export handles GET /export. The document is offered as a download named
// after the profile and the day.
func (h *LedgerHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, name, ok := h.scope(w, r)
	if !ok {
		return
	}

	exp, err := h.ledgerService.Export(r.Context(), userID, name)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	filename := fmt.Sprintf("cointrack-%s-%s.json", name, time.Now().UTC().Format(time.DateOnly))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	respondJSON(w, exp, http.StatusOK)
}

// Import handles POST /import. The body replaces the current profile.
func (h *LedgerHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, name, ok := h.scope(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, "import document too large", http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	exp, err := ledger.ParseExport(body)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	profile, err := h.ledgerService.Import(r.Context(), userID, name, exp)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, newLedgerResponse(name, profile), http.StatusOK)
}
