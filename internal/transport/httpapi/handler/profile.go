package handler

import (
	"encoding/json"
	"net/http"
)

// ProfileRequest is the body of profile create and switch
type ProfileRequest struct {
	Name string `json:"name"`
}

// ProfilesResponse lists the user's profiles and the active one
type ProfilesResponse struct {
	Profiles []string `json:"profiles"`
	Current  string   `json:"current"`
}

// ListProfiles handles GET /profiles
func (h *LedgerHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	userID, current, ok := h.scope(w, r)
	if !ok {
		return
	}

	names, err := h.ledgerService.ListProfiles(r.Context(), userID)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, ProfilesResponse{Profiles: names, Current: current}, http.StatusOK)
}

// CreateProfile handles POST /profiles. The new profile becomes current.
func (h *LedgerHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	names, err := h.ledgerService.CreateProfile(r.Context(), userID, req.Name)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	current, err := h.ledgerService.CurrentProfile(r.Context(), userID)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, ProfilesResponse{Profiles: names, Current: current}, http.StatusCreated)
}

// SwitchProfile handles POST /profiles/switch
func (h *LedgerHandler) SwitchProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.ledgerService.SwitchProfile(r.Context(), userID, req.Name); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	current, err := h.ledgerService.CurrentProfile(r.Context(), userID)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	names, err := h.ledgerService.ListProfiles(r.Context(), userID)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, ProfilesResponse{Profiles: names, Current: current}, http.StatusOK)
}
