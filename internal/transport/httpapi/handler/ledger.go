package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kislikjeka/cointrack/internal/ledger"
	"github.com/kislikjeka/cointrack/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/cointrack/pkg/coins"
	"github.com/kislikjeka/cointrack/pkg/logger"
)

// History pagination defaults, used when page or limit are absent or unparsable
const (
	defaultHistoryPage  = 1
	defaultHistoryLimit = 20
)

// maxImportBytes bounds the size of an import document
const maxImportBytes = 5 << 20

// LedgerServiceInterface defines the ledger operations needed by LedgerHandler
type LedgerServiceInterface interface {
	CurrentProfile(ctx context.Context, userID uuid.UUID) (string, error)

	AddTransaction(ctx context.Context, userID uuid.UUID, name string, in ledger.TransactionInput) (*ledger.Profile, error)
	UpdateTransaction(ctx context.Context, userID uuid.UUID, name, id string, in ledger.TransactionInput) (*ledger.Profile, error)
	DeleteTransaction(ctx context.Context, userID uuid.UUID, name, id string) (*ledger.Profile, error)
	History(ctx context.Context, userID uuid.UUID, name string, page, limit int, filters ledger.HistoryFilters) (*ledger.HistoryPage, error)

	UpdateSettings(ctx context.Context, userID uuid.UUID, name string, patch ledger.SettingsPatch) (*ledger.Profile, error)
	AddQuickAction(ctx context.Context, userID uuid.UUID, name string, action ledger.QuickAction) (*ledger.Profile, error)
	DeleteQuickAction(ctx context.Context, userID uuid.UUID, name string, index int) (*ledger.Profile, error)

	Import(ctx context.Context, userID uuid.UUID, name string, exp *ledger.Export) (*ledger.Profile, error)
	Export(ctx context.Context, userID uuid.UUID, name string) (*ledger.Export, error)

	ListProfiles(ctx context.Context, userID uuid.UUID) ([]string, error)
	CreateProfile(ctx context.Context, userID uuid.UUID, name string) ([]string, error)
	SwitchProfile(ctx context.Context, userID uuid.UUID, name string) error
}

// LedgerHandler handles transaction, settings, import/export and profile
// requests. Every request works on the user's current profile.
type LedgerHandler struct {
	ledgerService LedgerServiceInterface
	logger        *logger.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService LedgerServiceInterface, log *logger.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        log,
	}
}

// TransactionRequest is the body of add and update. Amount may be sent as a
// number or a numeric string.
type TransactionRequest struct {
	Amount *coins.Amount `json:"amount"`
	Source string        `json:"source"`
	Date   string        `json:"date,omitempty"`
}

// LedgerResponse is returned by every mutation: the whole recalculated
// ledger of the profile.
type LedgerResponse struct {
	Profile      string               `json:"profile"`
	Transactions []ledger.Transaction `json:"transactions"`
	Settings     ledger.Settings      `json:"settings"`
	Balance      int64                `json:"balance"`
}

func newLedgerResponse(name string, p *ledger.Profile) LedgerResponse {
	return LedgerResponse{
		Profile:      name,
		Transactions: p.Transactions,
		Settings:     p.Settings,
		Balance:      ledger.Balance(p.Transactions),
	}
}

// scope resolves the caller and the profile the request works on
func (h *LedgerHandler) scope(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, "", false
	}

	name, err := h.ledgerService.CurrentProfile(r.Context(), userID)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return uuid.Nil, "", false
	}

	return userID, name, true
}

func decodeTransaction(w http.ResponseWriter, r *http.Request) (ledger.TransactionInput, bool) {
	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return ledger.TransactionInput{}, false
	}

	if req.Amount == nil {
		respondError(w, "amount is required", http.StatusBadRequest)
		return ledger.TransactionInput{}, false
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		respondError(w, "source is required", http.StatusBadRequest)
		return ledger.TransactionInput{}, false
	}

	return ledger.TransactionInput{
		Amount: req.Amount.Int64(),
		Source: source,
		Date:   req.Date,
	}, true
}

// AddTransaction handles POST /transactions
func (h *LedgerHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	userID, name, ok := h.scope(w, r)
	if !ok {
		return
	}

	in, ok := decodeTransaction(w, r)
	if !ok {
		return
	}

	profile, err := h.ledgerService.AddTransaction(r.Context(), userID, name, in)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, newLedgerResponse(name, profile), http.StatusCreated)
}

// UpdateTransaction handles PUT /transactions/{id}
func (h *LedgerHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, name, ok := h.scope(w, r)
	if !ok {
		return
	}

	in, ok := decodeTransaction(w, r)
	if !ok {
		return
	}

	profile, err := h.ledgerService.UpdateTransaction(r.Context(), userID, name, chi.URLParam(r, "id"), in)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, newLedgerResponse(name, profile), http.StatusOK)
}

// DeleteTransaction handles DELETE /transactions/{id}
func (h *LedgerHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, name, ok := h.scope(w, r)
	if !ok {
		return
	}

	profile, err := h.ledgerService.DeleteTransaction(r.Context(), userID, name, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, newLedgerResponse(name, profile), http.StatusOK)
}

// History handles GET /history
// Query params: page, limit, date_from, date_to, source, search
func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, name, ok := h.scope(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page := queryInt(q.Get("page"), defaultHistoryPage)
	limit := queryInt(q.Get("limit"), defaultHistoryLimit)

	filters := ledger.HistoryFilters{
		Source: q.Get("source"),
		Search: strings.TrimSpace(q.Get("search")),
	}

	for param, target := range map[string]**time.Time{
		"date_from": &filters.DateFrom,
		"date_to":   &filters.DateTo,
	} {
		value := q.Get(param)
		if value == "" {
			continue
		}
		day, ok := ledger.ParseDay(value)
		if !ok {
			respondError(w, "invalid "+param+", expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		*target = &day
	}

	result, err := h.ledgerService.History(r.Context(), userID, name, page, limit, filters)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, result, http.StatusOK)
}

// queryInt parses a query parameter, falling back when absent or unparsable
func queryInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
