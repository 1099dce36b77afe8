package ledger

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// HistoryFilters narrows a history query. All set filters must match.
type HistoryFilters struct {
	DateFrom *time.Time // inclusive calendar date
	DateTo   *time.Time // inclusive calendar date
	Source   string     // exact match
	Search   string     // case-insensitive, source or amount
}

// HasDateBounds reports whether a date filter is active
func (f HistoryFilters) HasDateBounds() bool {
	return f.DateFrom != nil || f.DateTo != nil
}

// HistoryPage is one page of filtered history, newest first.
type HistoryPage struct {
	Transactions      []Transaction `json:"transactions"`
	TotalPages        int           `json:"total_pages"`
	CurrentPage       int           `json:"current_page"`
	TotalTransactions int           `json:"total_transactions"`
	TotalEarned       int64         `json:"total_earned"`
	TotalSpent        int64         `json:"total_spent"`

	// Skipped lists transactions left out because their date could not be
	// parsed while a date filter was active.
	Skipped []string `json:"-"`
}

// Query filters, sorts and paginates a ledger. Pages are 1-based; a page past
// the end is empty rather than an error. Totals cover every filtered
// transaction, not just the returned page.
func Query(txs []Transaction, page, limit int, filters HistoryFilters) (*HistoryPage, error) {
	if page <= 0 || limit <= 0 {
		return nil, ErrInvalidPagination
	}

	result := &HistoryPage{CurrentPage: page, Transactions: []Transaction{}}

	var needle string
	if filters.Search != "" {
		needle = cases.Fold().String(filters.Search)
	}
	folder := cases.Fold()

	filtered := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if filters.HasDateBounds() {
			at, ok := ParseTimestamp(t.Date)
			if !ok {
				result.Skipped = append(result.Skipped, t.ID)
				continue
			}
			day := DayOf(at)
			if filters.DateFrom != nil && day.Before(DayOf(*filters.DateFrom)) {
				continue
			}
			if filters.DateTo != nil && day.After(DayOf(*filters.DateTo)) {
				continue
			}
		}

		if filters.Source != "" && filters.Source != t.Source {
			continue
		}

		if needle != "" {
			sourceMatch := strings.Contains(folder.String(t.Source), needle)
			amountMatch := strings.Contains(strconv.FormatInt(t.Amount, 10), needle)
			if !sourceMatch && !amountMatch {
				continue
			}
		}

		filtered = append(filtered, t)
	}

	for _, t := range filtered {
		switch {
		case t.IsEarning():
			result.TotalEarned += t.Amount
		case t.IsSpending():
			result.TotalSpent += t.Amount
		}
	}

	sorted := SortNewestFirst(filtered)
	result.TotalTransactions = len(sorted)
	result.TotalPages = len(sorted) / limit
	if len(sorted)%limit != 0 {
		result.TotalPages++
	}

	// page and limit come straight from the query string; compare before
	// multiplying so neither product can overflow
	if page-1 < result.TotalPages {
		start := (page - 1) * limit
		end := len(sorted)
		if limit < end-start {
			end = start + limit
		}
		result.Transactions = sorted[start:end]
	}

	return result, nil
}
