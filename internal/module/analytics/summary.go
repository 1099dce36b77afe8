package analytics

import (
	"math"
	"math/big"
	"sort"
	"time"

	"github.com/kislikjeka/cointrack/internal/ledger"
)

// EarningStats holds positive amounts earned in the current day, week and month.
type EarningStats struct {
	Today int64 `json:"today"`
	Week  int64 `json:"week"`
	Month int64 `json:"month"`
}

// TimelinePoint is the balance right after one transaction.
type TimelinePoint struct {
	Date    string `json:"date"`
	Balance int64  `json:"balance"`
}

// Breakdown is the per-source view of a ledger.
type Breakdown struct {
	TotalEarnings     int64            `json:"total_earnings"`
	TotalSpending     int64            `json:"total_spending"` // absolute value
	NetBalance        int64            `json:"net_balance"`
	EarningsBreakdown map[string]int64 `json:"earnings_breakdown"`
	SpendingBreakdown map[string]int64 `json:"spending_breakdown"` // absolute values
	Timeline          []TimelinePoint  `json:"timeline"`
}

// Summary is the analytics projection of one profile.
type Summary struct {
	Balance  int64 `json:"balance"`
	Goal     int64 `json:"goal"`
	Progress int64 `json:"progress"`

	// EstimatedDays is nil when there is no earning history to project from
	EstimatedDays *int64       `json:"estimated_days"`
	Earnings      EarningStats `json:"dashboard_stats"`
	Analytics     Breakdown    `json:"analytics"`
	AllSources    []string     `json:"all_sources"`

	// Skipped lists transactions whose dates could not be parsed. They count
	// toward totals but not toward time windows or the projection.
	Skipped []string `json:"-"`
}

// window is an inclusive range of calendar days.
type window struct {
	from, to time.Time
}

func (w window) contains(day time.Time) bool {
	return !day.Before(w.from) && !day.After(w.to)
}

// Analyze computes balance, progress, earning windows, the goal projection and
// per-source breakdowns. Windows are measured against calendar days in now's
// location: today, the week starting Monday and the month to date.
func Analyze(txs []ledger.Transaction, settings ledger.Settings, now time.Time) *Summary {
	goal := settings.Goal
	balance := ledger.Balance(txs)

	today := ledger.DayOf(now)
	todayWindow := window{from: today, to: today}
	weekWindow := window{from: today.AddDate(0, 0, -daysSinceMonday(today)), to: today}
	monthWindow := window{from: today.AddDate(0, 0, 1-today.Day()), to: today}

	s := &Summary{
		Balance:  balance,
		Goal:     goal,
		Progress: Progress(balance, goal),
		Analytics: Breakdown{
			NetBalance:        balance,
			EarningsBreakdown: make(map[string]int64),
			SpendingBreakdown: make(map[string]int64),
			Timeline:          []TimelinePoint{},
		},
		AllSources: []string{},
	}

	var firstEarning *time.Time
	sources := make(map[string]struct{})

	for _, t := range txs {
		sources[t.Source] = struct{}{}

		if t.IsSpending() {
			s.Analytics.TotalSpending -= t.Amount
			s.Analytics.SpendingBreakdown[t.Source] -= t.Amount
		}

		at, ok := ledger.ParseTimestamp(t.Date)
		if !ok {
			s.Skipped = append(s.Skipped, t.ID)
		}

		if !t.IsEarning() {
			continue
		}
		s.Analytics.TotalEarnings += t.Amount
		s.Analytics.EarningsBreakdown[t.Source] += t.Amount

		if !ok {
			continue
		}
		if firstEarning == nil || at.Before(*firstEarning) {
			first := at
			firstEarning = &first
		}

		day := ledger.DayOf(at)
		if todayWindow.contains(day) {
			s.Earnings.Today += t.Amount
		}
		if weekWindow.contains(day) {
			s.Earnings.Week += t.Amount
		}
		if monthWindow.contains(day) {
			s.Earnings.Month += t.Amount
		}
	}

	s.EstimatedDays = EstimateDays(balance, goal, s.Analytics.TotalEarnings, firstEarning, now)

	for _, t := range ledger.Recalculate(txs) {
		s.Analytics.Timeline = append(s.Analytics.Timeline, TimelinePoint{
			Date:    t.Date,
			Balance: t.BalanceAfter(),
		})
	}

	for source := range sources {
		s.AllSources = append(s.AllSources, source)
	}
	sort.Strings(s.AllSources)

	return s
}

// Progress returns the whole percentage of goal reached, clamped to 0..100.
// A non-positive goal has no progress.
func Progress(balance, goal int64) int64 {
	if goal <= 0 || balance <= 0 {
		return 0
	}
	if balance >= goal {
		return 100
	}
	return mulDiv(big.NewInt(balance), 100, goal)
}

// EstimateDays projects how many days remain until goal at the average daily
// earning rate since the first earning. It returns 0 when the goal is already
// met and nil when nothing has been earned yet.
func EstimateDays(balance, goal, totalEarnings int64, firstEarning *time.Time, now time.Time) *int64 {
	var days int64
	if balance >= goal {
		return &days
	}
	if totalEarnings <= 0 || firstEarning == nil {
		return nil
	}

	daysSinceStart := int64(now.Sub(*firstEarning) / (24 * time.Hour))
	if daysSinceStart < 1 {
		daysSinceStart = 1
	}

	// (goal-balance) / (totalEarnings/daysSinceStart), kept in integers
	remaining := new(big.Int).Sub(big.NewInt(goal), big.NewInt(balance))
	days = mulDiv(remaining, daysSinceStart, totalEarnings)
	return &days
}

// mulDiv returns floor(a*b/c) for non-negative a, b and positive c without
// overflowing, saturating at math.MaxInt64.
func mulDiv(a *big.Int, b, c int64) int64 {
	q := new(big.Int).Mul(a, big.NewInt(b))
	q.Quo(q, big.NewInt(c))
	if !q.IsInt64() {
		return math.MaxInt64
	}
	return q.Int64()
}

func daysSinceMonday(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}
