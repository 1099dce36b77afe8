package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/cointrack/internal/ledger"
)

// Wednesday
var testNow = time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

func settingsWithGoal(goal int64) ledger.Settings {
	s := ledger.DefaultSettings()
	s.Goal = goal
	return s
}

func TestAnalyze(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: "a", Date: "2026-04-01T10:00:00Z", Amount: 1000, Source: "Login"},
		{ID: "b", Date: "2026-04-13T10:00:00Z", Amount: 200, Source: "Ads"},
		{ID: "c", Date: "2026-04-15T08:00:00Z", Amount: 50, Source: "Login"},
		{ID: "d", Date: "2026-04-14T09:00:00Z", Amount: -300, Source: "Shop"},
		{ID: "e", Date: "2026-03-31T23:00:00Z", Amount: 100, Source: "Event Reward"},
		{ID: "f", Date: "broken", Amount: 10, Source: "Ads"},
	}

	s := Analyze(txs, settingsWithGoal(2000), testNow)

	assert.Equal(t, int64(1060), s.Balance)
	assert.Equal(t, int64(2000), s.Goal)
	assert.Equal(t, int64(53), s.Progress)
	assert.Equal(t, EarningStats{Today: 50, Week: 250, Month: 1250}, s.Earnings)

	require.NotNil(t, s.EstimatedDays)
	// 940 to go at 1360 over 14 days
	assert.Equal(t, int64(9), *s.EstimatedDays)

	assert.Equal(t, int64(1360), s.Analytics.TotalEarnings)
	assert.Equal(t, int64(300), s.Analytics.TotalSpending)
	assert.Equal(t, int64(1060), s.Analytics.NetBalance)
	assert.Equal(t, map[string]int64{"Login": 1050, "Ads": 210, "Event Reward": 100}, s.Analytics.EarningsBreakdown)
	assert.Equal(t, map[string]int64{"Shop": 300}, s.Analytics.SpendingBreakdown)

	assert.Equal(t, []TimelinePoint{
		{Date: "broken", Balance: 10},
		{Date: "2026-03-31T23:00:00Z", Balance: 110},
		{Date: "2026-04-01T10:00:00Z", Balance: 1110},
		{Date: "2026-04-13T10:00:00Z", Balance: 1310},
		{Date: "2026-04-14T09:00:00Z", Balance: 1010},
		{Date: "2026-04-15T08:00:00Z", Balance: 1060},
	}, s.Analytics.Timeline)

	assert.Equal(t, []string{"Ads", "Event Reward", "Login", "Shop"}, s.AllSources)
	assert.Equal(t, []string{"f"}, s.Skipped)
}

func TestAnalyze_ProgressScenario(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: "1", Date: "2026-04-10T10:00:00Z", Amount: 1000, Source: "Login"},
		{ID: "2", Date: "2026-04-11T10:00:00Z", Amount: -200, Source: "Shop"},
	}

	s := Analyze(txs, settingsWithGoal(1000), testNow)
	assert.Equal(t, int64(800), s.Balance)
	assert.Equal(t, int64(80), s.Progress)

	achievements, errs := EvaluateAchievements(txs, s.Balance, s.Goal, testNow)
	assert.Empty(t, errs)
	for _, a := range achievements {
		assert.NotEqual(t, "Getting Started", a.Name)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	s := Analyze(nil, ledger.DefaultSettings(), testNow)

	assert.Equal(t, int64(0), s.Balance)
	assert.Equal(t, int64(0), s.Progress)
	assert.Nil(t, s.EstimatedDays)
	assert.NotNil(t, s.Analytics.Timeline)
	assert.NotNil(t, s.AllSources)
	assert.Empty(t, s.Analytics.EarningsBreakdown)
}

func TestAnalyze_WeekStartsMonday(t *testing.T) {
	sunday := time.Date(2026, 4, 19, 9, 0, 0, 0, time.UTC)
	txs := []ledger.Transaction{
		{ID: "mon", Date: "2026-04-13T00:00:00Z", Amount: 5, Source: "Ads"},
		{ID: "prev-sun", Date: "2026-04-12T23:59:59Z", Amount: 7, Source: "Ads"},
	}

	s := Analyze(txs, ledger.DefaultSettings(), sunday)
	assert.Equal(t, int64(5), s.Earnings.Week)
	assert.Equal(t, int64(12), s.Earnings.Month)
	assert.Equal(t, int64(0), s.Earnings.Today)
}

func TestProgress(t *testing.T) {
	tests := []struct {
		balance, goal, want int64
	}{
		{800, 1000, 80},
		{999, 1000, 99},
		{1000, 1000, 100},
		{5000, 1000, 100},
		{0, 1000, 0},
		{-50, 1000, 0},
		{500, 0, 0},
		{500, -10, 0},
		{1e17, math.MaxInt64, 1},
		{math.MaxInt64 - 1, math.MaxInt64, 99},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Progress(tt.balance, tt.goal), "balance=%d goal=%d", tt.balance, tt.goal)
	}
}

func TestEstimateDays(t *testing.T) {
	first := testNow.Add(-10 * 24 * time.Hour)

	met := EstimateDays(1000, 1000, 1000, &first, testNow)
	require.NotNil(t, met)
	assert.Equal(t, int64(0), *met)

	assert.Nil(t, EstimateDays(-100, 1000, 0, nil, testNow))
	assert.Nil(t, EstimateDays(100, 1000, 100, nil, testNow))

	// 500 earned over 10 days is 50 a day; 500 to go
	days := EstimateDays(500, 1000, 500, &first, testNow)
	require.NotNil(t, days)
	assert.Equal(t, int64(10), *days)

	// less than a day of history counts as one day
	recent := testNow.Add(-time.Hour)
	days = EstimateDays(100, 1000, 100, &recent, testNow)
	require.NotNil(t, days)
	assert.Equal(t, int64(9), *days)
}

func TestEstimateDays_LargeValues(t *testing.T) {
	first := testNow.Add(-100 * 24 * time.Hour)

	// 10 coins over 100 days; the remainder times the day count exceeds int64
	days := EstimateDays(0, math.MaxInt64, 10, &first, testNow)
	require.NotNil(t, days)
	assert.Equal(t, int64(math.MaxInt64), *days)

	// a large debt below a large goal does not wrap
	days = EstimateDays(-math.MaxInt64, math.MaxInt64, math.MaxInt64, &first, testNow)
	require.NotNil(t, days)
	assert.Equal(t, int64(200), *days)

	days = EstimateDays(0, 1e15, 1e15, &first, testNow)
	require.NotNil(t, days)
	assert.Equal(t, int64(100), *days)
}
