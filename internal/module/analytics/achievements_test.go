package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/cointrack/internal/ledger"
)

func names(achievements []Achievement) []string {
	out := make([]string, len(achievements))
	for i, a := range achievements {
		out[i] = a.Name
	}
	return out
}

func dayBefore(n int) string {
	return testNow.AddDate(0, 0, -n).Format(time.RFC3339)
}

func TestEvaluateAchievements_Milestones(t *testing.T) {
	got, errs := EvaluateAchievements(nil, 5000, ledger.DefaultGoal, testNow)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"Getting Started", "Serious Saver"}, names(got))
	assert.Equal(t, "Reach 1,000 coins", got[0].Desc)
}

func TestEvaluateAchievements_Goal(t *testing.T) {
	got, _ := EvaluateAchievements(nil, 13500, 13500, testNow)

	require.Len(t, got, 4)
	assert.Equal(t, "Epic Box Secured!", got[3].Name)
	assert.Equal(t, "👑", got[3].Icon)
	assert.Equal(t, "You reached the 13,500 coin goal!", got[3].Desc)
}

func TestEvaluateAchievements_LoginStreak(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: "1", Date: dayBefore(2), Amount: 50, Source: "Login"},
		{ID: "2", Date: dayBefore(1), Amount: 50, Source: "Login"},
		{ID: "3", Date: dayBefore(0), Amount: 50, Source: "Login"},
	}

	got, errs := EvaluateAchievements(txs, 150, ledger.DefaultGoal, testNow)
	assert.Empty(t, errs)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Name, "3-Day Streak")
	assert.Equal(t, "🔥", got[0].Icon)

	// evaluation is pure
	again, _ := EvaluateAchievements(txs, 150, ledger.DefaultGoal, testNow)
	assert.Equal(t, got, again)
}

func TestLoginStreak(t *testing.T) {
	today := ledger.DayOf(testNow)

	tests := []struct {
		name string
		txs  []ledger.Transaction
		want int
	}{
		{name: "empty", want: 0},
		{
			name: "no login today breaks the streak",
			txs: []ledger.Transaction{
				{Date: dayBefore(2), Amount: 50, Source: "Login"},
				{Date: dayBefore(1), Amount: 50, Source: "Login"},
			},
			want: 0,
		},
		{
			name: "source matches case-insensitively",
			txs: []ledger.Transaction{
				{Date: dayBefore(1), Amount: 50, Source: "LOGIN"},
				{Date: dayBefore(0), Amount: 50, Source: "login"},
			},
			want: 2,
		},
		{
			name: "several logins on one day count once",
			txs: []ledger.Transaction{
				{Date: dayBefore(0), Amount: 50, Source: "Login"},
				{Date: testNow.Add(-time.Hour).Format(time.RFC3339), Amount: 50, Source: "Login"},
			},
			want: 1,
		},
		{
			name: "gap ends the streak",
			txs: []ledger.Transaction{
				{Date: dayBefore(3), Amount: 50, Source: "Login"},
				{Date: dayBefore(1), Amount: 50, Source: "Login"},
				{Date: dayBefore(0), Amount: 50, Source: "Login"},
			},
			want: 2,
		},
		{
			name: "spending and other sources are ignored",
			txs: []ledger.Transaction{
				{Date: dayBefore(0), Amount: -50, Source: "Login"},
				{Date: dayBefore(0), Amount: 50, Source: "Ads"},
				{Date: "broken", Amount: 10, Source: "Ads"},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoginStreak(tt.txs, today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNoSpendDays(t *testing.T) {
	today := ledger.DayOf(testNow)

	days, err := NoSpendDays(nil, today)
	require.NoError(t, err)
	assert.Equal(t, 0, days)

	days, err = NoSpendDays([]ledger.Transaction{
		{Date: dayBefore(20), Amount: -10},
		{Date: dayBefore(8), Amount: -5},
		{Date: dayBefore(1), Amount: 50},
	}, today)
	require.NoError(t, err)
	assert.Equal(t, 8, days)

	days, err = NoSpendDays([]ledger.Transaction{
		{Date: dayBefore(4), Amount: 50},
		{Date: dayBefore(12), Amount: 50},
	}, today)
	require.NoError(t, err)
	assert.Equal(t, 12, days)

	_, err = NoSpendDays([]ledger.Transaction{{Date: "broken", Amount: -1}}, today)
	assert.ErrorIs(t, err, ErrMalformedDate)
}

func TestEvaluateAchievements_Disciplined(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: "1", Date: dayBefore(9), Amount: 2000, Source: "Event Reward"},
		{ID: "2", Date: dayBefore(7), Amount: -100, Source: "Box Draw (Single)"},
	}

	got, errs := EvaluateAchievements(txs, 1900, ledger.DefaultGoal, testNow)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"Getting Started", "Disciplined"}, names(got))
	assert.Equal(t, "No spending for 7 days!", got[1].Desc)
}

func TestEvaluateAchievements_MalformedDateSkipsOnlyThatRule(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: "1", Date: dayBefore(10), Amount: 1200, Source: "Ads"},
		{ID: "2", Date: "not-a-date", Amount: 50, Source: "Login"},
		{ID: "3", Date: dayBefore(8), Amount: -100, Source: "Shop"},
	}

	got, errs := EvaluateAchievements(txs, 1250, ledger.DefaultGoal, testNow)

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMalformedDate)
	assert.Equal(t, []string{"Getting Started", "Disciplined"}, names(got))
}

func TestEvaluateAchievements_NoneApply(t *testing.T) {
	got, errs := EvaluateAchievements(nil, 0, ledger.DefaultGoal, testNow)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, errs)
}
