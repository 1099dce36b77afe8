package analytics

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/cases"

	"github.com/kislikjeka/cointrack/internal/ledger"
	"github.com/kislikjeka/cointrack/pkg/coins"
)

// LoginSource is the source label counted toward the login streak
const LoginSource = "Login"

const (
	minLoginStreak  = 3
	minNoSpendDays  = 7
	goalAchievement = "Epic Box Secured!"
)

// ErrMalformedDate is returned for a rule that had to stop on an unparsable date
var ErrMalformedDate = errors.New("malformed transaction date")

// Achievement is a badge derived from the current ledger. It is never stored.
type Achievement struct {
	Icon string `json:"icon"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

type milestone struct {
	threshold int64
	icon      string
	name      string
}

var milestones = []milestone{
	{threshold: 1000, icon: "💰", name: "Getting Started"},
	{threshold: 5000, icon: "📈", name: "Serious Saver"},
	{threshold: 10000, icon: "🏦", name: "Coin Hoarder"},
}

func (m milestone) badge() Achievement {
	return Achievement{
		Icon: m.icon,
		Name: m.name,
		Desc: fmt.Sprintf("Reach %s coins", coins.Format(m.threshold)),
	}
}

// EvaluateAchievements returns every badge the ledger currently earns, in a
// fixed order: milestones, goal, login streak, no-spend streak. Each streak
// rule is evaluated on its own; a rule that hits a malformed date is skipped
// and its error returned alongside the badges of the other rules.
func EvaluateAchievements(txs []ledger.Transaction, balance, goal int64, now time.Time) ([]Achievement, []error) {
	achievements := []Achievement{}
	var ruleErrs []error

	for _, m := range milestones {
		if balance >= m.threshold {
			achievements = append(achievements, m.badge())
		}
	}

	if balance >= goal {
		achievements = append(achievements, Achievement{
			Icon: "👑",
			Name: goalAchievement,
			Desc: fmt.Sprintf("You reached the %s coin goal!", coins.Format(goal)),
		})
	}

	today := ledger.DayOf(now)

	streak, err := LoginStreak(txs, today)
	if err != nil {
		ruleErrs = append(ruleErrs, fmt.Errorf("login streak: %w", err))
	} else if streak >= minLoginStreak {
		achievements = append(achievements, Achievement{
			Icon: "🔥",
			Name: fmt.Sprintf("%d-Day Streak", streak),
			Desc: fmt.Sprintf("Logged in %d days in a row!", streak),
		})
	}

	days, err := NoSpendDays(txs, today)
	if err != nil {
		ruleErrs = append(ruleErrs, fmt.Errorf("no-spend streak: %w", err))
	} else if days >= minNoSpendDays {
		achievements = append(achievements, Achievement{
			Icon: "🛡️",
			Name: "Disciplined",
			Desc: fmt.Sprintf("No spending for %d days!", days),
		})
	}

	return achievements, ruleErrs
}

// LoginStreak counts consecutive days, ending today, that have a positive
// Login transaction. The source label matches case-insensitively. It is 0
// when today has no login.
func LoginStreak(txs []ledger.Transaction, today time.Time) (int, error) {
	folder := cases.Fold()
	login := folder.String(LoginSource)

	days := make(map[time.Time]struct{})
	for _, t := range txs {
		if !t.IsEarning() || folder.String(t.Source) != login {
			continue
		}
		at, ok := ledger.ParseTimestamp(t.Date)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMalformedDate, t.Date)
		}
		days[ledger.DayOf(at)] = struct{}{}
	}

	streak := 0
	for day := ledger.DayOf(today); ; day = day.AddDate(0, 0, -1) {
		if _, ok := days[day]; !ok {
			break
		}
		streak++
	}
	return streak, nil
}

// NoSpendDays returns the days since the most recent spending. A ledger that
// never spent counts from its first transaction; an empty ledger is 0.
func NoSpendDays(txs []ledger.Transaction, today time.Time) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	sorted := ledger.SortChronological(txs)

	since := sorted[0]
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].IsSpending() {
			since = sorted[i]
			break
		}
	}

	at, ok := ledger.ParseTimestamp(since.Date)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDate, since.Date)
	}
	return ledger.DaysBetween(at, today), nil
}
