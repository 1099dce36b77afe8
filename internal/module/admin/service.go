package admin

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kislikjeka/cointrack/internal/ledger"
	"github.com/kislikjeka/cointrack/pkg/logger"
)

const maxBroadcastLength = 500

// Service aggregates usage across all users and manages accounts
type Service struct {
	users      UserDirectory
	data       DataStore
	broadcasts BroadcastStore
	logger     *logger.Logger
	now        func() time.Time
}

// NewService creates a new admin service
func NewService(users UserDirectory, data DataStore, broadcasts BroadcastStore, log *logger.Logger) *Service {
	return &Service{
		users:      users,
		data:       data,
		broadcasts: broadcasts,
		logger:     log.WithComponent("admin"),
		now:        time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Stats counts users, coins and transactions across every profile and
// charts signups for the last SignupWindowDays days, ending today (UTC).
func (s *Service) Stats(ctx context.Context) (*Overview, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	today := ledger.DayOf(s.now().UTC())
	first := today.AddDate(0, 0, -(SignupWindowDays - 1))

	chart := SignupChart{
		Labels: make([]string, SignupWindowDays),
		Data:   make([]int, SignupWindowDays),
	}
	for i := range chart.Labels {
		chart.Labels[i] = first.AddDate(0, 0, i).Format(time.DateOnly)
	}
	for _, u := range users {
		day := ledger.DaysBetween(first, u.CreatedAt.UTC())
		if day >= 0 && day < SignupWindowDays {
			chart.Data[day]++
		}
	}

	stats := Stats{TotalUsers: len(users)}
	err = s.data.ForEach(ctx, func(_ uuid.UUID, data *ledger.UserData) error {
		for _, p := range data.Profiles {
			stats.TotalTransactions += len(p.Transactions)
			stats.TotalCoins += ledger.Balance(p.Transactions)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user data: %w", err)
	}

	return &Overview{Stats: stats, ChartData: chart}, nil
}

// Users lists every account with its balance, transaction count and the most
// recent update across all its profiles.
func (s *Service) Users(ctx context.Context) ([]UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]UserSummary, len(users))
	index := make(map[uuid.UUID]int, len(users))
	for i, u := range users {
		summaries[i] = UserSummary{
			UserID:    u.ID,
			Username:  u.Username,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt,
		}
		index[u.ID] = i
	}

	err = s.data.ForEach(ctx, func(userID uuid.UUID, data *ledger.UserData) error {
		i, ok := index[userID]
		if !ok {
			return nil
		}
		row := &summaries[i]
		for _, p := range data.Profiles {
			row.TxnCount += len(p.Transactions)
			row.Balance += ledger.Balance(p.Transactions)
			if p.LastUpdated.IsZero() {
				continue
			}
			if row.LastUpdated == nil || p.LastUpdated.After(*row.LastUpdated) {
				updated := p.LastUpdated
				row.LastUpdated = &updated
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user data: %w", err)
	}

	return summaries, nil
}

// DeleteUser removes the account and all of its profiles
func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.data.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user data: %w", err)
	}

	s.logger.WithContext(ctx).Info("deleted user", "deleted_user_id", userID.String())
	return nil
}

// Broadcast returns the current broadcast message
func (s *Service) Broadcast(ctx context.Context) (*Broadcast, error) {
	b, err := s.broadcasts.GetBroadcast(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get broadcast: %w", err)
	}
	return b, nil
}

// SetBroadcast replaces the broadcast message. An empty message clears it.
func (s *Service) SetBroadcast(ctx context.Context, message, setBy string) (*Broadcast, error) {
	if utf8.RuneCountInString(message) > maxBroadcastLength {
		return nil, ErrBroadcastTooLong
	}

	at := s.now().UTC()
	b := &Broadcast{Message: message, SetBy: setBy, SetAt: &at}
	if err := s.broadcasts.SetBroadcast(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to set broadcast: %w", err)
	}

	s.logger.WithContext(ctx).Info("broadcast updated", "set_by", setBy)
	return b, nil
}
