package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/cointrack/internal/infra/metrics"
	"github.com/kislikjeka/cointrack/internal/ledger"
	"github.com/kislikjeka/cointrack/pkg/logger"
)

// ProfileLoader reads validated profiles. ledger.Service implements it.
type ProfileLoader interface {
	CurrentProfile(ctx context.Context, userID uuid.UUID) (string, error)
	Load(ctx context.Context, userID uuid.UUID, name string) (*ledger.Profile, error)
}

// Dashboard is everything the main screen shows for one profile.
type Dashboard struct {
	Profile      string               `json:"profile"`
	Transactions []ledger.Transaction `json:"transactions"`
	Settings     ledger.Settings      `json:"settings"`
	Persistent   bool                 `json:"persistent"`
	*Summary
	Achievements []Achievement `json:"achievements"`
}

// Service builds dashboards from stored profiles
type Service struct {
	profiles   ProfileLoader
	persistent bool
	location   *time.Location
	logger     *logger.Logger
	now        func() time.Time
}

// NewService creates a new analytics service. persistent reports whether
// the profile store outlives the process; location is the timezone calendar
// windows are measured in.
func NewService(profiles ProfileLoader, persistent bool, location *time.Location, log *logger.Logger) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		profiles:   profiles,
		persistent: persistent,
		location:   location,
		logger:     log.WithComponent("analytics"),
		now:        time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Dashboard loads the user's current profile and derives its analytics and
// achievements.
func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	name, err := s.profiles.CurrentProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Load(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	log := s.logger.WithContext(ctx).WithField("profile", name)

	summary := Analyze(profile.Transactions, profile.Settings, now)
	if n := len(summary.Skipped); n > 0 {
		metrics.RecordSkipped("analytics", n)
		log.Warn("skipped transactions with malformed dates",
			"computation", "analytics",
			"transaction_ids", summary.Skipped,
		)
	}

	achievements, ruleErrs := EvaluateAchievements(profile.Transactions, summary.Balance, summary.Goal, now)
	for _, ruleErr := range ruleErrs {
		metrics.RecordSkipped("achievements", 1)
		log.WithError(ruleErr).Warn("achievement rule skipped")
	}

	return &Dashboard{
		Profile:      name,
		Transactions: profile.Transactions,
		Settings:     profile.Settings,
		Persistent:   s.persistent,
		Summary:      summary,
		Achievements: achievements,
	}, nil
}
