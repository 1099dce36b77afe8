package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kislikjeka/cointrack/internal/infra/metrics"
	"github.com/kislikjeka/cointrack/pkg/logger"
)

const maxProfileNameLength = 64

// Service orchestrates profile reads and writes around the ProfileStore.
//
// Every mutation follows the same path: load, change in memory, Validate,
// Recalculate, save the whole profile. A failed lookup or validation returns
// before anything is saved.
type Service struct {
	store  ProfileStore
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new ledger service
func NewService(store ProfileStore, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: log.WithComponent("ledger"),
		now:    time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CurrentProfile returns the profile the user last worked in, or Default.
func (s *Service) CurrentProfile(ctx context.Context, userID uuid.UUID) (string, error) {
	name, err := s.store.ActiveProfile(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get active profile: %w", err)
	}
	if name == "" {
		return DefaultProfile, nil
	}
	return name, nil
}

// Load returns a validated profile. A profile that was never saved loads as
// an empty ledger with default settings.
func (s *Service) Load(ctx context.Context, userID uuid.UUID, name string) (*Profile, error) {
	profile, err := s.store.Load(ctx, userID, name)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = NewProfile()
	}

	profile.Transactions, profile.Settings = Validate(profile.Transactions, profile.Settings)
	return profile, nil
}

// save validates and recalculates the whole profile before handing it to the
// store. The store never sees a partially normalized ledger.
func (s *Service) save(ctx context.Context, userID uuid.UUID, name string, profile *Profile) error {
	txs, settings := Validate(profile.Transactions, profile.Settings)
	profile.Transactions = Recalculate(txs)
	profile.Settings = settings
	profile.LastUpdated = s.now().UTC()

	if err := s.store.Save(ctx, userID, name, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// mutate runs one load-change-save cycle and records its outcome.
func (s *Service) mutate(
	ctx context.Context,
	operation string,
	userID uuid.UUID,
	name string,
	change func(p *Profile) error,
) (*Profile, error) {
	profile, err := s.Load(ctx, userID, name)
	if err == nil {
		err = change(profile)
	}
	if err == nil {
		err = s.save(ctx, userID, name, profile)
	}

	metrics.RecordMutation(operation, err)
	if err != nil {
		s.logger.WithContext(ctx).Debug("ledger mutation rejected",
			"operation", operation,
			"profile", name,
			"error", err,
		)
		return nil, err
	}
	return profile, nil
}

// AddTransaction appends a new transaction. An empty date means now.
func (s *Service) AddTransaction(ctx context.Context, userID uuid.UUID, name string, in TransactionInput) (*Profile, error) {
	date, err := s.normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, "add_transaction", userID, name, func(p *Profile) error {
		p.Transactions = append(p.Transactions, Transaction{
			ID:     uuid.NewString(),
			Date:   date,
			Amount: in.Amount,
			Source: in.Source,
		})
		return nil
	})
}

// UpdateTransaction replaces amount, source and date of a transaction. The
// ID and previous balance cannot be changed.
func (s *Service) UpdateTransaction(ctx context.Context, userID uuid.UUID, name, id string, in TransactionInput) (*Profile, error) {
	date, err := s.normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, "update_transaction", userID, name, func(p *Profile) error {
		for i := range p.Transactions {
			if p.Transactions[i].ID == id {
				p.Transactions[i].Amount = in.Amount
				p.Transactions[i].Source = in.Source
				p.Transactions[i].Date = date
				return nil
			}
		}
		return ErrTransactionNotFound
	})
}

// DeleteTransaction removes a transaction by ID
func (s *Service) DeleteTransaction(ctx context.Context, userID uuid.UUID, name, id string) (*Profile, error) {
	return s.mutate(ctx, "delete_transaction", userID, name, func(p *Profile) error {
		kept := make([]Transaction, 0, len(p.Transactions))
		for _, t := range p.Transactions {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(p.Transactions) {
			return ErrTransactionNotFound
		}
		p.Transactions = kept
		return nil
	})
}

// UpdateSettings applies a whitelisted settings patch
func (s *Service) UpdateSettings(ctx context.Context, userID uuid.UUID, name string, patch SettingsPatch) (*Profile, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	return s.mutate(ctx, "update_settings", userID, name, func(p *Profile) error {
		p.Settings.Apply(patch)
		return nil
	})
}

// AddQuickAction appends a quick action to the end of the list
func (s *Service) AddQuickAction(ctx context.Context, userID uuid.UUID, name string, action QuickAction) (*Profile, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}

	return s.mutate(ctx, "add_quick_action", userID, name, func(p *Profile) error {
		p.Settings.QuickActions = append(p.Settings.QuickActions, action)
		return nil
	})
}

// DeleteQuickAction removes the quick action at index
func (s *Service) DeleteQuickAction(ctx context.Context, userID uuid.UUID, name string, index int) (*Profile, error) {
	return s.mutate(ctx, "delete_quick_action", userID, name, func(p *Profile) error {
		actions := p.Settings.QuickActions
		if index < 0 || index >= len(actions) {
			return ErrQuickActionNotFound
		}
		p.Settings.QuickActions = append(actions[:index:index], actions[index+1:]...)
		return nil
	})
}

// Import replaces the profile with the exported document as-is
func (s *Service) Import(ctx context.Context, userID uuid.UUID, name string, exp *Export) (*Profile, error) {
	if exp == nil {
		return nil, ErrInvalidImport
	}

	profile := &Profile{
		Transactions: exp.Transactions,
		Settings:     exp.Settings,
	}
	if profile.Transactions == nil {
		profile.Transactions = []Transaction{}
	}

	s.logger.WithContext(ctx).Info("importing profile data",
		"profile", name,
		"transactions", len(profile.Transactions),
	)

	err := s.save(ctx, userID, name, profile)
	metrics.RecordMutation("import", err)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Export returns the profile in interchange form
func (s *Service) Export(ctx context.Context, userID uuid.UUID, name string) (*Export, error) {
	profile, err := s.Load(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	return &Export{Transactions: profile.Transactions, Settings: profile.Settings}, nil
}

// History returns one page of the profile's filtered history
func (s *Service) History(ctx context.Context, userID uuid.UUID, name string, page, limit int, filters HistoryFilters) (*HistoryPage, error) {
	profile, err := s.Load(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	result, err := Query(profile.Transactions, page, limit, filters)
	if err != nil {
		return nil, err
	}

	if n := len(result.Skipped); n > 0 {
		metrics.RecordSkipped("history", n)
		s.logger.WithContext(ctx).Warn("skipped transactions with malformed dates",
			"computation", "history",
			"profile", name,
			"transaction_ids", result.Skipped,
		)
	}
	return result, nil
}

// ListProfiles returns all profile names, Default included, sorted
func (s *Service) ListProfiles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	stored, err := s.store.ListProfiles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	seen := map[string]bool{DefaultProfile: true}
	names := []string{DefaultProfile}
	for _, name := range stored {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// CreateProfile saves a new empty profile and switches to it
func (s *Service) CreateProfile(ctx context.Context, userID uuid.UUID, name string) ([]string, error) {
	name, err := NormalizeProfileName(name)
	if err != nil {
		return nil, err
	}

	existing, err := s.ListProfiles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if slices.Contains(existing, name) {
		return nil, ErrProfileExists
	}

	err = s.save(ctx, userID, name, NewProfile())
	metrics.RecordMutation("create_profile", err)
	if err != nil {
		return nil, err
	}

	return s.ListProfiles(ctx, userID)
}

// SwitchProfile makes an existing profile the active one. Default always
// exists.
func (s *Service) SwitchProfile(ctx context.Context, userID uuid.UUID, name string) error {
	name, err := NormalizeProfileName(name)
	if err != nil {
		return err
	}

	existing, err := s.ListProfiles(ctx, userID)
	if err != nil {
		return err
	}
	if !slices.Contains(existing, name) {
		return ErrProfileNotFound
	}

	if err := s.store.SetActiveProfile(ctx, userID, name); err != nil {
		return fmt.Errorf("failed to set active profile: %w", err)
	}
	return nil
}

// NormalizeProfileName trims and checks a profile name
func NormalizeProfileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxProfileNameLength {
		return "", ErrInvalidProfileName
	}
	return name, nil
}

func (s *Service) normalizeDate(date string) (string, error) {
	if strings.TrimSpace(date) == "" {
		return s.now().UTC().Format(time.RFC3339Nano), nil
	}
	if _, ok := ParseTimestamp(date); !ok {
		return "", ErrInvalidDate
	}
	return date, nil
}
