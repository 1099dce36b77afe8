package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kislikjeka/cointrack/internal/infra/metrics"
	"github.com/kislikjeka/cointrack/internal/ledger"
)

const backend = "postgres"

// ProfileStore implements ledger.ProfileStore on the user_data table. Each
// user is one JSONB document holding every profile.
type ProfileStore struct {
	pool *pgxpool.Pool
}

// NewProfileStore creates a new PostgreSQL profile store
func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

// Load returns the named profile or ledger.ErrProfileNotFound
func (s *ProfileStore) Load(ctx context.Context, userID uuid.UUID, name string) (*ledger.Profile, error) {
	data, err := s.document(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := data.Profile(name)
	if profile == nil {
		return nil, ledger.ErrProfileNotFound
	}
	return profile, nil
}

// Save writes one profile into the user's document and marks it active.
//
// The merge happens in a single upsert so the write is atomic. A legacy
// document with top-level transactions is folded into the Default profile
// on the way.
func (s *ProfileStore) Save(ctx context.Context, userID uuid.UUID, name string, profile *ledger.Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	query := `
		INSERT INTO user_data (user_id, document, updated_at)
		VALUES (
			$1,
			jsonb_build_object(
				'profiles', jsonb_build_object($2::text, $3::jsonb),
				'last_active_profile', $2::text
			),
			NOW()
		)
		ON CONFLICT (user_id) DO UPDATE SET
			document = jsonb_build_object(
				'profiles',
				COALESCE(
					user_data.document->'profiles',
					CASE
						WHEN user_data.document ? 'transactions' OR user_data.document ? 'settings'
						THEN jsonb_build_object('Default', jsonb_build_object(
							'transactions', COALESCE(user_data.document->'transactions', '[]'::jsonb),
							'settings', COALESCE(user_data.document->'settings', '{}'::jsonb)
						))
						ELSE '{}'::jsonb
					END
				) || jsonb_build_object($2::text, $3::jsonb),
				'last_active_profile', $2::text
			),
			updated_at = NOW()
	`

	if _, err := s.pool.Exec(ctx, query, userID, name, payload); err != nil {
		metrics.RecordStoreError(backend, "save")
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// ListProfiles returns the names of all stored profiles
func (s *ProfileStore) ListProfiles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	data, err := s.document(ctx, userID)
	if err != nil {
		return nil, err
	}
	return data.ProfileNames(), nil
}

// ActiveProfile returns the last active profile name, or "" if unknown
func (s *ProfileStore) ActiveProfile(ctx context.Context, userID uuid.UUID) (string, error) {
	query := `SELECT COALESCE(document->>'last_active_profile', '') FROM user_data WHERE user_id = $1`

	var name string
	err := s.pool.QueryRow(ctx, query, userID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		metrics.RecordStoreError(backend, "active_profile")
		return "", fmt.Errorf("failed to get active profile: %w", err)
	}
	return name, nil
}

// SetActiveProfile records the profile the user is working in
func (s *ProfileStore) SetActiveProfile(ctx context.Context, userID uuid.UUID, name string) error {
	query := `
		INSERT INTO user_data (user_id, document, updated_at)
		VALUES ($1, jsonb_build_object('profiles', '{}'::jsonb, 'last_active_profile', $2::text), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			document = jsonb_set(user_data.document, '{last_active_profile}', to_jsonb($2::text)),
			updated_at = NOW()
	`

	if _, err := s.pool.Exec(ctx, query, userID, name); err != nil {
		metrics.RecordStoreError(backend, "set_active_profile")
		return fmt.Errorf("failed to set active profile: %w", err)
	}
	return nil
}

// DeleteUser removes every profile the user owns
func (s *ProfileStore) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM user_data WHERE user_id = $1`, userID); err != nil {
		metrics.RecordStoreError(backend, "delete_user")
		return fmt.Errorf("failed to delete user data: %w", err)
	}
	return nil
}

// ForEach visits every stored user document
func (s *ProfileStore) ForEach(ctx context.Context, fn func(userID uuid.UUID, data *ledger.UserData) error) error {
	rows, err := s.pool.Query(ctx, `SELECT user_id, document FROM user_data ORDER BY user_id`)
	if err != nil {
		metrics.RecordStoreError(backend, "for_each")
		return fmt.Errorf("failed to query user data: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID uuid.UUID
		var raw []byte
		if err := rows.Scan(&userID, &raw); err != nil {
			metrics.RecordStoreError(backend, "for_each")
			return fmt.Errorf("failed to scan user data: %w", err)
		}

		data := ledger.NewUserData()
		if err := json.Unmarshal(raw, data); err != nil {
			return fmt.Errorf("failed to decode user data %s: %w", userID, err)
		}

		if err := fn(userID, data); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		metrics.RecordStoreError(backend, "for_each")
		return fmt.Errorf("failed to iterate user data: %w", err)
	}
	return nil
}

func (s *ProfileStore) document(ctx context.Context, userID uuid.UUID) (*ledger.UserData, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT document FROM user_data WHERE user_id = $1`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.NewUserData(), nil
		}
		metrics.RecordStoreError(backend, "load")
		return nil, fmt.Errorf("failed to get user data: %w", err)
	}

	data := ledger.NewUserData()
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to decode user data: %w", err)
	}
	return data, nil
}
