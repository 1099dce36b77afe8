package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kislikjeka/cointrack/internal/module/admin"
)

const broadcastKey = "broadcast"

// BroadcastRepository stores the global broadcast in app_config
type BroadcastRepository struct {
	pool *pgxpool.Pool
}

// NewBroadcastRepository creates a new PostgreSQL broadcast repository
func NewBroadcastRepository(pool *pgxpool.Pool) *BroadcastRepository {
	return &BroadcastRepository{pool: pool}
}

// GetBroadcast returns the current broadcast, or an empty one
func (r *BroadcastRepository) GetBroadcast(ctx context.Context) (*admin.Broadcast, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT value FROM app_config WHERE key = $1`, broadcastKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &admin.Broadcast{}, nil
		}
		return nil, fmt.Errorf("failed to get broadcast: %w", err)
	}

	var b admin.Broadcast
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("failed to decode broadcast: %w", err)
	}
	return &b, nil
}

// SetBroadcast replaces the current broadcast
func (r *BroadcastRepository) SetBroadcast(ctx context.Context, b *admin.Broadcast) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast: %w", err)
	}

	query := `
		INSERT INTO app_config (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, query, broadcastKey, payload); err != nil {
		return fmt.Errorf("failed to set broadcast: %w", err)
	}
	return nil
}
