package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kislikjeka/cointrack/internal/infra/metrics"
	"github.com/kislikjeka/cointrack/internal/ledger"
	"github.com/kislikjeka/cointrack/pkg/logger"
)

const (
	// DefaultTTL keeps an idle user's data for 30 days
	DefaultTTL = 30 * 24 * time.Hour

	// KeyPrefix is the prefix for user document keys
	KeyPrefix = "cointrack:user:"

	// maxWatchRetries bounds optimistic retries when a document changes
	// between read and write
	maxWatchRetries = 3
)

// ProfileStore implements ledger.ProfileStore with one JSON document per
// user. Every write refreshes the document's TTL, so the store is ephemeral:
// data of users who stay away longer than the TTL expires.
type ProfileStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewProfileStore creates a new Redis profile store with DefaultTTL
func NewProfileStore(client *redis.Client, log *logger.Logger) *ProfileStore {
	return NewProfileStoreWithTTL(client, DefaultTTL, log)
}

// NewProfileStoreWithTTL creates a new Redis profile store with a custom TTL
func NewProfileStoreWithTTL(client *redis.Client, ttl time.Duration, log *logger.Logger) *ProfileStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProfileStore{
		client: client,
		ttl:    ttl,
		logger: log.WithComponent("redis_profile_store"),
	}
}

func userKey(userID uuid.UUID) string {
	return KeyPrefix + userID.String()
}

// Load returns the named profile or ledger.ErrProfileNotFound
func (s *ProfileStore) Load(ctx context.Context, userID uuid.UUID, name string) (*ledger.Profile, error) {
	data, err := s.get(ctx, s.client, userID)
	if err != nil {
		return nil, err
	}

	profile := data.Profile(name)
	if profile == nil {
		return nil, ledger.ErrProfileNotFound
	}
	return profile, nil
}

// Save replaces the named profile and marks it as the active one
func (s *ProfileStore) Save(ctx context.Context, userID uuid.UUID, name string, profile *ledger.Profile) error {
	return s.update(ctx, userID, func(data *ledger.UserData) {
		data.Put(name, profile)
	})
}

// ListProfiles returns the names of all stored profiles
func (s *ProfileStore) ListProfiles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	data, err := s.get(ctx, s.client, userID)
	if err != nil {
		return nil, err
	}
	return data.ProfileNames(), nil
}

// ActiveProfile returns the last active profile name, or "" if unknown
func (s *ProfileStore) ActiveProfile(ctx context.Context, userID uuid.UUID) (string, error) {
	data, err := s.get(ctx, s.client, userID)
	if err != nil {
		return "", err
	}
	return data.LastActiveProfile, nil
}

// SetActiveProfile records the profile the user is working in
func (s *ProfileStore) SetActiveProfile(ctx context.Context, userID uuid.UUID, name string) error {
	return s.update(ctx, userID, func(data *ledger.UserData) {
		data.LastActiveProfile = name
	})
}

// DeleteUser removes every profile the user owns
func (s *ProfileStore) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, userKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete user data: %w", err)
	}
	return nil
}

// ForEach visits every stored user document. Keys that expire during the
// scan are skipped.
func (s *ProfileStore) ForEach(ctx context.Context, fn func(userID uuid.UUID, data *ledger.UserData) error) error {
	iter := s.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		userID, err := uuid.Parse(strings.TrimPrefix(key, KeyPrefix))
		if err != nil {
			s.logger.Warn("skipping unexpected key", "key", key)
			continue
		}

		raw, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to get user data: %w", err)
		}

		data, err := decode(raw)
		if err != nil {
			return fmt.Errorf("failed to decode user data %s: %w", userID, err)
		}

		if err := fn(userID, data); err != nil {
			return err
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan user data: %w", err)
	}
	return nil
}

// update runs a read-modify-write of one document inside WATCH/MULTI so the
// document is replaced whole. A concurrent change aborts the transaction and
// the change is reapplied on the fresh document.
func (s *ProfileStore) update(ctx context.Context, userID uuid.UUID, change func(*ledger.UserData)) error {
	key := userKey(userID)

	txf := func(tx *redis.Tx) error {
		data, err := s.get(ctx, tx, userID)
		if err != nil {
			return err
		}
		change(data)

		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal user data: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			metrics.RecordStoreError("redis", "update")
			s.logger.Error("store error", "operation", "update", "user_id", userID.String(), "error", err)
			return fmt.Errorf("failed to save user data: %w", err)
		}
		s.logger.Debug("document changed during update, retrying", "user_id", userID.String(), "attempt", attempt+1)
	}

	return fmt.Errorf("failed to save user data: %w", redis.TxFailedErr)
}

// getter is satisfied by both *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *ProfileStore) get(ctx context.Context, c getter, userID uuid.UUID) (*ledger.UserData, error) {
	raw, err := c.Get(ctx, userKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ledger.NewUserData(), nil
	}
	if err != nil {
		metrics.RecordStoreError("redis", "get")
		s.logger.Error("store error", "operation", "get", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to get user data: %w", err)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode user data: %w", err)
	}
	return data, nil
}

func decode(raw []byte) (*ledger.UserData, error) {
	data := ledger.NewUserData()
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, err
	}
	return data, nil
}
