package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kislikjeka/cointrack/internal/ledger"
)

// ProfileStore implements ledger.ProfileStore in process memory. Documents
// are kept encoded so callers never share state with the store; everything
// is lost on restart.
type ProfileStore struct {
	mu        sync.RWMutex
	documents map[uuid.UUID][]byte
}

// NewProfileStore creates a new in-memory profile store
func NewProfileStore() *ProfileStore {
	return &ProfileStore{documents: make(map[uuid.UUID][]byte)}
}

// Load returns the named profile or ledger.ErrProfileNotFound
func (s *ProfileStore) Load(_ context.Context, userID uuid.UUID, name string) (*ledger.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.document(userID)
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
func (s *ProfileStore) Save(_ context.Context, userID uuid.UUID, name string, profile *ledger.Profile) error {
	return s.update(userID, func(data *ledger.UserData) {
		data.Put(name, profile)
	})
}

// ListProfiles returns the names of all stored profiles
func (s *ProfileStore) ListProfiles(_ context.Context, userID uuid.UUID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.document(userID)
	if err != nil {
		return nil, err
	}
	return data.ProfileNames(), nil
}

// ActiveProfile returns the last active profile name, or "" if unknown
func (s *ProfileStore) ActiveProfile(_ context.Context, userID uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.document(userID)
	if err != nil {
		return "", err
	}
	return data.LastActiveProfile, nil
}

// SetActiveProfile records the profile the user is working in
func (s *ProfileStore) SetActiveProfile(_ context.Context, userID uuid.UUID, name string) error {
	return s.update(userID, func(data *ledger.UserData) {
		data.LastActiveProfile = name
	})
}

// DeleteUser removes every profile the user owns
func (s *ProfileStore) DeleteUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, userID)
	return nil
}

// ForEach visits every stored user document in user ID order. fn receives
// decoded copies and may call back into the store.
func (s *ProfileStore) ForEach(ctx context.Context, fn func(userID uuid.UUID, data *ledger.UserData) error) error {
	s.mu.RLock()
	ids := make([]uuid.UUID, 0, len(s.documents))
	snapshot := make(map[uuid.UUID][]byte, len(s.documents))
	for id, raw := range s.documents {
		ids = append(ids, id)
		snapshot[id] = raw
	}
	s.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := decode(snapshot[id])
		if err != nil {
			return fmt.Errorf("failed to decode user data %s: %w", id, err)
		}
		if err := fn(id, data); err != nil {
			return err
		}
	}
	return nil
}

// Import stores a raw user document, as written by an older version or
// another backend. Used to seed the store.
func (s *ProfileStore) Import(userID uuid.UUID, raw []byte) error {
	if _, err := decode(raw); err != nil {
		return fmt.Errorf("invalid user document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[userID] = append([]byte(nil), raw...)
	return nil
}

func (s *ProfileStore) update(userID uuid.UUID, change func(*ledger.UserData)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.document(userID)
	if err != nil {
		return err
	}
	change(data)

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal user data: %w", err)
	}
	s.documents[userID] = raw
	return nil
}

// document decodes a user's document. Callers hold the lock.
func (s *ProfileStore) document(userID uuid.UUID) (*ledger.UserData, error) {
	raw, ok := s.documents[userID]
	if !ok {
		return ledger.NewUserData(), nil
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
