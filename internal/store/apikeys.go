package store

import (
	"context"
	"sync"
	"time"

	"github.com/campushq/campus-trust/internal/core"
	"github.com/campushq/campus-trust/internal/domain/model"
	apperrors "github.com/campushq/campus-trust/internal/errors"
)

// APIKeyStore is the in-memory registry of machine credentials.
type APIKeyStore struct {
	mu   sync.RWMutex
	keys map[string]model.APIKey
}

// NewAPIKeyStore creates an empty API key store.
func NewAPIKeyStore() *APIKeyStore {
	return &APIKeyStore{keys: make(map[string]model.APIKey)}
}

// Create registers a new key. The ID must be unique.
func (s *APIKeyStore) Create(_ context.Context, key model.APIKey) error {
	if key.ID == "" {
		return apperrors.Validation("api key id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.keys[key.ID]; exists {
		return apperrors.Conflict("api key already exists")
	}
	s.keys[key.ID] = key
	return nil
}

// Get returns the key or a not_found error.
func (s *APIKeyStore) Get(_ context.Context, keyID string) (model.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k, ok := s.keys[keyID]
	if !ok {
		return model.APIKey{}, apperrors.NotFound("api key not found")
	}
	return k, nil
}

// TouchLastUsed records the key's last successful use.
func (s *APIKeyStore) TouchLastUsed(_ context.Context, keyID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.keys[keyID]
	if !ok {
		return apperrors.NotFound("api key not found")
	}
	k.LastUsedAt = &at
	s.keys[keyID] = k
	return nil
}

// Delete removes the key. Idempotent.
func (s *APIKeyStore) Delete(_ context.Context, keyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, keyID)
	return nil
}

var _ core.APIKeyStore = (*APIKeyStore)(nil)
