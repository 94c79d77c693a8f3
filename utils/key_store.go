package utils

import (
	"errors"
	"fmt"
	"sync"
)

// KeyStore maps a key ID (kid) to an HMAC signing secret. One key is current and used
// for signing; older keys stay valid for verification until removed.
type KeyStore struct {
	keys    map[string][]byte
	current string
	mu      sync.RWMutex
}

func NewKeyStore() *KeyStore {
	return &KeyStore{
		keys: make(map[string][]byte),
	}
}

// AddOrUpdateKey stores secret under kid and makes it the signing key.
func (store *KeyStore) AddOrUpdateKey(kid string, secret []byte) error {
	if kid == "" {
		return errors.New("kid must not be empty")
	}
	if len(secret) == 0 {
		return fmt.Errorf("empty secret for kid: %s", kid)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	store.keys[kid] = append([]byte(nil), secret...)
	store.current = kid
	return nil
}

func (store *KeyStore) RemoveKey(kid string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.keys, kid)
	if store.current == kid {
		store.current = ""
	}
}

func (store *KeyStore) GetKey(kid string) ([]byte, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	key, exists := store.keys[kid]
	if !exists {
		return nil, fmt.Errorf("signing key not found for kid: %s", kid)
	}
	return key, nil
}

// Current returns the kid and secret used for new tokens.
func (store *KeyStore) Current() (string, []byte, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.current == "" {
		return "", nil, errors.New("no signing key configured")
	}
	return store.current, store.keys[store.current], nil
}
