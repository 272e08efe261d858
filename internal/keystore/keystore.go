// Package keystore keeps the backend access token encrypted at rest.
package keystore

import (
	"errors"
	"fmt"
	"sync"
)

var ErrNoPassphrase = errors.New("keystore passphrase not configured")

// Backend persists the encrypted blob. *store.TokenStore satisfies it.
type Backend interface {
	Load() (salt, ciphertext []byte, err error)
	Save(salt, ciphertext []byte) error
	Clear() error
}

// Keystore encrypts the token with a passphrase-derived key before handing
// it to the backend, and caches the plaintext in memory once decrypted.
type Keystore struct {
	backend    Backend
	passphrase string

	mu     sync.Mutex
	cached *string
	failed error // sticky decrypt failure, reset by SetToken and Clear
}

func New(backend Backend, passphrase string) *Keystore {
	return &Keystore{backend: backend, passphrase: passphrase}
}

// Token returns the stored token, or "" if none is stored. A token that
// fails to decrypt keeps failing with ErrDecrypt until it is replaced or
// cleared, without deriving the key again.
func (k *Keystore) Token() (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.cached != nil {
		return *k.cached, nil
	}
	if k.failed != nil {
		return "", k.failed
	}

	salt, ciphertext, err := k.backend.Load()
	if err != nil {
		return "", err
	}
	if ciphertext == nil {
		empty := ""
		k.cached = &empty
		return "", nil
	}
	if k.passphrase == "" {
		return "", ErrNoPassphrase
	}

	plaintext, err := open(deriveKey(k.passphrase, salt), ciphertext)
	if errors.Is(err, ErrDecrypt) {
		k.failed = err
	}
	if err != nil {
		return "", err
	}
	token := string(plaintext)
	k.cached = &token
	return token, nil
}

// SetToken encrypts and stores token under a fresh salt.
func (k *Keystore) SetToken(token string) error {
	if k.passphrase == "" {
		return ErrNoPassphrase
	}

	salt, err := newSalt()
	if err != nil {
		return err
	}
	ciphertext, err := seal(deriveKey(k.passphrase, salt), []byte(token))
	if err != nil {
		return fmt.Errorf("encrypt token: %w", err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.backend.Save(salt, ciphertext); err != nil {
		return err
	}
	k.cached = &token
	k.failed = nil
	return nil
}

func (k *Keystore) Clear() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.backend.Clear(); err != nil {
		return err
	}
	empty := ""
	k.cached = &empty
	k.failed = nil
	return nil
}
