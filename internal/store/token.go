package store

import (
	"database/sql"
	"fmt"
	"time"
)

// TokenStore holds the encrypted backend session token. It never sees plaintext.
type TokenStore struct {
	db *sql.DB
}

func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Load returns the stored salt and ciphertext; both are nil when nothing is stored.
func (s *TokenStore) Load() (salt, ciphertext []byte, err error) {
	err = s.db.QueryRow(`SELECT salt, ciphertext FROM session_token WHERE id = 1`).Scan(&salt, &ciphertext)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load session token: %w", err)
	}
	return salt, ciphertext, nil
}

func (s *TokenStore) Save(salt, ciphertext []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO session_token (id, salt, ciphertext, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET salt = excluded.salt, ciphertext = excluded.ciphertext, updated_at = excluded.updated_at`,
		salt, ciphertext, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session_token`); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}
