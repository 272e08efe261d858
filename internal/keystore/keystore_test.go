package keystore

import (
	"bytes"
	"errors"
	"testing"
)

type memBackend struct {
	salt, ciphertext []byte
	loads            int
}

func (m *memBackend) Load() ([]byte, []byte, error) {
	m.loads++
	return m.salt, m.ciphertext, nil
}
func (m *memBackend) Save(salt, ct []byte) error {
	m.salt, m.ciphertext = salt, ct
	return nil
}
func (m *memBackend) Clear() error {
	m.salt, m.ciphertext = nil, nil
	return nil
}

func TestRoundTrip(t *testing.T) {
	be := &memBackend{}
	ks := New(be, "correct horse")

	if err := ks.SetToken("eyJ.token.sig"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if bytes.Contains(be.ciphertext, []byte("eyJ.token.sig")) {
		t.Fatal("token stored in plaintext")
	}

	// A fresh keystore over the same backend must decrypt from storage.
	got, err := New(be, "correct horse").Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if got != "eyJ.token.sig" {
		t.Errorf("token = %q", got)
	}
}

func TestWrongPassphrase(t *testing.T) {
	be := &memBackend{}
	if err := New(be, "one").SetToken("secret"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	_, err := New(be, "two").Token()
	if !errors.Is(err, ErrDecrypt) {
		t.Errorf("err = %v, want ErrDecrypt", err)
	}
}

func TestWrongPassphraseIsRemembered(t *testing.T) {
	be := &memBackend{}
	if err := New(be, "one").SetToken("secret"); err != nil {
		t.Fatalf("set token: %v", err)
	}

	ks := New(be, "two")
	be.loads = 0
	for range 3 {
		if _, err := ks.Token(); !errors.Is(err, ErrDecrypt) {
			t.Fatalf("err = %v, want ErrDecrypt", err)
		}
	}
	if be.loads != 1 {
		t.Errorf("backend loaded %d times, want 1", be.loads)
	}

	if err := ks.SetToken("fresh"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if got, err := ks.Token(); err != nil || got != "fresh" {
		t.Errorf("after SetToken: token = %q, err = %v", got, err)
	}
}

func TestClearResetsDecryptFailure(t *testing.T) {
	be := &memBackend{}
	if err := New(be, "one").SetToken("secret"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	ks := New(be, "two")
	if _, err := ks.Token(); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("err = %v, want ErrDecrypt", err)
	}
	if err := ks.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got, err := ks.Token(); err != nil || got != "" {
		t.Errorf("after Clear: token = %q, err = %v", got, err)
	}
}

func TestEmptyAndClear(t *testing.T) {
	be := &memBackend{}
	ks := New(be, "pw")

	tok, err := ks.Token()
	if err != nil || tok != "" {
		t.Fatalf("empty store: tok=%q err=%v", tok, err)
	}

	ks.SetToken("abc")
	if err := ks.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	tok, _ = ks.Token()
	if tok != "" {
		t.Errorf("token after clear = %q", tok)
	}
	if be.ciphertext != nil {
		t.Error("backend not cleared")
	}
}

func TestNoPassphrase(t *testing.T) {
	if err := New(&memBackend{}, "").SetToken("x"); !errors.Is(err, ErrNoPassphrase) {
		t.Errorf("err = %v, want ErrNoPassphrase", err)
	}
}

func TestOpenTruncated(t *testing.T) {
	if _, err := open(make([]byte, keySize), []byte("short")); !errors.Is(err, ErrDecrypt) {
		t.Errorf("err = %v, want ErrDecrypt", err)
	}
}
