package storage

import (
	"context"
	"errors"
)

// CredentialKey is the key under which the credential is stored.
const CredentialKey = "token"

// Slot stores one credential in a KV. It satisfies the session store's
// CredentialStore contract: Load returns "" when nothing is stored.
type Slot struct {
	kv  KV
	key string
}

// NewSlot returns a Slot over kv using CredentialKey.
func NewSlot(kv KV) *Slot {
	return &Slot{kv: kv, key: CredentialKey}
}

func (s *Slot) Load(ctx context.Context) (string, error) {
	v, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *Slot) Save(ctx context.Context, credential string) error {
	return s.kv.Set(ctx, s.key, []byte(credential))
}

func (s *Slot) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, s.key)
}
