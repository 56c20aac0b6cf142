package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/yndnr/brainscan-go/pkg/crypto/adaptive"
)

// ErrUnseal is returned when a stored value fails authentication.
var ErrUnseal = errors.New("storage: stored value cannot be unsealed")

const sealInfo = "brainscan credential storage v1"

// Sealed encrypts values of an underlying KV. The key name is bound as
// additional data so values cannot be swapped between keys.
type Sealed struct {
	inner  KV
	cipher adaptive.Cipher
}

// NewSealed wraps inner with a cipher derived from master.
func NewSealed(inner KV, master []byte) (*Sealed, error) {
	key, err := adaptive.DeriveKey(master, sealInfo)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	c, err := adaptive.New(key)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return &Sealed{inner: inner, cipher: c}, nil
}

func (s *Sealed) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	plain, err := s.cipher.Open(sealed, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnseal, err)
	}
	return plain, nil
}

func (s *Sealed) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := s.cipher.Seal(value, []byte(key))
	if err != nil {
		return fmt.Errorf("storage: seal: %w", err)
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *Sealed) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *Sealed) Close() error {
	return s.inner.Close()
}
