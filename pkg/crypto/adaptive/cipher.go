package adaptive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// CipherType identifies the cipher algorithm.
type CipherType string

const (
	CipherAESGCM   CipherType = "aes-gcm"
	CipherChaCha20 CipherType = "chacha20-poly1305"
)

// KeySize is the key length accepted by every cipher.
const KeySize = 32

// Errors returned by Open.
var (
	ErrTooShort      = errors.New("adaptive: sealed value too short")
	ErrUnknownCipher = errors.New("adaptive: unknown cipher tag")
	ErrOpen          = errors.New("adaptive: authentication failed")
)

var tags = map[CipherType]byte{
	CipherAESGCM:   1,
	CipherChaCha20: 2,
}

// Cipher provides authenticated encryption.
type Cipher interface {
	// Type returns the cipher type used by Seal.
	Type() CipherType

	// Seal encrypts plaintext bound to additionalData.
	Seal(plaintext, additionalData []byte) ([]byte, error)

	// Open reverses Seal. It accepts output of either algorithm.
	Open(sealed, additionalData []byte) ([]byte, error)
}

// New returns a cipher with the preferred algorithm for this host.
func New(key []byte) (Cipher, error) {
	if hasAESNI() {
		return NewWithType(key, CipherAESGCM)
	}
	return NewWithType(key, CipherChaCha20)
}

// NewWithType returns a cipher that seals with cipherType.
func NewWithType(key []byte, cipherType CipherType) (Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("adaptive: key must be %d bytes, got %d", KeySize, len(key))
	}
	if _, ok := tags[cipherType]; !ok {
		return nil, fmt.Errorf("adaptive: unknown cipher type %q", cipherType)
	}

	gcm, err := newAESGCM(key)
	if err != nil {
		return nil, err
	}
	chacha, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	return &aeadCipher{
		typ: cipherType,
		aeads: map[byte]cipher.AEAD{
			tags[CipherAESGCM]:   gcm,
			tags[CipherChaCha20]: chacha,
		},
	}, nil
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// hasAESNI reports whether crypto/aes is hardware accelerated here.
func hasAESNI() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}

// aeadCipher lays out sealed values as tag || nonce || ciphertext.
type aeadCipher struct {
	typ   CipherType
	aeads map[byte]cipher.AEAD
}

func (c *aeadCipher) Type() CipherType {
	return c.typ
}

func (c *aeadCipher) Seal(plaintext, additionalData []byte) ([]byte, error) {
	tag := tags[c.typ]
	aead := c.aeads[tag]

	out := make([]byte, 1+aead.NonceSize(), 1+aead.NonceSize()+len(plaintext)+aead.Overhead())
	out[0] = tag
	nonce := out[1:]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("adaptive: nonce: %w", err)
	}
	return aead.Seal(out, nonce, plaintext, additionalData), nil
}

func (c *aeadCipher) Open(sealed, additionalData []byte) ([]byte, error) {
	if len(sealed) < 1 {
		return nil, ErrTooShort
	}
	aead, ok := c.aeads[sealed[0]]
	if !ok {
		return nil, ErrUnknownCipher
	}
	body := sealed[1:]
	if len(body) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrTooShort
	}

	nonce, ciphertext := body[:aead.NonceSize()], body[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, ErrOpen
	}
	return plain, nil
}
