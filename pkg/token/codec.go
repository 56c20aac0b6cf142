package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yndnr/brainscan-go/internal/core/domain"
)

// wireClaims is the JSON shape of the credential payload.
type wireClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// Decode parses a credential into claims without verifying its signature.
//
// A string that is not three dot-separated base64url segments of JSON
// fails with domain.ErrDecode. Claims missing role or email fail with
// domain.ErrInvalidCredential.
func Decode(credential string) (*domain.Claims, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, domain.ErrDecode.WithDetails("empty credential")
	}

	var wc wireClaims
	if _, _, err := parser.ParseUnverified(credential, &wc); err != nil {
		return nil, domain.ErrDecode.WithCause(err)
	}

	claims := &domain.Claims{
		Role:  domain.Role(strings.TrimSpace(wc.Role)),
		Email: strings.TrimSpace(wc.Email),
		Name:  wc.Name,
	}
	if wc.ExpiresAt != nil {
		claims.ExpiresAt = wc.ExpiresAt.Time
	}

	if err := claims.Validate(); err != nil {
		return nil, err
	}
	return claims, nil
}

// IsDecodeError reports whether err came from a malformed credential.
func IsDecodeError(err error) bool {
	return errors.Is(err, domain.ErrDecode)
}

// Fingerprint returns the first 12 hex characters of the credential's SHA-256.
func Fingerprint(credential string) string {
	if credential == "" {
		return ""
	}
	h := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(h[:])[:12]
}
