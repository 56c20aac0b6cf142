package domain

import (
	"strings"
	"time"
)

// Role is the account role asserted by a credential.
type Role string

const (
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
)

// Claims is the identity carried by a bearer credential.
type Claims struct {
	Role      Role      `json:"role"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Validate rejects claims missing the fields a session needs.
func (c *Claims) Validate() error {
	if c == nil {
		return ErrInvalidCredential.WithDetails("no claims")
	}
	var missing []string
	if strings.TrimSpace(string(c.Role)) == "" {
		missing = append(missing, "role")
	}
	if strings.TrimSpace(c.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return ErrInvalidCredential.WithDetails("missing " + strings.Join(missing, ", "))
	}
	return nil
}

// Expired reports whether the credential expiry has elapsed at now.
// Claims without an expiry never expire locally.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !c.ExpiresAt.After(now)
}

// IsDoctor reports whether the claims carry the doctor role.
func (c *Claims) IsDoctor() bool {
	return c != nil && c.Role == RoleDoctor
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// DisplayName returns the name, falling back to the email.
func (c *Claims) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Email
}
