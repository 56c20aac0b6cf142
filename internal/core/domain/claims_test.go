package domain

import (
	"errors"
	"testing"
	"time"
)

func TestClaims_Validate(t *testing.T) {
	tests := []struct {
		name    string
		claims  *Claims
		wantErr bool
	}{
		{"doctor", &Claims{Role: RoleDoctor, Email: "d@x.com"}, false},
		{"other role", &Claims{Role: "nurse", Email: "n@x.com"}, false},
		{"missing role", &Claims{Email: "d@x.com"}, true},
		{"missing email", &Claims{Role: RoleAdmin}, true},
		{"blank email", &Claims{Role: RoleAdmin, Email: "   "}, true},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.claims.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCredential) {
				t.Errorf("Validate() error = %v, want ErrInvalidCredential", err)
			}
		})
	}
}

func TestClaims_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		exp  time.Time
		want bool
	}{
		{"future", now.Add(time.Hour), false},
		{"past", now.Add(-time.Second), true},
		{"exactly now", now, true},
		{"no expiry", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Claims{Role: RoleDoctor, Email: "d@x.com", ExpiresAt: tt.exp}
			if got := c.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClaims_Roles(t *testing.T) {
	doctor := &Claims{Role: RoleDoctor, Email: "d@x.com"}
	if !doctor.IsDoctor() || doctor.IsAdmin() {
		t.Error("doctor claims should only report IsDoctor")
	}

	admin := &Claims{Role: RoleAdmin, Email: "a@x.com", Name: "Ada"}
	if admin.IsDoctor() || !admin.IsAdmin() {
		t.Error("admin claims should only report IsAdmin")
	}
	if admin.DisplayName() != "Ada" {
		t.Errorf("DisplayName() = %q, want Ada", admin.DisplayName())
	}
	if doctor.DisplayName() != "d@x.com" {
		t.Errorf("DisplayName() = %q, want email fallback", doctor.DisplayName())
	}

	var none *Claims
	if none.IsDoctor() || none.IsAdmin() {
		t.Error("nil claims should have no role")
	}
}
