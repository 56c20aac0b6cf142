package domain

// Doctor is a doctor account as listed in the admin dashboard.
type Doctor struct {
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Verified  bool      `json:"verified" yaml:"verified"`
	CreatedAt Timestamp `json:"created_at" yaml:"created_at"`
}

// Profile is the signed-in account as returned by the backend.
type Profile struct {
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Role      string    `json:"role,omitempty" yaml:"role,omitempty"`
	Verified  bool      `json:"verified" yaml:"verified"`
	CreatedAt Timestamp `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}
