package service

import (
	"strings"

	"github.com/yndnr/brainscan-go/internal/core/domain"
)

// FilterDoctors returns doctors whose name or email contains search,
// case-insensitively. An empty search returns every doctor.
func FilterDoctors(doctors []domain.Doctor, search string) []domain.Doctor {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return doctors
	}

	var out []domain.Doctor
	for _, d := range doctors {
		if strings.Contains(strings.ToLower(d.Name), needle) ||
			strings.Contains(strings.ToLower(d.Email), needle) {
			out = append(out, d)
		}
	}
	return out
}
