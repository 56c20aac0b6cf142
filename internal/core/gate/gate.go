// Package gate decides whether a view may be shown for the current session.
//
// Decide is pure: it looks only at the session snapshot and the view's
// access requirement. The command layer acts on the Decision by running
// the view, printing a redirect, or waiting for the session to restore.
package gate

import (
	"github.com/yndnr/brainscan-go/internal/core/domain"
	"github.com/yndnr/brainscan-go/internal/core/session"
)

// Route paths.
const (
	RouteLogin           = "/"
	RouteVerifyEmail     = "/verify-email/:token"
	RouteDoctorDashboard = "/doctor-dashboard"
	RouteAdminDashboard  = "/admin-dashboard"
	RouteNotFound        = "*"
)

// Access classifies a view.
type Access int

const (
	// Protected views need a signed-in identity, optionally with a role.
	Protected Access = iota
	// Public views are for signed-out users; signed-in users are sent
	// to their dashboard.
	Public
	// Open views are shown to everyone.
	Open
)

func (a Access) String() string {
	switch a {
	case Protected:
		return "protected"
	case Public:
		return "public"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

// View describes a screen and its access requirement.
type View struct {
	Path         string
	Access       Access
	RequiredRole domain.Role
}

// Kind is the decision outcome.
type Kind int

const (
	Allow Kind = iota
	Redirect
	Wait
)

func (k Kind) String() string {
	switch k {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Wait:
		return "wait"
	default:
		return "unknown"
	}
}

// Decision is the result of Decide. Path is the redirect target and From
// records the originally requested path.
type Decision struct {
	Kind Kind
	Path string
	From string
}

// Views known to the client.
var (
	LoginView           = View{Path: RouteLogin, Access: Public}
	VerifyEmailView     = View{Path: RouteVerifyEmail, Access: Open}
	DoctorDashboardView = View{Path: RouteDoctorDashboard, Access: Protected, RequiredRole: domain.RoleDoctor}
	AdminDashboardView  = View{Path: RouteAdminDashboard, Access: Protected, RequiredRole: domain.RoleAdmin}
	NotFoundView        = View{Path: RouteNotFound, Access: Open}
)

// DashboardFor returns the landing path for a role. Every role other than
// doctor lands on the admin dashboard.
func DashboardFor(role domain.Role) string {
	if role == domain.RoleDoctor {
		return RouteDoctorDashboard
	}
	return RouteAdminDashboard
}

// Decide maps a session snapshot and a view to a Decision.
func Decide(st session.State, v View) Decision {
	if !st.Initialized {
		return Decision{Kind: Wait}
	}

	switch v.Access {
	case Protected:
		if !st.Authenticated {
			return Decision{Kind: Redirect, Path: RouteLogin, From: v.Path}
		}
		if v.RequiredRole != "" && st.Role() != v.RequiredRole {
			return Decision{Kind: Redirect, Path: DashboardFor(st.Role()), From: v.Path}
		}
		return Decision{Kind: Allow}
	case Public:
		if st.Authenticated {
			return Decision{Kind: Redirect, Path: DashboardFor(st.Role()), From: v.Path}
		}
		return Decision{Kind: Allow}
	default:
		return Decision{Kind: Allow}
	}
}
