package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/brainscan-go/internal/core/domain"
	"github.com/yndnr/brainscan-go/internal/core/gate"
	"github.com/yndnr/brainscan-go/internal/core/session"
)

// ErrInitializing is returned while the session has not been restored.
var ErrInitializing = errors.New("session is still initializing")

// RedirectError reports that the gate sent the user to another view
// instead of running the command.
type RedirectError struct {
	From          string
	To            string
	Authenticated bool
}

func (e *RedirectError) Error() string {
	if !e.Authenticated {
		return fmt.Sprintf("%s requires login; redirected to %s (run 'login' first)", e.From, e.To)
	}
	return fmt.Sprintf("%s is not available for this account; redirected to %s", e.From, e.To)
}

// guard runs the gate for view and applies its decision.
func guard(c *cli.Context, view gate.View) (*Runtime, error) {
	rt, err := GetRuntime(c)
	if err != nil {
		return nil, err
	}

	st := rt.Session.State()
	d := gate.Decide(st, view)
	switch d.Kind {
	case gate.Allow:
		if view.Access != gate.Open {
			rt.SetView(view.Path)
		}
		return rt, nil
	case gate.Redirect:
		rt.SetView(d.Path)
		return nil, &RedirectError{From: d.From, To: d.Path, Authenticated: st.Authenticated}
	default:
		return nil, ErrInitializing
	}
}

// dashboardView is the protected view of the signed-in role. Commands
// shared by doctors and admins render inside it.
func dashboardView(st session.State) gate.View {
	if !st.Authenticated {
		return gate.View{Path: gate.RouteDoctorDashboard, Access: gate.Protected}
	}
	return gate.View{Path: gate.DashboardFor(st.Role()), Access: gate.Protected}
}

// guardDashboard guards commands available to every signed-in role.
func guardDashboard(c *cli.Context) (*Runtime, error) {
	rt, err := GetRuntime(c)
	if err != nil {
		return nil, err
	}
	return guard(c, dashboardView(rt.Session.State()))
}

func identityLabel(claims *domain.Claims) string {
	if claims == nil {
		return ""
	}
	return fmt.Sprintf("%s <%s> (%s)", claims.DisplayName(), claims.Email, claims.Role)
}
