package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/brainscan-go/internal/cli/backend"
	"github.com/yndnr/brainscan-go/internal/core/domain"
	"github.com/yndnr/brainscan-go/internal/core/gate"
)

// LoginCommand signs a doctor in.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Sign in as a doctor",
		Flags:  credentialFlags(false),
		Action: func(c *cli.Context) error { return runLogin(c, false) },
	}
}

// RegisterCommand creates a doctor account.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:   "register",
		Usage:  "Create a doctor account",
		Flags:  registrationFlags(false),
		Action: func(c *cli.Context) error { return runRegister(c, false) },
	}
}

// VerifyEmailCommand confirms an email address with the token from the
// verification mail.
func VerifyEmailCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify-email",
		Usage:     "Verify an email address",
		ArgsUsage: "TOKEN",
		Action:    verifyEmail,
	}
}

// LogoutCommand ends the session.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Sign out and forget the stored credential",
		Action: logout,
	}
}

// WhoamiCommand shows the signed-in identity.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the signed-in account",
		Action: whoami,
	}
}

func credentialFlags(admin bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email"},
		&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password (prompted when omitted)"},
	}
	if admin {
		flags = append(flags, &cli.StringFlag{
			Name:    "admin-token",
			Usage:   "Admin access token (prompted when omitted)",
			EnvVars: []string{"BRAINSCAN_ADMIN_TOKEN"},
		})
	}
	return flags
}

func registrationFlags(admin bool) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Full name"},
	}, credentialFlags(admin)...)
}

func runLogin(c *cli.Context, admin bool) error {
	rt, err := guard(c, gate.LoginView)
	if err != nil {
		return err
	}

	creds := domain.Credentials{}
	if creds.Email, err = valueOrPrompt(rt.Prompt, c.String("email"), "Email", false); err != nil {
		return err
	}
	if creds.Password, err = valueOrPrompt(rt.Prompt, c.String("password"), "Password", true); err != nil {
		return err
	}
	if admin {
		if creds.AdminToken, err = valueOrPrompt(rt.Prompt, c.String("admin-token"), "Admin token", true); err != nil {
			return err
		}
	}
	if err := creds.Validate(admin); err != nil {
		return err
	}

	ctx, cancel := rt.RequestContext(c)
	defer cancel()

	var credential string
	if admin {
		credential, err = rt.API.AdminLogin(ctx, creds)
	} else {
		credential, err = rt.API.Login(ctx, creds)
	}
	if err != nil {
		return err
	}

	res, err := rt.Session.Login(ctx, credential)
	if err != nil {
		return err
	}
	rt.SetView(gate.DashboardFor(res.Role))
	rt.Notices.Success(fmt.Sprintf("Signed in as %s", identityLabel(rt.Session.Identity())))
	return nil
}

func runRegister(c *cli.Context, admin bool) error {
	rt, err := guard(c, gate.LoginView)
	if err != nil {
		return err
	}

	reg := domain.Registration{}
	if reg.Name, err = valueOrPrompt(rt.Prompt, c.String("name"), "Name", false); err != nil {
		return err
	}
	if reg.Email, err = valueOrPrompt(rt.Prompt, c.String("email"), "Email", false); err != nil {
		return err
	}
	if reg.Password, err = valueOrPrompt(rt.Prompt, c.String("password"), "Password", true); err != nil {
		return err
	}
	if admin {
		if reg.AdminToken, err = valueOrPrompt(rt.Prompt, c.String("admin-token"), "Admin token", true); err != nil {
			return err
		}
	}
	if err := reg.Validate(admin); err != nil {
		return err
	}

	ctx, cancel := rt.RequestContext(c)
	defer cancel()

	var msg backend.MessageResponse
	if admin {
		msg, err = rt.API.AdminRegister(ctx, reg)
	} else {
		msg, err = rt.API.Register(ctx, reg)
	}
	if err != nil {
		return err
	}

	message := msg.Message
	if message == "" {
		message = "Registration successful. Check your email to verify the account."
	}
	rt.Notices.Success(message)
	return nil
}

func verifyEmail(c *cli.Context) error {
	rt, err := guard(c, gate.VerifyEmailView)
	if err != nil {
		return err
	}
	token, err := firstArg(c)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("verification token required")
	}

	ctx, cancel := rt.RequestContext(c)
	defer cancel()

	msg, err := rt.API.VerifyEmail(ctx, token)
	if err != nil {
		return err
	}
	message := msg.Message
	if message == "" {
		message = "Email verified. You can now log in."
	}
	rt.Notices.Success(message)
	return nil
}

func logout(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	wasSignedIn := rt.Session.IsAuthenticated()
	if err := rt.Session.Logout(c.Context); err != nil {
		return err
	}
	rt.SetView(gate.RouteLogin)
	if wasSignedIn {
		rt.Notices.Success("Signed out")
	} else {
		rt.Notices.Info("Not signed in")
	}
	return nil
}

// whoamiView is the result of whoami.
type whoamiView struct {
	Email     string `json:"email" yaml:"email"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Role      string `json:"role" yaml:"role"`
	ExpiresAt string `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	View      string `json:"view" yaml:"view"`
}

func whoami(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	claims := rt.Session.Identity()
	if claims == nil {
		return domain.ErrNotAuthenticated
	}
	v := whoamiView{
		Email: claims.Email,
		Name:  claims.Name,
		Role:  string(claims.Role),
		View:  rt.View(),
	}
	if !claims.ExpiresAt.IsZero() {
		v.ExpiresAt = claims.ExpiresAt.Local().Format("2006-01-02 15:04:05")
	}
	return rt.Print(c, v)
}
