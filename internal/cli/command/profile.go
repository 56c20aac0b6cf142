package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/brainscan-go/internal/core/domain"
)

// ProfileCommand returns the profile subcommand group.
func ProfileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show or edit the signed-in account",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the account profile",
				Action: profileShow,
			},
			{
				Name:  "update",
				Usage: "Change the display name and optionally the password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New display name (keeps the current one when omitted)"},
					&cli.StringFlag{Name: "old-password", Usage: "Current password, required to change it"},
					&cli.StringFlag{Name: "new-password", Usage: "New password (min 6 characters)"},
				},
				Action: profileUpdate,
			},
		},
	}
}

func profileShow(c *cli.Context) error {
	rt, err := guardDashboard(c)
	if err != nil {
		return err
	}

	ctx, cancel := rt.RequestContext(c)
	defer cancel()

	profile, err := rt.API.Profile(ctx)
	if err != nil {
		return err
	}
	return rt.Print(c, profile)
}

func profileUpdate(c *cli.Context) error {
	rt, err := guardDashboard(c)
	if err != nil {
		return err
	}

	ctx, cancel := rt.RequestContext(c)
	defer cancel()

	upd := domain.ProfileUpdate{
		Name:        c.String("name"),
		OldPassword: c.String("old-password"),
		NewPassword: c.String("new-password"),
	}
	if upd.Name == "" {
		current, err := rt.API.Profile(ctx)
		if err != nil {
			return err
		}
		upd.Name = current.Name
	}
	if err := upd.Validate(); err != nil {
		return err
	}

	msg, err := rt.API.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}
	message := msg.Message
	if message == "" {
		message = "Profile updated successfully"
	}
	rt.Notices.Success(message)
	return nil
}
