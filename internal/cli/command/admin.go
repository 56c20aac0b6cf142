package command

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/brainscan-go/internal/core/domain"
	"github.com/yndnr/brainscan-go/internal/core/gate"
	"github.com/yndnr/brainscan-go/internal/core/service"
)

// AdminCommand returns the admin subcommand group.
func AdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administrator sign-in and system management",
		Subcommands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Sign in as an administrator",
				Flags:  credentialFlags(true),
				Action: func(c *cli.Context) error { return runLogin(c, true) },
			},
			{
				Name:   "register",
				Usage:  "Create an administrator account",
				Flags:  registrationFlags(true),
				Action: func(c *cli.Context) error { return runRegister(c, true) },
			},
			{
				Name:   "overview",
				Usage:  "Show system statistics",
				Action: adminOverview,
			},
			{
				Name:  "doctors",
				Usage: "Manage doctor accounts",
				Subcommands: []*cli.Command{
					{
						Name:    "list",
						Aliases: []string{"ls"},
						Usage:   "List doctors",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "search", Usage: "Match name or email"},
						},
						Action: adminDoctorsList,
					},
					{
						Name:      "delete",
						Aliases:   []string{"rm"},
						Usage:     "Delete a doctor account",
						ArgsUsage: "EMAIL",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Skip confirmation"},
						},
						Action: adminDoctorsDelete,
					},
				},
			},
			{
				Name:  "predictions",
				Usage: "Browse every doctor's predictions",
				Subcommands: []*cli.Command{
					{
						Name:    "list",
						Aliases: []string{"ls"},
						Usage:   "List predictions",
						Flags:   queryFlags(),
						Action:  adminPredictionsList,
					},
					{
						Name:  "export",
						Usage: "Export the filtered predictions to a file",
						Flags: append(queryFlags(),
							&cli.StringFlag{Name: "format", Usage: "File format: csv, pdf", Value: service.FormatCSV},
							&cli.StringFlag{Name: "out", Usage: "Output file (default all_predictions.FORMAT)"},
						),
						Action: adminPredictionsExport,
					},
				},
			},
		},
	}
}

func fetchDoctors(c *cli.Context, rt *Runtime) ([]domain.Doctor, error) {
	ctx, cancel := rt.RequestContext(c)
	defer cancel()
	return fresh(rt, func() ([]domain.Doctor, error) {
		return rt.API.Doctors(ctx)
	})
}

func fetchAllPredictions(c *cli.Context, rt *Runtime) ([]domain.Prediction, error) {
	ctx, cancel := rt.RequestContext(c)
	defer cancel()
	return fresh(rt, func() ([]domain.Prediction, error) {
		return rt.API.AllPredictions(ctx)
	})
}

func adminOverview(c *cli.Context) error {
	rt, err := guard(c, gate.AdminDashboardView)
	if err != nil {
		return err
	}
	doctors, err := fetchDoctors(c, rt)
	if err != nil {
		return err
	}
	preds, err := fetchAllPredictions(c, rt)
	if err != nil {
		return err
	}
	return rt.Print(c, service.ComputeOverview(doctors, preds, rt.now()))
}

func adminDoctorsList(c *cli.Context) error {
	rt, err := guard(c, gate.AdminDashboardView)
	if err != nil {
		return err
	}
	doctors, err := fetchDoctors(c, rt)
	if err != nil {
		return err
	}
	doctors = service.FilterDoctors(doctors, c.String("search"))
	if len(doctors) == 0 {
		rt.Notices.Info("No doctors found")
		return nil
	}
	return rt.Print(c, doctors)
}

func adminDoctorsDelete(c *cli.Context) error {
	rt, err := guard(c, gate.AdminDashboardView)
	if err != nil {
		return err
	}
	email, err := firstArg(c)
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("doctor email required")
	}
	if err := confirm(rt.Prompt, c.Bool("force"), fmt.Sprintf("Delete doctor %s?", email)); err != nil {
		return err
	}

	ctx, cancel := rt.RequestContext(c)
	defer cancel()

	if err := rt.API.DeleteDoctor(ctx, email); err != nil {
		return err
	}
	rt.Notices.Success(fmt.Sprintf("Doctor %s deleted", email))
	return nil
}

func adminPredictionsList(c *cli.Context) error {
	rt, err := guard(c, gate.AdminDashboardView)
	if err != nil {
		return err
	}
	q, err := parseQuery(c)
	if err != nil {
		return err
	}
	preds, err := fetchAllPredictions(c, rt)
	if err != nil {
		return err
	}
	preds = q.Apply(preds)
	if len(preds) == 0 {
		rt.Notices.Info("No predictions found")
		return nil
	}
	return rt.Print(c, preds)
}

func adminPredictionsExport(c *cli.Context) error {
	rt, err := guard(c, gate.AdminDashboardView)
	if err != nil {
		return err
	}
	q, err := parseQuery(c)
	if err != nil {
		return err
	}
	format := strings.ToLower(c.String("format"))
	path := c.String("out")
	if path == "" {
		path = service.ExportFilename(format)
	}

	preds, err := fetchAllPredictions(c, rt)
	if err != nil {
		return err
	}

	preds = q.Apply(preds)
	var buf bytes.Buffer
	if err := service.WriteExport(&buf, format, preds); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	rt.Notices.Success(fmt.Sprintf("Exported %d predictions to %s", len(preds), path))
	return nil
}
