package command

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/brainscan-go/internal/cli/config"
	"github.com/yndnr/brainscan-go/internal/cli/connection"
	"github.com/yndnr/brainscan-go/internal/core/gate"
	"github.com/yndnr/brainscan-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return NewApp(RuntimeOptions{})
}

// NewApp creates the CLI application with explicit runtime wiring.
func NewApp(opts RuntimeOptions) *cli.App {
	app := &cli.App{
		Name:    buildinfo.Product,
		Usage:   "Brain Scan AI command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			RegisterCommand(),
			VerifyEmailCommand(),
			LogoutCommand(),
			WhoamiCommand(),
			StatusCommand(),
			ProfileCommand(),
			PredictCommand(),
			HistoryCommand(),
			HeatmapCommand(),
			AdminCommand(),
			ConfigCommand(),
			ShellCommand(),
		},
		Metadata: map[string]any{},
		Before: func(c *cli.Context) error {
			return before(c, opts)
		},
		After:           after,
		CommandNotFound: commandNotFound,
	}
	if opts.Stdout != nil {
		app.Writer = opts.Stdout
	}
	if opts.Stderr != nil {
		app.ErrWriter = opts.Stderr
	}
	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-url",
			Aliases: []string{"s"},
			Usage:   "Backend base URL (e.g., http://127.0.0.1:5000)",
			EnvVars: []string{"BRAINSCAN_API_URL"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file (default ~/.brainscan/cli.yaml)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write client metrics to this file on exit",
		},
	}
}

// overrides maps the global flags onto configuration keys.
func overrides(c *cli.Context) map[string]any {
	m := map[string]any{}
	if c.IsSet("api-url") {
		m["api.url"] = c.String("api-url")
	}
	if c.IsSet("output") {
		m["output.format"] = c.String("output")
	}
	if c.Bool("wide") {
		m["output.wide"] = true
	}
	if c.Bool("verbose") {
		m["log.level"] = "debug"
	}
	return m
}

func before(c *cli.Context, opts RuntimeOptions) error {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		rt.enter()
		return nil
	}

	path := c.String("config")
	cfg, err := config.Load(config.Options{
		Path:      path,
		Explicit:  path != "",
		Overrides: overrides(c),
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rt, err := NewRuntime(c.Context, cfg, opts)
	if err != nil {
		return err
	}
	rt.ConfigPath = path
	if rt.ConfigPath == "" {
		rt.ConfigPath = config.DefaultConfigPath()
	}
	rt.enter()
	c.App.Metadata[runtimeKey] = rt
	return nil
}

func after(c *cli.Context) error {
	rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
	if !ok || !rt.leave() {
		return nil
	}
	delete(c.App.Metadata, runtimeKey)

	var errs []error
	if path := c.String("metrics-file"); path != "" {
		if err := rt.Metrics.WriteFile(path); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if err := rt.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func commandNotFound(c *cli.Context, name string) {
	if rt, err := GetRuntime(c); err == nil {
		if d := gate.Decide(rt.Session.State(), gate.NotFoundView); d.Kind == gate.Allow {
			fmt.Fprintf(rt.Stderr, "Page not found: %q is not a command. Run 'help' for the list.\n", name)
			return
		}
	}
	fmt.Fprintf(c.App.ErrWriter, "unknown command %q\n", name)
}

// HandleError prints err unless the API client has already shown it as a
// notice.
func HandleError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var apiErr *connection.APIError
	if errors.As(err, &apiErr) {
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
