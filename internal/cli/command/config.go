package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/brainscan-go/internal/cli/config"
	"github.com/yndnr/brainscan-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Validate the configuration file",
				Action: configValidate,
			},
			{
				Name:   "path",
				Usage:  "Print the configuration file path",
				Action: configPath,
			},
			{
				Name:  "init",
				Usage: "Write the effective configuration to the configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing file"},
				},
				Action: configInit,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	flat := rt.Config.Flatten()
	f := rt.Formatter(c)
	if _, ok := f.(*output.TableFormatter); !ok {
		m := make(map[string]string, len(flat))
		for _, kv := range flat {
			m[kv[0]] = kv[1]
		}
		return f.Format(rt.Stdout, m)
	}

	table := output.NewTable("KEY", "VALUE")
	for _, kv := range flat {
		table.AddRow(kv[0], kv[1])
	}
	return table.Render(rt.Stdout)
}

func configValidate(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	if _, err := os.Stat(rt.ConfigPath); errors.Is(err, fs.ErrNotExist) {
		rt.Notices.Info(fmt.Sprintf("No configuration file at %s; using defaults", rt.ConfigPath))
		return nil
	}

	cfg, err := config.Load(config.Options{Path: rt.ConfigPath, Explicit: true})
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	rt.Notices.Success(fmt.Sprintf("Configuration file is valid: %s", rt.ConfigPath))
	return nil
}

func configPath(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(rt.Stdout, rt.ConfigPath)
	return nil
}

func configInit(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	if _, err := os.Stat(rt.ConfigPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", rt.ConfigPath)
	}
	if err := config.Save(rt.Config, rt.ConfigPath); err != nil {
		return err
	}
	rt.Notices.Success(fmt.Sprintf("Wrote %s", rt.ConfigPath))
	return nil
}
