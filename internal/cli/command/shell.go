package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/brainscan-go/internal/cli/config"
	"github.com/yndnr/brainscan-go/internal/cli/connection"
	"github.com/yndnr/brainscan-go/internal/cli/output"
	"github.com/yndnr/brainscan-go/internal/cli/repl"
	"github.com/yndnr/brainscan-go/internal/infra/confloader"
	"github.com/yndnr/brainscan-go/internal/telemetry/logger"
)

// ErrNestedShell is returned when shell is run inside the shell.
var ErrNestedShell = errors.New("already in the interactive shell")

// ShellCommand starts the interactive shell.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:   "shell",
		Usage:  "Start the interactive shell",
		Action: shell,
	}
}

// CommandPaths lists every command path, e.g. "admin doctors list".
func CommandPaths(cmds []*cli.Command) []string {
	var paths []string
	var walk func(prefix string, cmds []*cli.Command)
	walk = func(prefix string, cmds []*cli.Command) {
		for _, cmd := range cmds {
			if cmd.Hidden {
				continue
			}
			path := strings.TrimSpace(prefix + " " + cmd.Name)
			paths = append(paths, path)
			walk(path, cmd.Subcommands)
		}
	}
	walk("", cmds)
	return paths
}

func shell(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	if !rt.beginShell() {
		return ErrNestedShell
	}
	defer rt.endShell()

	app := c.App
	r := repl.New(repl.Options{
		Prompt: func() string { return fmt.Sprintf("brainscan:%s> ", rt.View()) },
		Execute: func(ctx context.Context, args []string) error {
			rt.Notices.Reset()
			return app.RunContext(ctx, append([]string{app.Name}, args...))
		},
		OnError:   func(err error) { HandleError(rt.Stderr, err) },
		Input:     rt.Prompt.Reader(),
		Output:    rt.Stdout,
		History:   repl.NewHistory(rt.Config.REPL.HistoryFile, rt.Config.REPL.HistorySize),
		Completer: repl.NewCompleter(CommandPaths(app.Commands)),
		Logger:    rt.Log,
	})

	mon := connection.NewMonitor(rt.HTTP, rt.Config.Monitor.Interval)
	mon.OnChange(func(st connection.Status) {
		if !st.Connected {
			rt.Notices.Warn(fmt.Sprintf("Backend %s is unreachable", rt.HTTP.BaseURL()))
		}
	})
	r.Go(mon.Run)

	if w := watchConfig(rt); w != nil {
		defer w.Stop()
	}

	fmt.Fprintf(rt.Stdout, "brainscan-cli interactive shell. Type 'help' for commands, 'exit' to quit.\n")
	if id := rt.Session.Identity(); id != nil {
		rt.Notices.Info("Signed in as " + identityLabel(id))
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return r.Run(ctx)
}

// watchConfig applies output format and log level changes from the
// configuration file while the shell runs.
func watchConfig(rt *Runtime) *confloader.Watcher {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(rt.Log))
	if err != nil {
		rt.Log.Warn("config watcher unavailable", "error", err)
		return nil
	}
	if err := w.Watch(rt.ConfigPath); err != nil {
		w.Stop()
		return nil
	}
	w.OnChange(func(path string) {
		reloadConfig(rt, path)
	})
	w.StartAsync()
	return w
}

func reloadConfig(rt *Runtime, path string) {
	cfg, err := config.Load(config.Options{Path: path, Explicit: true})
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		rt.Log.Warn("ignoring invalid configuration change", "file", path, "error", err)
		return
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err == nil {
		rt.SetOutputFormat(format)
	}
	logger.SetLevel(cfg.Log.Level)
	rt.Log.Info("configuration reloaded", "file", path, "output", cfg.Output.Format, "level", cfg.Log.Level)
}
