package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/brainscan-go/internal/cli/connection"
	"github.com/yndnr/brainscan-go/internal/core/gate"
)

// statusView is an open view: reachability does not depend on the session.
var statusView = gate.View{Path: "/status", Access: gate.Open}

// StatusCommand probes the backend.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Check whether the backend is reachable",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep probing and report changes until interrupted",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Probe interval for --watch (default from config)",
			},
		},
		Action: status,
	}
}

// statusReport is the result of a single probe.
type statusReport struct {
	Backend     string `json:"backend" yaml:"backend"`
	Connected   bool   `json:"connected" yaml:"connected"`
	LastChecked string `json:"last_checked" yaml:"last_checked"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newStatusReport(base string, st connection.Status) statusReport {
	return statusReport{
		Backend:     base,
		Connected:   st.Connected,
		LastChecked: st.LastChecked.Format(time.RFC3339),
		Error:       st.Error,
	}
}

func status(c *cli.Context) error {
	rt, err := guard(c, statusView)
	if err != nil {
		return err
	}

	interval := rt.Config.Monitor.Interval
	if c.IsSet("interval") {
		interval = c.Duration("interval")
	}
	mon := connection.NewMonitor(rt.HTTP, interval)

	if c.Bool("watch") {
		return watchStatus(c, rt, mon)
	}

	ctx, cancel := rt.RequestContext(c)
	defer cancel()

	st := mon.Check(ctx)
	if err := rt.Print(c, newStatusReport(rt.HTTP.BaseURL(), st)); err != nil {
		return err
	}
	if !st.Connected {
		return fmt.Errorf("backend at %s is unreachable", rt.HTTP.BaseURL())
	}
	return nil
}

func watchStatus(c *cli.Context, rt *Runtime, mon *connection.Monitor) error {
	mon.OnChange(func(st connection.Status) {
		rt.Notices.Reset()
		if st.Connected {
			rt.Notices.Success(fmt.Sprintf("Connected to %s", rt.HTTP.BaseURL()))
			return
		}
		rt.Notices.Error(fmt.Sprintf("Disconnected from %s: %s", rt.HTTP.BaseURL(), st.Error))
	})

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	rt.Notices.Info("Watching backend status (Ctrl+C to stop)")
	mon.Run(ctx)
	return nil
}
