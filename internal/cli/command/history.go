package command

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/brainscan-go/internal/cli/backend"
	"github.com/yndnr/brainscan-go/internal/core/domain"
	"github.com/yndnr/brainscan-go/internal/core/gate"
	"github.com/yndnr/brainscan-go/internal/core/service"
)

// HistoryCommand returns the doctor's prediction history group.
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse and manage your predictions",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your predictions",
				Flags:   queryFlags(),
				Action:  historyList,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a prediction",
				ArgsUsage: "ID",
				Action:    historyDelete,
			},
			{
				Name:  "clear",
				Usage: "Delete all of your predictions",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Skip confirmation"},
				},
				Action: historyClear,
			},
			{
				Name:  "download",
				Usage: "Download your prediction logs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "File format: " + strings.Join(backend.DownloadFormats, ", "),
						Value: "csv",
					},
					&cli.StringFlag{Name: "out", Usage: "Output file (default prediction_logs.FORMAT)"},
				},
				Action: historyDownload,
			},
			{
				Name:   "stats",
				Usage:  "Summarize your prediction results",
				Action: historyStats,
			},
		},
	}
}

func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "search", Usage: "Match filename or doctor email"},
		&cli.StringFlag{Name: "filter", Usage: "Result filter: all, tumor, no-tumor", Value: "all"},
		&cli.StringFlag{Name: "sort", Usage: "Order: newest, oldest, confidence", Value: "newest"},
	}
}

func parseQuery(c *cli.Context) (service.PredictionQuery, error) {
	filter, err := service.ParseResultFilter(c.String("filter"))
	if err != nil {
		return service.PredictionQuery{}, err
	}
	order, err := service.ParseSortOrder(c.String("sort"))
	if err != nil {
		return service.PredictionQuery{}, err
	}
	return service.PredictionQuery{Search: c.String("search"), Filter: filter, Sort: order}, nil
}

func fetchHistory(c *cli.Context, rt *Runtime) ([]domain.Prediction, error) {
	ctx, cancel := rt.RequestContext(c)
	defer cancel()
	return fresh(rt, func() ([]domain.Prediction, error) {
		return rt.API.History(ctx)
	})
}

func historyList(c *cli.Context) error {
	rt, err := guard(c, gate.DoctorDashboardView)
	if err != nil {
		return err
	}
	q, err := parseQuery(c)
	if err != nil {
		return err
	}

	preds, err := fetchHistory(c, rt)
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

func historyDelete(c *cli.Context) error {
	rt, err := guard(c, gate.DoctorDashboardView)
	if err != nil {
		return err
	}
	id, err := firstArg(c)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("prediction ID required")
	}

	ctx, cancel := rt.RequestContext(c)
	defer cancel()

	if err := rt.API.DeletePrediction(ctx, id); err != nil {
		return err
	}
	rt.Notices.Success(fmt.Sprintf("Prediction %s deleted", id))
	return nil
}

func historyClear(c *cli.Context) error {
	rt, err := guard(c, gate.DoctorDashboardView)
	if err != nil {
		return err
	}
	if err := confirm(rt.Prompt, c.Bool("force"), "Delete all of your predictions?"); err != nil {
		return err
	}

	ctx, cancel := rt.RequestContext(c)
	defer cancel()

	if err := rt.API.ClearHistory(ctx); err != nil {
		return err
	}
	rt.Notices.Success("History cleared")
	return nil
}

func historyDownload(c *cli.Context) error {
	rt, err := guard(c, gate.DoctorDashboardView)
	if err != nil {
		return err
	}
	format := strings.ToLower(c.String("format"))
	if !slices.Contains(backend.DownloadFormats, format) {
		return domain.ErrUnsupportedFormat.WithDetails(format)
	}
	path := c.String("out")
	if path == "" {
		path = backend.DownloadFilename(format)
	}

	ctx, cancel := rt.RequestContext(c)
	defer cancel()

	n, err := saveDownload(ctx, rt, path, func(ctx context.Context, w io.Writer, progress func(int64, int64)) (int64, error) {
		return rt.API.DownloadHistory(ctx, format, w, progress)
	})
	if err != nil {
		return err
	}
	rt.Notices.Success(fmt.Sprintf("Saved %s (%d bytes)", path, n))
	return nil
}

func historyStats(c *cli.Context) error {
	rt, err := guard(c, gate.DoctorDashboardView)
	if err != nil {
		return err
	}
	preds, err := fetchHistory(c, rt)
	if err != nil {
		return err
	}
	return rt.Print(c, service.ComputeHistoryStats(preds))
}
