package command

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/urfave/cli/v2"
)

// HeatmapCommand returns the heatmap subcommand group.
func HeatmapCommand() *cli.Command {
	return &cli.Command{
		Name:  "heatmap",
		Usage: "Locate or download prediction heatmaps",
		Subcommands: []*cli.Command{
			{
				Name:      "url",
				Usage:     "Print the address of a heatmap",
				ArgsUsage: "PATH",
				Action:    heatmapURL,
			},
			{
				Name:      "get",
				Usage:     "Download a heatmap image",
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "Output file (default the heatmap's file name)"},
				},
				Action: heatmapGet,
			},
		},
	}
}

func heatmapArg(c *cli.Context) (string, error) {
	arg, err := firstArg(c)
	if err != nil {
		return "", err
	}
	rel := strings.TrimLeft(arg, "/")
	rel = strings.TrimPrefix(rel, "static/")
	if rel == "" {
		return "", fmt.Errorf("heatmap path required")
	}
	return rel, nil
}

func heatmapURL(c *cli.Context) error {
	rt, err := guardDashboard(c)
	if err != nil {
		return err
	}
	rel, err := heatmapArg(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(rt.Stdout, rt.HTTP.HeatmapURL(rel))
	return nil
}

func heatmapGet(c *cli.Context) error {
	rt, err := guardDashboard(c)
	if err != nil {
		return err
	}
	rel, err := heatmapArg(c)
	if err != nil {
		return err
	}
	out := c.String("out")
	if out == "" {
		out = path.Base(rel)
	}

	ctx, cancel := rt.RequestContext(c)
	defer cancel()

	n, err := saveDownload(ctx, rt, out, func(ctx context.Context, w io.Writer, progress func(int64, int64)) (int64, error) {
		return rt.API.DownloadHeatmap(ctx, rel, w, progress)
	})
	if err != nil {
		return err
	}
	rt.Notices.Success(fmt.Sprintf("Saved %s (%d bytes)", out, n))
	return nil
}
