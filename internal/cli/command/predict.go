package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/brainscan-go/internal/cli/output"
	"github.com/yndnr/brainscan-go/internal/core/domain"
	"github.com/yndnr/brainscan-go/internal/core/gate"
)

// PredictCommand uploads an MRI scan for analysis.
func PredictCommand() *cli.Command {
	return &cli.Command{
		Name:      "predict",
		Usage:     "Upload an MRI scan and show the prediction",
		ArgsUsage: "FILE",
		Action:    predict,
	}
}

// predictionView is the rendered analysis result.
type predictionView struct {
	Filename   string `json:"filename" yaml:"filename"`
	Result     string `json:"result" yaml:"result"`
	Confidence string `json:"confidence" yaml:"confidence"`
	Heatmap    string `json:"heatmap,omitempty" yaml:"heatmap,omitempty"`
}

func predict(c *cli.Context) error {
	rt, err := guard(c, gate.DoctorDashboardView)
	if err != nil {
		return err
	}
	path, err := firstArg(c)
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("image file required")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	ctx, cancel := rt.RequestContext(c)
	defer cancel()

	spin := output.NewSpinner(rt.Stderr, "Analyzing "+filepath.Base(path))
	spin.Start()
	outcome, err := rt.API.Predict(ctx, filepath.Base(path), f)
	if err != nil {
		spin.Fail("Analysis failed")
		return err
	}
	spin.Success("Analysis complete")

	v := predictionView{
		Filename:   outcome.Filename,
		Result:     domain.NormalizeResult(outcome.Result),
		Confidence: fmt.Sprintf("%d%%", domain.ConfidencePercent(outcome.Confidence)),
	}
	if outcome.Heatmap != "" {
		v.Heatmap = rt.HTTP.HeatmapURL(outcome.Heatmap)
	}
	return rt.Print(c, v)
}
