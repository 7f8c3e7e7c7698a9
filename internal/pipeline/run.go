package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"forwardpass/internal/metrics"
	"forwardpass/internal/model"
	"forwardpass/internal/output"
	"forwardpass/internal/render"
	"forwardpass/internal/report"
)

// Artifact file names written into the output directory. Result.Artifacts
// lists them in this order.
const (
	DiagramFile = "network_forward_pass.png"
	InputFile   = "input_values.png"
	HiddenFile  = "hidden_activations.png"
	OutputFile  = "output_values.png"
)

const defaultDPI = 200

// RunConfig captures the knobs required by a forward-pass run.
type RunConfig struct {
	Input      []float64
	Params     *model.Params
	OutputDir  string
	DPI        int
	SkipRender bool
	Report     io.Writer
	Logger     *slog.Logger
}

// Result is what a run produced.
type Result struct {
	RunID     string
	Pass      model.Pass
	Artifacts []string
	Timings   metrics.Snapshot
}

// Run computes the pass, prints the report and renders the figures.
func Run(ctx context.Context, cfg RunConfig) (Result, error) {
	if cfg.Params == nil {
		return Result{}, errors.New("pipeline: params must be set")
	}
	if !cfg.SkipRender && cfg.OutputDir == "" {
		return Result{}, errors.New("pipeline: output dir must be set")
	}
	if cfg.DPI <= 0 {
		cfg.DPI = defaultDPI
	}
	if cfg.Report == nil {
		cfg.Report = io.Discard
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	res := Result{RunID: uuid.NewString()}
	logger = logger.With("run_id", res.RunID)
	var window metrics.Window

	net, err := model.NewNetwork(cfg.Params)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	pass, err := net.Forward(cfg.Input)
	if err != nil {
		return Result{}, err
	}
	window.Record("compute", time.Since(start))
	res.Pass = pass
	logger.Debug("forward pass computed", "hidden", net.HiddenSize(), "outputs", net.OutputSize())

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start = time.Now()
	if err := report.Write(cfg.Report, report.Report{Input: cfg.Input, Params: cfg.Params, Pass: pass}); err != nil {
		return Result{}, err
	}
	window.Record("report", time.Since(start))

	if !cfg.SkipRender {
		start = time.Now()
		artifacts, err := renderAll(ctx, cfg, pass, logger)
		if err != nil {
			return Result{}, err
		}
		window.Record("render", time.Since(start))
		res.Artifacts = artifacts
	}

	res.Timings = window.Snapshot()
	attrs := []any{"artifacts", len(res.Artifacts), "total_ms", res.Timings.TotalMS}
	for _, stage := range res.Timings.Stages {
		attrs = append(attrs, stage+"_ms", res.Timings.StageMS[stage])
	}
	logger.Info("run complete", attrs...)
	return res, nil
}

func renderAll(ctx context.Context, cfg RunConfig, pass model.Pass, logger *slog.Logger) ([]string, error) {
	if err := output.Prepare(cfg.OutputDir); err != nil {
		return nil, err
	}

	bars := []struct {
		file   string
		title  string
		values []float64
	}{
		{InputFile, "Input Layer Values", cfg.Input},
		{HiddenFile, "Hidden Layer Activations (ReLU)", pass.A1},
		{OutputFile, "Output Layer (Sigmoid)", pass.A2},
	}

	// Slot 0 is the diagram, then one slot per bar chart.
	artifacts := make([]string, 1+len(bars))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(cfg.OutputDir, DiagramFile)
		if err := render.NetworkDiagram(cfg.Input, pass, path, cfg.DPI); err != nil {
			return err
		}
		artifacts[0] = path
		return nil
	})
	for i, bar := range bars {
		i, bar := i, bar
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			values, replaced := finiteValues(bar.values)
			if replaced > 0 {
				logger.Warn("non-finite values drawn as zero", "figure", bar.file, "count", replaced)
			}
			path := filepath.Join(cfg.OutputDir, bar.file)
			if err := render.BarChart(values, bar.title, path, cfg.DPI); err != nil {
				return err
			}
			artifacts[i+1] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, path := range artifacts {
		logger.Info("saved image", "path", path)
	}
	return artifacts, nil
}

// finiteValues returns values with NaN and ±Inf replaced by zero, and how
// many were replaced. values itself is not modified.
func finiteValues(values []float64) ([]float64, int) {
	out := make([]float64, len(values))
	replaced := 0
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			replaced++
			continue
		}
		out[i] = v
	}
	return out, replaced
}
