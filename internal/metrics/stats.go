package metrics

import (
	"time"

	"gonum.org/v1/gonum/floats"
)

// Summary describes the values of one layer vector.
type Summary struct {
	Len    int
	Min    float64
	Max    float64
	Mean   float64
	Active int
}

// Summarize computes a Summary of values. An empty slice yields the zero
// Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	active := 0
	for _, v := range values {
		if v > 0 {
			active++
		}
	}
	return Summary{
		Len:    len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   floats.Sum(values) / float64(len(values)),
		Active: active,
	}
}

// Window accumulates wall time per pipeline stage.
type Window struct {
	stages []string
	spent  map[string]time.Duration
}

// Record adds d to the named stage.
func (w *Window) Record(stage string, d time.Duration) {
	if w.spent == nil {
		w.spent = make(map[string]time.Duration)
	}
	if _, ok := w.spent[stage]; !ok {
		w.stages = append(w.stages, stage)
	}
	w.spent[stage] += d
}

// Snapshot returns aggregated timings and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{StageMS: make(map[string]float64, len(w.stages))}
	var total time.Duration
	for _, stage := range w.stages {
		d := w.spent[stage]
		snap.Stages = append(snap.Stages, stage)
		snap.StageMS[stage] = d.Seconds() * 1000
		total += d
	}
	snap.TotalMS = total.Seconds() * 1000

	w.stages = nil
	w.spent = nil
	return snap
}

// Snapshot represents loggable timings in milliseconds. Stages preserves
// first-recorded order.
type Snapshot struct {
	Stages  []string
	StageMS map[string]float64
	TotalMS float64
}
