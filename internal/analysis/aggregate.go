// Package analysis turns groups of runs into per-episode curves and summary
// records.
package analysis

import (
	"database/sql"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"rlsummary/internal/runs"
)

// Fixed policy constants.
const (
	// Window is the length of the trailing window used for terminal
	// statistics and convergence detection.
	Window = 20
	// SuccessThreshold is the minimum success rate over a window.
	SuccessThreshold = 0.75
	// RewardStdThreshold is the maximum reward std over a window.
	RewardStdThreshold = 1.0
)

var (
	// ErrEmptyGroup reports a group without runs.
	ErrEmptyGroup = errors.New("group has no runs")
	// ErrMissingEpisode reports a run without a row for an aligned episode.
	ErrMissingEpisode = errors.New("missing episode")
)

// Summary is one row of the analysis summary table.
type Summary struct {
	Algorithm                 string
	Runs                      int
	EpisodesUsed              int
	MeanRewardLastWindow      float64
	StdRewardLastWindow       sql.NullFloat64
	MeanStepsLastWindow       float64
	SuccessRateLastWindowMean float64
	MeanConvergenceEpisode    sql.NullFloat64
	StdConvergenceEpisode     sql.NullFloat64
	RunsConverged             int
}

// Curves holds the per-episode cross-run statistics of a group.
type Curves struct {
	Episodes   []float64
	MeanReward []float64
	StdReward  []float64
	MeanSteps  []float64
	StdSteps   []float64
}

// RunDetail records the per-run values behind a summary.
type RunDetail struct {
	Source      string
	SuccessRate float64
	// Converged is false when no window satisfied both thresholds.
	Converged          bool
	ConvergenceEpisode int
}

// Result is the full aggregation of one algorithm group.
type Result struct {
	Summary Summary
	Window  int
	Curves  Curves
	Runs    []RunDetail
}

// series is one run truncated to the alignment length.
type series struct {
	rewards []float64
	steps   []float64
	reached []float64
}

// AggregateAll aggregates every group, preserving group order.
func AggregateAll(groups []runs.Group) ([]Result, error) {
	out := make([]Result, 0, len(groups))
	for _, group := range groups {
		result, err := Aggregate(group)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, nil
}

// Aggregate computes curves, last-window statistics and convergence for one
// group.
func Aggregate(group runs.Group) (Result, error) {
	if len(group.Runs) == 0 {
		return Result{}, fmt.Errorf("%s: %w", group.Algorithm, ErrEmptyGroup)
	}
	minLen := AlignmentLength(group.Runs)
	if minLen < 1 {
		return Result{}, fmt.Errorf("%s: %w 1", group.Algorithm, ErrMissingEpisode)
	}
	aligned := make([]series, len(group.Runs))
	for i, run := range group.Runs {
		s, err := align(run, minLen)
		if err != nil {
			return Result{}, err
		}
		aligned[i] = s
	}

	window := min(Window, minLen)
	result := Result{
		Window: window,
		Curves: episodeCurves(aligned, minLen),
		Runs:   make([]RunDetail, len(aligned)),
	}

	var (
		lastRewards  []float64
		lastSteps    []float64
		successRates = make([]float64, len(aligned))
		converged    []float64
	)
	for i, s := range aligned {
		lastRewards = append(lastRewards, s.rewards[minLen-window:]...)
		lastSteps = append(lastSteps, s.steps[minLen-window:]...)
		successRates[i] = stat.Mean(s.reached[minLen-window:], nil)

		detail := RunDetail{Source: group.Runs[i].Source, SuccessRate: successRates[i]}
		if ep, ok := ConvergenceEpisode(s.rewards, s.reached, window); ok {
			detail.Converged = true
			detail.ConvergenceEpisode = ep
			converged = append(converged, float64(ep))
		}
		result.Runs[i] = detail
	}

	result.Summary = Summary{
		Algorithm:                 group.Algorithm,
		Runs:                      len(aligned),
		EpisodesUsed:              minLen,
		MeanRewardLastWindow:      stat.Mean(lastRewards, nil),
		StdRewardLastWindow:       sampleStd(lastRewards),
		MeanStepsLastWindow:       stat.Mean(lastSteps, nil),
		SuccessRateLastWindowMean: stat.Mean(successRates, nil),
		MeanConvergenceEpisode:    mean(converged),
		StdConvergenceEpisode:     sampleStd(converged),
		RunsConverged:             len(converged),
	}
	return result, nil
}

// AlignmentLength is the shortest run's maximum episode number.
func AlignmentLength(rs []runs.Run) int {
	if len(rs) == 0 {
		return 0
	}
	minLen := rs[0].MaxEpisode()
	for _, run := range rs[1:] {
		minLen = min(minLen, run.MaxEpisode())
	}
	return minLen
}

func align(run runs.Run, minLen int) (series, error) {
	s := series{
		rewards: make([]float64, minLen),
		steps:   make([]float64, minLen),
		reached: make([]float64, minLen),
	}
	for e := 1; e <= minLen; e++ {
		ep, ok := run.Episode(e)
		if !ok {
			return series{}, fmt.Errorf("%s: %w %d", run.Source, ErrMissingEpisode, e)
		}
		s.rewards[e-1] = ep.Reward
		s.steps[e-1] = float64(ep.Steps)
		if ep.Reached {
			s.reached[e-1] = 1
		}
	}
	return s, nil
}

func episodeCurves(aligned []series, minLen int) Curves {
	c := Curves{
		Episodes:   make([]float64, minLen),
		MeanReward: make([]float64, minLen),
		StdReward:  make([]float64, minLen),
		MeanSteps:  make([]float64, minLen),
		StdSteps:   make([]float64, minLen),
	}
	rewards := make([]float64, len(aligned))
	steps := make([]float64, len(aligned))
	for e := 0; e < minLen; e++ {
		for i, s := range aligned {
			rewards[i] = s.rewards[e]
			steps[i] = s.steps[e]
		}
		c.Episodes[e] = float64(e + 1)
		c.MeanReward[e], c.StdReward[e] = stat.PopMeanStdDev(rewards, nil)
		c.MeanSteps[e], c.StdSteps[e] = stat.PopMeanStdDev(steps, nil)
	}
	return c
}

func mean(values []float64) sql.NullFloat64 {
	if len(values) == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: stat.Mean(values, nil), Valid: true}
}

// sampleStd is the n-1 standard deviation, undefined below two values.
func sampleStd(values []float64) sql.NullFloat64 {
	if len(values) < 2 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: stat.StdDev(values, nil), Valid: true}
}
