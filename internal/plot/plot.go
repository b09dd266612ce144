// Package plot renders the per-algorithm learning curves as PNG images.
package plot

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"rlsummary/internal/analysis"
	"rlsummary/internal/output"
)

// Image size in pixels.
const (
	Width  = 800
	Height = 300
)

var (
	rewardColor = drawing.ColorFromHex("1f77b4")
	stepsColor  = drawing.ColorFromHex("ff7f0e")
)

// curve is one mean series with its spread.
type curve struct {
	title  string
	yName  string
	mean   []float64
	std    []float64
	color  drawing.Color
	shaded bool
}

// RenderGroup writes the four images of one algorithm into dir and returns
// the written paths.
func RenderGroup(dir, label string, files output.PlotFiles, curves analysis.Curves) ([]string, error) {
	jobs := []struct {
		name  string
		curve curve
	}{
		{files.Reward, curve{
			title: "Avg reward per episode — " + label,
			yName: "Avg Reward",
			mean:  curves.MeanReward,
			color: rewardColor,
		}},
		{files.Steps, curve{
			title: "Avg steps per episode — " + label,
			yName: "Avg Steps",
			mean:  curves.MeanSteps,
			color: stepsColor,
		}},
		{files.RewardShaded, curve{
			title:  "Avg reward per episode (mean ± std) — " + label,
			yName:  "Avg Reward",
			mean:   curves.MeanReward,
			std:    curves.StdReward,
			color:  rewardColor,
			shaded: true,
		}},
		{files.StepsShaded, curve{
			title:  "Avg steps per episode (mean ± std) — " + label,
			yName:  "Avg Steps",
			mean:   curves.MeanSteps,
			std:    curves.StdSteps,
			color:  stepsColor,
			shaded: true,
		}},
	}

	written := make([]string, 0, len(jobs))
	for _, job := range jobs {
		path := filepath.Join(dir, job.name)
		if err := renderFile(path, curves.Episodes, job.curve); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func renderFile(path string, episodes []float64, c curve) error {
	ch, err := buildChart(episodes, c)
	if err != nil {
		return fmt.Errorf("plot %s: %w", filepath.Base(path), err)
	}
	if c.shaded {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := ch.Render(chart.PNG, file); err != nil {
		_ = file.Close()
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

func buildChart(episodes []float64, c curve) (chart.Chart, error) {
	if len(episodes) == 0 || len(c.mean) != len(episodes) {
		return chart.Chart{}, fmt.Errorf("curve has %d points for %d episodes", len(c.mean), len(episodes))
	}
	if c.shaded && len(c.std) != len(episodes) {
		return chart.Chart{}, fmt.Errorf("std has %d points for %d episodes", len(c.std), len(episodes))
	}
	xRange := axisRange(episodes)
	episodes, c = padSingle(episodes, c)
	mean := chart.ContinuousSeries{
		Name:    "mean",
		XValues: episodes,
		YValues: c.mean,
		Style: chart.Style{
			StrokeColor: c.color,
			StrokeWidth: 1.5,
		},
	}

	var series []chart.Series
	low, high := bounds(c.mean)
	if c.shaded {
		lower := make([]float64, len(c.mean))
		upper := make([]float64, len(c.mean))
		for i := range c.mean {
			lower[i] = c.mean[i] - c.std[i]
			upper[i] = c.mean[i] + c.std[i]
		}
		band := c.color.WithAlpha(51)
		series = append(series, bandSeries{
			Name:    "±1 std",
			XValues: episodes,
			Lower:   lower,
			Upper:   upper,
			Style: chart.Style{
				FillColor:   band,
				StrokeColor: band,
				StrokeWidth: 1,
			},
		})
		bandLow, _ := bounds(lower)
		_, bandHigh := bounds(upper)
		low, high = math.Min(low, bandLow), math.Max(high, bandHigh)
	}
	series = append(series, mean)

	ch := chart.Chart{
		Title:      c.title,
		Width:      Width,
		Height:     Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Episode", Range: xRange},
		YAxis:      chart.YAxis{Name: c.yName, Range: yRange(low, high)},
		Series:     series,
	}
	return ch, nil
}

// axisRange widens a single-episode axis; nil lets the chart fit the data.
func axisRange(episodes []float64) chart.Range {
	if len(episodes) > 1 {
		return nil
	}
	return &chart.ContinuousRange{Min: episodes[0] - 1, Max: episodes[0] + 1}
}

// padSingle stretches a one-point curve into a short flat segment, since
// line series need two points to draw.
func padSingle(episodes []float64, c curve) ([]float64, curve) {
	if len(episodes) != 1 {
		return episodes, c
	}
	x := episodes[0]
	c.mean = []float64{c.mean[0], c.mean[0]}
	if c.shaded {
		c.std = []float64{c.std[0], c.std[0]}
	}
	return []float64{x - 0.5, x + 0.5}, c
}

// yRange widens a flat series so the axis never has zero height.
func yRange(low, high float64) chart.Range {
	if high-low > 1e-9 {
		return nil
	}
	pad := math.Max(math.Abs(low)*0.1, 1)
	return &chart.ContinuousRange{Min: low - pad, Max: high + pad}
}

func bounds(values []float64) (float64, float64) {
	low, high := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	return low, high
}
