package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rlsummary/internal/runs"
)

func makeRun(source, algorithm string, rewards []float64, steps []int, reached []int) runs.Run {
	episodes := make([]runs.Episode, len(rewards))
	for i := range rewards {
		episodes[i] = runs.Episode{
			Number:  i + 1,
			Reward:  rewards[i],
			Steps:   steps[i],
			Reached: reached[i] != 0,
		}
	}
	return runs.NewRun(source, algorithm, episodes)
}

func constantRun(source string, n int, reward float64, reached int) runs.Run {
	rewards := make([]float64, n)
	steps := make([]int, n)
	flags := make([]int, n)
	for i := range rewards {
		rewards[i] = reward
		steps[i] = 7
		flags[i] = reached
	}
	return makeRun(source, "Q", rewards, steps, flags)
}

// learningRun fails for the first `failing` episodes, then succeeds with a
// constant reward.
func learningRun(source string, n, failing int) runs.Run {
	rewards := make([]float64, n)
	steps := make([]int, n)
	flags := make([]int, n)
	for i := range rewards {
		if i < failing {
			rewards[i], steps[i], flags[i] = -1, 50, 0
			continue
		}
		rewards[i], steps[i], flags[i] = 10, 8, 1
	}
	return makeRun(source, "Q", rewards, steps, flags)
}

// TestAggregateShortIdenticalRuns covers two identical five-episode runs.
func TestAggregateShortIdenticalRuns(t *testing.T) {
	rewards := []float64{1, 2, 3, 4, 5}
	steps := []int{10, 9, 8, 7, 6}
	reached := []int{0, 0, 0, 1, 1}
	group := runs.Group{Algorithm: "Q", Runs: []runs.Run{
		makeRun("run-1.csv", "Q", rewards, steps, reached),
		makeRun("run-2.csv", "Q", rewards, steps, reached),
	}}

	result, err := Aggregate(group)
	require.NoError(t, err)

	s := result.Summary
	assert.Equal(t, "Q", s.Algorithm)
	assert.Equal(t, 2, s.Runs)
	assert.Equal(t, 5, s.EpisodesUsed)
	assert.Equal(t, 5, result.Window)
	assert.InDelta(t, 3.0, s.MeanRewardLastWindow, 1e-12)
	require.True(t, s.StdRewardLastWindow.Valid)
	assert.InDelta(t, math.Sqrt(20.0/9.0), s.StdRewardLastWindow.Float64, 1e-12)
	assert.InDelta(t, 8.0, s.MeanStepsLastWindow, 1e-12)
	assert.InDelta(t, 0.4, s.SuccessRateLastWindowMean, 1e-12)
	assert.Equal(t, 0, s.RunsConverged)
	assert.False(t, s.MeanConvergenceEpisode.Valid)
	assert.False(t, s.StdConvergenceEpisode.Valid)

	assert.Equal(t, []float64{1, 2, 3, 4, 5}, result.Curves.Episodes)
	assert.Equal(t, rewards, result.Curves.MeanReward)
	for _, std := range result.Curves.StdReward {
		assert.Zero(t, std)
	}
}

// TestAggregateAlignsToShortestRun verifies truncation and per-episode statistics.
func TestAggregateAlignsToShortestRun(t *testing.T) {
	group := runs.Group{Algorithm: "SARSA", Runs: []runs.Run{
		makeRun("a", "SARSA", []float64{1, 2, 100}, []int{4, 6, 1}, []int{1, 0, 1}),
		makeRun("b", "SARSA", []float64{3, 4}, []int{8, 10}, []int{1, 1}),
	}}

	result, err := Aggregate(group)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.EpisodesUsed)
	assert.Equal(t, 2, result.Window)
	assert.Equal(t, []float64{2, 3}, result.Curves.MeanReward)
	assert.Equal(t, []float64{1, 1}, result.Curves.StdReward)
	assert.Equal(t, []float64{6, 8}, result.Curves.MeanSteps)
	assert.Equal(t, []float64{2, 2}, result.Curves.StdSteps)
	assert.InDelta(t, 2.5, result.Summary.MeanRewardLastWindow, 1e-12)
	assert.InDelta(t, 0.75, result.Summary.SuccessRateLastWindowMean, 1e-12)
	assert.InDelta(t, 0.5, result.Runs[0].SuccessRate, 1e-12)
	assert.InDelta(t, 1.0, result.Runs[1].SuccessRate, 1e-12)
}

// TestAggregateWindowCapsAtTwenty verifies only the final 20 episodes feed terminal stats.
func TestAggregateWindowCapsAtTwenty(t *testing.T) {
	group := runs.Group{Algorithm: "Q", Runs: []runs.Run{learningRun("a", 50, 30)}}

	result, err := Aggregate(group)
	require.NoError(t, err)

	assert.Equal(t, 20, result.Window)
	assert.InDelta(t, 10.0, result.Summary.MeanRewardLastWindow, 1e-12)
	assert.InDelta(t, 8.0, result.Summary.MeanStepsLastWindow, 1e-12)
	assert.InDelta(t, 1.0, result.Summary.SuccessRateLastWindowMean, 1e-12)
	require.True(t, result.Summary.StdRewardLastWindow.Valid)
	assert.Zero(t, result.Summary.StdRewardLastWindow.Float64)
}

// TestAggregateConvergenceSummary verifies mean/std over converged runs only.
func TestAggregateConvergenceSummary(t *testing.T) {
	group := runs.Group{Algorithm: "Q", Runs: []runs.Run{
		constantRun("steady", 60, 5, 1),
		learningRun("learner", 60, 10),
		constantRun("never", 60, 0, 0),
	}}

	result, err := Aggregate(group)
	require.NoError(t, err)

	s := result.Summary
	assert.Equal(t, 3, s.Runs)
	assert.Equal(t, 2, s.RunsConverged)
	assert.LessOrEqual(t, s.RunsConverged, s.Runs)
	require.True(t, s.MeanConvergenceEpisode.Valid)
	assert.InDelta(t, 25.0, s.MeanConvergenceEpisode.Float64, 1e-12)
	require.True(t, s.StdConvergenceEpisode.Valid)
	assert.InDelta(t, math.Sqrt(50), s.StdConvergenceEpisode.Float64, 1e-12)

	assert.True(t, result.Runs[0].Converged)
	assert.Equal(t, 20, result.Runs[0].ConvergenceEpisode)
	assert.True(t, result.Runs[1].Converged)
	assert.Equal(t, 30, result.Runs[1].ConvergenceEpisode)
	assert.False(t, result.Runs[2].Converged)
}

// TestAggregateSingleConvergedRunHasNoStd verifies one converged run leaves std undefined.
func TestAggregateSingleConvergedRunHasNoStd(t *testing.T) {
	group := runs.Group{Algorithm: "Q", Runs: []runs.Run{
		constantRun("steady", 40, 5, 1),
		constantRun("never", 40, 0, 0),
	}}

	result, err := Aggregate(group)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Summary.RunsConverged)
	require.True(t, result.Summary.MeanConvergenceEpisode.Valid)
	assert.InDelta(t, 20.0, result.Summary.MeanConvergenceEpisode.Float64, 1e-12)
	assert.False(t, result.Summary.StdConvergenceEpisode.Valid)
}

// TestAggregateNoConvergence verifies an all-failing group reports null convergence.
func TestAggregateNoConvergence(t *testing.T) {
	group := runs.Group{Algorithm: "Q", Runs: []runs.Run{
		learningRun("a", 40, 35),
		constantRun("b", 40, 3, 0),
	}}

	result, err := Aggregate(group)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Summary.RunsConverged)
	assert.False(t, result.Summary.MeanConvergenceEpisode.Valid)
	assert.False(t, result.Summary.StdConvergenceEpisode.Valid)
	assert.GreaterOrEqual(t, result.Summary.SuccessRateLastWindowMean, 0.0)
	assert.LessOrEqual(t, result.Summary.SuccessRateLastWindowMean, 1.0)
}

// TestAggregateMissingEpisode verifies a gap inside the aligned range is fatal.
func TestAggregateMissingEpisode(t *testing.T) {
	gappy := runs.NewRun("gappy", "Q", []runs.Episode{
		{Number: 1, Reward: 1, Steps: 1},
		{Number: 3, Reward: 1, Steps: 1},
	})
	group := runs.Group{Algorithm: "Q", Runs: []runs.Run{gappy, constantRun("full", 5, 1, 1)}}

	_, err := Aggregate(group)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingEpisode))
	assert.Contains(t, err.Error(), "gappy")
}

// TestAggregateEmptyGroup verifies groups must contain runs.
func TestAggregateEmptyGroup(t *testing.T) {
	_, err := Aggregate(runs.Group{Algorithm: "Q"})
	assert.True(t, errors.Is(err, ErrEmptyGroup))
}

// TestAggregateAllIsDeterministic verifies identical input yields identical output.
func TestAggregateAllIsDeterministic(t *testing.T) {
	groups := []runs.Group{
		{Algorithm: "Q", Runs: []runs.Run{learningRun("a", 45, 12), constantRun("b", 45, 2, 1)}},
		{Algorithm: "SARSA", Runs: []runs.Run{learningRun("c", 33, 20)}},
	}

	first, err := AggregateAll(groups)
	require.NoError(t, err)
	second, err := AggregateAll(groups)
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, "Q", first[0].Summary.Algorithm)
	assert.Equal(t, "SARSA", first[1].Summary.Algorithm)
	assert.Equal(t, first, second)
}
