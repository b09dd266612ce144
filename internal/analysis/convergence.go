package analysis

import "gonum.org/v1/gonum/stat"

// ConvergenceEpisode returns the first 1-based episode e >= window whose
// trailing window (episodes e-window+1..e) has a success rate of at least
// SuccessThreshold and a population reward std of at most RewardStdThreshold.
func ConvergenceEpisode(rewards, reached []float64, window int) (int, bool) {
	n := min(len(rewards), len(reached))
	if window < 1 || window > n {
		return 0, false
	}
	for e := window; e <= n; e++ {
		recentReached := reached[e-window : e]
		recentRewards := rewards[e-window : e]
		if stat.Mean(recentReached, nil) < SuccessThreshold {
			continue
		}
		if _, std := stat.PopMeanStdDev(recentRewards, nil); std <= RewardStdThreshold {
			return e, true
		}
	}
	return 0, false
}
