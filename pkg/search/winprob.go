package search

import (
	"math"

	"github.com/corvine/mateline/pkg/eval"
)

// sigmoidK is the calibration constant of §4.9 and §6.
const sigmoidK = 0.0045

// WinProbability converts a centipawn score to a win probability in
// [0,1] via the calibrated sigmoid p = 1/(1+exp(-K*score/100)). Mate
// scores saturate to epsilon away from 0 or 1 rather than exactly, since
// the sigmoid is never exactly flat.
func WinProbability(score eval.Score) float64 {
	return 1 / (1 + math.Exp(-sigmoidK*float64(score)/100))
}

// WinProbabilityStdDev estimates the uncertainty of a win-probability
// estimate from the sample standard deviation of the centipawn scores
// returned by each completed iteration, converted to a win-probability
// span around the final score: sigmoid(score+stddev) - sigmoid(score-stddev).
func WinProbabilityStdDev(scores []eval.Score) float64 {
	if len(scores) < 2 {
		return 0
	}
	final := scores[len(scores)-1]

	var mean float64
	for _, s := range scores {
		mean += float64(s)
	}
	mean /= float64(len(scores))

	var variance float64
	for _, s := range scores {
		d := float64(s) - mean
		variance += d * d
	}
	variance /= float64(len(scores) - 1)
	stddevCP := math.Sqrt(variance)

	hi := WinProbability(final + eval.Score(stddevCP))
	lo := WinProbability(final - eval.Score(stddevCP))
	return hi - lo
}
