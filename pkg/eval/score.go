// Package eval implements static position evaluation: the classical,
// hand-tuned evaluator used as a fallback and as NNUE's training/sanity
// baseline.
package eval

import (
	"fmt"

	"github.com/corvine/mateline/pkg/board"
)

// Score is a signed centipawn evaluation, positive favors White. Scores
// near the extremes encode forced mate: MateIn(0) is mate delivered this
// move, and the score shrinks by one for every ply further out, so
// that shallower mates always compare as more extreme than deeper ones.
type Score int32

const (
	Inf       Score = 1_000_100
	MateScore Score = 1_000_000
	MinScore  Score = -Inf
	MaxScore  Score = Inf

	// MateThreshold is the boundary above which a score encodes a forced
	// mate rather than a material/positional evaluation, per §6's
	// TT score-mate-adjust threshold.
	MateThreshold = 900_000
)

// MateIn returns the score for delivering mate in ply plies.
func MateIn(ply int) Score {
	return MateScore - Score(ply)
}

// MatedIn returns the score for being mated in ply plies.
func MatedIn(ply int) Score {
	return -MateScore + Score(ply)
}

func (s Score) IsMate() bool {
	return s > MateThreshold || s < -MateThreshold
}

// MateDistance returns the number of plies to mate (positive: this side
// delivers it; negative: this side is mated), valid only when IsMate.
func (s Score) MateDistance() int {
	if s > 0 {
		return int(MateScore - s)
	}
	return -int(MateScore + s)
}

// FromMover returns s as seen by the side to move, given the absolute
// (White-positive) value would be flipped for Black.
func FromMover(s Score, turn board.Color) Score {
	if turn == board.Black {
		return -s
	}
	return s
}

func Unit(c board.Color) Score {
	if c == board.White {
		return 1
	}
	return -1
}

func Crop(s Score) Score {
	switch {
	case s > MaxScore:
		return MaxScore
	case s < MinScore:
		return MinScore
	default:
		return s
	}
}

func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}

func (s Score) String() string {
	if s.IsMate() {
		return fmt.Sprintf("mate %d", (s.MateDistance()+1)/2)
	}
	return fmt.Sprintf("%.2f", float64(s)/100)
}
