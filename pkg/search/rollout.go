package search

import (
	"context"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/eval"
)

// RolloutHorizonPlies bounds a Monte-Carlo playout, per §4.9 and §6.
const RolloutHorizonPlies = 40

// rolloutTemperature is the softmax temperature of §4.9's playout policy,
// "one pawn" in centipawns.
const rolloutTemperature = 100

// rolloutSoftmaxClamp bounds the per-move evaluation fed to the softmax
// so that a near-mate score cannot overflow math.Exp; it does not affect
// move selection among ordinary middlegame moves, only saturates the
// extremes.
const rolloutSoftmaxClamp = 3000

// rolloutDrawMargin is the White-centipawn band around zero that a
// playout exhausting its horizon without a terminal result is scored as
// a draw rather than a win or loss for either side.
const rolloutDrawMargin = 150

// RolloutOutcome tallies the playouts run from one root candidate move.
type RolloutOutcome struct {
	Move                 board.Move
	Wins, Draws, Losses int
}

// Score is (wins + 0.5*draws)/total, the ranking statistic of §4.9.
func (o RolloutOutcome) Score() float64 {
	total := o.Wins + o.Draws + o.Losses
	if total == 0 {
		return 0
	}
	return (float64(o.Wins) + 0.5*float64(o.Draws)) / float64(total)
}

// TieBreak implements §4.9's Monte-Carlo tie-break, invoked when the top
// two root moves of a completed alpha-beta search land within 20 cp of
// each other: run playoutsPerMove playouts from each candidate and pick
// the one with the higher (win+0.5*draw)/total ratio, keeping the
// alpha-beta pick on an exact tie. Playouts are pure functions of a
// cloned position and a seed-derived PRNG stream and run concurrently in
// a worker pool bounded to maxWorkers, per §5's "no mutable state is
// shared with the alpha-beta search."
func TieBreak(ctx context.Context, pos *board.Position, ev Evaluator, candidates []board.Move, playoutsPerMove int, seed int64, maxWorkers int) (board.Move, []RolloutOutcome, error) {
	if len(candidates) == 0 {
		return board.NullMove, nil, nil
	}
	if len(candidates) == 1 {
		return candidates[0], []RolloutOutcome{{Move: candidates[0]}}, nil
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if playoutsPerMove <= 0 {
		playoutsPerMove = 1
	}

	results := make([][]int, len(candidates))
	for i := range results {
		results[i] = make([]int, playoutsPerMove)
	}

	sem := make(chan struct{}, maxWorkers)
	g, gctx := errgroup.WithContext(ctx)

	for i, m := range candidates {
		i, m := i, m
		for p := 0; p < playoutsPerMove; p++ {
			p := p
			sem <- struct{}{}
			g.Go(func() error {
				defer func() { <-sem }()
				rng := rand.New(rand.NewSource(seed ^ int64(i+1)<<40 ^ int64(p+1)))
				results[i][p] = playout(gctx, pos, ev, m, rng)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return candidates[0], nil, err
	}

	outcomes := make([]RolloutOutcome, len(candidates))
	for i, m := range candidates {
		o := RolloutOutcome{Move: m}
		for _, r := range results[i] {
			switch {
			case r > 0:
				o.Wins++
			case r < 0:
				o.Losses++
			default:
				o.Draws++
			}
		}
		outcomes[i] = o
	}

	best := 0
	for i := 1; i < len(outcomes); i++ {
		if outcomes[i].Score() > outcomes[best].Score() {
			best = i
		}
	}
	return outcomes[best].Move, outcomes, nil
}

// playout plays first, then up to RolloutHorizonPlies further plies
// sampled from the softmax policy, and returns +1/0/-1 for a win/draw/
// loss from the root side's point of view (the side on move in pos,
// before first is made).
func playout(ctx context.Context, root *board.Position, ev Evaluator, first board.Move, rng *rand.Rand) int {
	rootTurn := root.Turn()
	pos := root.Clone()

	if !pos.MakeMove(first) {
		return 0
	}

	// pos is a throwaway clone local to this playout: moves are applied
	// forward only and never unmade, since nothing outlives this call.
	for ply := 0; ply < RolloutHorizonPlies; ply++ {
		if ctx.Err() != nil {
			break
		}
		if outcome := pos.Outcome(); outcome != board.Undecided {
			return scoreOutcomeForRoot(outcome, rootTurn)
		}
		moves := pos.GenerateLegal(make([]board.Move, 0, board.MaxMovesPerPosition))
		if len(moves) == 0 {
			break
		}
		next := sampleSoftmax(ctx, pos, ev, moves, rng)
		if !pos.MakeMove(next) {
			break
		}
	}

	final := eval.FromMover(ev.Evaluate(ctx, pos), rootTurn)
	switch {
	case final > rolloutDrawMargin:
		return 1
	case final < -rolloutDrawMargin:
		return -1
	default:
		return 0
	}
}

func scoreOutcomeForRoot(outcome board.Outcome, rootTurn board.Color) int {
	switch outcome {
	case board.WhiteWins:
		if rootTurn == board.White {
			return 1
		}
		return -1
	case board.BlackWins:
		if rootTurn == board.Black {
			return 1
		}
		return -1
	default:
		return 0
	}
}

// sampleSoftmax picks among moves with probability proportional to
// exp(evaluation/100) for the side to move in pos, per §4.9.
func sampleSoftmax(ctx context.Context, pos *board.Position, ev Evaluator, moves []board.Move, rng *rand.Rand) board.Move {
	mover := pos.Turn()
	weights := make([]float64, len(moves))
	var total float64
	for i, m := range moves {
		if !pos.MakeMove(m) {
			continue
		}
		s := eval.FromMover(ev.Evaluate(ctx, pos), mover)
		pos.UnmakeMove()

		c := clampScore(s, rolloutSoftmaxClamp)
		w := math.Exp(float64(c) / rolloutTemperature)
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return moves[rng.Intn(len(moves))]
	}

	r := rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return moves[i]
		}
	}
	return moves[len(moves)-1]
}

func clampScore(s eval.Score, bound eval.Score) eval.Score {
	switch {
	case s > bound:
		return bound
	case s < -bound:
		return -bound
	default:
		return s
	}
}
