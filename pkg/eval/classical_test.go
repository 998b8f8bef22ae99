package eval_test

import (
	"context"
	"testing"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/board/fen"
	"github.com/corvine/mateline/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassicalStartposIsSymmetric(t *testing.T) {
	zt := board.NewZobristTable(100)
	pos, err := fen.Decode(zt, fen.Startpos)
	require.NoError(t, err)

	// White to move gets the tempo bonus; everything else is symmetric.
	s := eval.Classical{}.Evaluate(context.Background(), pos)
	assert.Equal(t, eval.Score(10), s)
}

func TestMaterialFavorsExtraQueen(t *testing.T) {
	zt := board.NewZobristTable(101)
	pos, err := fen.Decode(zt, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)

	s := eval.Material{}.Evaluate(context.Background(), pos)
	assert.True(t, s > eval.Value[board.Queen]-10)
}
