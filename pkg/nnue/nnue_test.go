package nnue_test

import (
	"bytes"
	"testing"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/board/fen"
	"github.com/corvine/mateline/pkg/nnue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syntheticNetwork() *nnue.Network {
	n := &nnue.Network{
		FeatureWeights: make([]int16, nnue.InputSize*nnue.HiddenSize),
		FeatureBias:    make([]int16, nnue.HiddenSize),
		OutputWeights:  make([]int16, nnue.HiddenSize),
	}
	for i := range n.FeatureWeights {
		n.FeatureWeights[i] = int16((i % 7) - 3)
	}
	for i := range n.OutputWeights {
		n.OutputWeights[i] = int16((i % 5) - 2)
	}
	return n
}

func TestNetworkEncodeDecodeRoundTrip(t *testing.T) {
	want := syntheticNetwork()

	var buf bytes.Buffer
	require.NoError(t, nnue.Encode(&buf, want))

	got, err := nnue.Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, want.FeatureWeights, got.FeatureWeights)
	assert.Equal(t, want.FeatureBias, got.FeatureBias)
	assert.Equal(t, want.OutputWeights, got.OutputWeights)
	assert.Equal(t, want.OutputBias, got.OutputBias)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, nnue.Encode(&buf, syntheticNetwork()))
	corrupt := buf.Bytes()
	corrupt[0] = 'X'

	_, err := nnue.Decode(bytes.NewReader(corrupt))
	assert.Error(t, err)
}

func TestAccumulatorIncrementalMatchesReset(t *testing.T) {
	net := syntheticNetwork()
	zt := board.NewZobristTable(55)
	pos, err := fen.Decode(zt, fen.Startpos)
	require.NoError(t, err)

	acc := nnue.NewAccumulator(net)
	acc.Reset(pos)

	legal := pos.GenerateLegal(make([]board.Move, 0, board.MaxMovesPerPosition))
	require.NotEmpty(t, legal)

	for _, m := range legal[:5] {
		require.True(t, pos.MakeMove(m))
		acc.OnMake(m)

		fresh := nnue.NewAccumulator(net)
		fresh.Reset(pos)
		assert.Equal(t, fresh.Evaluate(board.White), acc.Evaluate(board.White), "incremental accumulator diverged after %v", m)

		_, _ = pos.UnmakeMove()
		acc.OnUnmake()
	}
}
