package storage

import (
	"context"
	"math"
	"testing"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/stretchr/testify/require"
)

func TestPrediction_SetGetRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	original := &Prediction{
		ID:             7,
		State:          PredictionState_Active,
		Description:    "Will the upgrade activate before March?",
		Tags:           []string{"network", "upgrade"},
		PredictionType: 1,
		OptionsCount:   2,
		StartTime:      100,
		EndTime:        2000,
		TotalVotes:     2,
		YesVotes:       1,
		NoVotes:        1,
		YesAmount:      1000,
		NoAmount:       3000,
		TotalAmount:    4000,
		Result:         Result_Undefined,
	}
	require.NoError(SetPrediction(ctx, mu, original))

	got, err := GetPrediction(ctx, mu, 7)
	require.NoError(err)
	require.Equal(original, got)
}

func TestPrediction_GetMissing(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	_, err := GetPrediction(ctx, mu, 42)
	require.ErrorIs(err, ErrPredictionNotFound)
}

func TestPrediction_ApplyStake_Tallies(t *testing.T) {
	require := require.New(t)

	p := &Prediction{ID: 1, State: PredictionState_Active}

	require.NoError(p.ApplyStake(true, 1000))
	require.NoError(p.ApplyStake(false, 3000))
	require.NoError(p.ApplyStake(true, 500))

	require.Equal(uint64(3), p.TotalVotes)
	require.Equal(uint64(2), p.YesVotes)
	require.Equal(uint64(1), p.NoVotes)
	require.Equal(uint64(1500), p.YesAmount)
	require.Equal(uint64(3000), p.NoAmount)
	require.Equal(uint64(4500), p.TotalAmount)
	require.Equal(p.TotalAmount, p.YesAmount+p.NoAmount)
	require.Equal(p.TotalVotes, p.YesVotes+p.NoVotes)
}

func TestPrediction_ApplyStake_OverflowLeavesTalliesUntouched(t *testing.T) {
	require := require.New(t)

	p := &Prediction{
		ID:          1,
		State:       PredictionState_Active,
		TotalVotes:  1,
		YesVotes:    1,
		YesAmount:   math.MaxUint64,
		TotalAmount: math.MaxUint64,
	}
	snapshot := *p

	err := p.ApplyStake(true, 1)
	require.ErrorIs(err, ErrOverflow)
	require.Equal(snapshot, *p)
}

func TestPrediction_WinningAmount(t *testing.T) {
	require := require.New(t)

	p := &Prediction{YesAmount: 1000, NoAmount: 3000}

	p.Result = Result_True
	require.Equal(uint64(1000), p.WinningAmount())

	p.Result = Result_False
	require.Equal(uint64(3000), p.WinningAmount())
}
