package storage

import (
	"context"
	"testing"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/stretchr/testify/require"
)

func TestStakeEntry_SetGetRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	user := codec.Address{0x0A}
	entry := &StakeEntry{
		User:         user,
		PredictionID: 3,
		Side:         true,
		Amount:       1000,
	}
	require.NoError(SetStakeEntry(ctx, mu, entry))

	got, err := GetStakeEntry(ctx, mu, 3, user)
	require.NoError(err)
	require.Equal(entry, got)
	require.False(got.RewardClaimed)

	got.RewardClaimed = true
	require.NoError(SetStakeEntry(ctx, mu, got))

	got, err = GetStakeEntry(ctx, mu, 3, user)
	require.NoError(err)
	require.True(got.RewardClaimed)
}

func TestStakeEntry_Missing(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	user := codec.Address{0x0A}

	_, err := GetStakeEntry(ctx, mu, 3, user)
	require.ErrorIs(err, ErrStakeNotFound)

	has, err := HasStakeEntry(ctx, mu, 3, user)
	require.NoError(err)
	require.False(has)

	require.NoError(SetStakeEntry(ctx, mu, &StakeEntry{
		User:         user,
		PredictionID: 3,
		Side:         false,
		Amount:       5,
	}))

	has, err = HasStakeEntry(ctx, mu, 3, user)
	require.NoError(err)
	require.True(has)

	// Same user, different prediction: still missing.
	has, err = HasStakeEntry(ctx, mu, 4, user)
	require.NoError(err)
	require.False(has)
}

func TestStakeKey_DistinctPerUserAndPrediction(t *testing.T) {
	require := require.New(t)

	a := codec.Address{0x01}
	b := codec.Address{0x02}

	require.NotEqual(StakeKey(1, a), StakeKey(1, b))
	require.NotEqual(StakeKey(1, a), StakeKey(2, a))
}
