package storage

import (
	"context"
	"math"
	"testing"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/stretchr/testify/require"
)

func TestRegistry_InitializeOnce(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	admin := codec.Address{0x01}

	_, err := GetRegistry(ctx, mu)
	require.ErrorIs(err, ErrRegistryNotFound)

	require.NoError(InitializeRegistry(ctx, mu, admin))

	reg, err := GetRegistry(ctx, mu)
	require.NoError(err)
	require.Equal(admin, reg.Admin)
	require.Zero(reg.NextPredictionID)

	// A second initialization must not clobber the existing registry.
	err = InitializeRegistry(ctx, mu, codec.Address{0x02})
	require.ErrorIs(err, ErrRegistryExists)

	reg, err = GetRegistry(ctx, mu)
	require.NoError(err)
	require.Equal(admin, reg.Admin)
}

func TestRegistry_AllocatePredictionID_Monotonic(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	require.NoError(InitializeRegistry(ctx, mu, codec.Address{0x01}))

	for want := uint64(0); want < 5; want++ {
		id, err := AllocatePredictionID(ctx, mu)
		require.NoError(err)
		require.Equal(want, id)
	}

	reg, err := GetRegistry(ctx, mu)
	require.NoError(err)
	require.Equal(uint64(5), reg.NextPredictionID)
}

func TestRegistry_AllocatePredictionID_CounterExhausted(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	require.NoError(SetRegistry(ctx, mu, &Registry{
		Admin:            codec.Address{0x01},
		NextPredictionID: math.MaxUint64,
	}))

	_, err := AllocatePredictionID(ctx, mu)
	require.ErrorIs(err, ErrOverflow)

	// The failed allocation must not burn the last id.
	reg, err := GetRegistry(ctx, mu)
	require.NoError(err)
	require.Equal(uint64(math.MaxUint64), reg.NextPredictionID)
}
