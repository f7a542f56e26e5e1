package storage

import (
	"context"
	"testing"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/stretchr/testify/require"
)

func TestPendingClaim_SetGetRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	user := codec.Address{0x0B}
	claim := &PendingClaim{
		User:         user,
		PredictionID: 9,
		Amount:       1000,
		State:        ClaimState_Pending,
	}
	require.NoError(SetPendingClaim(ctx, mu, claim))

	got, err := GetPendingClaim(ctx, mu, 9, user)
	require.NoError(err)
	require.Equal(claim, got)

	got.State = ClaimState_Approved
	require.NoError(SetPendingClaim(ctx, mu, got))

	got, err = GetPendingClaim(ctx, mu, 9, user)
	require.NoError(err)
	require.Equal(ClaimState_Approved, got.State)
}

func TestPendingClaim_Missing(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	_, err := GetPendingClaim(ctx, mu, 9, codec.Address{0x0B})
	require.ErrorIs(err, ErrClaimNotFound)
}
