package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/stretchr/testify/require"

	"github.com/hyperpredict/predictvm/storage"
)

func TestSubmitClaim_Execute_Success(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	mr := &MockRules{GetTimeFunc: func() int64 { return 400 }}

	admin := codec.Address{0x01}
	alice := codec.Address{0x02}
	bob := codec.Address{0x03}
	setupResolvedMarket(t, ctx, mu, admin, alice, bob, storage.Result_True)

	action := &SubmitClaim{PredictionID: 1}
	output, err := action.Execute(ctx, mr, mu, mr.GetTime(), alice, ids.Empty)
	require.NoError(err)
	require.NotEmpty(output)

	claim, err := storage.GetPendingClaim(ctx, mu, 1, alice)
	require.NoError(err)
	require.Equal(storage.ClaimState_Pending, claim.State)
	require.Equal(uint64(1000), claim.Amount)
	require.Equal(alice, claim.User)
}

func TestSubmitClaim_Execute_NotResolved(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	mr := &MockRules{GetTimeFunc: func() int64 { return 100 }}

	staker := codec.Address{0x01}
	setupActivePrediction(t, ctx, mu, 1, 200)
	require.NoError(storage.SetBalance(ctx, mu, staker, 1000))

	stake := &Stake{PredictionID: 1, Side: true, Amount: 1000}
	_, err := stake.Execute(ctx, mr, mu, mr.GetTime(), staker, ids.Empty)
	require.NoError(err)

	action := &SubmitClaim{PredictionID: 1}
	_, err = action.Execute(ctx, mr, mu, mr.GetTime(), staker, ids.Empty)
	require.ErrorIs(err, ErrPredictionNotResolved)
}

func TestSubmitClaim_Execute_LoserRejected(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	mr := &MockRules{GetTimeFunc: func() int64 { return 400 }}

	admin := codec.Address{0x01}
	alice := codec.Address{0x02}
	bob := codec.Address{0x03}
	setupResolvedMarket(t, ctx, mu, admin, alice, bob, storage.Result_True)

	action := &SubmitClaim{PredictionID: 1}
	_, err := action.Execute(ctx, mr, mu, mr.GetTime(), bob, ids.Empty)
	require.ErrorIs(err, ErrUserNotWinner)

	_, err = storage.GetPendingClaim(ctx, mu, 1, bob)
	require.ErrorIs(err, storage.ErrClaimNotFound)
}

func TestSubmitClaim_Execute_Duplicate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	mr := &MockRules{GetTimeFunc: func() int64 { return 400 }}

	admin := codec.Address{0x01}
	alice := codec.Address{0x02}
	bob := codec.Address{0x03}
	setupResolvedMarket(t, ctx, mu, admin, alice, bob, storage.Result_True)

	action := &SubmitClaim{PredictionID: 1}
	_, err := action.Execute(ctx, mr, mu, mr.GetTime(), alice, ids.Empty)
	require.NoError(err)

	_, err = action.Execute(ctx, mr, mu, mr.GetTime(), alice, ids.Empty)
	require.ErrorIs(err, ErrClaimAlreadySubmitted)
}

func TestSubmitClaim_Execute_AfterClaimRejected(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	mr := &MockRules{GetTimeFunc: func() int64 { return 400 }}

	admin := codec.Address{0x01}
	alice := codec.Address{0x02}
	bob := codec.Address{0x03}
	setupResolvedMarket(t, ctx, mu, admin, alice, bob, storage.Result_True)

	claim := &Claim{PredictionID: 1}
	_, err := claim.Execute(ctx, mr, mu, mr.GetTime(), alice, ids.Empty)
	require.NoError(err)

	// The direct claim already paid out; the batch path must refuse.
	action := &SubmitClaim{PredictionID: 1}
	_, err = action.Execute(ctx, mr, mu, mr.GetTime(), alice, ids.Empty)
	require.ErrorIs(err, ErrRewardAlreadyClaimed)
}

func TestSubmitClaim_BytesRoundTrip(t *testing.T) {
	require := require.New(t)

	action := &SubmitClaim{PredictionID: 7}
	got, err := UnmarshalSubmitClaim(action.Bytes())
	require.NoError(err)
	require.Equal(action, got)

	_, err = UnmarshalSubmitClaim(nil)
	require.ErrorIs(err, ErrUnmarshalEmptySubmitClaim)
}
