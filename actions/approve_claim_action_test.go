package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/stretchr/testify/require"

	"github.com/hyperpredict/predictvm/escrow"
	"github.com/hyperpredict/predictvm/storage"
)

func TestApproveClaim_Execute_FullFlow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	mr := &MockRules{GetTimeFunc: func() int64 { return 400 }}

	admin := codec.Address{0x01}
	alice := codec.Address{0x02}
	bob := codec.Address{0x03}
	setupResolvedMarket(t, ctx, mu, admin, alice, bob, storage.Result_True)

	submit := &SubmitClaim{PredictionID: 1}
	_, err := submit.Execute(ctx, mr, mu, mr.GetTime(), alice, ids.Empty)
	require.NoError(err)

	distribute := &DistributeRewards{PredictionID: 1}
	_, err = distribute.Execute(ctx, mr, mu, mr.GetTime(), admin, ids.Empty)
	require.NoError(err)

	approve := &ApproveClaim{PredictionID: 1, User: alice}
	output, err := approve.Execute(ctx, mr, mu, mr.GetTime(), admin, ids.Empty)
	require.NoError(err)
	require.NotEmpty(output)

	result := &ApproveClaimResult{}
	reader := codec.NewReader(output[1:], MaxClaimResultSize)
	require.NoError(result.UnmarshalCodec(reader))
	require.Equal(uint64(3800), result.Amount)
	require.Equal(alice, result.User)

	balance, err := storage.GetBalance(ctx, mu, alice)
	require.NoError(err)
	require.Equal(uint64(3800), balance)

	claim, err := storage.GetPendingClaim(ctx, mu, 1, alice)
	require.NoError(err)
	require.Equal(storage.ClaimState_Approved, claim.State)

	entry, err := storage.GetStakeEntry(ctx, mu, 1, alice)
	require.NoError(err)
	require.True(entry.RewardClaimed)

	escrowed, err := escrow.GetEscrowBalance(ctx, mu, 1)
	require.NoError(err)
	require.Zero(escrowed)
}

func TestApproveClaim_Execute_ZeroRewardStillApproves(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	mr := &MockRules{GetTimeFunc: func() int64 { return 400 }}
	mrStake := &MockRules{GetTimeFunc: func() int64 { return 100 }}

	admin := codec.Address{0x01}
	alice := codec.Address{0x02}
	bob := codec.Address{0x03}
	carol := codec.Address{0x04}

	// Sub-unit rate (0.9595); alice's 1-unit stake floors to zero but
	// her claim must still reach Approved.
	require.NoError(storage.InitializeRegistry(ctx, mu, admin))
	setupActivePrediction(t, ctx, mu, 1, 200)
	require.NoError(storage.SetBalance(ctx, mu, alice, 1))
	require.NoError(storage.SetBalance(ctx, mu, bob, 9999))
	require.NoError(storage.SetBalance(ctx, mu, carol, 100))

	for _, s := range []struct {
		who    codec.Address
		side   bool
		amount uint64
	}{
		{alice, true, 1},
		{bob, true, 9999},
		{carol, false, 100},
	} {
		stake := &Stake{PredictionID: 1, Side: s.side, Amount: s.amount}
		_, err := stake.Execute(ctx, mrStake, mu, mrStake.GetTime(), s.who, ids.Empty)
		require.NoError(err)
	}
	resolve := &Resolve{PredictionID: 1, Result: storage.Result_True}
	_, err := resolve.Execute(ctx, mrStake, mu, 300, admin, ids.Empty)
	require.NoError(err)

	submit := &SubmitClaim{PredictionID: 1}
	_, err = submit.Execute(ctx, mr, mu, mr.GetTime(), alice, ids.Empty)
	require.NoError(err)

	distribute := &DistributeRewards{PredictionID: 1}
	_, err = distribute.Execute(ctx, mr, mu, mr.GetTime(), admin, ids.Empty)
	require.NoError(err)

	approve := &ApproveClaim{PredictionID: 1, User: alice}
	output, err := approve.Execute(ctx, mr, mu, mr.GetTime(), admin, ids.Empty)
	require.NoError(err)

	result := &ApproveClaimResult{}
	reader := codec.NewReader(output[1:], MaxClaimResultSize)
	require.NoError(result.UnmarshalCodec(reader))
	require.Zero(result.Amount)

	claim, err := storage.GetPendingClaim(ctx, mu, 1, alice)
	require.NoError(err)
	require.Equal(storage.ClaimState_Approved, claim.State)

	entry, err := storage.GetStakeEntry(ctx, mu, 1, alice)
	require.NoError(err)
	require.True(entry.RewardClaimed)

	balance, err := storage.GetBalance(ctx, mu, alice)
	require.NoError(err)
	require.Zero(balance)
}

func TestApproveClaim_Execute_BeforeDistribution(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	mr := &MockRules{GetTimeFunc: func() int64 { return 400 }}

	admin := codec.Address{0x01}
	alice := codec.Address{0x02}
	bob := codec.Address{0x03}
	setupResolvedMarket(t, ctx, mu, admin, alice, bob, storage.Result_True)

	submit := &SubmitClaim{PredictionID: 1}
	_, err := submit.Execute(ctx, mr, mu, mr.GetTime(), alice, ids.Empty)
	require.NoError(err)

	// Approvals read the stored rate; there is none until the admin
	// distributes.
	approve := &ApproveClaim{PredictionID: 1, User: alice}
	_, err = approve.Execute(ctx, mr, mu, mr.GetTime(), admin, ids.Empty)
	require.ErrorIs(err, ErrRewardsNotDistributed)

	balance, err := storage.GetBalance(ctx, mu, alice)
	require.NoError(err)
	require.Zero(balance)
}

func TestApproveClaim_Execute_NotAdmin(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	mr := &MockRules{GetTimeFunc: func() int64 { return 400 }}

	admin := codec.Address{0x01}
	alice := codec.Address{0x02}
	bob := codec.Address{0x03}
	setupResolvedMarket(t, ctx, mu, admin, alice, bob, storage.Result_True)

	approve := &ApproveClaim{PredictionID: 1, User: alice}
	_, err := approve.Execute(ctx, mr, mu, mr.GetTime(), alice, ids.Empty)
	require.ErrorIs(err, ErrNotAuthorized)
}

func TestApproveClaim_Execute_NoPendingClaim(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	mr := &MockRules{GetTimeFunc: func() int64 { return 400 }}

	admin := codec.Address{0x01}
	alice := codec.Address{0x02}
	bob := codec.Address{0x03}
	setupResolvedMarket(t, ctx, mu, admin, alice, bob, storage.Result_True)

	distribute := &DistributeRewards{PredictionID: 1}
	_, err := distribute.Execute(ctx, mr, mu, mr.GetTime(), admin, ids.Empty)
	require.NoError(err)

	approve := &ApproveClaim{PredictionID: 1, User: alice}
	_, err = approve.Execute(ctx, mr, mu, mr.GetTime(), admin, ids.Empty)
	require.ErrorIs(err, storage.ErrClaimNotFound)
}

func TestApproveClaim_Execute_Twice(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	mr := &MockRules{GetTimeFunc: func() int64 { return 400 }}

	admin := codec.Address{0x01}
	alice := codec.Address{0x02}
	bob := codec.Address{0x03}
	setupResolvedMarket(t, ctx, mu, admin, alice, bob, storage.Result_True)

	submit := &SubmitClaim{PredictionID: 1}
	_, err := submit.Execute(ctx, mr, mu, mr.GetTime(), alice, ids.Empty)
	require.NoError(err)

	distribute := &DistributeRewards{PredictionID: 1}
	_, err = distribute.Execute(ctx, mr, mu, mr.GetTime(), admin, ids.Empty)
	require.NoError(err)

	approve := &ApproveClaim{PredictionID: 1, User: alice}
	_, err = approve.Execute(ctx, mr, mu, mr.GetTime(), admin, ids.Empty)
	require.NoError(err)

	// The claim left Pending on the first approval.
	_, err = approve.Execute(ctx, mr, mu, mr.GetTime(), admin, ids.Empty)
	require.ErrorIs(err, ErrClaimNotPending)

	balance, err := storage.GetBalance(ctx, mu, alice)
	require.NoError(err)
	require.Equal(uint64(3800), balance)
}

func TestApproveClaim_BytesRoundTrip(t *testing.T) {
	require := require.New(t)

	action := &ApproveClaim{PredictionID: 7, User: codec.Address{0x09}}
	got, err := UnmarshalApproveClaim(action.Bytes())
	require.NoError(err)
	require.Equal(action, got)

	_, err = UnmarshalApproveClaim(nil)
	require.ErrorIs(err, ErrUnmarshalEmptyApproveClaim)
}
