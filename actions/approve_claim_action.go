package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/hyperpredict/predictvm/consts"
	"github.com/hyperpredict/predictvm/escrow"
	"github.com/hyperpredict/predictvm/settlement"
	"github.com/hyperpredict/predictvm/storage"
)

const (
	// MaxApproveClaimSize bounds the marshaled action:
	// TypeID (1) + PredictionID (8) + User (33), rounded up.
	MaxApproveClaimSize = 64
)

var (
	ErrUnmarshalEmptyApproveClaim = errors.New("cannot unmarshal empty bytes as ApproveClaim action")

	_ chain.Action = (*ApproveClaim)(nil)
)

// ApproveClaim pays a pending claim at the prediction's stored reward
// rate (the batch settlement variant). Admin only, and the rewards must
// already have been distributed so every approval uses the one
// canonical rate.
type ApproveClaim struct {
	PredictionID uint64        `serialize:"true" json:"predictionId"`
	User         codec.Address `serialize:"true" json:"user"`
}

// GetTypeID implements chain.Action.
func (*ApproveClaim) GetTypeID() uint8 {
	return consts.ApproveClaimID
}

// StateKeys implements chain.Action.
func (a *ApproveClaim) StateKeys(codec.Address, ids.ID) state.Keys {
	return state.Keys{
		string(storage.RegistryKey()):                    state.Read,
		string(storage.PredictionKey(a.PredictionID)):    state.Read,
		string(storage.StakeKey(a.PredictionID, a.User)): state.Write, // Claimed flag
		string(storage.ClaimKey(a.PredictionID, a.User)): state.Write, // Pending -> Approved
		string(storage.BalanceKey(a.User)):               state.Write, // Credited by the payout
		string(escrow.EscrowKey(a.PredictionID)):         state.Write, // Debited by the payout
	}
}

// Execute implements chain.Action.
func (a *ApproveClaim) Execute(
	ctx context.Context,
	rules chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	actionID ids.ID,
) ([]byte, error) {
	reg, err := storage.GetRegistry(ctx, mu)
	if err != nil {
		return nil, err
	}
	if actor != reg.Admin {
		return nil, fmt.Errorf("%w: %s is not the market admin", ErrNotAuthorized, actor)
	}

	prediction, err := storage.GetPrediction(ctx, mu, a.PredictionID)
	if err != nil {
		return nil, err
	}
	if prediction.State != storage.PredictionState_Resolved {
		return nil, fmt.Errorf("%w: prediction %d", ErrPredictionNotResolved, a.PredictionID)
	}
	if !prediction.RewardsDistributed {
		return nil, fmt.Errorf("%w: prediction %d", ErrRewardsNotDistributed, a.PredictionID)
	}

	claim, err := storage.GetPendingClaim(ctx, mu, a.PredictionID, a.User)
	if err != nil {
		return nil, err
	}
	if claim.State != storage.ClaimState_Pending {
		return nil, fmt.Errorf("%w: prediction %d, user %s is %s", ErrClaimNotPending, a.PredictionID, a.User, claim.State)
	}

	entry, err := storage.GetStakeEntry(ctx, mu, a.PredictionID, a.User)
	if err != nil {
		return nil, err
	}
	if entry.RewardClaimed {
		return nil, fmt.Errorf("%w: prediction %d, user %s", ErrRewardAlreadyClaimed, a.PredictionID, a.User)
	}

	reward, err := settlement.Payout(claim.Amount, prediction.RewardRate)
	if err != nil {
		return nil, err
	}
	// Same zero-reward handling as Claim: nothing to move out of
	// escrow, but the claim still completes.
	if reward > 0 {
		if err := escrow.Payout(ctx, mu, a.PredictionID, a.User, reward); err != nil {
			return nil, err
		}
	}

	claim.State = storage.ClaimState_Approved
	if err := storage.SetPendingClaim(ctx, mu, claim); err != nil {
		return nil, fmt.Errorf("failed to mark claim approved for prediction %d, user %s: %w", a.PredictionID, a.User, err)
	}
	entry.RewardClaimed = true
	if err := storage.SetStakeEntry(ctx, mu, entry); err != nil {
		return nil, fmt.Errorf("failed to mark stake entry claimed for prediction %d, user %s: %w", a.PredictionID, a.User, err)
	}

	result := &ApproveClaimResult{
		PredictionID: a.PredictionID,
		User:         a.User,
		Amount:       reward,
	}
	packer := codec.NewWriter(MaxClaimResultSize, MaxClaimResultSize)
	packer.PackByte(result.GetTypeID())
	if err := result.MarshalCodec(packer); err != nil {
		return nil, fmt.Errorf("failed to marshal ApproveClaimResult: %w", err)
	}
	return packer.Bytes(), nil
}

// ComputeUnits implements chain.Action.
func (*ApproveClaim) ComputeUnits(chain.Rules) uint64 {
	return ApproveClaimComputeUnits
}

// ValidRange implements chain.Action.
func (*ApproveClaim) ValidRange(chain.Rules) (start int64, end int64) {
	return -1, -1 // Always valid
}

// Bytes serializes the ApproveClaim action.
func (a *ApproveClaim) Bytes() []byte {
	p := &wrappers.Packer{
		Bytes:   make([]byte, 0, MaxApproveClaimSize),
		MaxSize: MaxApproveClaimSize,
	}
	p.PackByte(consts.ApproveClaimID)
	if err := codec.LinearCodec.MarshalInto(a, p); err != nil {
		panic(fmt.Errorf("failed to marshal ApproveClaim action: %w", err))
	}
	return p.Bytes
}

// UnmarshalApproveClaim deserializes bytes into an ApproveClaim action,
// suitable for registration with codec.TypeParser.
func UnmarshalApproveClaim(bytes []byte) (chain.Action, error) {
	if len(bytes) == 0 {
		return nil, ErrUnmarshalEmptyApproveClaim
	}
	if bytes[0] != consts.ApproveClaimID {
		return nil, fmt.Errorf("unexpected ApproveClaim typeID: %d != %d", bytes[0], consts.ApproveClaimID)
	}
	t := &ApproveClaim{}
	if err := codec.LinearCodec.UnmarshalFrom(
		&wrappers.Packer{Bytes: bytes[1:]},
		t,
	); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ApproveClaim action: %w", err)
	}
	return t, nil
}
