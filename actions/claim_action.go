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
	// MaxClaimSize bounds the marshaled action:
	// TypeID (1) + PredictionID (8), rounded up.
	MaxClaimSize = 16
)

var (
	ErrUnmarshalEmptyClaim = errors.New("cannot unmarshal empty bytes as Claim action")

	_ chain.Action = (*Claim)(nil)
)

// Claim pays the actor their pro-rata share of the reward pool for a
// resolved prediction. The first claim against a prediction computes
// and caches the reward rate and sweeps the market fee; later claims
// reuse the cached rate. Each stake entry pays out at most once.
type Claim struct {
	PredictionID uint64 `serialize:"true" json:"predictionId"`
}

// GetTypeID implements chain.Action.
func (*Claim) GetTypeID() uint8 {
	return consts.ClaimID
}

// StateKeys implements chain.Action.
func (c *Claim) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.PredictionKey(c.PredictionID)):   state.Write, // Rate cached on first claim
		string(storage.StakeKey(c.PredictionID, actor)): state.Write, // Claimed flag
		string(storage.BalanceKey(actor)):               state.Write, // Credited by the payout
		string(escrow.EscrowKey(c.PredictionID)):        state.Write, // Debited by payout and fee sweep
		string(escrow.TreasuryKey()):                    state.Write, // Credited by the fee sweep
	}
}

// settlePrediction computes the reward rate for a resolved prediction,
// sweeps the fee to the treasury, and stores the rate atomically with
// the distributed flag. It must be called at most once per prediction;
// callers guard on RewardsDistributed.
func settlePrediction(ctx context.Context, mu state.Mutable, prediction *storage.Prediction) (settlement.Split, error) {
	split, err := settlement.SplitFor(prediction)
	if err != nil {
		return settlement.Split{}, err
	}
	if err := escrow.SweepFee(ctx, mu, prediction.ID, split.Fee); err != nil {
		return settlement.Split{}, err
	}
	prediction.RewardRate = split.Rate
	prediction.RewardsDistributed = true
	if err := storage.SetPrediction(ctx, mu, prediction); err != nil {
		return settlement.Split{}, fmt.Errorf("failed to save settled prediction %d: %w", prediction.ID, err)
	}
	return split, nil
}

// Execute implements chain.Action.
func (c *Claim) Execute(
	ctx context.Context,
	rules chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	actionID ids.ID,
) ([]byte, error) {
	prediction, err := storage.GetPrediction(ctx, mu, c.PredictionID)
	if err != nil {
		return nil, err
	}
	if prediction.State != storage.PredictionState_Resolved {
		return nil, fmt.Errorf("%w: prediction %d", ErrPredictionNotResolved, c.PredictionID)
	}
	// Unreachable given Resolve's guard, but checked before any payout
	// math relies on the result.
	if prediction.Result == storage.Result_Undefined {
		return nil, ErrInvalidResult
	}

	entry, err := storage.GetStakeEntry(ctx, mu, c.PredictionID, actor)
	if err != nil {
		return nil, err
	}
	if !settlement.IsWinner(prediction.Result, entry.Side) {
		return nil, fmt.Errorf("%w: prediction %d resolved %s, user staked %s",
			ErrUserNotWinner, c.PredictionID, prediction.Result, sideString(entry.Side))
	}
	if entry.RewardClaimed {
		return nil, fmt.Errorf("%w: prediction %d, user %s", ErrRewardAlreadyClaimed, c.PredictionID, actor)
	}

	if !prediction.RewardsDistributed {
		if _, err := settlePrediction(ctx, mu, prediction); err != nil {
			return nil, err
		}
	}

	reward, err := settlement.Payout(entry.Amount, prediction.RewardRate)
	if err != nil {
		return nil, err
	}
	// A stake small enough that the floored reward is zero has nothing
	// to move out of escrow, but the entry is still marked claimed so
	// the claim can complete.
	if reward > 0 {
		if err := escrow.Payout(ctx, mu, c.PredictionID, actor, reward); err != nil {
			return nil, err
		}
	}

	entry.RewardClaimed = true
	if err := storage.SetStakeEntry(ctx, mu, entry); err != nil {
		return nil, fmt.Errorf("failed to mark stake entry claimed for prediction %d, user %s: %w", c.PredictionID, actor, err)
	}

	result := &ClaimResult{
		PredictionID: c.PredictionID,
		User:         actor,
		Amount:       reward,
	}
	packer := codec.NewWriter(MaxClaimResultSize, MaxClaimResultSize)
	packer.PackByte(result.GetTypeID())
	if err := result.MarshalCodec(packer); err != nil {
		return nil, fmt.Errorf("failed to marshal ClaimResult: %w", err)
	}
	return packer.Bytes(), nil
}

// ComputeUnits implements chain.Action.
func (*Claim) ComputeUnits(chain.Rules) uint64 {
	return ClaimComputeUnits
}

// ValidRange implements chain.Action.
func (*Claim) ValidRange(chain.Rules) (start int64, end int64) {
	return -1, -1 // Always valid
}

// Bytes serializes the Claim action.
func (c *Claim) Bytes() []byte {
	p := &wrappers.Packer{
		Bytes:   make([]byte, 0, MaxClaimSize),
		MaxSize: MaxClaimSize,
	}
	p.PackByte(consts.ClaimID)
	if err := codec.LinearCodec.MarshalInto(c, p); err != nil {
		panic(fmt.Errorf("failed to marshal Claim action: %w", err))
	}
	return p.Bytes
}

// UnmarshalClaim deserializes bytes into a Claim action, suitable for
// registration with codec.TypeParser.
func UnmarshalClaim(bytes []byte) (chain.Action, error) {
	if len(bytes) == 0 {
		return nil, ErrUnmarshalEmptyClaim
	}
	if bytes[0] != consts.ClaimID {
		return nil, fmt.Errorf("unexpected Claim typeID: %d != %d", bytes[0], consts.ClaimID)
	}
	t := &Claim{}
	if err := codec.LinearCodec.UnmarshalFrom(
		&wrappers.Packer{Bytes: bytes[1:]},
		t,
	); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Claim action: %w", err)
	}
	return t, nil
}

func sideString(side bool) string {
	if side {
		return "YES"
	}
	return "NO"
}
