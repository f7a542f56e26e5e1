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
	"github.com/hyperpredict/predictvm/settlement"
	"github.com/hyperpredict/predictvm/storage"
)

const (
	// MaxSubmitClaimSize bounds the marshaled action:
	// TypeID (1) + PredictionID (8), rounded up.
	MaxSubmitClaimSize = 16
)

var (
	ErrUnmarshalEmptySubmitClaim = errors.New("cannot unmarshal empty bytes as SubmitClaim action")

	_ chain.Action = (*SubmitClaim)(nil)
)

// SubmitClaim registers a winner's claim for later admin approval (the
// batch settlement variant). Claims are keyed by (prediction, user), so
// any number of claims may be pending at once.
type SubmitClaim struct {
	PredictionID uint64 `serialize:"true" json:"predictionId"`
}

// GetTypeID implements chain.Action.
func (*SubmitClaim) GetTypeID() uint8 {
	return consts.SubmitClaimID
}

// StateKeys implements chain.Action.
func (s *SubmitClaim) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.PredictionKey(s.PredictionID)):   state.Read,
		string(storage.StakeKey(s.PredictionID, actor)): state.Read,
		string(storage.ClaimKey(s.PredictionID, actor)): state.Write,
	}
}

// Execute implements chain.Action.
func (s *SubmitClaim) Execute(
	ctx context.Context,
	rules chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	actionID ids.ID,
) ([]byte, error) {
	prediction, err := storage.GetPrediction(ctx, mu, s.PredictionID)
	if err != nil {
		return nil, err
	}
	if prediction.State != storage.PredictionState_Resolved {
		return nil, fmt.Errorf("%w: prediction %d", ErrPredictionNotResolved, s.PredictionID)
	}
	if prediction.Result == storage.Result_Undefined {
		return nil, ErrInvalidResult
	}

	entry, err := storage.GetStakeEntry(ctx, mu, s.PredictionID, actor)
	if err != nil {
		return nil, err
	}
	if !settlement.IsWinner(prediction.Result, entry.Side) {
		return nil, fmt.Errorf("%w: prediction %d resolved %s, user staked %s",
			ErrUserNotWinner, s.PredictionID, prediction.Result, sideString(entry.Side))
	}
	if entry.RewardClaimed {
		return nil, fmt.Errorf("%w: prediction %d, user %s", ErrRewardAlreadyClaimed, s.PredictionID, actor)
	}

	if _, err := storage.GetPendingClaim(ctx, mu, s.PredictionID, actor); err == nil {
		return nil, fmt.Errorf("%w: prediction %d, user %s", ErrClaimAlreadySubmitted, s.PredictionID, actor)
	} else if !errors.Is(err, storage.ErrClaimNotFound) {
		return nil, err
	}

	claim := &storage.PendingClaim{
		User:         actor,
		PredictionID: s.PredictionID,
		Amount:       entry.Amount,
		State:        storage.ClaimState_Pending,
	}
	if err := storage.SetPendingClaim(ctx, mu, claim); err != nil {
		return nil, fmt.Errorf("failed to write pending claim for prediction %d, user %s: %w", s.PredictionID, actor, err)
	}

	result := &SubmitClaimResult{
		PredictionID: s.PredictionID,
		User:         actor,
		Amount:       entry.Amount,
	}
	packer := codec.NewWriter(MaxSubmitClaimResultSize, MaxSubmitClaimResultSize)
	packer.PackByte(result.GetTypeID())
	if err := result.MarshalCodec(packer); err != nil {
		return nil, fmt.Errorf("failed to marshal SubmitClaimResult: %w", err)
	}
	return packer.Bytes(), nil
}

// ComputeUnits implements chain.Action.
func (*SubmitClaim) ComputeUnits(chain.Rules) uint64 {
	return SubmitClaimComputeUnits
}

// ValidRange implements chain.Action.
func (*SubmitClaim) ValidRange(chain.Rules) (start int64, end int64) {
	return -1, -1 // Always valid
}

// Bytes serializes the SubmitClaim action.
func (s *SubmitClaim) Bytes() []byte {
	p := &wrappers.Packer{
		Bytes:   make([]byte, 0, MaxSubmitClaimSize),
		MaxSize: MaxSubmitClaimSize,
	}
	p.PackByte(consts.SubmitClaimID)
	if err := codec.LinearCodec.MarshalInto(s, p); err != nil {
		panic(fmt.Errorf("failed to marshal SubmitClaim action: %w", err))
	}
	return p.Bytes
}

// UnmarshalSubmitClaim deserializes bytes into a SubmitClaim action,
// suitable for registration with codec.TypeParser.
func UnmarshalSubmitClaim(bytes []byte) (chain.Action, error) {
	if len(bytes) == 0 {
		return nil, ErrUnmarshalEmptySubmitClaim
	}
	if bytes[0] != consts.SubmitClaimID {
		return nil, fmt.Errorf("unexpected SubmitClaim typeID: %d != %d", bytes[0], consts.SubmitClaimID)
	}
	t := &SubmitClaim{}
	if err := codec.LinearCodec.UnmarshalFrom(
		&wrappers.Packer{Bytes: bytes[1:]},
		t,
	); err != nil {
		return nil, fmt.Errorf("failed to unmarshal SubmitClaim action: %w", err)
	}
	return t, nil
}
