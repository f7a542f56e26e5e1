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
	"github.com/hyperpredict/predictvm/storage"
)

const (
	// MaxStakeSize bounds the marshaled action:
	// PredictionID (8) + Side (1) + Amount (8), padded for the type byte.
	MaxStakeSize = 32
)

var (
	ErrUnmarshalEmptyStake = errors.New("cannot unmarshal empty bytes as Stake action")

	_ chain.Action = (*Stake)(nil)
)

// Stake places the actor's single, irrevocable bet on one side of an
// active prediction. The amount moves into the prediction's escrow
// before any tally is touched; a failed transfer aborts the whole
// operation with no tally mutation.
type Stake struct {
	PredictionID uint64 `serialize:"true" json:"predictionId"`
	Side         bool   `serialize:"true" json:"side"` // true = YES
	Amount       uint64 `serialize:"true" json:"amount"`
}

// GetTypeID implements chain.Action.
func (*Stake) GetTypeID() uint8 {
	return consts.StakeID
}

// StateKeys implements chain.Action.
func (s *Stake) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.PredictionKey(s.PredictionID)):   state.Write, // Tally update
		string(storage.StakeKey(s.PredictionID, actor)): state.Write, // New stake entry
		string(storage.BalanceKey(actor)):               state.Write, // Debited by the deposit
		string(escrow.EscrowKey(s.PredictionID)):        state.Write, // Credited by the deposit
	}
}

// Execute implements chain.Action.
func (s *Stake) Execute(
	ctx context.Context,
	rules chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	actionID ids.ID,
) ([]byte, error) {
	if s.Amount == 0 {
		return nil, ErrInvalidAmount
	}

	prediction, err := storage.GetPrediction(ctx, mu, s.PredictionID)
	if err != nil {
		return nil, err
	}
	if prediction.State != storage.PredictionState_Active {
		return nil, fmt.Errorf("%w: prediction %d is %s", ErrPredictionNotActive, s.PredictionID, prediction.State)
	}
	if timestamp >= prediction.EndTime {
		return nil, fmt.Errorf("%w: prediction %d closed at %d (now %d)", ErrPredictionEnded, s.PredictionID, prediction.EndTime, timestamp)
	}

	staked, err := storage.HasStakeEntry(ctx, mu, s.PredictionID, actor)
	if err != nil {
		return nil, err
	}
	if staked {
		return nil, fmt.Errorf("%w: prediction %d, user %s", ErrAlreadyStaked, s.PredictionID, actor)
	}

	// Move the stake into escrow before touching any tally. The deposit
	// is all-or-nothing; if it fails nothing has been written.
	if err := escrow.Deposit(ctx, mu, s.PredictionID, actor, s.Amount); err != nil {
		return nil, err
	}

	if err := prediction.ApplyStake(s.Side, s.Amount); err != nil {
		return nil, err
	}
	if err := storage.SetPrediction(ctx, mu, prediction); err != nil {
		return nil, fmt.Errorf("failed to update tallies for prediction %d: %w", s.PredictionID, err)
	}

	entry := &storage.StakeEntry{
		User:         actor,
		PredictionID: s.PredictionID,
		Side:         s.Side,
		Amount:       s.Amount,
	}
	if err := storage.SetStakeEntry(ctx, mu, entry); err != nil {
		return nil, fmt.Errorf("failed to write stake entry for prediction %d, user %s: %w", s.PredictionID, actor, err)
	}

	result := &StakeResult{
		PredictionID: s.PredictionID,
		User:         actor,
		Side:         s.Side,
		Amount:       s.Amount,
	}
	packer := codec.NewWriter(MaxStakeResultSize, MaxStakeResultSize)
	packer.PackByte(result.GetTypeID())
	if err := result.MarshalCodec(packer); err != nil {
		return nil, fmt.Errorf("failed to marshal StakeResult: %w", err)
	}
	return packer.Bytes(), nil
}

// ComputeUnits implements chain.Action.
func (*Stake) ComputeUnits(chain.Rules) uint64 {
	return StakeComputeUnits
}

// ValidRange implements chain.Action.
func (*Stake) ValidRange(chain.Rules) (start int64, end int64) {
	return -1, -1 // The prediction's EndTime is enforced in Execute
}

// Bytes serializes the Stake action.
func (s *Stake) Bytes() []byte {
	p := &wrappers.Packer{
		Bytes:   make([]byte, 0, MaxStakeSize),
		MaxSize: MaxStakeSize,
	}
	p.PackByte(consts.StakeID)
	if err := codec.LinearCodec.MarshalInto(s, p); err != nil {
		panic(fmt.Errorf("failed to marshal Stake action: %w", err))
	}
	return p.Bytes
}

// UnmarshalStake deserializes bytes into a Stake action, suitable for
// registration with codec.TypeParser.
func UnmarshalStake(bytes []byte) (chain.Action, error) {
	if len(bytes) == 0 {
		return nil, ErrUnmarshalEmptyStake
	}
	if bytes[0] != consts.StakeID {
		return nil, fmt.Errorf("unexpected Stake typeID: %d != %d", bytes[0], consts.StakeID)
	}
	t := &Stake{}
	if err := codec.LinearCodec.UnmarshalFrom(
		&wrappers.Packer{Bytes: bytes[1:]},
		t,
	); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Stake action: %w", err)
	}
	return t, nil
}
