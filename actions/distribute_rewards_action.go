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
	// MaxDistributeRewardsSize bounds the marshaled action:
	// TypeID (1) + PredictionID (8), rounded up.
	MaxDistributeRewardsSize = 16
)

var (
	ErrUnmarshalEmptyDistributeRewards = errors.New("cannot unmarshal empty bytes as DistributeRewards action")

	_ chain.Action = (*DistributeRewards)(nil)
)

// DistributeRewards is the admin settlement step of the
// pool-distribution variant: it computes the reward rate for a resolved
// prediction, sweeps the market fee, and stores the rate so later
// claims only convert their stake amount. Runs at most once per
// prediction.
type DistributeRewards struct {
	PredictionID uint64 `serialize:"true" json:"predictionId"`
}

// GetTypeID implements chain.Action.
func (*DistributeRewards) GetTypeID() uint8 {
	return consts.DistributeRewardsID
}

// StateKeys implements chain.Action.
func (d *DistributeRewards) StateKeys(codec.Address, ids.ID) state.Keys {
	return state.Keys{
		string(storage.RegistryKey()):                 state.Read,
		string(storage.PredictionKey(d.PredictionID)): state.Write, // Rate + distributed flag
		string(escrow.EscrowKey(d.PredictionID)):      state.Write, // Debited by the fee sweep
		string(escrow.TreasuryKey()):                  state.Write, // Credited by the fee sweep
	}
}

// Execute implements chain.Action.
func (d *DistributeRewards) Execute(
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

	prediction, err := storage.GetPrediction(ctx, mu, d.PredictionID)
	if err != nil {
		return nil, err
	}
	if prediction.State != storage.PredictionState_Resolved {
		return nil, fmt.Errorf("%w: prediction %d", ErrPredictionNotResolved, d.PredictionID)
	}
	if prediction.RewardsDistributed {
		return nil, fmt.Errorf("%w: prediction %d", ErrRewardsAlreadyDistributed, d.PredictionID)
	}

	totalAmount := prediction.TotalAmount
	split, err := settlePrediction(ctx, mu, prediction)
	if err != nil {
		return nil, err
	}

	result := &DistributeRewardsResult{
		PredictionID: d.PredictionID,
		TotalPool:    totalAmount,
		Fee:          split.Fee,
		Pool:         split.Pool,
		Rate:         split.Rate,
	}
	packer := codec.NewWriter(MaxDistributeRewardsResultSize, MaxDistributeRewardsResultSize)
	packer.PackByte(result.GetTypeID())
	if err := result.MarshalCodec(packer); err != nil {
		return nil, fmt.Errorf("failed to marshal DistributeRewardsResult: %w", err)
	}
	return packer.Bytes(), nil
}

// ComputeUnits implements chain.Action.
func (*DistributeRewards) ComputeUnits(chain.Rules) uint64 {
	return DistributeRewardsComputeUnits
}

// ValidRange implements chain.Action.
func (*DistributeRewards) ValidRange(chain.Rules) (start int64, end int64) {
	return -1, -1 // Always valid
}

// Bytes serializes the DistributeRewards action.
func (d *DistributeRewards) Bytes() []byte {
	p := &wrappers.Packer{
		Bytes:   make([]byte, 0, MaxDistributeRewardsSize),
		MaxSize: MaxDistributeRewardsSize,
	}
	p.PackByte(consts.DistributeRewardsID)
	if err := codec.LinearCodec.MarshalInto(d, p); err != nil {
		panic(fmt.Errorf("failed to marshal DistributeRewards action: %w", err))
	}
	return p.Bytes
}

// UnmarshalDistributeRewards deserializes bytes into a DistributeRewards
// action, suitable for registration with codec.TypeParser.
func UnmarshalDistributeRewards(bytes []byte) (chain.Action, error) {
	if len(bytes) == 0 {
		return nil, ErrUnmarshalEmptyDistributeRewards
	}
	if bytes[0] != consts.DistributeRewardsID {
		return nil, fmt.Errorf("unexpected DistributeRewards typeID: %d != %d", bytes[0], consts.DistributeRewardsID)
	}
	t := &DistributeRewards{}
	if err := codec.LinearCodec.UnmarshalFrom(
		&wrappers.Packer{Bytes: bytes[1:]},
		t,
	); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DistributeRewards action: %w", err)
	}
	return t, nil
}
