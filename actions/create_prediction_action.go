package actions

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/hyperpredict/predictvm/consts"
	"github.com/hyperpredict/predictvm/storage"
)

const (
	// MaxCreatePredictionSize bounds the marshaled action (description +
	// tags dominate).
	MaxCreatePredictionSize = 1024
)

var (
	ErrUnmarshalEmptyCreatePrediction = errors.New("cannot unmarshal empty bytes as CreatePrediction action")

	_ chain.Action = (*CreatePrediction)(nil)
)

// CreatePrediction opens a new proposition for staking. Only the
// registry admin may create predictions.
type CreatePrediction struct {
	Description    string   `serialize:"true" json:"description"`
	Duration       int64    `serialize:"true" json:"duration"` // Seconds from now until staking closes
	Tags           []string `serialize:"true" json:"tags"`
	PredictionType uint8    `serialize:"true" json:"predictionType"`
	OptionsCount   uint8    `serialize:"true" json:"optionsCount"`
}

// GetTypeID implements chain.Action.
func (*CreatePrediction) GetTypeID() uint8 {
	return consts.CreatePredictionID
}

// StateKeys implements chain.Action. The prediction key is not known
// until the registry counter is read in Execute, so the prediction
// prefix is declared instead of an exact key.
func (cp *CreatePrediction) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.RegistryKey()):            state.Write, // Counter increment
		string([]byte{storage.PredictionPrefix}): state.Write,
	}
}

// Execute implements chain.Action.
func (cp *CreatePrediction) Execute(
	ctx context.Context,
	rules chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	actionID ids.ID,
) ([]byte, error) {
	if len(cp.Description) == 0 {
		return nil, ErrDescriptionEmpty
	}
	if len(cp.Description) > consts.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	if len(cp.Tags) > consts.MaxTags {
		return nil, ErrTooManyTags
	}
	for _, tag := range cp.Tags {
		if len(tag) > consts.MaxTagLength {
			return nil, ErrTagTooLong
		}
	}
	if cp.Duration <= 0 {
		return nil, ErrInvalidDuration
	}

	reg, err := storage.GetRegistry(ctx, mu)
	if err != nil {
		return nil, err
	}
	if actor != reg.Admin {
		return nil, fmt.Errorf("%w: %s is not the market admin", ErrNotAuthorized, actor)
	}

	if cp.Duration > math.MaxInt64-timestamp {
		return nil, storage.ErrOverflow
	}
	endTime := timestamp + cp.Duration

	predictionID, err := storage.AllocatePredictionID(ctx, mu)
	if err != nil {
		return nil, err
	}

	prediction := &storage.Prediction{
		ID:             predictionID,
		State:          storage.PredictionState_Active,
		Description:    cp.Description,
		Tags:           cp.Tags,
		PredictionType: cp.PredictionType,
		OptionsCount:   cp.OptionsCount,
		StartTime:      timestamp,
		EndTime:        endTime,
		Result:         storage.Result_Undefined,
	}
	if err := storage.SetPrediction(ctx, mu, prediction); err != nil {
		return nil, fmt.Errorf("failed to set new prediction %d: %w", predictionID, err)
	}

	result := &CreatePredictionResult{
		PredictionID: predictionID,
		Creator:      actor,
		Description:  cp.Description,
	}
	packer := codec.NewWriter(128, MaxCreatePredictionSize)
	packer.PackByte(result.GetTypeID())
	if err := result.MarshalCodec(packer); err != nil {
		return nil, fmt.Errorf("failed to marshal CreatePredictionResult: %w", err)
	}
	return packer.Bytes(), nil
}

// ComputeUnits implements chain.Action.
func (*CreatePrediction) ComputeUnits(chain.Rules) uint64 {
	return CreatePredictionComputeUnits
}

// ValidRange implements chain.Action.
func (*CreatePrediction) ValidRange(chain.Rules) (start int64, end int64) {
	return -1, -1 // Always valid
}

// Bytes serializes the CreatePrediction action.
func (cp *CreatePrediction) Bytes() []byte {
	p := &wrappers.Packer{
		Bytes:   make([]byte, 0, MaxCreatePredictionSize),
		MaxSize: MaxCreatePredictionSize,
	}
	p.PackByte(consts.CreatePredictionID)
	if err := codec.LinearCodec.MarshalInto(cp, p); err != nil {
		panic(fmt.Errorf("failed to marshal CreatePrediction action: %w", err))
	}
	return p.Bytes
}

// UnmarshalCreatePrediction deserializes bytes into a CreatePrediction
// action, suitable for registration with codec.TypeParser.
func UnmarshalCreatePrediction(bytes []byte) (chain.Action, error) {
	if len(bytes) == 0 {
		return nil, ErrUnmarshalEmptyCreatePrediction
	}
	if bytes[0] != consts.CreatePredictionID {
		return nil, fmt.Errorf("unexpected CreatePrediction typeID: %d != %d", bytes[0], consts.CreatePredictionID)
	}
	t := &CreatePrediction{}
	if err := codec.LinearCodec.UnmarshalFrom(
		&wrappers.Packer{Bytes: bytes[1:]},
		t,
	); err != nil {
		return nil, fmt.Errorf("failed to unmarshal CreatePrediction action: %w", err)
	}
	return t, nil
}
