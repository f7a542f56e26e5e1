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
	"github.com/hyperpredict/predictvm/storage"
)

const (
	// MaxResolveSize bounds the marshaled action:
	// TypeID (1) + PredictionID (8) + Result (1), rounded up.
	MaxResolveSize = 16
)

var (
	ErrUnmarshalEmptyResolve = errors.New("cannot unmarshal empty bytes as Resolve action")

	_ chain.Action = (*Resolve)(nil)
)

// Resolve declares the final outcome of a prediction. Admin only; a
// one-way transition guarded against repetition. No time-boundary check
// is enforced: the admin may resolve before or after the end time.
type Resolve struct {
	PredictionID uint64                   `serialize:"true" json:"predictionId"`
	Result       storage.PredictionResult `serialize:"true" json:"result"`
}

// GetTypeID implements chain.Action.
func (*Resolve) GetTypeID() uint8 {
	return consts.ResolveID
}

// StateKeys implements chain.Action.
func (r *Resolve) StateKeys(codec.Address, ids.ID) state.Keys {
	return state.Keys{
		string(storage.RegistryKey()):                 state.Read,
		string(storage.PredictionKey(r.PredictionID)): state.Write,
	}
}

// Execute implements chain.Action.
func (r *Resolve) Execute(
	ctx context.Context,
	rules chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	actionID ids.ID,
) ([]byte, error) {
	if r.Result != storage.Result_True && r.Result != storage.Result_False {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResult, r.Result)
	}

	reg, err := storage.GetRegistry(ctx, mu)
	if err != nil {
		return nil, err
	}
	if actor != reg.Admin {
		return nil, fmt.Errorf("%w: %s is not the market admin", ErrNotAuthorized, actor)
	}

	prediction, err := storage.GetPrediction(ctx, mu, r.PredictionID)
	if err != nil {
		return nil, err
	}
	if prediction.State == storage.PredictionState_Resolved {
		return nil, fmt.Errorf("%w: prediction %d", ErrPredictionAlreadyResolved, r.PredictionID)
	}

	prediction.Result = r.Result
	prediction.State = storage.PredictionState_Resolved
	if err := storage.SetPrediction(ctx, mu, prediction); err != nil {
		return nil, fmt.Errorf("failed to save resolved prediction %d: %w", r.PredictionID, err)
	}

	result := &ResolveResult{
		PredictionID: r.PredictionID,
		Result:       r.Result,
	}
	packer := codec.NewWriter(MaxResolveResultSize, MaxResolveResultSize)
	packer.PackByte(result.GetTypeID())
	if err := result.MarshalCodec(packer); err != nil {
		return nil, fmt.Errorf("failed to marshal ResolveResult: %w", err)
	}
	return packer.Bytes(), nil
}

// ComputeUnits implements chain.Action.
func (*Resolve) ComputeUnits(chain.Rules) uint64 {
	return ResolveComputeUnits
}

// ValidRange implements chain.Action.
func (*Resolve) ValidRange(chain.Rules) (start int64, end int64) {
	return -1, -1 // Resolution is permitted before or after the end time
}

// Bytes serializes the Resolve action.
func (r *Resolve) Bytes() []byte {
	p := &wrappers.Packer{
		Bytes:   make([]byte, 0, MaxResolveSize),
		MaxSize: MaxResolveSize,
	}
	p.PackByte(consts.ResolveID)
	if err := codec.LinearCodec.MarshalInto(r, p); err != nil {
		panic(fmt.Errorf("failed to marshal Resolve action: %w", err))
	}
	return p.Bytes
}

// UnmarshalResolve deserializes bytes into a Resolve action, suitable
// for registration with codec.TypeParser.
func UnmarshalResolve(bytes []byte) (chain.Action, error) {
	if len(bytes) == 0 {
		return nil, ErrUnmarshalEmptyResolve
	}
	if bytes[0] != consts.ResolveID {
		return nil, fmt.Errorf("unexpected Resolve typeID: %d != %d", bytes[0], consts.ResolveID)
	}
	t := &Resolve{}
	if err := codec.LinearCodec.UnmarshalFrom(
		&wrappers.Packer{Bytes: bytes[1:]},
		t,
	); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Resolve action: %w", err)
	}
	return t, nil
}
