package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	safemath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	pvmConsts "github.com/hyperpredict/predictvm/consts"
)

// PredictionState defines the lifecycle states of a prediction.
type PredictionState uint8

const (
	PredictionState_Active   PredictionState = 0 // Open for staking until EndTime
	PredictionState_Paused   PredictionState = 1 // Reserved; no transition into or out of it exists
	PredictionState_Resolved PredictionState = 2 // Outcome declared, staking closed
)

func (ps PredictionState) String() string {
	switch ps {
	case PredictionState_Active:
		return "Active"
	case PredictionState_Paused:
		return "Paused"
	case PredictionState_Resolved:
		return "Resolved"
	default:
		return fmt.Sprintf("UnknownPredictionState:%d", uint8(ps))
	}
}

// PredictionResult defines the resolved outcome of a prediction.
type PredictionResult uint8

const (
	Result_Undefined PredictionResult = 0 // Not yet resolved
	Result_True      PredictionResult = 1 // Proposition resolved true (YES side wins)
	Result_False     PredictionResult = 2 // Proposition resolved false (NO side wins)
)

func (pr PredictionResult) String() string {
	switch pr {
	case Result_Undefined:
		return "Undefined"
	case Result_True:
		return "True"
	case Result_False:
		return "False"
	default:
		return fmt.Sprintf("UnknownPredictionResult:%d", uint8(pr))
	}
}

var ErrPredictionNotFound = errors.New("prediction not found")

// Prediction is the record for one proposition: lifecycle state, the
// vote/stake tallies, the declared result, and the settlement fields.
// Records are append-only; a prediction is never deleted.
//
// Invariants held by every accepted mutation:
//
//	TotalAmount == YesAmount + NoAmount
//	TotalVotes  == YesVotes + NoVotes
//	Result != Undefined  <=>  State == Resolved
//	RewardRate is written at most once, with RewardsDistributed.
type Prediction struct {
	ID          uint64          `json:"id"`
	State       PredictionState `json:"state"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`

	// PredictionType and OptionsCount are carried for clients but not
	// interpreted by the settlement logic (binary yes/no only).
	PredictionType uint8 `json:"predictionType"`
	OptionsCount   uint8 `json:"optionsCount"`

	StartTime int64 `json:"startTime"`
	EndTime   int64 `json:"endTime"`

	TotalVotes  uint64 `json:"totalVotes"`
	YesVotes    uint64 `json:"yesVotes"`
	NoVotes     uint64 `json:"noVotes"`
	YesAmount   uint64 `json:"yesAmount"`
	NoAmount    uint64 `json:"noAmount"`
	TotalAmount uint64 `json:"totalAmount"`

	Result PredictionResult `json:"result"`

	// RewardRate is the fixed-point payout rate, valid only once
	// RewardsDistributed is true.
	RewardRate         uint64 `json:"rewardRate"`
	RewardsDistributed bool   `json:"rewardsDistributed"`
}

// ApplyStake folds an accepted stake into the tallies. Every increment is
// overflow-checked; on ErrOverflow the prediction is left unmodified.
func (p *Prediction) ApplyStake(side bool, amount uint64) error {
	totalVotes, err := safemath.Add(p.TotalVotes, 1)
	if err != nil {
		return ErrOverflow
	}
	totalAmount, err := safemath.Add(p.TotalAmount, amount)
	if err != nil {
		return ErrOverflow
	}
	if side {
		yesVotes, err := safemath.Add(p.YesVotes, 1)
		if err != nil {
			return ErrOverflow
		}
		yesAmount, err := safemath.Add(p.YesAmount, amount)
		if err != nil {
			return ErrOverflow
		}
		p.YesVotes = yesVotes
		p.YesAmount = yesAmount
	} else {
		noVotes, err := safemath.Add(p.NoVotes, 1)
		if err != nil {
			return ErrOverflow
		}
		noAmount, err := safemath.Add(p.NoAmount, amount)
		if err != nil {
			return ErrOverflow
		}
		p.NoVotes = noVotes
		p.NoAmount = noAmount
	}
	p.TotalVotes = totalVotes
	p.TotalAmount = totalAmount
	return nil
}

// WinningAmount returns the total staked on the winning side for the
// declared result. Valid only once Result != Undefined.
func (p *Prediction) WinningAmount() uint64 {
	if p.Result == Result_True {
		return p.YesAmount
	}
	return p.NoAmount
}

// MarshalCodec serializes the Prediction into a Packer.
func (p *Prediction) MarshalCodec(pk *codec.Packer) error {
	pk.PackUint64(p.ID)
	pk.PackByte(uint8(p.State))
	pk.PackString(p.Description)
	pk.PackByte(uint8(len(p.Tags)))
	for _, tag := range p.Tags {
		pk.PackString(tag)
	}
	pk.PackByte(p.PredictionType)
	pk.PackByte(p.OptionsCount)
	pk.PackInt64(p.StartTime)
	pk.PackInt64(p.EndTime)
	pk.PackUint64(p.TotalVotes)
	pk.PackUint64(p.YesVotes)
	pk.PackUint64(p.NoVotes)
	pk.PackUint64(p.YesAmount)
	pk.PackUint64(p.NoAmount)
	pk.PackUint64(p.TotalAmount)
	pk.PackByte(uint8(p.Result))
	pk.PackUint64(p.RewardRate)
	if p.RewardsDistributed {
		pk.PackByte(1)
	} else {
		pk.PackByte(0)
	}
	return pk.Err()
}

// UnmarshalCodec deserializes a Prediction from a Packer.
func (p *Prediction) UnmarshalCodec(pk *codec.Packer) error {
	p.ID = pk.UnpackUint64(false)
	p.State = PredictionState(pk.UnpackByte())
	p.Description = pk.UnpackString(false)
	tagCount := int(pk.UnpackByte())
	if tagCount > 0 {
		p.Tags = make([]string, 0, tagCount)
		for i := 0; i < tagCount; i++ {
			p.Tags = append(p.Tags, pk.UnpackString(false))
		}
	} else {
		p.Tags = nil
	}
	p.PredictionType = pk.UnpackByte()
	p.OptionsCount = pk.UnpackByte()
	p.StartTime = pk.UnpackInt64(false)
	p.EndTime = pk.UnpackInt64(false)
	p.TotalVotes = pk.UnpackUint64(false)
	p.YesVotes = pk.UnpackUint64(false)
	p.NoVotes = pk.UnpackUint64(false)
	p.YesAmount = pk.UnpackUint64(false)
	p.NoAmount = pk.UnpackUint64(false)
	p.TotalAmount = pk.UnpackUint64(false)
	p.Result = PredictionResult(pk.UnpackByte())
	p.RewardRate = pk.UnpackUint64(false)
	p.RewardsDistributed = pk.UnpackByte() == 1
	return pk.Err()
}

// PredictionKey generates the state key for a given prediction ID.
// Format: PredictionPrefix | PredictionID (uint64, big-endian)
func PredictionKey(predictionID uint64) []byte {
	key := make([]byte, 1+8)
	key[0] = PredictionPrefix
	binary.BigEndian.PutUint64(key[1:], predictionID)
	return key
}

// GetPrediction retrieves a prediction by its ID from the state.
func GetPrediction(ctx context.Context, im state.Immutable, predictionID uint64) (*Prediction, error) {
	valBytes, err := im.GetValue(ctx, PredictionKey(predictionID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrPredictionNotFound, predictionID)
		}
		return nil, err
	}
	prediction := &Prediction{}
	reader := codec.NewReader(valBytes, pvmConsts.MaxPredictionDataSize)
	if err := prediction.UnmarshalCodec(reader); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prediction %d: %w", predictionID, err)
	}
	return prediction, nil
}

// SetPrediction stores a prediction into the state.
func SetPrediction(ctx context.Context, mu state.Mutable, prediction *Prediction) error {
	writer := codec.NewWriter(256, pvmConsts.MaxPredictionDataSize)
	if err := prediction.MarshalCodec(writer); err != nil {
		return fmt.Errorf("failed to marshal prediction %d: %w", prediction.ID, err)
	}
	return mu.Insert(ctx, PredictionKey(prediction.ID), writer.Bytes())
}
