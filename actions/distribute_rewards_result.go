package actions

import (
	"github.com/ava-labs/hypersdk/codec"

	"github.com/hyperpredict/predictvm/consts"
)

// MaxDistributeRewardsResultSize is the maximum byte size of a marshaled
// DistributeRewardsResult: TypeID (1) + PredictionID (8) + four uint64
// fields (32), rounded up.
const MaxDistributeRewardsResultSize = 64

var _ codec.Typed = (*DistributeRewardsResult)(nil)

// DistributeRewardsResult is the output of a successful
// DistributeRewards action; it doubles as the rewards-distributed event.
type DistributeRewardsResult struct {
	PredictionID uint64 `serialize:"true" json:"predictionId"`
	TotalPool    uint64 `serialize:"true" json:"totalPool"` // Escrowed total before the fee
	Fee          uint64 `serialize:"true" json:"fee"`
	Pool         uint64 `serialize:"true" json:"pool"`
	Rate         uint64 `serialize:"true" json:"rate"`
}

// GetTypeID returns the type ID of the DistributeRewardsResult.
func (*DistributeRewardsResult) GetTypeID() uint8 {
	return consts.DistributeRewardsID
}

// MarshalCodec serializes the DistributeRewardsResult into the packer.
func (r *DistributeRewardsResult) MarshalCodec(p *codec.Packer) error {
	p.PackUint64(r.PredictionID)
	p.PackUint64(r.TotalPool)
	p.PackUint64(r.Fee)
	p.PackUint64(r.Pool)
	p.PackUint64(r.Rate)
	return p.Err()
}

// UnmarshalCodec deserializes a DistributeRewardsResult from the packer.
func (r *DistributeRewardsResult) UnmarshalCodec(p *codec.Packer) error {
	r.PredictionID = p.UnpackUint64(false)
	r.TotalPool = p.UnpackUint64(false)
	r.Fee = p.UnpackUint64(false)
	r.Pool = p.UnpackUint64(false)
	r.Rate = p.UnpackUint64(false)
	return p.Err()
}
