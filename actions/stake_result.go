package actions

import (
	"github.com/ava-labs/hypersdk/codec"

	"github.com/hyperpredict/predictvm/consts"
)

// MaxStakeResultSize is the maximum byte size of a marshaled
// StakeResult: TypeID (1) + PredictionID (8) + User (33) + Side (1) +
// Amount (8), rounded up.
const MaxStakeResultSize = 64

var _ codec.Typed = (*StakeResult)(nil)

// StakeResult is the output of a successful Stake action; it doubles as
// the stake-recorded event.
type StakeResult struct {
	PredictionID uint64        `serialize:"true" json:"predictionId"`
	User         codec.Address `serialize:"true" json:"user"`
	Side         bool          `serialize:"true" json:"side"`
	Amount       uint64        `serialize:"true" json:"amount"`
}

// GetTypeID returns the type ID of the StakeResult.
func (*StakeResult) GetTypeID() uint8 {
	return consts.StakeID
}

// MarshalCodec serializes the StakeResult into the packer.
func (r *StakeResult) MarshalCodec(p *codec.Packer) error {
	p.PackUint64(r.PredictionID)
	p.PackAddress(r.User)
	if r.Side {
		p.PackByte(1)
	} else {
		p.PackByte(0)
	}
	p.PackUint64(r.Amount)
	return p.Err()
}

// UnmarshalCodec deserializes a StakeResult from the packer.
func (r *StakeResult) UnmarshalCodec(p *codec.Packer) error {
	r.PredictionID = p.UnpackUint64(false)
	p.UnpackAddress(&r.User)
	r.Side = p.UnpackByte() == 1
	r.Amount = p.UnpackUint64(false)
	return p.Err()
}
