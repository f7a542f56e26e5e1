package actions

import (
	"github.com/ava-labs/hypersdk/codec"

	"github.com/hyperpredict/predictvm/consts"
)

// MaxClaimResultSize is the maximum byte size of a marshaled
// ClaimResult: TypeID (1) + PredictionID (8) + User (33) + Amount (8),
// rounded up.
const MaxClaimResultSize = 64

var _ codec.Typed = (*ClaimResult)(nil)

// ClaimResult is the output of a successful Claim; it doubles as the
// claim-paid event.
type ClaimResult struct {
	PredictionID uint64        `serialize:"true" json:"predictionId"`
	User         codec.Address `serialize:"true" json:"user"`
	Amount       uint64        `serialize:"true" json:"amount"`
}

// GetTypeID returns the type ID of the ClaimResult.
func (*ClaimResult) GetTypeID() uint8 {
	return consts.ClaimID
}

// MarshalCodec serializes the ClaimResult into the packer.
func (r *ClaimResult) MarshalCodec(p *codec.Packer) error {
	p.PackUint64(r.PredictionID)
	p.PackAddress(r.User)
	p.PackUint64(r.Amount)
	return p.Err()
}

// UnmarshalCodec deserializes a ClaimResult from the packer.
func (r *ClaimResult) UnmarshalCodec(p *codec.Packer) error {
	r.PredictionID = p.UnpackUint64(false)
	p.UnpackAddress(&r.User)
	r.Amount = p.UnpackUint64(false)
	return p.Err()
}
