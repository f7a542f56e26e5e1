package actions

import (
	"github.com/ava-labs/hypersdk/codec"

	"github.com/hyperpredict/predictvm/consts"
)

// MaxSubmitClaimResultSize is the maximum byte size of a marshaled
// SubmitClaimResult: TypeID (1) + PredictionID (8) + User (33) +
// Amount (8), rounded up.
const MaxSubmitClaimResultSize = 64

var _ codec.Typed = (*SubmitClaimResult)(nil)

// SubmitClaimResult is the output of a successful SubmitClaim action;
// the amount is the staked amount, not the eventual payout.
type SubmitClaimResult struct {
	PredictionID uint64        `serialize:"true" json:"predictionId"`
	User         codec.Address `serialize:"true" json:"user"`
	Amount       uint64        `serialize:"true" json:"amount"`
}

// GetTypeID returns the type ID of the SubmitClaimResult.
func (*SubmitClaimResult) GetTypeID() uint8 {
	return consts.SubmitClaimID
}

// MarshalCodec serializes the SubmitClaimResult into the packer.
func (r *SubmitClaimResult) MarshalCodec(p *codec.Packer) error {
	p.PackUint64(r.PredictionID)
	p.PackAddress(r.User)
	p.PackUint64(r.Amount)
	return p.Err()
}

// UnmarshalCodec deserializes a SubmitClaimResult from the packer.
func (r *SubmitClaimResult) UnmarshalCodec(p *codec.Packer) error {
	r.PredictionID = p.UnpackUint64(false)
	p.UnpackAddress(&r.User)
	r.Amount = p.UnpackUint64(false)
	return p.Err()
}
