package actions

import (
	"github.com/ava-labs/hypersdk/codec"

	"github.com/hyperpredict/predictvm/consts"
)

var _ codec.Typed = (*ApproveClaimResult)(nil)

// ApproveClaimResult is the output of a successful ApproveClaim action;
// same shape as ClaimResult, under the approval's own type ID.
type ApproveClaimResult struct {
	PredictionID uint64        `serialize:"true" json:"predictionId"`
	User         codec.Address `serialize:"true" json:"user"`
	Amount       uint64        `serialize:"true" json:"amount"`
}

// GetTypeID returns the type ID of the ApproveClaimResult.
func (*ApproveClaimResult) GetTypeID() uint8 {
	return consts.ApproveClaimID
}

// MarshalCodec serializes the ApproveClaimResult into the packer.
func (r *ApproveClaimResult) MarshalCodec(p *codec.Packer) error {
	p.PackUint64(r.PredictionID)
	p.PackAddress(r.User)
	p.PackUint64(r.Amount)
	return p.Err()
}

// UnmarshalCodec deserializes an ApproveClaimResult from the packer.
func (r *ApproveClaimResult) UnmarshalCodec(p *codec.Packer) error {
	r.PredictionID = p.UnpackUint64(false)
	p.UnpackAddress(&r.User)
	r.Amount = p.UnpackUint64(false)
	return p.Err()
}
