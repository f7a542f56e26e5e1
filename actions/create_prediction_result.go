package actions

import (
	"github.com/ava-labs/hypersdk/codec"

	"github.com/hyperpredict/predictvm/consts"
)

var _ codec.Typed = (*CreatePredictionResult)(nil)

// CreatePredictionResult is the output of a successful CreatePrediction
// action; it doubles as the creation event observers consume.
type CreatePredictionResult struct {
	PredictionID uint64        `serialize:"true" json:"predictionId"`
	Creator      codec.Address `serialize:"true" json:"creator"`
	Description  string        `serialize:"true" json:"description"`
}

// GetTypeID returns the type ID of the CreatePredictionResult. Results
// reuse the ID of the action that produced them.
func (*CreatePredictionResult) GetTypeID() uint8 {
	return consts.CreatePredictionID
}

// MarshalCodec serializes the CreatePredictionResult into the packer.
func (r *CreatePredictionResult) MarshalCodec(p *codec.Packer) error {
	p.PackUint64(r.PredictionID)
	p.PackAddress(r.Creator)
	p.PackString(r.Description)
	return p.Err()
}

// UnmarshalCodec deserializes a CreatePredictionResult from the packer.
func (r *CreatePredictionResult) UnmarshalCodec(p *codec.Packer) error {
	r.PredictionID = p.UnpackUint64(false)
	p.UnpackAddress(&r.Creator)
	r.Description = p.UnpackString(false)
	return p.Err()
}
