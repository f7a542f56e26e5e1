package actions

import (
	"github.com/ava-labs/hypersdk/codec"

	"github.com/hyperpredict/predictvm/consts"
	"github.com/hyperpredict/predictvm/storage"
)

// MaxResolveResultSize is the maximum byte size of a marshaled
// ResolveResult: TypeID (1) + PredictionID (8) + Result (1), rounded up.
const MaxResolveResultSize = 16

var _ codec.Typed = (*ResolveResult)(nil)

// ResolveResult is the output of a successful Resolve action; it
// doubles as the resolution event.
type ResolveResult struct {
	PredictionID uint64                   `serialize:"true" json:"predictionId"`
	Result       storage.PredictionResult `serialize:"true" json:"result"`
}

// GetTypeID returns the type ID of the ResolveResult.
func (*ResolveResult) GetTypeID() uint8 {
	return consts.ResolveID
}

// MarshalCodec serializes the ResolveResult into the packer.
func (r *ResolveResult) MarshalCodec(p *codec.Packer) error {
	p.PackUint64(r.PredictionID)
	p.PackByte(uint8(r.Result))
	return p.Err()
}

// UnmarshalCodec deserializes a ResolveResult from the packer.
func (r *ResolveResult) UnmarshalCodec(p *codec.Packer) error {
	r.PredictionID = p.UnpackUint64(false)
	r.Result = storage.PredictionResult(p.UnpackByte())
	return p.Err()
}
