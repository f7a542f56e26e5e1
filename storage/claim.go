package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"
)

// ClaimState defines the states of a pending claim in the batch
// settlement variant.
type ClaimState uint8

const (
	ClaimState_Pending  ClaimState = 0
	ClaimState_Approved ClaimState = 1
	ClaimState_Rejected ClaimState = 2
)

func (cs ClaimState) String() string {
	switch cs {
	case ClaimState_Pending:
		return "Pending"
	case ClaimState_Approved:
		return "Approved"
	case ClaimState_Rejected:
		return "Rejected"
	default:
		return fmt.Sprintf("UnknownClaimState:%d", uint8(cs))
	}
}

var ErrClaimNotFound = errors.New("pending claim not found")

// PendingClaim is a user-submitted claim awaiting admin approval. Claims
// are keyed by (prediction, user), so there is no capacity ceiling on
// the number of pending claims per prediction.
type PendingClaim struct {
	User         codec.Address `json:"user"`
	PredictionID uint64        `json:"predictionId"`
	Amount       uint64        `json:"amount"` // Staked amount, not the payout
	State        ClaimState    `json:"state"`
}

// MarshalCodec serializes the PendingClaim into a Packer.
func (c *PendingClaim) MarshalCodec(p *codec.Packer) error {
	p.PackAddress(c.User)
	p.PackUint64(c.PredictionID)
	p.PackUint64(c.Amount)
	p.PackByte(uint8(c.State))
	return p.Err()
}

// UnmarshalCodec deserializes a PendingClaim from a Packer.
func (c *PendingClaim) UnmarshalCodec(p *codec.Packer) error {
	p.UnpackAddress(&c.User)
	c.PredictionID = p.UnpackUint64(false)
	c.Amount = p.UnpackUint64(false)
	c.State = ClaimState(p.UnpackByte())
	return p.Err()
}

// ClaimKey generates the state key for a user's pending claim.
// Format: ClaimPrefix | PredictionID (uint64, big-endian) | UserAddress
func ClaimKey(predictionID uint64, user codec.Address) []byte {
	key := make([]byte, 1+8+codec.AddressLen)
	key[0] = ClaimPrefix
	binary.BigEndian.PutUint64(key[1:], predictionID)
	copy(key[1+8:], user[:])
	return key
}

// GetPendingClaim retrieves a user's pending claim for a prediction.
func GetPendingClaim(ctx context.Context, im state.Immutable, predictionID uint64, user codec.Address) (*PendingClaim, error) {
	valBytes, err := im.GetValue(ctx, ClaimKey(predictionID, user))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	claim := &PendingClaim{}
	reader := codec.NewReader(valBytes, len(valBytes))
	if err := claim.UnmarshalCodec(reader); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending claim for prediction %d, user %s: %w", predictionID, user, err)
	}
	return claim, nil
}

// SetPendingClaim stores a pending claim into the state.
func SetPendingClaim(ctx context.Context, mu state.Mutable, claim *PendingClaim) error {
	writer := codec.NewWriter(codec.AddressLen+8+8+1, codec.AddressLen+8+8+1)
	if err := claim.MarshalCodec(writer); err != nil {
		return fmt.Errorf("failed to marshal pending claim for prediction %d, user %s: %w", claim.PredictionID, claim.User, err)
	}
	return mu.Insert(ctx, ClaimKey(claim.PredictionID, claim.User), writer.Bytes())
}
