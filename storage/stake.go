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

var ErrStakeNotFound = errors.New("stake entry not found")

// StakeEntry records a user's single stake on a prediction: the side
// chosen, the amount, and whether the reward has been claimed. At most
// one entry exists per (prediction, user); side and amount are immutable
// after creation and the entry is retained forever as a claim receipt.
type StakeEntry struct {
	User          codec.Address `json:"user"`
	PredictionID  uint64        `json:"predictionId"`
	Side          bool          `json:"side"` // true = YES
	Amount        uint64        `json:"amount"`
	RewardClaimed bool          `json:"rewardClaimed"`
}

// MarshalCodec serializes the StakeEntry into a Packer.
func (s *StakeEntry) MarshalCodec(p *codec.Packer) error {
	p.PackAddress(s.User)
	p.PackUint64(s.PredictionID)
	if s.Side {
		p.PackByte(1)
	} else {
		p.PackByte(0)
	}
	p.PackUint64(s.Amount)
	if s.RewardClaimed {
		p.PackByte(1)
	} else {
		p.PackByte(0)
	}
	return p.Err()
}

// UnmarshalCodec deserializes a StakeEntry from a Packer.
func (s *StakeEntry) UnmarshalCodec(p *codec.Packer) error {
	p.UnpackAddress(&s.User)
	s.PredictionID = p.UnpackUint64(false)
	s.Side = p.UnpackByte() == 1
	s.Amount = p.UnpackUint64(false)
	s.RewardClaimed = p.UnpackByte() == 1
	return p.Err()
}

// StakeKey generates the state key for a user's stake on a prediction.
// Format: StakePrefix | PredictionID (uint64, big-endian) | UserAddress
func StakeKey(predictionID uint64, user codec.Address) []byte {
	key := make([]byte, 1+8+codec.AddressLen)
	key[0] = StakePrefix
	binary.BigEndian.PutUint64(key[1:], predictionID)
	copy(key[1+8:], user[:])
	return key
}

// GetStakeEntry retrieves a user's stake entry for a prediction.
// Returns ErrStakeNotFound if the user never staked on it.
func GetStakeEntry(ctx context.Context, im state.Immutable, predictionID uint64, user codec.Address) (*StakeEntry, error) {
	valBytes, err := im.GetValue(ctx, StakeKey(predictionID, user))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrStakeNotFound
		}
		return nil, err
	}
	entry := &StakeEntry{}
	reader := codec.NewReader(valBytes, len(valBytes))
	if err := entry.UnmarshalCodec(reader); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stake entry for prediction %d, user %s: %w", predictionID, user, err)
	}
	return entry, nil
}

// HasStakeEntry reports whether the user already has a stake entry for
// the prediction.
func HasStakeEntry(ctx context.Context, im state.Immutable, predictionID uint64, user codec.Address) (bool, error) {
	_, err := im.GetValue(ctx, StakeKey(predictionID, user))
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetStakeEntry stores a user's stake entry into the state.
func SetStakeEntry(ctx context.Context, mu state.Mutable, entry *StakeEntry) error {
	writer := codec.NewWriter(codec.AddressLen+8+1+8+1, codec.AddressLen+8+1+8+1)
	if err := entry.MarshalCodec(writer); err != nil {
		return fmt.Errorf("failed to marshal stake entry for prediction %d, user %s: %w", entry.PredictionID, entry.User, err)
	}
	return mu.Insert(ctx, StakeKey(entry.PredictionID, entry.User), writer.Bytes())
}
