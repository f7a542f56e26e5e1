package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	safemath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"
)

var (
	ErrRegistryExists   = errors.New("market registry already initialized")
	ErrRegistryNotFound = errors.New("market registry not found")
)

// Registry is the market registry singleton: the admin identity and the
// monotonic prediction-id counter. It is created once at genesis and
// mutated only by prediction creation.
type Registry struct {
	Admin            codec.Address `json:"admin"`
	NextPredictionID uint64        `json:"nextPredictionId"`
}

// MarshalCodec serializes the Registry into a Packer.
func (r *Registry) MarshalCodec(p *codec.Packer) error {
	p.PackAddress(r.Admin)
	p.PackUint64(r.NextPredictionID)
	return p.Err()
}

// UnmarshalCodec deserializes a Registry from a Packer.
func (r *Registry) UnmarshalCodec(p *codec.Packer) error {
	p.UnpackAddress(&r.Admin)
	r.NextPredictionID = p.UnpackUint64(false)
	return p.Err()
}

// RegistryKey returns the state key of the registry singleton.
func RegistryKey() []byte {
	return []byte{RegistryPrefix}
}

// GetRegistry retrieves the market registry from state.
func GetRegistry(ctx context.Context, im state.Immutable) (*Registry, error) {
	valBytes, err := im.GetValue(ctx, RegistryKey())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrRegistryNotFound
		}
		return nil, err
	}
	reg := &Registry{}
	reader := codec.NewReader(valBytes, len(valBytes))
	if err := reg.UnmarshalCodec(reader); err != nil {
		return nil, fmt.Errorf("failed to unmarshal market registry: %w", err)
	}
	return reg, nil
}

// SetRegistry stores the market registry into state.
func SetRegistry(ctx context.Context, mu state.Mutable, reg *Registry) error {
	writer := codec.NewWriter(codec.AddressLen+8, codec.AddressLen+8)
	if err := reg.MarshalCodec(writer); err != nil {
		return fmt.Errorf("failed to marshal market registry: %w", err)
	}
	return mu.Insert(ctx, RegistryKey(), writer.Bytes())
}

// InitializeRegistry creates the registry singleton with a zeroed
// prediction-id counter. It fails if a registry already exists.
func InitializeRegistry(ctx context.Context, mu state.Mutable, admin codec.Address) error {
	if _, err := GetRegistry(ctx, mu); err == nil {
		return ErrRegistryExists
	} else if !errors.Is(err, ErrRegistryNotFound) {
		return err
	}
	return SetRegistry(ctx, mu, &Registry{
		Admin:            admin,
		NextPredictionID: 0,
	})
}

// AllocatePredictionID returns the current counter value and persists the
// incremented counter. IDs are never reused; an exhausted counter fails
// with ErrOverflow rather than wrapping.
func AllocatePredictionID(ctx context.Context, mu state.Mutable) (uint64, error) {
	reg, err := GetRegistry(ctx, mu)
	if err != nil {
		return 0, err
	}
	id := reg.NextPredictionID
	next, err := safemath.Add(id, 1)
	if err != nil {
		return 0, ErrOverflow
	}
	reg.NextPredictionID = next
	if err := SetRegistry(ctx, mu, reg); err != nil {
		return 0, err
	}
	return id, nil
}
