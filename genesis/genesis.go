package genesis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/hyperpredict/predictvm/storage"
)

var _ chain.Genesis = (*Genesis)(nil)

// Allocation is a genesis balance grant.
type Allocation struct {
	Address string `json:"address"` // Bech32 address
	Balance uint64 `json:"balance"`
}

// SeedPrediction is a prediction opened at genesis, before any
// CreatePrediction transaction can run.
type SeedPrediction struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	EndTime     int64    `json:"endTime"` // Unix timestamp
}

// Genesis is the genesis data for the prediction market VM. The admin
// address becomes the market registry admin; it is the only identity
// that can create and resolve predictions.
type Genesis struct {
	Magic     uint64 `json:"magic"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp for the genesis block

	Admin       string           `json:"admin"` // Bech32 address
	Allocations []Allocation     `json:"allocations"`
	Predictions []SeedPrediction `json:"predictions"`
}

func (g *Genesis) Load(raw []byte) error {
	return json.Unmarshal(raw, g)
}

func (g *Genesis) GetMagic() uint64 {
	return g.Magic
}

func (g *Genesis) GetTimestamp() int64 {
	return g.Timestamp
}

// InitializeState seeds the balance allocations, creates the market
// registry singleton, and opens any seed predictions.
func (g *Genesis) InitializeState(ctx context.Context, tracer trace.Tracer, mu state.Mutable, bh chain.BalanceHandler) error {
	for _, alloc := range g.Allocations {
		addr, err := decodeBech32Address(alloc.Address)
		if err != nil {
			return err
		}
		if err := bh.AddBalance(ctx, addr, mu, alloc.Balance); err != nil {
			return err
		}
	}
	return g.initializeMarketState(ctx, mu)
}

// initializeMarketState creates the market registry singleton and opens
// any seed predictions. Split out so Factory can layer it over a
// genesis that has already handled balance allocations.
func (g *Genesis) initializeMarketState(ctx context.Context, mu state.Mutable) error {
	admin, err := decodeBech32Address(g.Admin)
	if err != nil {
		return err
	}
	if err := storage.InitializeRegistry(ctx, mu, admin); err != nil {
		return err
	}

	for _, seed := range g.Predictions {
		id, err := storage.AllocatePredictionID(ctx, mu)
		if err != nil {
			return err
		}
		if err := storage.SetPrediction(ctx, mu, &storage.Prediction{
			ID:          id,
			State:       storage.PredictionState_Active,
			Description: seed.Description,
			Tags:        seed.Tags,
			StartTime:   g.Timestamp,
			EndTime:     seed.EndTime,
			Result:      storage.Result_Undefined,
		}); err != nil {
			return err
		}
	}
	return nil
}

// decodeBech32Address converts a bech32 string into a codec.Address.
// Any HRP is accepted. An empty string decodes to the empty address,
// which no transaction can authenticate as.
func decodeBech32Address(s string) (codec.Address, error) {
	if s == "" {
		return codec.EmptyAddress, nil
	}
	_, data5bit, err := bech32.Decode(s)
	if err != nil {
		return codec.Address{}, fmt.Errorf("failed to decode bech32 address %s: %w", s, err)
	}
	data8bit, err := bech32.ConvertBits(data5bit, 5, 8, false)
	if err != nil {
		return codec.Address{}, fmt.Errorf("failed to convert bech32 data bits for address %s: %w", s, err)
	}
	if len(data8bit) > codec.AddressLen {
		return codec.Address{}, fmt.Errorf("decoded address %s is too long: got %d bytes, expected max %d", s, len(data8bit), codec.AddressLen)
	}
	var addr codec.Address
	copy(addr[:], data8bit)
	return addr, nil
}

func GetDefault() *Genesis {
	return &Genesis{
		Magic:     12345,
		Timestamp: time.Now().Unix(),
		Predictions: []SeedPrediction{
			{
				Description: "Will the network process one million transactions in its first month?",
				Tags:        []string{"network"},
				EndTime:     time.Now().Add(30 * 24 * time.Hour).Unix(),
			},
		},
	}
}
