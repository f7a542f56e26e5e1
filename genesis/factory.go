package genesis

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/hypersdk/chain"
	hgenesis "github.com/ava-labs/hypersdk/genesis"
	"github.com/ava-labs/hypersdk/state"
)

var (
	_ hgenesis.GenesisAndRuleFactory = (*Factory)(nil)
	_ hgenesis.Genesis               = (*marketGenesis)(nil)
)

// Factory loads the market genesis from the same document as the
// standard genesis: the default sections (allocations, rules) are
// parsed by hypersdk's default factory, and the market sections
// (admin, seed predictions) by Genesis. The resulting genesis runs
// both initializers, so the registry exists on every deployed chain.
type Factory struct{}

// Load implements genesis.GenesisAndRuleFactory.
func (Factory) Load(genesisBytes []byte, upgradeBytes []byte, networkID uint32, chainID ids.ID) (hgenesis.Genesis, chain.RuleFactory, error) {
	base, ruleFactory, err := (&hgenesis.DefaultGenesisFactory{}).Load(genesisBytes, upgradeBytes, networkID, chainID)
	if err != nil {
		return nil, nil, err
	}
	market := &Genesis{}
	if err := market.Load(genesisBytes); err != nil {
		return nil, nil, err
	}
	return &marketGenesis{Genesis: base, market: market}, ruleFactory, nil
}

// marketGenesis layers market state setup over the default genesis.
type marketGenesis struct {
	hgenesis.Genesis

	market *Genesis
}

func (m *marketGenesis) InitializeState(ctx context.Context, tracer trace.Tracer, mu state.Mutable, bh chain.BalanceHandler) error {
	if err := m.Genesis.InitializeState(ctx, tracer, mu, bh); err != nil {
		return err
	}
	return m.market.initializeMarketState(ctx, mu)
}
