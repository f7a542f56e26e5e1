// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workload

import (
	"encoding/json"
	"time"

	"github.com/ava-labs/hypersdk/auth"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/crypto/ed25519"
	"github.com/ava-labs/hypersdk/genesis"
	"github.com/btcsuite/btcd/btcutil/bech32"

	pgenesis "github.com/hyperpredict/predictvm/genesis"
)

const (
	testFunderCount   = 2
	testFunderBalance = 10_000_000_000_000
)

// TestNetworkConfig bundles the pieces a test network needs: the
// genesis document, the funded auth factories, and the genesis/rule
// factory matching the VM's.
type TestNetworkConfig struct {
	genesisBytes  []byte
	authFactories []chain.AuthFactory
}

// NewTestNetworkConfig builds a config with freshly generated, funded
// ED25519 keys and the given minimum block gap.
func NewTestNetworkConfig(minBlockGap time.Duration) (*TestNetworkConfig, error) {
	factories := make([]chain.AuthFactory, 0, testFunderCount)
	allocations := make([]*genesis.CustomAllocation, 0, testFunderCount)
	for i := 0; i < testFunderCount; i++ {
		priv, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}
		factories = append(factories, auth.NewED25519Factory(priv))
		allocations = append(allocations, &genesis.CustomAllocation{
			Address: auth.NewED25519Address(priv.PublicKey()),
			Balance: testFunderBalance,
		})
	}

	gen := genesis.NewDefaultGenesis(allocations)
	gen.Rules.MinBlockGap = minBlockGap.Milliseconds()

	// The first funded key doubles as the market admin. Its bech32
	// address rides in the same document the default sections use, so
	// pgenesis.Factory can parse both.
	admin, err := encodeBech32Address(allocations[0].Address)
	if err != nil {
		return nil, err
	}
	genesisBytes, err := json.Marshal(struct {
		*genesis.DefaultGenesis
		Admin string `json:"admin"`
	}{gen, admin})
	if err != nil {
		return nil, err
	}

	return &TestNetworkConfig{
		genesisBytes:  genesisBytes,
		authFactories: factories,
	}, nil
}

func (c *TestNetworkConfig) GenesisAndRuleFactory() genesis.GenesisAndRuleFactory {
	return &pgenesis.Factory{}
}

func encodeBech32Address(addr codec.Address) (string, error) {
	data5bit, err := bech32.ConvertBits(addr[:], 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode("predict", data5bit)
}

func (c *TestNetworkConfig) GenesisBytes() []byte {
	return c.genesisBytes
}

func (c *TestNetworkConfig) AuthFactories() []chain.AuthFactory {
	return c.authFactories
}
