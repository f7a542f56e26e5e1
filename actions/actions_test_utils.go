package actions

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/fees"
)

var _ chain.Rules = (*MockRules)(nil)

// MockRules is a minimal chain.Rules for action tests. Only the block
// time is configurable; everything else returns the zero value.
type MockRules struct {
	GetTimeFunc func() int64
}

func (m *MockRules) GetTime() int64 {
	if m.GetTimeFunc != nil {
		return m.GetTimeFunc()
	}
	return 0
}

func (*MockRules) MaxActionGas(chain.Action) uint64 { return 0 }

func (*MockRules) MaxBlockGas() uint64 { return 0 }

func (*MockRules) FetchCustom(string) (any, bool) { return nil, false }

func (*MockRules) GetBaseComputeUnits() uint64 { return 0 }

func (*MockRules) GetChainID() ids.ID { return ids.Empty }

func (*MockRules) GetMaxActionsPerTx() uint8 { return 0 }

func (*MockRules) GetMaxBlockUnits() fees.Dimensions { return fees.Dimensions{} }

func (*MockRules) GetMinBlockGap() int64 { return 0 }

func (*MockRules) GetMinEmptyBlockGap() int64 { return 0 }

func (*MockRules) GetMinUnitPrice() fees.Dimensions { return fees.Dimensions{} }

func (*MockRules) GetNetworkID() uint32 { return 0 }

func (*MockRules) GetSponsorStateKeysMaxChunks() []uint16 { return nil }

func (*MockRules) GetStorageKeyAllocateUnits() uint64 { return 0 }

func (*MockRules) GetStorageKeyReadUnits() uint64 { return 0 }

func (*MockRules) GetStorageKeyWriteUnits() uint64 { return 0 }

func (*MockRules) GetStorageValueAllocateUnits() uint64 { return 0 }

func (*MockRules) GetStorageValueReadUnits() uint64 { return 0 }

func (*MockRules) GetStorageValueWriteUnits() uint64 { return 0 }

func (*MockRules) GetUnitPriceChangeDenominator() fees.Dimensions { return fees.Dimensions{} }

func (*MockRules) GetValidityWindow() int64 { return 0 }

func (*MockRules) GetWindowTargetUnits() fees.Dimensions { return fees.Dimensions{} }
