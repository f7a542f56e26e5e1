package genesis

import (
	"context"
	"testing"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/require"

	"github.com/hyperpredict/predictvm/controller"
	"github.com/hyperpredict/predictvm/storage"
)

func encodeBech32Address(t *testing.T, addr codec.Address) string {
	t.Helper()
	data5bit, err := bech32.ConvertBits(addr[:], 8, 5, true)
	require.NoError(t, err)
	encoded, err := bech32.Encode("predict", data5bit)
	require.NoError(t, err)
	return encoded
}

func TestGenesis_InitializeState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	admin := codec.Address{0x01}
	funded := codec.Address{0x02}

	g := &Genesis{
		Magic:     1,
		Timestamp: 1000,
		Admin:     encodeBech32Address(t, admin),
		Allocations: []Allocation{
			{Address: encodeBech32Address(t, funded), Balance: 5000},
		},
		Predictions: []SeedPrediction{
			{Description: "seeded proposition", Tags: []string{"seed"}, EndTime: 9000},
		},
	}
	require.NoError(g.InitializeState(ctx, nil, mu, controller.New()))

	balance, err := storage.GetBalance(ctx, mu, funded)
	require.NoError(err)
	require.Equal(uint64(5000), balance)

	reg, err := storage.GetRegistry(ctx, mu)
	require.NoError(err)
	require.Equal(admin, reg.Admin)
	require.Equal(uint64(1), reg.NextPredictionID)

	prediction, err := storage.GetPrediction(ctx, mu, 0)
	require.NoError(err)
	require.Equal(storage.PredictionState_Active, prediction.State)
	require.Equal("seeded proposition", prediction.Description)
	require.Equal(int64(1000), prediction.StartTime)
	require.Equal(int64(9000), prediction.EndTime)
}

func TestGenesis_LoadRoundTrip(t *testing.T) {
	require := require.New(t)

	raw := []byte(`{"magic":7,"timestamp":42,"admin":"","allocations":[],"predictions":[]}`)
	g := &Genesis{}
	require.NoError(g.Load(raw))
	require.Equal(uint64(7), g.GetMagic())
	require.Equal(int64(42), g.GetTimestamp())
}

func TestDecodeBech32Address(t *testing.T) {
	require := require.New(t)

	addr := codec.Address{0x0A, 0x0B}
	got, err := decodeBech32Address(encodeBech32Address(t, addr))
	require.NoError(err)
	require.Equal(addr, got)

	got, err = decodeBech32Address("")
	require.NoError(err)
	require.Equal(codec.EmptyAddress, got)

	_, err = decodeBech32Address("not-bech32")
	require.Error(err)
}
