package storage

import (
	"context"
	"math"
	"testing"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/stretchr/testify/require"
)

func TestBalance_MissingIsZero(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	balance, err := GetBalance(ctx, mu, codec.Address{0x01})
	require.NoError(err)
	require.Zero(balance)
}

func TestBalance_DeductAndAdd(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	addr := codec.Address{0x01}
	require.NoError(SetBalance(ctx, mu, addr, 1000))

	require.NoError(DeductBalance(ctx, mu, addr, 400))
	balance, err := GetBalance(ctx, mu, addr)
	require.NoError(err)
	require.Equal(uint64(600), balance)

	err = DeductBalance(ctx, mu, addr, 601)
	require.ErrorIs(err, ErrInsufficientBalance)
	balance, err = GetBalance(ctx, mu, addr)
	require.NoError(err)
	require.Equal(uint64(600), balance)

	require.NoError(AddBalance(ctx, mu, addr, 400))
	balance, err = GetBalance(ctx, mu, addr)
	require.NoError(err)
	require.Equal(uint64(1000), balance)
}

func TestBalance_AddOverflow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	addr := codec.Address{0x01}
	require.NoError(SetBalance(ctx, mu, addr, math.MaxUint64))

	err := AddBalance(ctx, mu, addr, 1)
	require.ErrorIs(err, ErrOverflow)
}

func TestTransfer(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	from := codec.Address{0x01}
	to := codec.Address{0x02}
	require.NoError(SetBalance(ctx, mu, from, 1000))

	require.NoError(Transfer(ctx, mu, from, to, 250))

	fromBalance, err := GetBalance(ctx, mu, from)
	require.NoError(err)
	require.Equal(uint64(750), fromBalance)

	toBalance, err := GetBalance(ctx, mu, to)
	require.NoError(err)
	require.Equal(uint64(250), toBalance)

	err = Transfer(ctx, mu, from, to, 751)
	require.ErrorIs(err, ErrInsufficientBalance)

	fromBalance, err = GetBalance(ctx, mu, from)
	require.NoError(err)
	require.Equal(uint64(750), fromBalance)
}

func TestAddressFromKey(t *testing.T) {
	require := require.New(t)

	addr := codec.Address{0x07, 0x08}
	got, err := AddressFromKey(BalanceKey(addr))
	require.NoError(err)
	require.Equal(addr, got)

	_, err = AddressFromKey([]byte{BalancePrefix})
	require.Error(err)

	badPrefix := BalanceKey(addr)
	badPrefix[0] = PredictionPrefix
	_, err = AddressFromKey(badPrefix)
	require.Error(err)
}
