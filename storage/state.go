package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	safemath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"
)

const (
	// BalancePrefix is the prefix for storing native token balances.
	// Format: BalancePrefix | Address -> uint64
	BalancePrefix byte = 0x0

	// RegistryPrefix is the prefix for the market registry singleton.
	// Format: RegistryPrefix -> Registry (struct)
	RegistryPrefix byte = 0x1

	// PredictionPrefix is the prefix for storing prediction records.
	// Format: PredictionPrefix | PredictionID (uint64) -> Prediction (struct)
	PredictionPrefix byte = 0x2

	// StakePrefix is the prefix for storing per-user stake entries.
	// Format: StakePrefix | PredictionID (uint64) | UserAddress -> StakeEntry (struct)
	StakePrefix byte = 0x3

	// EscrowPrefix is the prefix for per-prediction escrow balances.
	// Format: EscrowPrefix | PredictionID (uint64) -> uint64
	EscrowPrefix byte = 0x4

	// TreasuryPrefix is the prefix for the market operating balance that
	// receives settlement fees. Format: TreasuryPrefix -> uint64
	TreasuryPrefix byte = 0x5

	// ClaimPrefix is the prefix for pending claim records (batch
	// settlement variant).
	// Format: ClaimPrefix | PredictionID (uint64) | UserAddress -> PendingClaim (struct)
	ClaimPrefix byte = 0x6
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrOverflow re-exports the checked-arithmetic failure so callers can
	// match one error for every saturating counter in the VM.
	ErrOverflow = safemath.ErrOverflow
)

// BalanceKey returns the state key for an address's native token balance.
func BalanceKey(addr codec.Address) []byte {
	key := make([]byte, 1+codec.AddressLen)
	key[0] = BalancePrefix
	copy(key[1:], addr[:])
	return key
}

// GetBalance retrieves the native token balance for a given address.
// A missing record is a zero balance.
func GetBalance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	key := BalanceKey(addr)
	valBytes, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(valBytes) == 0 {
		return 0, nil
	}
	reader := codec.NewReader(valBytes, len(valBytes))
	balance := reader.UnpackUint64(false)
	if errs := reader.Err(); errs != nil {
		return 0, errs
	}
	return balance, nil
}

// SetBalance sets the native token balance for a given address.
func SetBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) error {
	key := BalanceKey(addr)
	writer := codec.NewWriter(8, 8)
	writer.PackUint64(amount)
	if errs := writer.Err(); errs != nil {
		return errs
	}
	return mu.Insert(ctx, key, writer.Bytes())
}

// DeductBalance subtracts an amount from an address's native token balance.
// It returns ErrInsufficientBalance if the deduction is not possible.
func DeductBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) error {
	currentBalance, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return err
	}
	if currentBalance < amount {
		return ErrInsufficientBalance
	}
	return SetBalance(ctx, mu, addr, currentBalance-amount)
}

// AddBalance adds an amount to an address's native token balance with an
// overflow check.
func AddBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) error {
	currentBalance, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return err
	}
	newBalance, err := safemath.Add(currentBalance, amount)
	if err != nil {
		return ErrOverflow
	}
	return SetBalance(ctx, mu, addr, newBalance)
}

// Transfer atomically moves amount from one address to another. Either
// both balance records are updated or, on a failed precondition, neither
// is touched. (Both writes happen inside the enclosing transaction, so a
// late write error still aborts the whole operation host-side.)
func Transfer(ctx context.Context, mu state.Mutable, from codec.Address, to codec.Address, amount uint64) error {
	fromBalance, err := GetBalance(ctx, mu, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return ErrInsufficientBalance
	}
	toBalance, err := GetBalance(ctx, mu, to)
	if err != nil {
		return err
	}
	newToBalance, err := safemath.Add(toBalance, amount)
	if err != nil {
		return ErrOverflow
	}
	if err := SetBalance(ctx, mu, from, fromBalance-amount); err != nil {
		return err
	}
	return SetBalance(ctx, mu, to, newToBalance)
}

// StateKeysBalance returns the state key for an address's native token
// balance. Kept as a separate name for the controller's SponsorStateKeys.
func StateKeysBalance(addr codec.Address) []byte {
	return BalanceKey(addr)
}

// AddressFromKey extracts an address from a balance state key.
// Returns an error if the key is not a valid balance key.
func AddressFromKey(key []byte) (codec.Address, error) {
	if len(key) != 1+codec.AddressLen {
		return codec.Address{}, errors.New("invalid key length")
	}
	if key[0] != BalancePrefix {
		return codec.Address{}, errors.New("invalid prefix")
	}
	var addr codec.Address
	copy(addr[:], key[1:])
	return addr, nil
}
