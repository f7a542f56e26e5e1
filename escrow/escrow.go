package escrow

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	safemath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/hyperpredict/predictvm/storage"
)

var (
	ErrInsufficientEscrow = errors.New("insufficient funds in escrow")
	ErrAmountCannotBeZero = errors.New("amount cannot be zero")
)

// EscrowKey generates the state key for a prediction's escrow balance.
// Key: EscrowPrefix | PredictionID (uint64, big-endian)
func EscrowKey(predictionID uint64) []byte {
	key := make([]byte, 1+8)
	key[0] = storage.EscrowPrefix
	binary.BigEndian.PutUint64(key[1:], predictionID)
	return key
}

// TreasuryKey returns the state key of the market operating balance that
// receives settlement fees.
func TreasuryKey() []byte {
	return []byte{storage.TreasuryPrefix}
}

// GetEscrowBalance returns the amount escrowed for a prediction. A
// missing record means nothing is escrowed.
func GetEscrowBalance(ctx context.Context, im state.Immutable, predictionID uint64) (uint64, error) {
	val, err := im.GetValue(ctx, EscrowKey(predictionID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get escrow balance for prediction %d: %w", predictionID, err)
	}
	amount, err := database.ParseUInt64(val)
	if err != nil {
		return 0, fmt.Errorf("failed to parse escrow balance for prediction %d: %w", predictionID, err)
	}
	return amount, nil
}

// Deposit moves amount from the staker's balance into the prediction's
// escrow. All-or-nothing: a failed precondition leaves both records
// untouched.
func Deposit(
	ctx context.Context,
	mu state.Mutable,
	predictionID uint64,
	from codec.Address,
	amount uint64,
) error {
	if amount == 0 {
		return ErrAmountCannotBeZero
	}

	fromBalance, err := storage.GetBalance(ctx, mu, from)
	if err != nil {
		return fmt.Errorf("failed to get balance of %s: %w", from, err)
	}
	if fromBalance < amount {
		return fmt.Errorf("%w: %s has %d, needs %d",
			storage.ErrInsufficientBalance, from, fromBalance, amount)
	}

	escrowed, err := GetEscrowBalance(ctx, mu, predictionID)
	if err != nil {
		return err
	}
	newEscrowed, err := safemath.Add(escrowed, amount)
	if err != nil {
		return storage.ErrOverflow
	}

	if err := storage.SetBalance(ctx, mu, from, fromBalance-amount); err != nil {
		return fmt.Errorf("failed to debit %s for escrow deposit: %w", from, err)
	}
	if err := mu.Insert(ctx, EscrowKey(predictionID), database.PackUInt64(newEscrowed)); err != nil {
		return fmt.Errorf("failed to credit escrow for prediction %d: %w", predictionID, err)
	}
	return nil
}

// Payout moves amount from the prediction's escrow to the recipient's
// balance. The escrow may only be debited by the settlement operation
// that validated the corresponding claim.
func Payout(
	ctx context.Context,
	mu state.Mutable,
	predictionID uint64,
	recipient codec.Address,
	amount uint64,
) error {
	if amount == 0 {
		return ErrAmountCannotBeZero
	}

	escrowed, err := GetEscrowBalance(ctx, mu, predictionID)
	if err != nil {
		return err
	}
	if escrowed < amount {
		return fmt.Errorf("%w: prediction %d has %d, needs %d",
			ErrInsufficientEscrow, predictionID, escrowed, amount)
	}

	if err := mu.Insert(ctx, EscrowKey(predictionID), database.PackUInt64(escrowed-amount)); err != nil {
		return fmt.Errorf("failed to debit escrow for prediction %d: %w", predictionID, err)
	}
	if err := storage.AddBalance(ctx, mu, recipient, amount); err != nil {
		return fmt.Errorf("failed to credit recipient %s from escrow: %w", recipient, err)
	}
	return nil
}

// SweepFee moves the settlement fee from the prediction's escrow to the
// market treasury. The fee is not paid to any identity.
func SweepFee(
	ctx context.Context,
	mu state.Mutable,
	predictionID uint64,
	fee uint64,
) error {
	if fee == 0 {
		return nil
	}

	escrowed, err := GetEscrowBalance(ctx, mu, predictionID)
	if err != nil {
		return err
	}
	if escrowed < fee {
		return fmt.Errorf("%w: prediction %d has %d, fee is %d",
			ErrInsufficientEscrow, predictionID, escrowed, fee)
	}

	treasury, err := GetTreasuryBalance(ctx, mu)
	if err != nil {
		return err
	}
	newTreasury, err := safemath.Add(treasury, fee)
	if err != nil {
		return storage.ErrOverflow
	}

	if err := mu.Insert(ctx, EscrowKey(predictionID), database.PackUInt64(escrowed-fee)); err != nil {
		return fmt.Errorf("failed to debit escrow for prediction %d: %w", predictionID, err)
	}
	if err := mu.Insert(ctx, TreasuryKey(), database.PackUInt64(newTreasury)); err != nil {
		return fmt.Errorf("failed to credit treasury: %w", err)
	}
	return nil
}

// GetTreasuryBalance returns the accumulated settlement fees.
func GetTreasuryBalance(ctx context.Context, im state.Immutable) (uint64, error) {
	val, err := im.GetValue(ctx, TreasuryKey())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get treasury balance: %w", err)
	}
	amount, err := database.ParseUInt64(val)
	if err != nil {
		return 0, fmt.Errorf("failed to parse treasury balance: %w", err)
	}
	return amount, nil
}
