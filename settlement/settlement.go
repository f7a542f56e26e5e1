// Package settlement holds the reward-pool arithmetic shared by every
// settlement path: the pull-based per-claim model, the admin
// pool-distribution step, and the batch claim-approval variant.
//
// All math is unsigned integer math in the smallest value unit.
// Divisions truncate toward zero; multiplications are overflow-checked
// and fail with storage.ErrOverflow instead of wrapping.
package settlement

import (
	"errors"

	safemath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/hyperpredict/predictvm/consts"
	"github.com/hyperpredict/predictvm/storage"
)

var (
	// ErrNoWinningStake is returned when the entire pool sits on the
	// losing side, so no reward rate can be computed.
	ErrNoWinningStake = errors.New("no stake on the winning side")

	ErrInvalidResult = errors.New("invalid prediction result")
)

// Split is the outcome of dividing a prediction's escrowed total into
// the market fee and the reward pool, with the fixed-point rate that
// converts a winning stake amount into its payout.
type Split struct {
	Fee  uint64 // FeePercent of the total, swept to the treasury
	Pool uint64 // Total minus fee, shared pro rata by winners
	Rate uint64 // Pool * RewardRatePrecision / winning amount (floored)
}

// IsWinner reports whether a stake on the given side wins under the
// declared result. Result_Undefined never wins.
func IsWinner(result storage.PredictionResult, side bool) bool {
	switch result {
	case storage.Result_True:
		return side
	case storage.Result_False:
		return !side
	default:
		return false
	}
}

// ComputeSplit derives the fee, pool, and reward rate for a resolved
// prediction's totals. winningAmount must be the total staked on the
// winning side and must be non-zero.
func ComputeSplit(totalAmount uint64, winningAmount uint64) (Split, error) {
	if winningAmount == 0 {
		return Split{}, ErrNoWinningStake
	}

	feeNumerator, err := safemath.Mul(totalAmount, consts.FeePercent)
	if err != nil {
		return Split{}, storage.ErrOverflow
	}
	fee := feeNumerator / 100
	pool := totalAmount - fee

	rateNumerator, err := safemath.Mul(pool, consts.RewardRatePrecision)
	if err != nil {
		return Split{}, storage.ErrOverflow
	}
	return Split{
		Fee:  fee,
		Pool: pool,
		Rate: rateNumerator / winningAmount,
	}, nil
}

// SplitFor computes the split for a resolved prediction.
func SplitFor(p *storage.Prediction) (Split, error) {
	if p.Result == storage.Result_Undefined {
		return Split{}, ErrInvalidResult
	}
	return ComputeSplit(p.TotalAmount, p.WinningAmount())
}

// Payout converts a winning stake amount into its reward under the
// given rate, flooring the fixed-point division.
func Payout(stakeAmount uint64, rate uint64) (uint64, error) {
	numerator, err := safemath.Mul(stakeAmount, rate)
	if err != nil {
		return 0, storage.ErrOverflow
	}
	return numerator / consts.RewardRatePrecision, nil
}
