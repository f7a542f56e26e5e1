package actions

import "errors"

// The closed taxonomy of precondition failures. Every guard either
// passes or aborts the whole transaction with one of these.
var (
	ErrNotAuthorized             = errors.New("not authorized to perform this action")
	ErrInvalidDuration           = errors.New("invalid duration")
	ErrDescriptionEmpty          = errors.New("prediction description cannot be empty")
	ErrDescriptionTooLong        = errors.New("prediction description is too long")
	ErrTooManyTags               = errors.New("too many tags")
	ErrTagTooLong                = errors.New("tag is too long")
	ErrPredictionNotActive       = errors.New("prediction is not active")
	ErrPredictionEnded           = errors.New("prediction has ended")
	ErrInvalidAmount             = errors.New("invalid amount")
	ErrAlreadyStaked             = errors.New("user already staked on this prediction")
	ErrPredictionAlreadyResolved = errors.New("prediction already resolved")
	ErrInvalidResult             = errors.New("invalid result")
	ErrPredictionNotResolved     = errors.New("prediction is not resolved")
	ErrUserNotWinner             = errors.New("user is not a winner")
	ErrRewardAlreadyClaimed      = errors.New("reward already claimed")
	ErrRewardsAlreadyDistributed = errors.New("rewards already distributed")
	ErrRewardsNotDistributed     = errors.New("rewards not distributed")
	ErrClaimAlreadySubmitted     = errors.New("claim already submitted")
	ErrClaimNotPending           = errors.New("claim is not in pending state")
)
