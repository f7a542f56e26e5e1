package actions

const (
	// CreatePredictionComputeUnits is the cost of creating a prediction.
	CreatePredictionComputeUnits uint64 = 100

	// StakeComputeUnits is the cost of recording a stake.
	StakeComputeUnits uint64 = 50

	// ResolveComputeUnits is the cost of resolving a prediction.
	ResolveComputeUnits uint64 = 75

	// ClaimComputeUnits is the cost of a pull-based claim (includes the
	// one-time reward-rate computation on the first claim).
	ClaimComputeUnits uint64 = 75

	// DistributeRewardsComputeUnits is the cost of the admin settlement
	// step in the pool-distribution variant.
	DistributeRewardsComputeUnits uint64 = 75

	// SubmitClaimComputeUnits is the cost of registering a pending claim.
	SubmitClaimComputeUnits uint64 = 50

	// ApproveClaimComputeUnits is the cost of an admin claim approval.
	ApproveClaimComputeUnits uint64 = 75
)
