// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/version"
)

const (
	Name   = "predictvm"
	Symbol = "PRDT"

	// FeePercent is the market fee taken from the total staked amount at
	// settlement, in whole percent.
	FeePercent uint64 = 5

	// RewardRatePrecision is the fixed-point scale of a prediction's
	// reward rate. Divisions truncate (floor).
	RewardRatePrecision uint64 = 1_000_000

	// MaxPredictionDataSize defines the maximum expected size for a
	// marshaled prediction record.
	MaxPredictionDataSize = 2048

	// MaxDescriptionLength bounds a prediction's description.
	MaxDescriptionLength = 256

	// MaxTags and MaxTagLength bound the free-form tag list carried on a
	// prediction.
	MaxTags      = 8
	MaxTagLength = 32
)

const (
	// CodecVersionDefault is the default version for marshalling/unmarshalling.
	CodecVersionDefault uint16 = 0

	// Limits
	MaxActionSize = 1024 // 1KB limit for action byte size
)

// Action type IDs. Output types reuse the ID of the action that produced
// them.
const (
	CreatePredictionID uint8 = iota
	StakeID
	ResolveID
	ClaimID
	DistributeRewardsID
	SubmitClaimID
	ApproveClaimID
)

var ID ids.ID

func init() {
	b := make([]byte, ids.IDLen)
	copy(b, []byte(Name))
	vmID, err := ids.ToID(b)
	if err != nil {
		panic(err)
	}
	ID = vmID
}

var Version = &version.Semantic{
	Major: 0,
	Minor: 0,
	Patch: 1,
}
