// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"errors"

	"github.com/ava-labs/hypersdk/auth"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state/metadata"
	"github.com/ava-labs/hypersdk/vm"
	"github.com/ava-labs/hypersdk/vm/defaultvm"

	"github.com/hyperpredict/predictvm/actions"
	"github.com/hyperpredict/predictvm/controller"
	"github.com/hyperpredict/predictvm/genesis"
)

var (
	ActionParser *codec.TypeParser[chain.Action]
	AuthParser   *codec.TypeParser[chain.Auth]
	OutputParser *codec.TypeParser[codec.Typed]

	AuthProvider *auth.AuthProvider

	Parser *chain.TxTypeParser
)

// Setup types
func init() {
	ActionParser = codec.NewTypeParser[chain.Action]()
	AuthParser = codec.NewTypeParser[chain.Auth]()
	OutputParser = codec.NewTypeParser[codec.Typed]()
	AuthProvider = auth.NewAuthProvider()

	if err := auth.WithDefaultPrivateKeyFactories(AuthProvider); err != nil {
		panic(err)
	}

	if err := errors.Join(
		ActionParser.Register(&actions.CreatePrediction{}, actions.UnmarshalCreatePrediction),
		ActionParser.Register(&actions.Stake{}, actions.UnmarshalStake),
		ActionParser.Register(&actions.Resolve{}, actions.UnmarshalResolve),
		ActionParser.Register(&actions.Claim{}, actions.UnmarshalClaim),
		ActionParser.Register(&actions.DistributeRewards{}, actions.UnmarshalDistributeRewards),
		ActionParser.Register(&actions.SubmitClaim{}, actions.UnmarshalSubmitClaim),
		ActionParser.Register(&actions.ApproveClaim{}, actions.UnmarshalApproveClaim),

		// Standard Auth Types
		AuthParser.Register(&auth.ED25519{}, auth.UnmarshalED25519),
		AuthParser.Register(&auth.SECP256R1{}, auth.UnmarshalSECP256R1),
		AuthParser.Register(&auth.BLS{}, auth.UnmarshalBLS),

		OutputParser.Register(&actions.CreatePredictionResult{}, nil),
		OutputParser.Register(&actions.StakeResult{}, nil),
		OutputParser.Register(&actions.ResolveResult{}, nil),
		OutputParser.Register(&actions.ClaimResult{}, nil),
		OutputParser.Register(&actions.DistributeRewardsResult{}, nil),
		OutputParser.Register(&actions.SubmitClaimResult{}, nil),
		OutputParser.Register(&actions.ApproveClaimResult{}, nil),
	); err != nil {
		panic(err)
	}

	Parser = chain.NewTxTypeParser(ActionParser, AuthParser)
}

// New returns a VM with the specified options
func New(options ...vm.Option) (*vm.VM, error) {
	factory := NewFactory()
	return factory.New(options...)
}

func NewFactory() *vm.Factory {
	options := defaultvm.NewDefaultOptions()
	return vm.NewFactory(
		&genesis.Factory{},
		controller.New(),
		metadata.NewDefaultManager(),
		ActionParser,
		AuthParser,
		OutputParser,
		auth.DefaultEngines(),
		options...,
	)
}
