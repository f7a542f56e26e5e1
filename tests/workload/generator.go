// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workload

import (
	"context"
	"time"

	"github.com/ava-labs/hypersdk/api/indexer"
	"github.com/ava-labs/hypersdk/api/jsonrpc"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/tests/workload"
	"github.com/stretchr/testify/require"

	"github.com/hyperpredict/predictvm/actions"
)

var _ workload.TxGenerator = (*TxGenerator)(nil)

const txCheckInterval = 100 * time.Millisecond

// TxGenerator issues Stake transactions against a rolling prediction
// id, so repeated generations land on distinct stake entries.
type TxGenerator struct {
	factory     chain.AuthFactory
	ruleFactory chain.RuleFactory

	nextPrediction uint64
}

func NewTxGenerator(authFactory chain.AuthFactory, ruleFactory chain.RuleFactory) *TxGenerator {
	return &TxGenerator{
		factory:     authFactory,
		ruleFactory: ruleFactory,
	}
}

func (g *TxGenerator) GenerateTx(ctx context.Context, uri string) (*chain.Transaction, workload.TxAssertion, error) {
	cli := jsonrpc.NewJSONRPCClient(uri)
	unitPrices, err := cli.UnitPrices(ctx, true)
	if err != nil {
		return nil, nil, err
	}

	predictionID := g.nextPrediction
	g.nextPrediction++

	tx, err := chain.GenerateTransaction(
		g.ruleFactory,
		unitPrices,
		time.Now().UnixMilli(),
		[]chain.Action{&actions.Stake{
			PredictionID: predictionID,
			Side:         predictionID%2 == 0,
			Amount:       1,
		}},
		g.factory,
	)
	if err != nil {
		return nil, nil, err
	}

	return tx, func(ctx context.Context, require *require.Assertions, uri string) {
		confirmTx(ctx, require, uri, tx)
	}, nil
}

// confirmTx waits for the transaction to finalize. Whether the stake
// itself succeeded depends on chain state (the prediction must exist
// and be open), so only inclusion is asserted here.
func confirmTx(ctx context.Context, require *require.Assertions, uri string, tx *chain.Transaction) {
	indexerCli := indexer.NewClient(uri)
	_, _, err := indexerCli.WaitForTransaction(ctx, txCheckInterval, tx.GetID())
	require.NoError(err)
}
