// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package load

import (
	"context"
	"errors"
	"time"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/hypersdk/api/ws"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/fees"
	"github.com/ava-labs/hypersdk/load"

	"github.com/hyperpredict/predictvm/actions"
)

var (
	ErrTxGeneratorFundsExhausted = errors.New("tx generator funds exhausted")
	ErrIssuerStopped             = errors.New("issuer stopped")

	_ load.Issuer[*chain.Transaction] = (*Issuer)(nil)
)

// Issuer generates and submits Stake transactions until its balance no
// longer covers the max fee. Each transaction stakes the minimum amount
// on a fresh prediction id so stake entries never collide.
type Issuer struct {
	authFactory chain.AuthFactory
	currBalance uint64
	ruleFactory chain.RuleFactory
	unitPrices  fees.Dimensions

	client  *ws.WebSocketClient
	tracker load.Tracker[ids.ID]

	nextPrediction uint64
	stopped        bool
}

func NewIssuer(
	authFactory chain.AuthFactory,
	ruleFactory chain.RuleFactory,
	currBalance uint64,
	unitPrices fees.Dimensions,
	client *ws.WebSocketClient,
	tracker load.Tracker[ids.ID],
) *Issuer {
	return &Issuer{
		authFactory: authFactory,
		ruleFactory: ruleFactory,
		currBalance: currBalance,
		unitPrices:  unitPrices,
		client:      client,
		tracker:     tracker,
	}
}

func (i *Issuer) GenerateTx(_ context.Context) (*chain.Transaction, error) {
	if i.stopped {
		return nil, ErrIssuerStopped
	}

	predictionID := i.nextPrediction
	i.nextPrediction++

	tx, err := chain.GenerateTransaction(
		i.ruleFactory,
		i.unitPrices,
		time.Now().UnixMilli(),
		[]chain.Action{
			&actions.Stake{
				PredictionID: predictionID,
				Side:         predictionID%2 == 0,
				Amount:       1,
			},
		},
		i.authFactory,
	)
	if err != nil {
		return nil, err
	}
	if tx.MaxFee() > i.currBalance {
		return nil, ErrTxGeneratorFundsExhausted
	}
	i.currBalance -= tx.MaxFee()
	return tx, nil
}

func (i *Issuer) IssueTx(ctx context.Context, tx *chain.Transaction) error {
	if err := i.client.RegisterTx(tx); err != nil {
		return err
	}
	i.tracker.Issue(tx.GetID())
	return nil
}

// Listen blocks until the context is done. Transaction finalization is
// observed by the shared tracker, fed by the websocket subscription the
// harness owns.
func (i *Issuer) Listen(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// Stop prevents further transaction generation.
func (i *Issuer) Stop() {
	i.stopped = true
}
