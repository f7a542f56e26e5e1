// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var ErrMissingSubcommand = errors.New("missing subcommand")

var rootCmd = &cobra.Command{
	Use:   "predict-cli",
	Short: "Prediction market client",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(actionCmd)
	actionCmd.AddCommand(
		createPredictionCmd,
		stakeCmd,
		resolveCmd,
		claimCmd,
		distributeRewardsCmd,
		submitClaimCmd,
		approveClaimCmd,
	)
}

func Execute() error {
	return rootCmd.Execute()
}
