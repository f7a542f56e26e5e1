// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/ava-labs/hypersdk/codec"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyperpredict/predictvm/actions"
	"github.com/hyperpredict/predictvm/storage"
)

var (
	flagDescription string
	flagDuration    int64
	flagTags        []string
	flagPrediction  uint64
	flagSide        string
	flagAmount      uint64
	flagResult      string
	flagUser        string
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Build prediction market actions",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

// printAction emits the marshaled action as hex, ready to be wrapped in
// a signed transaction.
func printAction(name string, bytes []byte) {
	color.Green("%s action built (%d bytes)", name, len(bytes))
	fmt.Println(hex.EncodeToString(bytes))
}

var createPredictionCmd = &cobra.Command{
	Use:   "create-prediction",
	Short: "Open a new prediction for staking (admin only)",
	RunE: func(*cobra.Command, []string) error {
		if flagDescription == "" {
			return fmt.Errorf("--description is required")
		}
		if flagDuration <= 0 {
			return fmt.Errorf("--duration must be positive")
		}
		action := &actions.CreatePrediction{
			Description:  flagDescription,
			Duration:     flagDuration,
			Tags:         flagTags,
			OptionsCount: 2,
		}
		printAction("CreatePrediction", action.Bytes())
		return nil
	},
}

var stakeCmd = &cobra.Command{
	Use:   "stake",
	Short: "Stake on one side of an active prediction",
	RunE: func(*cobra.Command, []string) error {
		side, err := parseSide(flagSide)
		if err != nil {
			return err
		}
		if flagAmount == 0 {
			return fmt.Errorf("--amount must be positive")
		}
		action := &actions.Stake{
			PredictionID: flagPrediction,
			Side:         side,
			Amount:       flagAmount,
		}
		printAction("Stake", action.Bytes())
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Declare a prediction's outcome (admin only)",
	RunE: func(*cobra.Command, []string) error {
		result, err := parseResult(flagResult)
		if err != nil {
			return err
		}
		action := &actions.Resolve{
			PredictionID: flagPrediction,
			Result:       result,
		}
		printAction("Resolve", action.Bytes())
		return nil
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim the reward for a winning stake",
	RunE: func(*cobra.Command, []string) error {
		action := &actions.Claim{PredictionID: flagPrediction}
		printAction("Claim", action.Bytes())
		return nil
	},
}

var distributeRewardsCmd = &cobra.Command{
	Use:   "distribute-rewards",
	Short: "Compute and store the reward rate for a resolved prediction (admin only)",
	RunE: func(*cobra.Command, []string) error {
		action := &actions.DistributeRewards{PredictionID: flagPrediction}
		printAction("DistributeRewards", action.Bytes())
		return nil
	},
}

var submitClaimCmd = &cobra.Command{
	Use:   "submit-claim",
	Short: "Register a winning stake for admin approval",
	RunE: func(*cobra.Command, []string) error {
		action := &actions.SubmitClaim{PredictionID: flagPrediction}
		printAction("SubmitClaim", action.Bytes())
		return nil
	},
}

var approveClaimCmd = &cobra.Command{
	Use:   "approve-claim",
	Short: "Pay a pending claim at the stored rate (admin only)",
	RunE: func(*cobra.Command, []string) error {
		user, err := parseAddress(flagUser)
		if err != nil {
			return err
		}
		action := &actions.ApproveClaim{
			PredictionID: flagPrediction,
			User:         user,
		}
		printAction("ApproveClaim", action.Bytes())
		return nil
	},
}

func parseSide(s string) (bool, error) {
	switch s {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --side %q: must be yes or no", s)
	}
}

func parseResult(s string) (storage.PredictionResult, error) {
	switch s {
	case "true":
		return storage.Result_True, nil
	case "false":
		return storage.Result_False, nil
	default:
		return storage.Result_Undefined, fmt.Errorf("invalid --result %q: must be true or false", s)
	}
}

func parseAddress(s string) (codec.Address, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return codec.Address{}, fmt.Errorf("invalid --user address: %w", err)
	}
	if len(raw) != codec.AddressLen {
		return codec.Address{}, fmt.Errorf("invalid --user address: got %d bytes, want %d", len(raw), codec.AddressLen)
	}
	var addr codec.Address
	copy(addr[:], raw)
	return addr, nil
}

func init() {
	createPredictionCmd.Flags().StringVar(&flagDescription, "description", "", "proposition text")
	createPredictionCmd.Flags().Int64Var(&flagDuration, "duration", 0, "seconds until staking closes")
	createPredictionCmd.Flags().StringSliceVar(&flagTags, "tags", nil, "free-form tags")

	stakeCmd.Flags().Uint64Var(&flagPrediction, "prediction", 0, "prediction id")
	stakeCmd.Flags().StringVar(&flagSide, "side", "", "yes or no")
	stakeCmd.Flags().Uint64Var(&flagAmount, "amount", 0, "stake amount in base units")

	resolveCmd.Flags().Uint64Var(&flagPrediction, "prediction", 0, "prediction id")
	resolveCmd.Flags().StringVar(&flagResult, "result", "", "true or false")

	claimCmd.Flags().Uint64Var(&flagPrediction, "prediction", 0, "prediction id")
	distributeRewardsCmd.Flags().Uint64Var(&flagPrediction, "prediction", 0, "prediction id")
	submitClaimCmd.Flags().Uint64Var(&flagPrediction, "prediction", 0, "prediction id")

	approveClaimCmd.Flags().Uint64Var(&flagPrediction, "prediction", 0, "prediction id")
	approveClaimCmd.Flags().StringVar(&flagUser, "user", "", "claimant address (hex)")
}
