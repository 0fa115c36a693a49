// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// outputFormat follows the teacher CLI's --json convention; no --raw mode is
// offered.
type outputFormat string

const (
	formatHuman outputFormat = "human"
	formatJSON  outputFormat = "json"
)

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "output result as JSON")
}

func getOutputFormat(cmd *cobra.Command) outputFormat {
	if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
		return formatJSON
	}

	return formatHuman
}

func printResult(cmd *cobra.Command, format outputFormat, human string, value any) error {
	if format == formatJSON {
		out, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), human)

	return nil
}
