// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	didtdw "github.com/trustdidweb/didresolve"
	"github.com/trustdidweb/didresolve/keystore"
)

var createCmd = &cobra.Command{
	Use:   "create <domain>",
	Short: "Create a new did:tdw identifier and its genesis log entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().Bool("pre-rotation", false, "enable pre-rotation key commitment for the next update")
	addOutputFlags(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	domain := args[0]

	enablePreRotation, _ := cmd.Flags().GetBool("pre-rotation")

	ks := keystore.NewMemory()

	result, err := didtdw.Create(cmd.Context(), ks, domain, enablePreRotation)
	if err != nil {
		return err
	}

	return printResult(cmd, getOutputFormat(cmd), fmt.Sprintf("created %s", result.DID.String()), result)
}
