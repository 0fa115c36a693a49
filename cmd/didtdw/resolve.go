// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	didtdw "github.com/trustdidweb/didresolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <did>",
	Short: "Resolve a did:tdw identifier to its current or historical DID document",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().String("version-id", "", "resolve the document as of this exact versionId")
	resolveCmd.Flags().String("version-time", "", "resolve the document as of this RFC3339 timestamp")
	addOutputFlags(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	did := args[0]

	var versionID *string
	if v, _ := cmd.Flags().GetString("version-id"); v != "" {
		versionID = &v
	}

	var versionTime *time.Time
	if v, _ := cmd.Flags().GetString("version-time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Errorf("invalid --version-time: %w", err)
		}

		versionTime = &t
	}

	doc, err := didtdw.Resolve(cmd.Context(), did, versionID, versionTime)
	if err != nil {
		return err
	}

	return printResult(cmd, getOutputFormat(cmd), fmt.Sprintf("resolved %s -> %s", did, doc.ID), doc)
}
