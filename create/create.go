// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

// Package create builds the genesis log entry for a new did:tdw identifier:
// it generates a fresh signing key, constructs the placeholder
// genesis entry, derives the SCID from it, and self-signs the final entry.
//
// Grounded on the reference implementation's create_did /
// generate_pre_rotation_key, translated from its Askar-backed key store
// into calls against keystore.KeyStore.
package create

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trustdidweb/didresolve/entryhash"
	"github.com/trustdidweb/didresolve/keystore"
	"github.com/trustdidweb/didresolve/proof"
	"github.com/trustdidweb/didresolve/tdwerrors"
	"github.com/trustdidweb/didresolve/tdwid"
	"github.com/trustdidweb/didresolve/types"
)

// Result bundles the identifier and genesis entry produced by CreateDID.
type Result struct {
	DID   tdwid.TdwDid
	Entry types.DIDLogEntry
}

// CreateDID generates a new did:tdw identifier rooted at domain. If
// enablePreRotation is true, a second key is generated up front and its
// hash published as the genesis entry's next_key_hashes commitment, so the
// very next entry is already gated by the pre-rotation discipline.
func CreateDID(_ context.Context, ks keystore.KeyStore, domain string, enablePreRotation bool) (Result, error) {
	mainSigner, err := ks.Generate("main-" + uuid.NewString())
	if err != nil {
		return Result{}, err
	}

	mainKeyJWK, err := mainSigner.PublicKeyJWK()
	if err != nil {
		return Result{}, err
	}

	mainKeyMultibase, err := mainSigner.PublicKeyMultibase()
	if err != nil {
		return Result{}, err
	}

	params := types.DIDParameters{
		Method:     "did:tdw:0.4",
		UpdateKeys: []string{mainKeyJWK},
	}

	if enablePreRotation {
		pre := true
		params.Prerotation = &pre

		nextKeyHash, err := generatePreRotationKey(ks)
		if err != nil {
			return Result{}, err
		}

		params.NextKeyHashes = []string{nextKeyHash}
	}

	now := types.NewUnixTime(time.Now())

	preliminaryDID := fmt.Sprintf("did:tdw:%s:%s", entryhash.SCIDPlaceholder, domain)

	preliminary := types.DIDLogEntry{
		VersionID:   entryhash.SCIDPlaceholder,
		VersionTime: now,
		Parameters:  params,
		State:       genesisState(preliminaryDID, mainKeyMultibase),
	}

	preliminaryProof, err := proof.GenerateProof(preliminary, mainSigner)
	if err != nil {
		return Result{}, err
	}

	preliminary.Proof = []types.Proof{preliminaryProof}

	scid, err := entryhash.GenerateSCID(preliminary)
	if err != nil {
		return Result{}, err
	}

	did := tdwid.TdwDid{SCID: scid, Domain: domain}

	scidCopy := scid
	finalParams := params
	finalParams.SCID = &scidCopy

	final := types.DIDLogEntry{
		Parameters:  finalParams,
		VersionTime: now,
		State:       genesisState(did.String(), mainKeyMultibase),
	}

	entryHash, err := entryhash.EntryHash(final)
	if err != nil {
		return Result{}, err
	}

	final.VersionID = fmt.Sprintf("1-%s", entryHash)

	finalProof, err := proof.GenerateProof(final, mainSigner)
	if err != nil {
		return Result{}, err
	}

	final.Proof = []types.Proof{finalProof}

	return Result{DID: did, Entry: final}, nil
}

// genesisState builds the minimal DID document for a freshly created
// identifier: a single Multikey verificationMethod over the main signing
// key, authorized for both authentication and assertion.
func genesisState(didStr, pubKeyMultibase string) types.DIDDocument {
	vmID := didStr + "#key-1"

	return types.DIDDocument{
		Context: []string{"https://www.w3.org/ns/did/v1"},
		ID:      didStr,
		VerificationMethod: []types.VerificationMethod{{
			ID:                 vmID,
			Type:               "Multikey",
			Controller:         didStr,
			PublicKeyMultibase: pubKeyMultibase,
		}},
		Authentication:  []string{vmID},
		AssertionMethod: []string{vmID},
	}
}

// generatePreRotationKey generates the key that will be authorized in the
// next entry, and returns its commitment hash for publication in
// next_key_hashes.
func generatePreRotationKey(ks keystore.KeyStore) (string, error) {
	signer, err := ks.Generate("prerotation-" + uuid.NewString())
	if err != nil {
		return "", err
	}

	jwk, err := signer.PublicKeyJWK()
	if err != nil {
		return "", err
	}

	hash, err := entryhash.HashKey(jwk)
	if err != nil {
		return "", tdwerrors.Wrap(tdwerrors.KeyManagementError, err)
	}

	return hash, nil
}
