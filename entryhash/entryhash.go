// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

// Package entryhash computes the content hash of a did:tdw log entry and
// derives / verifies the self-certifying identifier (SCID) from a genesis
// entry.
//
// Two distinct canonicalization projections are used here and must not be
// confused: EntryHash canonicalizes the full DIDLogEntry as declared (with
// versionTime as the wire's unix-seconds integer), while GenerateSCID builds
// a hand-assembled object whose versionTime is an RFC 3339 string. This
// mirrors the original did:tdw reference implementation exactly, since
// existing logs were hashed against that discrepancy.
package entryhash

import (
	"time"

	"github.com/trustdidweb/didresolve/canon"
	"github.com/trustdidweb/didresolve/tdwerrors"
	"github.com/trustdidweb/didresolve/types"
)

// SCIDPlaceholder is substituted for the real SCID in a genesis entry before
// hashing, so that the SCID can be defined as the fixed point of that
// substitution.
const SCIDPlaceholder = "{SCID}"

// EntryHash computes the proof-independent content hash of entry: the
// entry's proof list is cleared, the result canonicalized and
// multihash-sha256'd, and the digest base58btc-encoded.
func EntryHash(entry types.DIDLogEntry) (string, error) {
	stripped := entry.Clone()
	stripped.Proof = []types.Proof{}

	canonical, err := canon.Canonicalize(stripped)
	if err != nil {
		return "", err
	}

	hash, err := canon.MultihashSHA256(canonical)
	if err != nil {
		return "", tdwerrors.Wrap(tdwerrors.EntryHashGenerationFailed, err)
	}

	return hash, nil
}

// scidProjection is the hand-assembled object GenerateSCID canonicalizes —
// proof is omitted entirely and versionTime is RFC 3339, unlike EntryHash.
type scidProjection struct {
	VersionID   string               `json:"versionId"`
	VersionTime string               `json:"versionTime"`
	Parameters  types.DIDParameters  `json:"parameters"`
	State       types.DIDDocument    `json:"state"`
}

// GenerateSCID derives the self-certifying identifier from genesisEntry by
// substituting SCIDPlaceholder into versionId and parameters.scid before
// canonicalizing.
func GenerateSCID(genesisEntry types.DIDLogEntry) (string, error) {
	entry := genesisEntry.Clone()
	entry.VersionID = SCIDPlaceholder

	placeholder := SCIDPlaceholder
	entry.Parameters.SCID = &placeholder

	proj := scidProjection{
		VersionID:   entry.VersionID,
		VersionTime: entry.VersionTime.Time.UTC().Format(time.RFC3339),
		Parameters:  entry.Parameters,
		State:       entry.State,
	}

	canonical, err := canon.Canonicalize(proj)
	if err != nil {
		return "", err
	}

	hash, err := canon.MultihashSHA256(canonical)
	if err != nil {
		return "", tdwerrors.Wrap(tdwerrors.SCIDGenerationFailed, err)
	}

	return hash, nil
}

// VerifySCID reports whether scid is the SCID of genesisEntry.
func VerifySCID(scid string, genesisEntry types.DIDLogEntry) (bool, error) {
	generated, err := GenerateSCID(genesisEntry)
	if err != nil {
		return false, err
	}

	return scid == generated, nil
}

// HashKey computes the commitment hash used in next_key_hashes: the raw JWK
// string bytes are hashed directly, with no canonicalization step, since a
// JWK string is not itself a JSON value being compared structurally.
func HashKey(jwk string) (string, error) {
	hash, err := canon.MultihashSHA256([]byte(jwk))
	if err != nil {
		return "", tdwerrors.Wrap(tdwerrors.MultihashError, err)
	}

	return hash, nil
}
