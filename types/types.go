// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

// Package types defines the wire and in-memory shapes of did:tdw log
// entries and the DID documents they carry.
package types

import (
	"strconv"
	"time"
)

// DIDDocument is a W3C DID Core compliant document.
type DIDDocument struct {
	Context            []string             `json:"@context"`
	ID                  string               `json:"id"`
	AlsoKnownAs         []string             `json:"alsoKnownAs,omitempty"`
	VerificationMethod  []VerificationMethod `json:"verificationMethod,omitempty"`
	Authentication      []string             `json:"authentication,omitempty"`
	AssertionMethod     []string             `json:"assertionMethod,omitempty"`
	Service             []Service            `json:"service,omitempty"`
	Deactivated         *bool                `json:"deactivated,omitempty"`
}

// VerificationMethod is a single key material entry in a DID document.
type VerificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase,omitempty"`
}

// Service describes an endpoint associated with the DID subject.
type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint any    `json:"serviceEndpoint"`
}

// Witness is a single member of a witness quorum.
type Witness struct {
	ID     string `json:"id"`
	Weight uint32 `json:"weight"`
}

// WitnessConfig describes a witness quorum over log entries.
type WitnessConfig struct {
	Threshold  uint32    `json:"threshold"`
	SelfWeight uint32    `json:"selfWeight"`
	Witnesses  []Witness `json:"witnesses"`
}

// DIDParameters carries the log's forward-inheriting configuration. Every
// field besides Method is optional and, when absent, leaves the previously
// active value untouched during parameter carry-forward (see verifier.Ingest
// step 1) — so pointer/nil-slice types are used throughout to distinguish
// "unset" from "set to the zero value".
type DIDParameters struct {
	Method         string         `json:"method"`
	SCID           *string        `json:"scid,omitempty"`
	UpdateKeys     []string       `json:"updateKeys,omitempty"`
	Prerotation    *bool          `json:"prerotation,omitempty"`
	NextKeyHashes  []string       `json:"nextKeyHashes,omitempty"`
	Portable       *bool          `json:"portable,omitempty"`
	Witness        *WitnessConfig `json:"witness,omitempty"`
	Deactivated    *bool          `json:"deactivated,omitempty"`
	TTL            *uint64        `json:"ttl,omitempty"`
}

// ProofPurpose is the closed set of purposes a DataIntegrityProof may assert.
type ProofPurpose string

const (
	ProofPurposeAuthentication  ProofPurpose = "authentication"
	ProofPurposeAssertionMethod ProofPurpose = "assertionMethod"
)

// Proof is a Data Integrity Proof over a canonicalized, proof-stripped entry.
type Proof struct {
	Type               string       `json:"type"`
	Created            UnixTime     `json:"created"`
	VerificationMethod string       `json:"verificationMethod"`
	ProofPurpose       ProofPurpose `json:"proofPurpose"`
	ProofValue         string       `json:"proofValue"`
	Challenge          *string      `json:"challenge,omitempty"`
}

// DIDLogEntry is one line of a did:tdw log.
type DIDLogEntry struct {
	VersionID   string        `json:"versionId"`
	VersionTime UnixTime      `json:"versionTime"`
	Parameters  DIDParameters `json:"parameters"`
	State       DIDDocument   `json:"state"`
	Proof       []Proof       `json:"proof"`
}

// DIDLog is an ordered sequence of log entries.
type DIDLog struct {
	Entries []DIDLogEntry
}

// Clone returns a deep-enough copy of e for the mutate-then-canonicalize
// patterns used by entryhash and proof (stripping Proof, substituting
// placeholders) without aliasing the original's UpdateKeys, NextKeyHashes
// and Proof slices. The State document's slices and the pointer fields of
// Parameters are still shared with the original.
func (e DIDLogEntry) Clone() DIDLogEntry {
	clone := e

	if e.Parameters.UpdateKeys != nil {
		clone.Parameters.UpdateKeys = append([]string(nil), e.Parameters.UpdateKeys...)
	}

	if e.Parameters.NextKeyHashes != nil {
		clone.Parameters.NextKeyHashes = append([]string(nil), e.Parameters.NextKeyHashes...)
	}

	if e.Proof != nil {
		clone.Proof = append([]Proof(nil), e.Proof...)
	}

	return clone
}

// UnixTime encodes time.Time as an integer count of UNIX seconds on the
// wire, matching the did:tdw log format (see SPEC_FULL.md §6). It is
// distinct from the RFC3339 string form used only in SCID canonicalization
// (entryhash.GenerateSCID builds that projection separately).
type UnixTime struct {
	time.Time
}

// NewUnixTime truncates t to whole seconds, matching wire round-tripping.
func NewUnixTime(t time.Time) UnixTime {
	return UnixTime{t.UTC().Truncate(time.Second)}
}

func (t UnixTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(t.Time.Unix(), 10)), nil
}

func (t *UnixTime) UnmarshalJSON(data []byte) error {
	sec, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}

	t.Time = time.Unix(sec, 0).UTC()

	return nil
}
