// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

// Package verifier implements the did:tdw log-replay state machine: it
// ingests a linear sequence of log entries, enforcing self-certifying
// identifier integrity, content hashing, version/time monotonicity, and the
// pre-rotation key-commitment discipline, and serves point-in-time document
// selection over the accepted history.
package verifier

import (
	"strconv"
	"strings"
	"time"

	"github.com/trustdidweb/didresolve/entryhash"
	"github.com/trustdidweb/didresolve/logging"
	"github.com/trustdidweb/didresolve/proof"
	"github.com/trustdidweb/didresolve/tdwerrors"
	"github.com/trustdidweb/didresolve/types"
)

var logger = logging.Logger("verifier")

// acceptedVersion is one entry committed into history.
type acceptedVersion struct {
	versionID   string
	versionTime time.Time
	document    types.DIDDocument
}

// Verifier is the log-replay state machine. A Verifier is not safe for
// concurrent use: callers ingest entries strictly sequentially, matching
// log line order.
type Verifier struct {
	activeParameters types.DIDParameters
	history          []acceptedVersion
	currentVersion   uint64
	preRotationActive bool
	nextKeyHashes    map[string]struct{}
}

// New constructs a fresh Verifier whose active method-version tag is
// methodVersion (e.g. "did:tdw:0.4").
func New(methodVersion string) *Verifier {
	return &Verifier{
		activeParameters: types.DIDParameters{Method: methodVersion},
		nextKeyHashes:    make(map[string]struct{}),
	}
}

// CurrentVersion returns the number of entries accepted so far.
func (v *Verifier) CurrentVersion() uint64 {
	return v.currentVersion
}

// Ingest validates entry as the legal successor of everything accepted so
// far and, only if every check passes, commits it. On failure v's state is
// left exactly as it was before the call.
func (v *Verifier) Ingest(entry types.DIDLogEntry) error {
	logger.Debug("ingesting entry", "nextVersion", v.currentVersion+1)

	// Snapshot the pre-rotation gate as it stood BEFORE this entry's
	// parameter carry-forward runs. The reference implementation this is
	// grounded on checks its gate AFTER carry-forward already overwrote
	// next_key_hashes, which (when the new entry also sets
	// next_key_hashes) silently checks the new commitment against itself.
	// SPEC_FULL.md §4.5.1 step 6 is explicit that the gate belongs to the
	// previously active commitment, so the snapshot is taken here, first.
	preRotationWasActive := v.preRotationActive
	previousNextKeyHashes := v.nextKeyHashes

	candidateParameters := v.carryForwardParameters(entry.Parameters)

	if err := v.verifyProof(entry, candidateParameters); err != nil {
		logger.Warn("rejected entry", "reason", errCode(err))

		return err
	}

	if err := v.verifyVersionIDAndHash(entry); err != nil {
		logger.Warn("rejected entry", "reason", errCode(err))

		return err
	}

	if err := v.checkVersionTime(entry); err != nil {
		logger.Warn("rejected entry", "reason", errCode(err))

		return err
	}

	if v.currentVersion == 0 {
		if err := v.verifySCID(entry, candidateParameters); err != nil {
			logger.Warn("rejected entry", "reason", errCode(err))

			return err
		}
	}

	if err := v.handlePreRotation(entry, preRotationWasActive, previousNextKeyHashes); err != nil {
		logger.Warn("rejected entry", "reason", errCode(err))

		return err
	}

	v.commit(entry, candidateParameters)

	logger.Info("accepted entry", "versionId", entry.VersionID, "currentVersion", v.currentVersion)

	return nil
}

// carryForwardParameters computes what active_parameters would become if
// incoming were merged in, without yet mutating v — callers must call
// commit to make it permanent. Every field set in incoming overwrites the
// corresponding field; unset fields leave the previous value untouched.
func (v *Verifier) carryForwardParameters(incoming types.DIDParameters) types.DIDParameters {
	merged := v.activeParameters

	merged.Method = incoming.Method

	if incoming.SCID != nil {
		merged.SCID = incoming.SCID
	}

	if incoming.UpdateKeys != nil {
		merged.UpdateKeys = incoming.UpdateKeys
	}

	if incoming.Prerotation != nil {
		merged.Prerotation = incoming.Prerotation
	}

	if incoming.NextKeyHashes != nil {
		merged.NextKeyHashes = incoming.NextKeyHashes
	}

	if incoming.Portable != nil {
		merged.Portable = incoming.Portable
	}

	if incoming.Witness != nil {
		merged.Witness = incoming.Witness
	}

	if incoming.Deactivated != nil {
		merged.Deactivated = incoming.Deactivated
	}

	if incoming.TTL != nil {
		merged.TTL = incoming.TTL
	}

	return merged
}

func (v *Verifier) verifyProof(entry types.DIDLogEntry, candidateParameters types.DIDParameters) error {
	ok, err := proof.VerifyProof(entry, candidateParameters.UpdateKeys)
	if err != nil {
		return err
	}

	if !ok {
		return tdwerrors.New(tdwerrors.InvalidProof)
	}

	return nil
}

func (v *Verifier) verifyVersionIDAndHash(entry types.DIDLogEntry) error {
	parts := strings.SplitN(entry.VersionID, "-", 2)
	if len(parts) != 2 {
		return tdwerrors.New(tdwerrors.InvalidVersionId)
	}

	versionNumber, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return tdwerrors.Wrap(tdwerrors.InvalidVersionId, err)
	}

	if versionNumber != v.currentVersion+1 {
		return tdwerrors.New(tdwerrors.InvalidVersionNumber)
	}

	// The entry hash is computed with versionId cleared, not as literally
	// stored: the stored versionId already contains this very hash as its
	// suffix, so hashing it as-is would make verification a hash-preimage
	// search against a stored value — never satisfiable in practice. This
	// mirrors create.CreateDID, which likewise hashes before versionId is
	// assigned. See DESIGN.md for the full rationale.
	unassigned := entry
	unassigned.VersionID = ""

	hash, err := entryhash.EntryHash(unassigned)
	if err != nil {
		return err
	}

	if hash != parts[1] {
		return tdwerrors.New(tdwerrors.InvalidEntryHash)
	}

	return nil
}

func (v *Verifier) checkVersionTime(entry types.DIDLogEntry) error {
	if len(v.history) > 0 {
		last := v.history[len(v.history)-1]
		if !entry.VersionTime.Time.After(last.versionTime) {
			return tdwerrors.New(tdwerrors.InvalidVersionTime)
		}
	}

	if entry.VersionTime.Time.After(time.Now()) {
		return tdwerrors.New(tdwerrors.FutureVersionTime)
	}

	return nil
}

func (v *Verifier) verifySCID(entry types.DIDLogEntry, candidateParameters types.DIDParameters) error {
	if candidateParameters.SCID == nil {
		return tdwerrors.New(tdwerrors.MissingSCID)
	}

	ok, err := entryhash.VerifySCID(*candidateParameters.SCID, entry)
	if err != nil {
		return err
	}

	if !ok {
		return tdwerrors.New(tdwerrors.InvalidSCID)
	}

	return nil
}

// handlePreRotation enforces the pre-rotation discipline: if the previous
// entry announced pre-rotation, this entry's update_keys must all have been
// committed to by that previous entry's next_key_hashes, and this entry
// must itself publish a new next_key_hashes commitment. Separately, once
// pre-rotation has ever been active it can never be turned off.
func (v *Verifier) handlePreRotation(entry types.DIDLogEntry, preRotationWasActive bool, previousNextKeyHashes map[string]struct{}) error {
	if preRotationWasActive && entry.Parameters.Prerotation != nil && !*entry.Parameters.Prerotation {
		return tdwerrors.New(tdwerrors.CannotDeactivatePreRotation)
	}

	if !preRotationWasActive {
		return nil
	}

	if len(entry.Parameters.UpdateKeys) == 0 {
		return tdwerrors.New(tdwerrors.InvalidLogEntry)
	}

	if len(previousNextKeyHashes) == 0 {
		return tdwerrors.New(tdwerrors.MissingNextKeyHashes)
	}

	for _, key := range entry.Parameters.UpdateKeys {
		hash, err := entryhash.HashKey(key)
		if err != nil {
			return err
		}

		if _, committed := previousNextKeyHashes[hash]; !committed {
			return tdwerrors.New(tdwerrors.InvalidPreRotationKey)
		}
	}

	if entry.Parameters.NextKeyHashes == nil {
		return tdwerrors.New(tdwerrors.MissingNextKeyHashes)
	}

	return nil
}

func (v *Verifier) commit(entry types.DIDLogEntry, candidateParameters types.DIDParameters) {
	v.activeParameters = candidateParameters

	if candidateParameters.Prerotation != nil && *candidateParameters.Prerotation {
		v.preRotationActive = true
	}

	if candidateParameters.NextKeyHashes != nil {
		next := make(map[string]struct{}, len(candidateParameters.NextKeyHashes))
		for _, h := range candidateParameters.NextKeyHashes {
			next[h] = struct{}{}
		}

		v.nextKeyHashes = next
	}

	v.history = append(v.history, acceptedVersion{
		versionID:   entry.VersionID,
		versionTime: entry.VersionTime.Time,
		document:    entry.State,
	})

	v.currentVersion++
}

// Select returns the document active at the requested point in history. If
// versionID is non-nil, it takes precedence; else if versionTime is
// non-nil, the latest version whose versionTime is at or before it is
// returned; else the latest version is returned.
func (v *Verifier) Select(versionID *string, versionTime *time.Time) (types.DIDDocument, error) {
	if versionID != nil {
		for _, version := range v.history {
			if version.versionID == *versionID {
				return version.document, nil
			}
		}

		return types.DIDDocument{}, tdwerrors.New(tdwerrors.VersionNotFound)
	}

	if versionTime != nil {
		for i := len(v.history) - 1; i >= 0; i-- {
			if !v.history[i].versionTime.After(*versionTime) {
				return v.history[i].document, nil
			}
		}

		return types.DIDDocument{}, tdwerrors.New(tdwerrors.VersionNotFound)
	}

	if len(v.history) == 0 {
		return types.DIDDocument{}, tdwerrors.New(tdwerrors.NoDocumentFound)
	}

	return v.history[len(v.history)-1].document, nil
}

func errCode(err error) tdwerrors.Code {
	if code, ok := tdwerrors.Of(err); ok {
		return code
	}

	return tdwerrors.ResolutionFailed
}
