// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

package verifier_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/trustdidweb/didresolve/entryhash"
	"github.com/trustdidweb/didresolve/proof"
	"github.com/trustdidweb/didresolve/tdwerrors"
	"github.com/trustdidweb/didresolve/types"
	"github.com/trustdidweb/didresolve/verifier"
)

func genEd25519(t *testing.T) (ed25519.PrivateKey, ed25519.PublicKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("ed25519.GenerateKey: %v", err)
	}

	return priv, pub
}

// buildEntry assembles and signs log entry number versionNumber so its
// EntryHash/SCID computations line up with verifier.Ingest's
// expectations (versionId cleared during hashing).
func buildEntry(t *testing.T, versionNumber uint64, versionTime time.Time, params types.DIDParameters, doc types.DIDDocument, signer proof.Signer, scidEntry bool) types.DIDLogEntry {
	t.Helper()

	entry := types.DIDLogEntry{
		VersionTime: types.NewUnixTime(versionTime),
		Parameters:  params,
		State:       doc,
	}

	if scidEntry {
		scid, err := entryhash.GenerateSCID(entry)
		if err != nil {
			t.Fatalf("GenerateSCID: %v", err)
		}

		entry.Parameters.SCID = &scid
	}

	hash, err := entryhash.EntryHash(entry)
	if err != nil {
		t.Fatalf("EntryHash: %v", err)
	}

	entry.VersionID = versionIDFor(versionNumber, hash)

	p, err := proof.GenerateProof(entry, signer)
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}

	entry.Proof = []types.Proof{p}

	return entry
}

func versionIDFor(n uint64, hash string) string {
	return itoa(n) + "-" + hash
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}

	var buf []byte
	for n > 0 {
		buf = append([]byte{byte('0' + n%10)}, buf...)
		n /= 10
	}

	return string(buf)
}

func newKey(t *testing.T) proof.Signer {
	t.Helper()

	priv, pub := genEd25519(t)

	return proof.Ed25519Signer{Private: priv, Public: pub}
}

func TestIngestGenesisAndSelect(t *testing.T) {
	signer := newKey(t)
	jwk, err := signer.PublicKeyJWK()
	if err != nil {
		t.Fatalf("PublicKeyJWK: %v", err)
	}

	params := types.DIDParameters{
		Method:     "did:tdw:0.4",
		UpdateKeys: []string{jwk},
	}

	genesisTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := types.DIDDocument{Context: []string{"https://www.w3.org/ns/did/v1"}, ID: "did:tdw:placeholder:example.com"}

	genesis := buildEntry(t, 1, genesisTime, params, doc, signer, true)

	v := verifier.New("did:tdw:0.4")

	if err := v.Ingest(genesis); err != nil {
		t.Fatalf("Ingest genesis: %v", err)
	}

	got, err := v.Select(nil, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if got.ID != doc.ID {
		t.Fatalf("Select returned %q, want %q", got.ID, doc.ID)
	}

	if v.CurrentVersion() != 1 {
		t.Fatalf("CurrentVersion = %d, want 1", v.CurrentVersion())
	}
}

func TestIngestRejectsVersionNumberSkip(t *testing.T) {
	signer := newKey(t)
	jwk, _ := signer.PublicKeyJWK()

	params := types.DIDParameters{Method: "did:tdw:0.4", UpdateKeys: []string{jwk}}
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	doc := types.DIDDocument{ID: "did:tdw:placeholder:example.com"}

	genesis := buildEntry(t, 1, t0, params, doc, signer, true)

	v := verifier.New("did:tdw:0.4")
	if err := v.Ingest(genesis); err != nil {
		t.Fatalf("Ingest genesis: %v", err)
	}

	// Skip straight to version 3.
	bad := buildEntry(t, 3, t1, v2Params(params), doc, signer, false)

	err := v.Ingest(bad)
	if code, ok := tdwerrors.Of(err); !ok || code != tdwerrors.InvalidVersionNumber {
		t.Fatalf("expected InvalidVersionNumber, got %v", err)
	}
}

func TestIngestRejectsTimeRegression(t *testing.T) {
	signer := newKey(t)
	jwk, _ := signer.PublicKeyJWK()

	params := types.DIDParameters{Method: "did:tdw:0.4", UpdateKeys: []string{jwk}}
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := types.DIDDocument{ID: "did:tdw:placeholder:example.com"}

	genesis := buildEntry(t, 1, t0, params, doc, signer, true)

	v := verifier.New("did:tdw:0.4")
	if err := v.Ingest(genesis); err != nil {
		t.Fatalf("Ingest genesis: %v", err)
	}

	// Same or earlier time is rejected.
	regressed := buildEntry(t, 2, t0, v2Params(params), doc, signer, false)

	err := v.Ingest(regressed)
	if code, ok := tdwerrors.Of(err); !ok || code != tdwerrors.InvalidVersionTime {
		t.Fatalf("expected InvalidVersionTime, got %v", err)
	}
}

func TestPreRotationGate(t *testing.T) {
	signer1 := newKey(t)
	jwk1, _ := signer1.PublicKeyJWK()

	signer2 := newKey(t)
	jwk2, _ := signer2.PublicKeyJWK()

	nextHash, err := entryhash.HashKey(jwk2)
	if err != nil {
		t.Fatalf("HashKey: %v", err)
	}

	pre := true
	params1 := types.DIDParameters{
		Method:        "did:tdw:0.4",
		UpdateKeys:    []string{jwk1},
		Prerotation:   &pre,
		NextKeyHashes: []string{nextHash},
	}

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	doc := types.DIDDocument{ID: "did:tdw:placeholder:example.com"}

	genesis := buildEntry(t, 1, t0, params1, doc, signer1, true)

	v := verifier.New("did:tdw:0.4")
	if err := v.Ingest(genesis); err != nil {
		t.Fatalf("Ingest genesis: %v", err)
	}

	// Rotate to signer2 as the spec requires — accepted.
	params2 := types.DIDParameters{
		UpdateKeys:    []string{jwk2},
		NextKeyHashes: []string{nextHash}, // re-announce same commitment, legal though inert unless prerotation stays true
	}

	rotated := buildEntry(t, 2, t1, params2, doc, signer2, false)

	if err := v.Ingest(rotated); err != nil {
		t.Fatalf("Ingest rotated entry: %v", err)
	}
}

func TestPreRotationRejectsUncommittedKey(t *testing.T) {
	signer1 := newKey(t)
	jwk1, _ := signer1.PublicKeyJWK()

	committedSigner := newKey(t)
	committedJWK, _ := committedSigner.PublicKeyJWK()

	committedHash, err := entryhash.HashKey(committedJWK)
	if err != nil {
		t.Fatalf("HashKey: %v", err)
	}

	pre := true
	params1 := types.DIDParameters{
		Method:        "did:tdw:0.4",
		UpdateKeys:    []string{jwk1},
		Prerotation:   &pre,
		NextKeyHashes: []string{committedHash},
	}

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	doc := types.DIDDocument{ID: "did:tdw:placeholder:example.com"}

	genesis := buildEntry(t, 1, t0, params1, doc, signer1, true)

	v := verifier.New("did:tdw:0.4")
	if err := v.Ingest(genesis); err != nil {
		t.Fatalf("Ingest genesis: %v", err)
	}

	uncommitted := newKey(t)
	uncommittedJWK, _ := uncommitted.PublicKeyJWK()

	badParams := types.DIDParameters{
		UpdateKeys:    []string{uncommittedJWK},
		NextKeyHashes: []string{committedHash},
	}

	bad := buildEntry(t, 2, t1, badParams, doc, uncommitted, false)

	err = v.Ingest(bad)
	if code, ok := tdwerrors.Of(err); !ok || code != tdwerrors.InvalidPreRotationKey {
		t.Fatalf("expected InvalidPreRotationKey, got %v", err)
	}
}

func TestCannotDeactivatePreRotation(t *testing.T) {
	signer1 := newKey(t)
	jwk1, _ := signer1.PublicKeyJWK()

	committedHash, err := entryhash.HashKey(jwk1)
	if err != nil {
		t.Fatalf("HashKey: %v", err)
	}

	pre := true
	params1 := types.DIDParameters{
		Method:        "did:tdw:0.4",
		UpdateKeys:    []string{jwk1},
		Prerotation:   &pre,
		NextKeyHashes: []string{committedHash},
	}

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	doc := types.DIDDocument{ID: "did:tdw:placeholder:example.com"}

	genesis := buildEntry(t, 1, t0, params1, doc, signer1, true)

	v := verifier.New("did:tdw:0.4")
	if err := v.Ingest(genesis); err != nil {
		t.Fatalf("Ingest genesis: %v", err)
	}

	notPre := false
	badParams := types.DIDParameters{
		UpdateKeys:  []string{jwk1},
		Prerotation: &notPre,
	}

	bad := buildEntry(t, 2, t1, badParams, doc, signer1, false)

	err = v.Ingest(bad)
	if code, ok := tdwerrors.Of(err); !ok || code != tdwerrors.CannotDeactivatePreRotation {
		t.Fatalf("expected CannotDeactivatePreRotation, got %v", err)
	}
}

func TestSelectByVersionTime(t *testing.T) {
	signer := newKey(t)
	jwk, _ := signer.PublicKeyJWK()

	params := types.DIDParameters{Method: "did:tdw:0.4", UpdateKeys: []string{jwk}}

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	t2 := t1.Add(time.Hour)

	doc1 := types.DIDDocument{ID: "did:tdw:placeholder:example.com", AlsoKnownAs: []string{"v1"}}
	doc2 := types.DIDDocument{ID: "did:tdw:placeholder:example.com", AlsoKnownAs: []string{"v2"}}
	doc3 := types.DIDDocument{ID: "did:tdw:placeholder:example.com", AlsoKnownAs: []string{"v3"}}

	genesis := buildEntry(t, 1, t0, params, doc1, signer, true)

	v := verifier.New("did:tdw:0.4")
	if err := v.Ingest(genesis); err != nil {
		t.Fatalf("Ingest genesis: %v", err)
	}

	e2 := buildEntry(t, 2, t1, v2Params(params), doc2, signer, false)
	if err := v.Ingest(e2); err != nil {
		t.Fatalf("Ingest v2: %v", err)
	}

	e3 := buildEntry(t, 3, t2, v2Params(params), doc3, signer, false)
	if err := v.Ingest(e3); err != nil {
		t.Fatalf("Ingest v3: %v", err)
	}

	mid := t1.Add(30 * time.Minute)

	got, err := v.Select(nil, &mid)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if got.AlsoKnownAs[0] != "v2" {
		t.Fatalf("Select(versionTime=%v) = %v, want v2", mid, got.AlsoKnownAs)
	}

	early := t0.Add(-time.Minute)

	_, err = v.Select(nil, &early)
	if code, ok := tdwerrors.Of(err); !ok || code != tdwerrors.VersionNotFound {
		t.Fatalf("expected VersionNotFound for time before history, got %v", err)
	}
}

// v2Params returns an empty-delta parameters update (only UpdateKeys carried
// explicitly since proof verification needs them post-carry-forward; tests
// that rotate keys build their own params directly).
func v2Params(base types.DIDParameters) types.DIDParameters {
	return types.DIDParameters{UpdateKeys: base.UpdateKeys}
}
