// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

package create_test

import (
	"context"
	"testing"

	"github.com/trustdidweb/didresolve/create"
	"github.com/trustdidweb/didresolve/keystore"
	"github.com/trustdidweb/didresolve/proof"
	"github.com/trustdidweb/didresolve/tdwerrors"
	"github.com/trustdidweb/didresolve/verifier"
)

func TestCreateDIDVerifiesAndSelects(t *testing.T) {
	ks := keystore.NewMemory()

	result, err := create.CreateDID(context.Background(), ks, "example.com", false)
	if err != nil {
		t.Fatalf("CreateDID: %v", err)
	}

	if result.Entry.VersionID == "" {
		t.Fatalf("CreateDID produced an entry with no versionId")
	}

	if result.DID.SCID == "" {
		t.Fatalf("CreateDID produced a DID with no scid")
	}

	if result.Entry.State.ID != result.DID.String() {
		t.Fatalf("genesis state.id %q does not match the derived DID %q", result.Entry.State.ID, result.DID.String())
	}

	v := verifier.New("did:tdw:0.4")

	if err := v.Ingest(result.Entry); err != nil {
		t.Fatalf("the genesis entry CreateDID produced failed verification: %v", err)
	}

	doc, err := v.Select(nil, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if doc.ID != result.DID.String() {
		t.Fatalf("Select returned %q, want %q", doc.ID, result.DID.String())
	}
}

func TestCreateDIDWithPreRotation(t *testing.T) {
	ks := keystore.NewMemory()

	result, err := create.CreateDID(context.Background(), ks, "example.com", true)
	if err != nil {
		t.Fatalf("CreateDID: %v", err)
	}

	if result.Entry.Parameters.Prerotation == nil || !*result.Entry.Parameters.Prerotation {
		t.Fatalf("CreateDID(enablePreRotation=true) did not set prerotation")
	}

	if len(result.Entry.Parameters.NextKeyHashes) == 0 {
		t.Fatalf("CreateDID(enablePreRotation=true) did not publish next_key_hashes")
	}

	v := verifier.New("did:tdw:0.4")

	if err := v.Ingest(result.Entry); err != nil {
		t.Fatalf("genesis entry with pre-rotation failed verification: %v", err)
	}
}

func TestCreateDIDUnknownKeyStoreFailure(t *testing.T) {
	_, err := create.CreateDID(context.Background(), failingKeyStore{}, "example.com", false)
	if err == nil {
		t.Fatalf("CreateDID should propagate key store failures")
	}

	if _, ok := tdwerrors.Of(err); !ok {
		t.Fatalf("CreateDID should return a tdwerrors.Error, got %v", err)
	}
}

type failingKeyStore struct{}

func (failingKeyStore) Generate(string) (proof.Signer, error) {
	return nil, tdwerrors.New(tdwerrors.KeyManagementError)
}

func (failingKeyStore) Get(string) (proof.Signer, error) {
	return nil, tdwerrors.New(tdwerrors.KeyManagementError)
}
