// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

// Package keystore abstracts access to the signing key material the
// creation path needs. This fills the key-store collaborator left
// unimplemented in the reference implementation this project is grounded
// on (its create_store() panics with "Store creation not implemented").
package keystore

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/trustdidweb/didresolve/proof"
	"github.com/trustdidweb/didresolve/tdwerrors"
)

// KeyStore generates and retrieves named Ed25519 key pairs.
type KeyStore interface {
	// Generate creates a new Ed25519 key pair under name and returns a
	// Signer wrapping it.
	Generate(name string) (proof.Signer, error)

	// Get retrieves a previously generated Signer by name.
	Get(name string) (proof.Signer, error)
}

// Memory is an in-memory KeyStore, sufficient for local creation flows and
// tests. Modeled on the in-memory key registry in the teacher's
// identity/did.Manager.
type Memory struct {
	mu   sync.RWMutex
	keys map[string]proof.Ed25519Signer
}

// NewMemory constructs an empty in-memory key store.
func NewMemory() *Memory {
	return &Memory{keys: make(map[string]proof.Ed25519Signer)}
}

func (m *Memory) Generate(name string) (proof.Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, tdwerrors.Wrap(tdwerrors.KeyManagementError, err)
	}

	signer := proof.Ed25519Signer{Private: priv, Public: pub}

	m.mu.Lock()
	m.keys[name] = signer
	m.mu.Unlock()

	return signer, nil
}

func (m *Memory) Get(name string) (proof.Signer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	signer, ok := m.keys[name]
	if !ok {
		return nil, tdwerrors.Wrap(tdwerrors.KeyManagementError, fmt.Errorf("no key named %q", name))
	}

	return signer, nil
}
