// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

// Package didtdw is the library surface of the did:tdw resolver: Resolve
// fetches and verifies a did:tdw log, Create builds a new genesis entry.
// Everything else in this module (verifier, resolver, create, entryhash,
// proof, tdwid, canon, keystore, tdwerrors) is an implementation detail
// reachable directly by embedders who need finer control.
package didtdw

import (
	"context"
	"time"

	"github.com/trustdidweb/didresolve/create"
	"github.com/trustdidweb/didresolve/keystore"
	"github.com/trustdidweb/didresolve/resolver"
	"github.com/trustdidweb/didresolve/types"
)

// Resolve fetches the did:tdw log for did, replays it, and returns the
// document selected by versionID (if non-nil) or versionTime (if non-nil,
// and versionID is nil), else the latest document.
func Resolve(ctx context.Context, did string, versionID *string, versionTime *time.Time) (types.DIDDocument, error) {
	return resolver.New().Resolve(ctx, did, versionID, versionTime)
}

// Create generates a new did:tdw identifier rooted at domain, using ks to
// hold the generated signing key(s), and returns its identifier and genesis
// log entry.
func Create(ctx context.Context, ks keystore.KeyStore, domain string, enablePreRotation bool) (create.Result, error) {
	return create.CreateDID(ctx, ks, domain, enablePreRotation)
}
