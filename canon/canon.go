// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

// Package canon provides JSON Canonicalization Scheme (RFC 8785) encoding
// and multihash-sha256 digesting, the two primitives every hash-sensitive
// did:tdw computation (entry hash, SCID, key-hash commitments) builds on.
package canon

import (
	"encoding/json"

	jcs "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multihash"

	"github.com/trustdidweb/didresolve/tdwerrors"
)

// Canonicalize marshals v to JSON and applies RFC 8785 canonicalization, so
// that structurally equal values always produce byte-identical output
// regardless of field declaration order or map iteration order.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, tdwerrors.Wrap(tdwerrors.SerializationError, err)
	}

	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, tdwerrors.Wrap(tdwerrors.JCSCanonalizationError, err)
	}

	return canonical, nil
}

// MultihashSHA256 wraps the SHA-256 digest of data in a self-describing
// multihash ([0x12, 0x20, digest...]) and base58btc-encodes it.
func MultihashSHA256(data []byte) (string, error) {
	digest, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", tdwerrors.Wrap(tdwerrors.MultihashError, err)
	}

	return base58.Encode(digest), nil
}
