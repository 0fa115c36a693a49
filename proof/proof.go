// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

// Package proof generates and verifies Data Integrity Proofs over did:tdw
// log entries.
//
// Verification performs a real Ed25519 signature check resolved against the
// entry's authorized update_keys by JWK thumbprint — unlike the reference
// implementation this project is grounded on, whose verify_proof is a stub
// that unconditionally returns true. See SPEC_FULL.md §9.
package proof

import (
	"crypto"
	"crypto/ed25519"
	"encoding/json"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multibase"

	"github.com/trustdidweb/didresolve/canon"
	"github.com/trustdidweb/didresolve/tdwerrors"
	"github.com/trustdidweb/didresolve/types"
)

// ed25519Multicodec is the multicodec prefix for an Ed25519 public key, as
// used by did:key/Multikey verificationMethod encodings.
var ed25519Multicodec = []byte{0xed, 0x01}

// Signer produces an Ed25519 signature and exposes the JWK and multibase
// forms of its public key, for inclusion as a proof's verificationMethod and
// a DID document's verificationMethod entry respectively.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKeyJWK() (string, error)
	PublicKeyMultibase() (string, error)
}

// Ed25519Signer is the concrete Signer backed by a raw key pair, used by the
// creation path and by tests.
type Ed25519Signer struct {
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

func (s Ed25519Signer) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.Private, message), nil
}

func (s Ed25519Signer) PublicKeyJWK() (string, error) {
	key, err := jwk.FromRaw(s.Public)
	if err != nil {
		return "", tdwerrors.Wrap(tdwerrors.KeyManagementError, err)
	}

	raw, err := json.Marshal(key)
	if err != nil {
		return "", tdwerrors.Wrap(tdwerrors.SerializationError, err)
	}

	return string(raw), nil
}

// PublicKeyMultibase returns s's public key as a Multikey-style multibase
// string (base58btc, 0xed01 multicodec prefix), the form used in a DID
// document's verificationMethod.publicKeyMultibase.
func (s Ed25519Signer) PublicKeyMultibase() (string, error) {
	prefixed := append(append([]byte(nil), ed25519Multicodec...), s.Public...)

	mb, err := multibase.Encode(multibase.Base58BTC, prefixed)
	if err != nil {
		return "", tdwerrors.Wrap(tdwerrors.KeyManagementError, err)
	}

	return mb, nil
}

// canonicalEntryBytes returns the canonicalized bytes of entry with its
// proof list cleared, the payload every proof signs over.
func canonicalEntryBytes(entry types.DIDLogEntry) ([]byte, error) {
	stripped := entry.Clone()
	stripped.Proof = []types.Proof{}

	return canon.Canonicalize(stripped)
}

// GenerateProof signs entry (with its own proof list cleared first) and
// returns the resulting DataIntegrityProof.
func GenerateProof(entry types.DIDLogEntry, signer Signer) (types.Proof, error) {
	payload, err := canonicalEntryBytes(entry)
	if err != nil {
		return types.Proof{}, err
	}

	sig, err := signer.Sign(payload)
	if err != nil {
		return types.Proof{}, tdwerrors.Wrap(tdwerrors.KeyManagementError, err)
	}

	vm, err := signer.PublicKeyJWK()
	if err != nil {
		return types.Proof{}, err
	}

	return types.Proof{
		Type:               "DataIntegrityProof",
		Created:            types.NewUnixTime(time.Now()),
		VerificationMethod: vm,
		ProofPurpose:       types.ProofPurposeAuthentication,
		ProofValue:         base58.Encode(sig),
	}, nil
}

// VerifyProof reports whether at least one of entry's proofs verifies
// against a key in authorizedKeyJWKs (entries are JWK strings, as carried in
// DIDParameters.UpdateKeys). Verification methods are matched to authorized
// keys by JWK thumbprint (RFC 7638). A proof's verificationMethod must be a
// bare JWK JSON string; any other form (such as a did:key URL) does not
// parse, and that proof is skipped. Only Ed25519 keys are matched.
func VerifyProof(entry types.DIDLogEntry, authorizedKeyJWKs []string) (bool, error) {
	if len(entry.Proof) == 0 {
		return false, tdwerrors.New(tdwerrors.InvalidProof)
	}

	payload, err := canonicalEntryBytes(entry)
	if err != nil {
		return false, err
	}

	authorizedThumbprints := make(map[string]ed25519.PublicKey, len(authorizedKeyJWKs))

	for _, keyStr := range authorizedKeyJWKs {
		key, err := jwk.ParseKey([]byte(keyStr))
		if err != nil {
			continue
		}

		tp, err := thumbprint(key)
		if err != nil {
			continue
		}

		pub, err := ed25519PublicKey(key)
		if err != nil {
			continue
		}

		authorizedThumbprints[tp] = pub
	}

	for _, p := range entry.Proof {
		vmKey, err := jwk.ParseKey([]byte(p.VerificationMethod))
		if err != nil {
			continue
		}

		tp, err := thumbprint(vmKey)
		if err != nil {
			continue
		}

		pub, ok := authorizedThumbprints[tp]
		if !ok {
			continue
		}

		sig, err := base58.Decode(p.ProofValue)
		if err != nil {
			return false, tdwerrors.Wrap(tdwerrors.Base58DecodeError, err)
		}

		if ed25519.Verify(pub, payload, sig) {
			return true, nil
		}
	}

	return false, tdwerrors.New(tdwerrors.InvalidProof)
}

func thumbprint(key jwk.Key) (string, error) {
	sum, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", err
	}

	return base58.Encode(sum), nil
}

func ed25519PublicKey(key jwk.Key) (ed25519.PublicKey, error) {
	var raw any
	if err := key.Raw(&raw); err != nil {
		return nil, err
	}

	pub, ok := raw.(ed25519.PublicKey)
	if !ok {
		return nil, tdwerrors.New(tdwerrors.KeyManagementError)
	}

	return pub, nil
}
