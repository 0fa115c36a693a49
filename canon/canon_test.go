// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

package canon_test

import (
	"testing"

	"github.com/trustdidweb/didresolve/canon"
)

func TestCanonicalizeFieldOrderIndependence(t *testing.T) {
	a := map[string]any{"b": 1, "a": 2, "c": 3}
	b := map[string]any{"c": 3, "a": 2, "b": 1}

	ca, err := canon.Canonicalize(a)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}

	cb, err := canon.Canonicalize(b)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}

	if string(ca) != string(cb) {
		t.Fatalf("Canonicalize not order-independent: %q != %q", ca, cb)
	}

	want := `{"a":2,"b":1,"c":3}`
	if string(ca) != want {
		t.Fatalf("Canonicalize(a) = %q, want %q", ca, want)
	}
}

func TestMultihashSHA256Deterministic(t *testing.T) {
	h1, err := canon.MultihashSHA256([]byte("hello"))
	if err != nil {
		t.Fatalf("MultihashSHA256: %v", err)
	}

	h2, err := canon.MultihashSHA256([]byte("hello"))
	if err != nil {
		t.Fatalf("MultihashSHA256: %v", err)
	}

	if h1 != h2 {
		t.Fatalf("MultihashSHA256 not deterministic")
	}

	h3, err := canon.MultihashSHA256([]byte("world"))
	if err != nil {
		t.Fatalf("MultihashSHA256: %v", err)
	}

	if h1 == h3 {
		t.Fatalf("MultihashSHA256 collided on distinct inputs")
	}
}
