// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

// Package logging provides a component-scoped structured logger used
// throughout the resolver and verifier.
package logging

import (
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
)

// SetHandler overrides the slog.Handler used by every component logger
// returned from this point forward. Intended for CLI wiring (e.g. switching
// to a JSON handler) and tests.
func SetHandler(h slog.Handler) {
	mu.Lock()
	defer mu.Unlock()

	handler = h
}

// Logger returns a logger scoped to component, e.g. "verifier" or
// "resolver/fetch". The component name is attached to every record as the
// "component" attribute.
func Logger(component string) *slog.Logger {
	mu.Lock()
	h := handler
	mu.Unlock()

	return slog.New(h).With("component", component)
}
