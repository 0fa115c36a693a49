// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

// Package resolver fetches a did:tdw log over HTTPS and drives it through
// the verifier to produce a resolved DID document.
package resolver

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/trustdidweb/didresolve/logging"
	"github.com/trustdidweb/didresolve/tdwerrors"
	"github.com/trustdidweb/didresolve/tdwid"
	"github.com/trustdidweb/didresolve/types"
	"github.com/trustdidweb/didresolve/verifier"
)

var logger = logging.Logger("resolver")

// DefaultMethodVersion is the method-version tag new verifiers start with,
// absent any more specific override.
const DefaultMethodVersion = "did:tdw:0.4"

// DefaultTimeout bounds the log fetch when the caller supplies no client.
const DefaultTimeout = 30 * time.Second

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient overrides the HTTP client used to fetch the log.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		r.client = client
	}
}

// WithMethodVersion overrides the method-version tag a fresh verifier is
// initialized with.
func WithMethodVersion(version string) Option {
	return func(r *Resolver) {
		r.methodVersion = version
	}
}

// Resolver fetches and replays did:tdw logs.
type Resolver struct {
	client        *http.Client
	methodVersion string
}

// New constructs a Resolver with the given options, defaulting to a 30s
// timeout HTTP client and method-version "did:tdw:0.4".
func New(opts ...Option) *Resolver {
	r := &Resolver{
		client:        &http.Client{Timeout: DefaultTimeout},
		methodVersion: DefaultMethodVersion,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// FetchLog retrieves and parses the JSONL log served at u. Lines that fail
// to parse as a DIDLogEntry are skipped (and logged at Warn), not treated as
// fatal — this keeps forward compatibility with unknown future line
// formats, per SPEC_FULL.md §9.
func (r *Resolver) FetchLog(ctx context.Context, u string) (types.DIDLog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return types.DIDLog{}, tdwerrors.Wrap(tdwerrors.UrlError, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return types.DIDLog{}, tdwerrors.Wrap(tdwerrors.RequestError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.DIDLog{}, tdwerrors.Newf(tdwerrors.RequestError, "unexpected status %d fetching %s", resp.StatusCode, u)
	}

	return parseLog(resp.Body)
}

func parseLog(body io.Reader) (types.DIDLog, error) {
	var log types.DIDLog

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry types.DIDLogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			logger.Warn("skipping malformed log line", "line", lineNo, "error", err)

			continue
		}

		log.Entries = append(log.Entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return types.DIDLog{}, tdwerrors.Wrap(tdwerrors.RequestError, err)
	}

	return log, nil
}

// Resolve parses did, fetches its log, replays it through a fresh verifier,
// and returns the selected document. versionID or versionTime (at most one
// meaningfully used; versionID takes precedence) narrow the selection per
// verifier.Select.
func (r *Resolver) Resolve(ctx context.Context, did string, versionID *string, versionTime *time.Time) (types.DIDDocument, error) {
	parsed, err := tdwid.Parse(did)
	if err != nil {
		return types.DIDDocument{}, err
	}

	u, err := parsed.URL()
	if err != nil {
		return types.DIDDocument{}, err
	}

	logger.Debug("resolving did", "did", did, "url", u.String())

	log, err := r.FetchLog(ctx, u.String())
	if err != nil {
		return types.DIDDocument{}, err
	}

	v := verifier.New(r.methodVersion)

	for _, entry := range log.Entries {
		if err := v.Ingest(entry); err != nil {
			return types.DIDDocument{}, err
		}
	}

	return v.Select(versionID, versionTime)
}
