// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

// Package tdwid parses and formats did:tdw identifiers and projects them to
// the HTTPS URL that serves their log.
package tdwid

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/trustdidweb/didresolve/tdwerrors"
)

// TdwDid is a parsed did:tdw identifier: did:tdw:<scid>:<host>[:port][/path].
type TdwDid struct {
	SCID   string
	Domain string
	Port   *uint16
	Path   *string
}

// Parse validates and decodes s as a did:tdw identifier.
func Parse(s string) (TdwDid, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 4 || parts[0] != "did" || parts[1] != "tdw" {
		return TdwDid{}, tdwerrors.New(tdwerrors.InvalidDIDFormat)
	}

	scid := parts[2]
	domainAndRest := strings.Join(parts[3:], ":")

	domainAndPort := domainAndRest

	var path *string

	if i := strings.Index(domainAndRest, "/"); i >= 0 {
		domainAndPort = domainAndRest[:i]
		p := domainAndRest[i+1:]
		path = &p
	}

	domain := domainAndPort

	var port *uint16

	if i := strings.Index(domainAndPort, ":"); i >= 0 {
		domain = domainAndPort[:i]

		n, err := strconv.ParseUint(domainAndPort[i+1:], 10, 16)
		if err != nil {
			return TdwDid{}, tdwerrors.Wrap(tdwerrors.InvalidDIDFormat, err)
		}

		p := uint16(n)
		port = &p
	}

	if scid == "" || domain == "" {
		return TdwDid{}, tdwerrors.New(tdwerrors.InvalidDIDFormat)
	}

	return TdwDid{SCID: scid, Domain: domain, Port: port, Path: path}, nil
}

// String renders d back to its did:tdw:... form.
func (d TdwDid) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "did:tdw:%s:%s", d.SCID, d.Domain)

	if d.Port != nil {
		fmt.Fprintf(&b, ":%d", *d.Port)
	}

	if d.Path != nil {
		fmt.Fprintf(&b, "/%s", *d.Path)
	}

	return b.String()
}

// URL projects d to the HTTPS location of its did.jsonl log.
func (d TdwDid) URL() (*url.URL, error) {
	authority := d.Domain
	if d.Port != nil {
		authority = fmt.Sprintf("%s:%d", d.Domain, *d.Port)
	}

	path := "/.well-known/did.jsonl"
	if d.Path != nil && *d.Path != "" {
		path = "/" + *d.Path + "/did.jsonl"
	}

	u, err := url.Parse("https://" + authority + path)
	if err != nil {
		return nil, tdwerrors.Wrap(tdwerrors.UrlError, err)
	}

	return u, nil
}
