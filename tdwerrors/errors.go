// Copyright TrustDIDWeb Contributors
// SPDX-License-Identifier: Apache-2.0

// Package tdwerrors defines the closed set of errors a did:tdw resolution
// or creation can fail with.
package tdwerrors

import (
	"errors"
	"fmt"
)

// Code identifies one member of the closed error taxonomy.
type Code string

const (
	InvalidDIDFormat            Code = "InvalidDIDFormat"
	SCIDGenerationFailed         Code = "SCIDGenerationFailed"
	EntryHashGenerationFailed    Code = "EntryHashGenerationFailed"
	InvalidLogEntry              Code = "InvalidLogEntry"
	ResolutionFailed             Code = "ResolutionFailed"
	KeyManagementError           Code = "KeyManagementError"
	WitnessError                 Code = "WitnessError"
	SerializationError           Code = "SerializationError"
	MultihashError               Code = "MultihashError"
	JCSCanonalizationError       Code = "JCSCanonalizationError"
	InvalidProof                 Code = "InvalidProof"
	InvalidVersionId             Code = "InvalidVersionId"
	InvalidVersionNumber         Code = "InvalidVersionNumber"
	InvalidEntryHash             Code = "InvalidEntryHash"
	InvalidVersionTime           Code = "InvalidVersionTime"
	FutureVersionTime            Code = "FutureVersionTime"
	MissingSCID                  Code = "MissingSCID"
	InvalidSCID                  Code = "InvalidSCID"
	VersionNotFound              Code = "VersionNotFound"
	NoDocumentFound               Code = "NoDocumentFound"
	PreRotationNotActive         Code = "PreRotationNotActive"
	InvalidNextKeyHashes         Code = "InvalidNextKeyHashes"
	KeyNotPreRotated             Code = "KeyNotPreRotated"
	CannotDeactivatePreRotation  Code = "CannotDeactivatePreRotation"
	InvalidPreRotationKey        Code = "InvalidPreRotationKey"
	MissingNextKeyHashes         Code = "MissingNextKeyHashes"
	RequestError                 Code = "RequestError"
	Base58DecodeError            Code = "Base58DecodeError"
	UrlError                     Code = "UrlError"
)

// staticMessages holds the default message for codes that carry no wrapped
// cause or extra text.
var staticMessages = map[Code]string{
	InvalidDIDFormat:           "invalid did:tdw identifier format",
	SCIDGenerationFailed:       "failed to generate SCID",
	EntryHashGenerationFailed:  "failed to generate entry hash",
	InvalidLogEntry:            "invalid log entry",
	ResolutionFailed:           "resolution failed",
	SerializationError:        "serialization error",
	InvalidProof:              "proof verification failed",
	InvalidVersionId:          "malformed versionId",
	InvalidVersionNumber:      "unexpected version number",
	InvalidEntryHash:          "entry hash mismatch",
	InvalidVersionTime:        "versionTime did not advance",
	FutureVersionTime:         "versionTime is in the future",
	MissingSCID:               "active parameters have no scid",
	InvalidSCID:               "scid verification failed",
	VersionNotFound:           "no entry matches the requested version",
	NoDocumentFound:           "no document in history",
	PreRotationNotActive:      "pre-rotation is not active",
	KeyNotPreRotated:          "key was not pre-rotated",
	CannotDeactivatePreRotation: "pre-rotation cannot be deactivated once active",
	InvalidPreRotationKey:     "update key not committed by previous next_key_hashes",
	MissingNextKeyHashes:      "entry is missing next_key_hashes while pre-rotation is active",
	UrlError:                  "invalid URL",
}

// Error is the single error type returned by this module. It always carries
// a Code from the closed taxonomy, and optionally wraps an underlying cause.
type Error struct {
	Code Code
	Err  error
}

// New constructs an Error for code with no wrapped cause.
func New(code Code) *Error {
	return &Error{Code: code}
}

// Wrap constructs an Error for code, wrapping cause.
func Wrap(code Code, cause error) *Error {
	return &Error{Code: code, Err: cause}
}

// Newf constructs an Error for code with a formatted cause message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
	}

	if msg, ok := staticMessages[e.Code]; ok {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}

	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Code, so callers can
// write errors.Is(err, tdwerrors.New(tdwerrors.InvalidProof)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Code == e.Code
}

// Of extracts the Code carried by err, if err is (or wraps, including
// through errors.Join trees) an *Error.
func Of(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}

	return "", false
}
