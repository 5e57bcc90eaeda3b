package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCIDUnavailable means the store accepted the object but never exposed
// an IPFS CID for it. There is no fallback: an ETag is not a CID, and a
// record with a wrong identifier is worse than a visible failure.
var ErrCIDUnavailable = errors.New("IPFS CID not available from storage")

// ValidationError carries field-level detail for bad input. It is always
// reported before any session or store side effect.
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for field := range e.Details {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Details[field]))
	}

	return "invalid request data: " + strings.Join(parts, "; ")
}

// UploadError wraps any object store interaction failure so callers see a
// single error kind regardless of which store call failed.
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// AssemblyError is a workflow failure that happened after the upload
// session was created. It carries the session id so a failed attempt can
// be correlated with its audit record.
type AssemblyError struct {
	SessionID string
	Err       error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("nft assembly failed (session %s): %v", e.SessionID, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}
