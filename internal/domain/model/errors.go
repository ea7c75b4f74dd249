package model

import (
	"fmt"
	"strings"
)

// AuthError indicates that credential issuance failed, or that the panel
// rejected a freshly issued credential. The current command cannot proceed;
// the operator should verify the configured client ID and secret.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NetworkError indicates a transport-level failure (timeout, refused or
// reset connection) before a panel response was obtained. Transient; the
// command is safe to retry.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError indicates that the panel received the request and rejected it
// semantically. Code and Message come from the panel's response envelope.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("panel rejected request (code %d): %s", e.Code, e.Message)
}

// NotFoundError indicates that a reference matched no entity.
type NotFoundError struct {
	Kind string // "environment variable" or "task"
	Ref  Ref
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s matches %s", e.Kind, e.Ref)
}

// Candidate identifies one of several entities sharing a name.
type Candidate struct {
	ID     int64
	Detail string // remark for variables, command for tasks
}

// AmbiguousMatchError indicates that a bare-name reference matched more
// than one entity. Candidates lists every match so the caller can retry
// with the explicit id: form.
type AmbiguousMatchError struct {
	Kind       string
	Name       string
	Candidates []Candidate
}

func (e *AmbiguousMatchError) Error() string {
	ids := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		ids[i] = fmt.Sprintf("id:%d", c.ID)
	}
	return fmt.Sprintf("%d %ss named %q; retry with one of %s",
		len(e.Candidates), e.Kind, e.Name, strings.Join(ids, ", "))
}

// ValidationError indicates a missing or invalid required command argument.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("missing required %s", e.Field)
}
