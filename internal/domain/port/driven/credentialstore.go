package driven

import (
	"context"
	"errors"

	"github.com/qlbridge/qlbridge/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by CredentialStore implementations
// that encrypt at rest when no key was configured.
var ErrEncryptionKeyNotSet = errors.New("credential encryption key not set")

// CredentialStore persists the issued bearer credential so a restart can
// reuse an unexpired token instead of re-issuing. Only the token source
// reads or writes it; panel entity state is never persisted.
type CredentialStore interface {
	// Load returns the stored credential, or a zero Credential and nil
	// error when none is stored.
	Load(ctx context.Context) (model.Credential, error)
	// Save stores or replaces the credential.
	Save(ctx context.Context, cred model.Credential) error
	// Clear removes the stored credential.
	Clear(ctx context.Context) error
}
