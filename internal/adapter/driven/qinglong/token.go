package qinglong

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/qlbridge/qlbridge/internal/domain/model"
	"github.com/qlbridge/qlbridge/internal/domain/port/driven"
)

const (
	// expiryMargin is how much remaining lifetime a token must have to be
	// used. Tokens inside the margin are renewed before any request.
	expiryMargin = 30 * time.Minute

	// fallbackLifetime is assumed when the panel omits the expiration
	// field from the token response.
	fallbackLifetime = 6 * 24 * time.Hour
)

// tokenSource owns the bearer credential. All access goes through the
// mutex, so concurrent commands hitting an expired token trigger exactly
// one issuance exchange; the rest block and reuse the fresh credential.
type tokenSource struct {
	mu     sync.Mutex
	cred   model.Credential
	probed bool // persisted cache already consulted

	issue func(ctx context.Context) (model.Credential, error)
	cache driven.CredentialStore // nil disables persistence
	now   func() time.Time

	logger *slog.Logger
}

func newTokenSource(issue func(ctx context.Context) (model.Credential, error), cache driven.CredentialStore) *tokenSource {
	return &tokenSource{
		issue:  issue,
		cache:  cache,
		now:    time.Now,
		logger: slog.Default(),
	}
}

// EnsureValid returns a token with at least expiryMargin of lifetime left,
// issuing a new credential when the held one is absent or too close to
// expiry. Issuance failures surface as *model.AuthError.
func (s *tokenSource) EnsureValid(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cred.Valid(now, expiryMargin) {
		return s.cred.Token, nil
	}

	// One-time look at the persisted cache before paying for an exchange.
	if !s.probed && s.cache != nil {
		s.probed = true
		cred, err := s.cache.Load(ctx)
		switch {
		case err != nil:
			s.logger.Warn("credential cache unreadable, issuing fresh token", "error", err)
		case cred.Valid(now, expiryMargin):
			s.cred = cred
			return cred.Token, nil
		}
	}
	s.probed = true

	cred, err := s.issue(ctx)
	if err != nil {
		return "", err
	}
	s.cred = cred
	s.logger.Info("panel token issued", "expires_at", cred.ExpiresAt)

	if s.cache != nil {
		if err := s.cache.Save(ctx, cred); err != nil {
			s.logger.Warn("failed to persist credential", "error", err)
		}
	}
	return cred.Token, nil
}

// Invalidate discards the held credential so the next EnsureValid performs
// a fresh issuance exchange. Used when the panel rejects a token the local
// bookkeeping still considered valid (clock skew).
func (s *tokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = model.Credential{}
	// Do not re-probe the cache: it can only hold the token the panel
	// just rejected. The next Save overwrites it.
	s.probed = true
}
