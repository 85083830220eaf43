package session

import (
	"time"

	"github.com/MKhiriev/go-vault-keeper/models"
)

// DefaultRecoveryTTL bounds an open recovery session when no TTL is
// configured.
const DefaultRecoveryTTL = 30 * time.Minute

// RecoverySessions indexes open recovery sessions by the hash of their
// token. The raw token is never held.
type RecoverySessions struct {
	store *Store[models.RecoveryToken]
}

// NewRecoverySessions creates a session store with the given default TTL.
func NewRecoverySessions(ttl time.Duration, opts ...StoreOption[models.RecoveryToken]) *RecoverySessions {
	if ttl <= 0 {
		ttl = DefaultRecoveryTTL
	}
	return &RecoverySessions{store: NewStore[models.RecoveryToken](ttl, opts...)}
}

// Open registers tok until tok.ExpiresAt, or for the default TTL when the
// token carries no expiry.
func (r *RecoverySessions) Open(tok models.RecoveryToken) {
	if tok.ExpiresAt.IsZero() {
		r.store.Put(tok.TokenHash, tok)
		return
	}
	r.store.PutUntil(tok.TokenHash, tok, tok.ExpiresAt)
}

// Lookup returns the live session for tokenHash.
func (r *RecoverySessions) Lookup(tokenHash string) (models.RecoveryToken, bool) {
	return r.store.Get(tokenHash)
}

// Consume returns the live session for tokenHash and closes it, so a token
// can complete at most one recovery.
func (r *RecoverySessions) Consume(tokenHash string) (models.RecoveryToken, bool) {
	return r.store.Take(tokenHash)
}

// Close drops the session for tokenHash.
func (r *RecoverySessions) Close(tokenHash string) {
	r.store.Delete(tokenHash)
}

// Sweep implements [Sweepable].
func (r *RecoverySessions) Sweep(now time.Time) int {
	return r.store.Sweep(now)
}
