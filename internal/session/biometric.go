package session

import (
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
)

// DefaultBiometricWindow is how long a derived key stays usable after a
// password unlock when no window is configured.
const DefaultBiometricWindow = 5 * time.Minute

// BiometricKeys keeps the password key of recently unlocked vaults for a
// short window so a biometric prompt can reopen them without running the
// KDF. Keys are copied in and out and zeroed when they leave the store.
type BiometricKeys struct {
	store *Store[[]byte]
}

// NewBiometricKeys creates a key store with the given window.
func NewBiometricKeys(window time.Duration, opts ...StoreOption[[]byte]) *BiometricKeys {
	if window <= 0 {
		window = DefaultBiometricWindow
	}
	opts = append([]StoreOption[[]byte]{WithEvict[[]byte](crypto.Zero)}, opts...)
	return &BiometricKeys{store: NewStore[[]byte](window, opts...)}
}

// Remember stores a copy of key for vaultID, restarting the window.
func (b *BiometricKeys) Remember(vaultID string, key []byte) {
	b.store.Put(vaultID, append([]byte(nil), key...))
}

// Key returns a copy of the live key for vaultID. The copy is taken under
// the store lock, before a concurrent Forget or Sweep can zero the original.
func (b *BiometricKeys) Key(vaultID string) ([]byte, bool) {
	var out []byte
	ok := b.store.Inspect(vaultID, func(key []byte) {
		out = append([]byte(nil), key...)
	})
	return out, ok
}

// CanUseBiometrics reports whether a key for vaultID is still inside its
// window.
func (b *BiometricKeys) CanUseBiometrics(vaultID string) bool {
	_, ok := b.store.Get(vaultID)
	return ok
}

// Forget drops the key for vaultID.
func (b *BiometricKeys) Forget(vaultID string) {
	b.store.Delete(vaultID)
}

// Sweep implements [Sweepable].
func (b *BiometricKeys) Sweep(now time.Time) int {
	return b.store.Sweep(now)
}
