// Package shamir implements (n, k) threshold secret sharing over GF(256).
//
// Every byte of the secret is shared independently with a fresh random
// polynomial of degree k-1 whose constant term is that byte. Share i holds
// the evaluations at x = i for i in 1..n. Any k shares rebuild the secret by
// Lagrange interpolation at zero; fewer shares rebuild a wrong value of the
// same length without error, so callers that need integrity must
// authenticate the result themselves.
package shamir

import (
	"crypto/rand"
	"fmt"
	"io"
)

// MaxShares is the largest n supported; x-coordinates are non-zero bytes.
const MaxShares = 255

// Share is one evaluation point of the split secret.
type Share struct {
	// X is the evaluation point, 1..255.
	X byte
	// Data holds one evaluated byte per secret byte.
	Data []byte
}

// Split shares secret into n shares of which any k reconstruct it.
// Coefficients are drawn fresh on every call, so two splits of the same
// secret produce unrelated shares.
func Split(secret []byte, n, k int) ([]Share, error) {
	return split(rand.Reader, secret, n, k)
}

func split(random io.Reader, secret []byte, n, k int) ([]Share, error) {
	if k < 2 {
		return nil, ErrThresholdTooLow
	}
	if n < k {
		return nil, ErrTotalBelowThreshold
	}
	if n > MaxShares {
		return nil, ErrTooManyShares
	}
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	shares := make([]Share, n)
	for i := range shares {
		shares[i] = Share{X: byte(i + 1), Data: make([]byte, len(secret))}
	}

	coeffs := make([]byte, k)
	for pos, b := range secret {
		coeffs[0] = b
		if _, err := io.ReadFull(random, coeffs[1:]); err != nil {
			return nil, fmt.Errorf("random coefficients: %w", err)
		}
		for i := range shares {
			shares[i].Data[pos] = eval(coeffs, shares[i].X)
		}
	}
	clear(coeffs)

	return shares, nil
}

// Combine interpolates the secret at x=0 from shares. All provided shares
// are used. Duplicate indices and unequal lengths are rejected; a
// below-threshold set is not detectable here and yields a wrong secret.
func Combine(shares []Share) ([]byte, error) {
	if len(shares) == 0 {
		return nil, ErrNoShares
	}

	size := len(shares[0].Data)
	xs := make([]byte, len(shares))
	seen := make(map[byte]struct{}, len(shares))

	for i, s := range shares {
		if s.X == 0 {
			return nil, ErrInvalidShareFormat
		}
		if _, dup := seen[s.X]; dup {
			return nil, ErrDuplicateShareIndices
		}
		seen[s.X] = struct{}{}

		if len(s.Data) != size {
			return nil, ErrShareLengthMismatch
		}
		xs[i] = s.X
	}

	secret := make([]byte, size)
	ys := make([]byte, len(shares))
	for pos := range secret {
		for i, s := range shares {
			ys[i] = s.Data[pos]
		}
		secret[pos] = interpolateAtZero(xs, ys)
	}

	return secret, nil
}
