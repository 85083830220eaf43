package shamir

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomSecret(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func pick(shares []Share, idx ...int) []Share {
	out := make([]Share, 0, len(idx))
	for _, i := range idx {
		out = append(out, shares[i])
	}
	return out
}

func TestSplit_Shape(t *testing.T) {
	secret := randomSecret(t, 32)

	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)
	require.Len(t, shares, 5)

	for i, s := range shares {
		assert.Equal(t, byte(i+1), s.X)
		assert.Len(t, s.Data, len(secret))
	}
}

func TestSplitCombine_AnyThreeOfFive(t *testing.T) {
	secret := randomSecret(t, 32)
	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)

	for a := 0; a < 5; a++ {
		for b := a + 1; b < 5; b++ {
			for c := b + 1; c < 5; c++ {
				got, err := Combine(pick(shares, a, b, c))
				require.NoError(t, err)
				assert.Equal(t, secret, got, "subset %d,%d,%d", a, b, c)

				// order of shares is irrelevant
				got, err = Combine(pick(shares, c, a, b))
				require.NoError(t, err)
				assert.Equal(t, secret, got)
			}
		}
	}
}

func TestCombine_AllShares(t *testing.T) {
	secret := randomSecret(t, 32)
	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)

	got, err := Combine(shares)
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestCombine_BelowThreshold(t *testing.T) {
	secret := randomSecret(t, 32)
	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)

	for a := 0; a < 5; a++ {
		for b := a + 1; b < 5; b++ {
			got, err := Combine(pick(shares, a, b))
			require.NoError(t, err, "below-threshold combine does not error")
			assert.Len(t, got, len(secret))
			assert.NotEqual(t, secret, got)
		}
	}
}

func TestSplit_NonDeterministic(t *testing.T) {
	secret := randomSecret(t, 32)

	a, err := Split(secret, 5, 3)
	require.NoError(t, err)
	b, err := Split(secret, 5, 3)
	require.NoError(t, err)

	assert.NotEqual(t, a[0].Data, b[0].Data)
}

func TestSplit_Limits(t *testing.T) {
	secret := []byte("s")

	tests := []struct {
		name    string
		n, k    int
		wantErr error
		msg     string
	}{
		{"threshold one", 5, 1, ErrThresholdTooLow, "Threshold must be at least 2"},
		{"threshold zero", 5, 0, ErrThresholdTooLow, "Threshold must be at least 2"},
		{"total below threshold", 2, 3, ErrTotalBelowThreshold, "Total shares must be >= threshold"},
		{"too many shares", 256, 3, ErrTooManyShares, "Maximum 255 shares supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Split(secret, tt.n, tt.k)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.EqualError(t, err, tt.msg)
			assert.Nil(t, shares)
		})
	}

	_, err := Split(nil, 3, 2)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestSplit_Boundaries(t *testing.T) {
	secret := randomSecret(t, 4)

	shares, err := Split(secret, 255, 2)
	require.NoError(t, err)
	assert.Equal(t, byte(255), shares[254].X)

	got, err := Combine(pick(shares, 0, 254))
	require.NoError(t, err)
	assert.Equal(t, secret, got)

	shares, err = Split(secret, 2, 2)
	require.NoError(t, err)
	got, err = Combine(shares)
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestSplit_RandomFailure(t *testing.T) {
	_, err := split(bytes.NewReader(nil), []byte("secret"), 3, 2)
	require.Error(t, err)
}

func TestCombine_Errors(t *testing.T) {
	shares, err := Split(randomSecret(t, 16), 5, 3)
	require.NoError(t, err)

	_, err = Combine(nil)
	assert.ErrorIs(t, err, ErrNoShares)

	_, err = Combine([]Share{shares[0], shares[1], shares[0]})
	assert.ErrorIs(t, err, ErrDuplicateShareIndices)
	assert.EqualError(t, err, "Duplicate share indices")

	short := Share{X: shares[2].X, Data: shares[2].Data[:8]}
	_, err = Combine([]Share{shares[0], shares[1], short})
	assert.ErrorIs(t, err, ErrShareLengthMismatch)
	assert.EqualError(t, err, "Share length mismatch")

	_, err = Combine([]Share{{X: 0, Data: shares[0].Data}, shares[1]})
	assert.ErrorIs(t, err, ErrInvalidShareFormat)
}
