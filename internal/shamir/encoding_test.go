package shamir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	s := Share{X: 0xfe, Data: []byte{0x00, 0x01, 0xab}}

	text := Encode(s)
	assert.Equal(t, "fe0001ab", text)

	got, err := Decode(text)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	got, err = Decode("  FE0001AB\n")
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestEncodeDecode_SplitShares(t *testing.T) {
	secret := []byte("a secret worth sharing")
	shares, err := Split(secret, 4, 2)
	require.NoError(t, err)

	decoded := make([]Share, 0, 2)
	for _, s := range shares[2:] {
		d, err := Decode(Encode(s))
		require.NoError(t, err)
		decoded = append(decoded, d)
	}

	got, err := Combine(decoded)
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestDecode_Invalid(t *testing.T) {
	for _, text := range []string{
		"",
		"01",
		"0",
		"01a",
		"zz00",
		"00abcd",
		strings.Repeat("g", 10),
	} {
		t.Run(text, func(t *testing.T) {
			_, err := Decode(text)
			assert.ErrorIs(t, err, ErrInvalidShareFormat)
			assert.EqualError(t, err, "Invalid share format")
		})
	}
}
