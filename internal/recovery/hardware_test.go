package recovery

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
)

var backupKeyPattern = regexp.MustCompile(`^[A-Z2-7]{4}(-[A-Z2-7]{1,4})*$`)

func TestHardwareManager_Generate(t *testing.T) {
	m := NewHardwareManager(crypto.NewCipher())

	key, err := m.Generate()
	require.NoError(t, err)

	assert.Len(t, key.KeyBytes, 32)
	assert.Regexp(t, backupKeyPattern, key.BackupKey)
	assert.Len(t, key.KeyHash, 64)
	assert.Equal(t, HashBackupKey(key.KeyBytes), key.KeyHash)

	parsed, err := ParseBackupKey(key.BackupKey)
	require.NoError(t, err)
	assert.Equal(t, key.KeyBytes, parsed)

	other, err := m.Generate()
	require.NoError(t, err)
	assert.NotEqual(t, key.BackupKey, other.BackupKey)
}

func TestHardwareManager_Recover(t *testing.T) {
	m := NewHardwareManager(crypto.NewCipher())
	seed := newSeed(t)

	key, err := m.Generate()
	require.NoError(t, err)
	record, err := m.Setup(seed, key.KeyBytes)
	require.NoError(t, err)
	assert.Equal(t, key.KeyHash, record.KeyHash)
	assert.False(t, record.Created.IsZero())

	variants := []string{
		key.BackupKey,
		strings.ReplaceAll(key.BackupKey, "-", ""),
		strings.ToLower(key.BackupKey),
		" " + strings.ReplaceAll(strings.ToLower(key.BackupKey), "-", " ") + "\n",
	}
	for _, text := range variants {
		got, err := m.Recover(text, record.EncryptedSeed)
		require.NoError(t, err, text)
		assert.Equal(t, seed, got)
	}

	other, err := m.Generate()
	require.NoError(t, err)
	_, err = m.Recover(other.BackupKey, record.EncryptedSeed)
	assert.ErrorIs(t, err, ErrInvalidBackupKey)
}

func TestHardwareManager_Setup_Validation(t *testing.T) {
	m := NewHardwareManager(crypto.NewCipher())

	_, err := m.Setup(make([]byte, 16), make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidSeed)
	_, err = m.Setup(make([]byte, 32), make([]byte, 16))
	assert.ErrorIs(t, err, ErrInvalidBackupKey)
}

func TestNormalizeBackupKey_Idempotent(t *testing.T) {
	in := "abcd-EFGH - ijkl\t2345"
	once := NormalizeBackupKey(in)
	assert.Equal(t, "ABCDEFGHIJKL2345", once)
	assert.Equal(t, once, NormalizeBackupKey(once))
}

func TestParseBackupKey_Invalid(t *testing.T) {
	for _, text := range []string{"", "ABCD-EFGH", "18!!-0000", strings.Repeat("A", 60)} {
		_, err := ParseBackupKey(text)
		assert.ErrorIs(t, err, ErrInvalidBackupKey, text)
	}
}

func TestFormatBackupKey(t *testing.T) {
	assert.Equal(t, "MZXW-6YTB-OI", FormatBackupKey([]byte("foobar")))
}
