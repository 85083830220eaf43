// Package phrase turns a vault seed into a 12-word recovery phrase and back.
//
// The phrase is a BIP39 English mnemonic over 128 bits of entropy; the 32-byte
// vault seed is the first 32 bytes of the BIP39 seed stretched from it. The
// mapping is therefore phrase -> seed, deterministic and checksummed: the
// same phrase always yields the same seed, and a phrase with a wrong word,
// wrong word count or bad checksum is rejected.
package phrase

import (
	"errors"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

const (
	// WordCount is the number of words in a recovery phrase.
	WordCount = 12

	// SeedSize is the length of the vault seed derived from a phrase.
	SeedSize = 32

	entropyBits = 128
)

// ErrInvalidPhrase is returned for any phrase that does not decode.
var ErrInvalidPhrase = errors.New("Invalid recovery phrase") //nolint:staticcheck // user-facing message

// Recovery is a freshly generated phrase together with the seed it encodes.
type Recovery struct {
	Phrase string
	Seed   []byte
}

// Generate creates a new random phrase and its seed. The phrase must be shown
// to the user once and then discarded.
func Generate() (Recovery, error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return Recovery{}, err
	}
	return FromEntropy(entropy)
}

// FromEntropy builds the phrase for 16 bytes of entropy.
func FromEntropy(entropy []byte) (Recovery, error) {
	if len(entropy)*8 != entropyBits {
		return Recovery{}, ErrInvalidPhrase
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return Recovery{}, err
	}

	return Recovery{
		Phrase: mnemonic,
		Seed:   seedOf(mnemonic),
	}, nil
}

// RecoverSeed validates phrase and returns the seed it encodes. Input is
// case-folded and whitespace-collapsed first.
func RecoverSeed(phrase string) ([]byte, error) {
	words := Normalize(phrase)
	if len(strings.Fields(words)) != WordCount {
		return nil, ErrInvalidPhrase
	}
	if !bip39.IsMnemonicValid(words) {
		return nil, ErrInvalidPhrase
	}
	return seedOf(words), nil
}

// Normalize lowercases phrase and joins its words with single spaces.
func Normalize(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

func seedOf(mnemonic string) []byte {
	seed := bip39.NewSeed(mnemonic, "")
	return seed[:SeedSize]
}
