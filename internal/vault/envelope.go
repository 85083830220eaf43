// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// IsValid reports whether v is structurally a version-1 envelope. No
// decryption is attempted.
func IsValid(v models.Vault) bool {
	if v.Version != models.VaultVersion || v.Format != models.VaultFormat {
		return false
	}
	if v.Created.IsZero() || v.Updated.IsZero() {
		return false
	}
	if v.KDF.Algorithm != models.KDFAlgorithmArgon2id || len(v.KDF.Salt) == 0 {
		return false
	}
	if v.KDF.MemoryCost == 0 || v.KDF.TimeCost == 0 || v.KDF.Parallelism == 0 {
		return false
	}
	return validBox(v.Primary) && validBox(v.Recovery) && validBox(v.KeyWrap)
}

func validBox(s models.Sealed) bool {
	return len(s.Nonce) == crypto.NonceSize && len(s.Tag) == crypto.TagSize
}

// Parse decodes an exported envelope and checks it with [IsValid].
func Parse(data []byte) (models.Vault, error) {
	var v models.Vault
	if err := json.Unmarshal(data, &v); err != nil {
		return models.Vault{}, fmt.Errorf("%w: %w", ErrInvalidVault, err)
	}
	if !IsValid(v) {
		return models.Vault{}, ErrInvalidVault
	}
	return v, nil
}

// Export renders v as JSON indented with two spaces.
func Export(v models.Vault) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal vault: %w", err)
	}
	return string(data), nil
}
