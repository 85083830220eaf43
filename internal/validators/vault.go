// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/mail"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-vault-keeper/internal/vault"
	"github.com/MKhiriev/go-vault-keeper/models"
)

const (
	FieldVaultID    = "vault_id"
	FieldEnvelope   = "envelope"
	FieldRevision   = "revision"
	FieldEmail      = "email"
	FieldContacts   = "contacts"
	FieldTokenHash  = "token_hash"
	FieldMethod     = "method"
	FieldExpiresAt  = "expires_at"
	FieldRecoveryID = "recovery_id"
	FieldShape      = "shape"
)

const (
	recoveryIDHexLen = 32
	tokenHashHexLen  = 64
)

var allowedMethods = []models.RecoveryMethod{
	models.RecoveryMethodPhrase,
	models.RecoveryMethodSocial,
	models.RecoveryMethodHardware,
}

// VaultValidator checks records on their way into the repositories.
type VaultValidator struct{}

func NewVaultValidator() Validator {
	return &VaultValidator{}
}

func (v *VaultValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.StoredVault:
		return v.validateStoredVault(ctx, value, fields...)
	case *models.StoredVault:
		return v.validateStoredVault(ctx, *value, fields...)

	case models.Contact:
		return v.validateContact(ctx, value, fields...)
	case []models.Contact:
		if len(value) == 0 {
			return ErrEmptyContacts
		}
		for i, c := range value {
			if err := v.validateContact(ctx, c, fields...); err != nil {
				return fmt.Errorf("contact %d: %w", i, err)
			}
		}
		return nil

	case models.RecoveryBundle:
		return v.validateBundle(ctx, value, fields...)
	case *models.RecoveryBundle:
		return v.validateBundle(ctx, *value, fields...)

	case models.RecoveryToken:
		return v.validateToken(ctx, value, fields...)
	case *models.RecoveryToken:
		return v.validateToken(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func isValidMethod(m models.RecoveryMethod) bool {
	for _, allowed := range allowedMethods {
		if m == allowed {
			return true
		}
	}
	return false
}

func isHexOfLen(s string, n int) bool {
	if len(s) != n {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// IsValidVaultID reports whether id is a canonical UUID.
func IsValidVaultID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}

func (v *VaultValidator) validateStoredVault(_ context.Context, sv models.StoredVault, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldVaultID, FieldEnvelope, FieldRevision}
	}

	for _, f := range fields {
		switch f {
		case FieldVaultID:
			if !IsValidVaultID(sv.VaultID) {
				return ErrInvalidVaultID
			}
		case FieldEnvelope:
			if !vault.IsValid(sv.Envelope) {
				return ErrInvalidEnvelope
			}
		case FieldRevision:
			if sv.Revision < 0 {
				return ErrInvalidRevision
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *VaultValidator) validateContact(_ context.Context, c models.Contact, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			addr, err := mail.ParseAddress(c.Email)
			if err != nil || addr.Address != c.Email {
				return ErrInvalidEmail
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *VaultValidator) validateBundle(ctx context.Context, b models.RecoveryBundle, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRecoveryID, FieldShape, FieldContacts}
	}

	for _, f := range fields {
		switch f {
		case FieldRecoveryID:
			if !isHexOfLen(b.RecoveryID, recoveryIDHexLen) {
				return ErrInvalidRecoveryID
			}
		case FieldShape:
			if b.TotalShares != len(b.Contacts) || b.Threshold < 2 || b.Threshold >= b.TotalShares {
				return ErrInvalidBundleShape
			}
		case FieldContacts:
			for i, c := range b.Contacts {
				if err := v.validateContact(ctx, models.Contact{Email: c.Email, Name: c.Name}); err != nil {
					return fmt.Errorf("contact %d: %w", i, err)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *VaultValidator) validateToken(_ context.Context, t models.RecoveryToken, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTokenHash, FieldVaultID, FieldMethod, FieldExpiresAt}
	}

	for _, f := range fields {
		switch f {
		case FieldTokenHash:
			if !isHexOfLen(t.TokenHash, tokenHashHexLen) {
				return ErrInvalidTokenHash
			}
		case FieldVaultID:
			if !IsValidVaultID(t.VaultID) {
				return ErrInvalidVaultID
			}
		case FieldMethod:
			if !isValidMethod(t.Method) {
				return ErrInvalidMethod
			}
		case FieldExpiresAt:
			if !t.ExpiresAt.After(t.CreatedAt) {
				return ErrInvalidExpiry
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
