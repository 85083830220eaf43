package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/session"
	"github.com/MKhiriev/go-vault-keeper/internal/store"
	"github.com/MKhiriev/go-vault-keeper/internal/utils"
	"github.com/MKhiriev/go-vault-keeper/internal/validators"
	"github.com/MKhiriev/go-vault-keeper/internal/vault"
	"github.com/MKhiriev/go-vault-keeper/models"
)

type vaultService struct {
	vaults    store.VaultRepository
	engine    *vault.Engine
	pool      *KDFPool
	biometric *session.BiometricKeys
	validator validators.Validator
	ids       *utils.UUIDGenerator

	logger *logger.Logger
}

// NewVaultService constructs a [VaultService] over deps.
func NewVaultService(deps Dependencies, logger *logger.Logger) VaultService {
	return &vaultService{
		vaults:    deps.Repositories.Vaults,
		engine:    deps.Engine,
		pool:      deps.Pool,
		biometric: deps.Biometric,
		validator: deps.Validator,
		ids:       deps.IDs,
		logger:    logger,
	}
}

func (s *vaultService) Create(ctx context.Context, password string) (CreatedVault, error) {
	ctx = s.logger.WithOperation(ctx, "vault.create")
	log := logger.FromContext(ctx)

	created, err := runKDF(ctx, s.pool, func() (vault.Created, error) {
		return s.engine.Create(password)
	})
	if err != nil {
		return CreatedVault{}, fmt.Errorf("create vault: %w", err)
	}

	stored := models.StoredVault{VaultID: s.ids.Generate(), Envelope: created.Vault}
	if err = s.validator.Validate(ctx, stored, validators.FieldVaultID, validators.FieldEnvelope); err != nil {
		return CreatedVault{}, err
	}

	if _, err = s.vaults.Create(ctx, stored); err != nil {
		return CreatedVault{}, err
	}

	log.Info().Str("vault_id", stored.VaultID).Msg("vault created")
	return CreatedVault{VaultID: stored.VaultID, Phrase: created.Phrase}, nil
}

func (s *vaultService) Unlock(ctx context.Context, vaultID, password string) (models.Payload, error) {
	ctx = s.logger.WithOperation(ctx, "vault.unlock")

	stored, err := s.vaults.Get(ctx, vaultID)
	if err != nil {
		return models.Payload{}, err
	}

	unlocked, err := runKDF(ctx, s.pool, func() (vault.Unlocked, error) {
		return s.engine.UnlockWithPasswordAndKey(stored.Envelope, password)
	})
	if err != nil {
		s.authFailed(ctx, vaultID, err)
		return models.Payload{}, err
	}

	s.biometric.Remember(vaultID, unlocked.Key)
	crypto.Zero(unlocked.Key)

	return unlocked.Payload, nil
}

func (s *vaultService) UnlockWithBiometrics(ctx context.Context, vaultID string) (models.Payload, error) {
	ctx = s.logger.WithOperation(ctx, "vault.unlock_biometric")

	key, ok := s.biometric.Key(vaultID)
	if !ok {
		return models.Payload{}, ErrBiometricsUnavailable
	}
	defer crypto.Zero(key)

	stored, err := s.vaults.Get(ctx, vaultID)
	if err != nil {
		return models.Payload{}, err
	}

	payload, err := s.engine.UnlockWithKey(stored.Envelope, key)
	if err != nil {
		// the retained key no longer matches, e.g. after a password change
		// made elsewhere
		s.biometric.Forget(vaultID)
		s.authFailed(ctx, vaultID, err)
		return models.Payload{}, err
	}
	return payload, nil
}

func (s *vaultService) CanUseBiometrics(vaultID string) bool {
	return s.biometric.CanUseBiometrics(vaultID)
}

func (s *vaultService) UnlockWithPhrase(ctx context.Context, vaultID, phrase string) (models.Payload, error) {
	ctx = s.logger.WithOperation(ctx, "vault.unlock_phrase")

	stored, err := s.vaults.Get(ctx, vaultID)
	if err != nil {
		return models.Payload{}, err
	}

	recovered, err := runKDF(ctx, s.pool, func() (vault.Recovered, error) {
		return s.engine.UnlockWithRecovery(stored.Envelope, phrase)
	})
	if err != nil {
		s.authFailed(ctx, vaultID, err)
		return models.Payload{}, err
	}
	crypto.Zero(recovered.Seed)

	return recovered.Payload, nil
}

func (s *vaultService) Update(ctx context.Context, vaultID, password string, payload models.Payload) error {
	ctx = s.logger.WithOperation(ctx, "vault.update")

	return s.rewrite(ctx, vaultID, func(v models.Vault) (models.Vault, error) {
		return runKDF(ctx, s.pool, func() (models.Vault, error) {
			return s.engine.Update(v, password, payload)
		})
	})
}

func (s *vaultService) UpdateWithBiometrics(ctx context.Context, vaultID string, payload models.Payload) error {
	ctx = s.logger.WithOperation(ctx, "vault.update_biometric")

	key, ok := s.biometric.Key(vaultID)
	if !ok {
		return ErrBiometricsUnavailable
	}
	defer crypto.Zero(key)

	return s.rewrite(ctx, vaultID, func(v models.Vault) (models.Vault, error) {
		return s.engine.UpdateWithKey(v, key, payload)
	})
}

func (s *vaultService) ChangePassword(ctx context.Context, vaultID, oldPassword, newPassword string) error {
	ctx = s.logger.WithOperation(ctx, "vault.change_password")

	err := s.rewrite(ctx, vaultID, func(v models.Vault) (models.Vault, error) {
		return runKDF(ctx, s.pool, func() (models.Vault, error) {
			return s.engine.ChangePassword(v, oldPassword, newPassword)
		})
	})
	if err != nil {
		return err
	}

	s.biometric.Forget(vaultID)
	return nil
}

func (s *vaultService) ResetPasswordWithPhrase(ctx context.Context, vaultID, phrase, newPassword string) error {
	ctx = s.logger.WithOperation(ctx, "vault.reset_password")

	err := s.rewrite(ctx, vaultID, func(v models.Vault) (models.Vault, error) {
		return runKDF(ctx, s.pool, func() (models.Vault, error) {
			recovered, err := s.engine.UnlockWithRecovery(v, phrase)
			if err != nil {
				return models.Vault{}, err
			}
			defer crypto.Zero(recovered.Seed)

			return s.engine.CreateWithData(newPassword, recovered.Payload, recovered.Seed)
		})
	})
	if err != nil {
		return err
	}

	s.biometric.Forget(vaultID)
	return nil
}

func (s *vaultService) Export(ctx context.Context, vaultID string) (string, error) {
	ctx = s.logger.WithOperation(ctx, "vault.export")

	stored, err := s.vaults.Get(ctx, vaultID)
	if err != nil {
		return "", err
	}
	return vault.Export(stored.Envelope)
}

func (s *vaultService) Import(ctx context.Context, data []byte) (string, error) {
	ctx = s.logger.WithOperation(ctx, "vault.import")
	log := logger.FromContext(ctx)

	envelope, err := vault.Parse(data)
	if err != nil {
		return "", err
	}

	stored := models.StoredVault{VaultID: s.ids.Generate(), Envelope: envelope}
	if err = s.validator.Validate(ctx, stored, validators.FieldVaultID, validators.FieldEnvelope); err != nil {
		return "", err
	}

	if _, err = s.vaults.Create(ctx, stored); err != nil {
		return "", err
	}

	log.Info().Str("vault_id", stored.VaultID).Msg("vault imported")
	return stored.VaultID, nil
}

func (s *vaultService) List(ctx context.Context) ([]models.StoredVault, error) {
	return s.vaults.List(s.logger.WithOperation(ctx, "vault.list"))
}

func (s *vaultService) Lock(vaultID string) {
	s.biometric.Forget(vaultID)
}

func (s *vaultService) Delete(ctx context.Context, vaultID string) error {
	ctx = s.logger.WithOperation(ctx, "vault.delete")

	s.biometric.Forget(vaultID)
	if err := s.vaults.Delete(ctx, vaultID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Str("vault_id", vaultID).Msg("vault deleted")
	return nil
}

// rewrite loads the vault, applies fn to its envelope and stores the
// result conditioned on the revision that was read.
func (s *vaultService) rewrite(ctx context.Context, vaultID string, fn func(models.Vault) (models.Vault, error)) error {
	log := logger.FromContext(ctx)

	stored, err := s.vaults.Get(ctx, vaultID)
	if err != nil {
		return err
	}

	envelope, err := fn(stored.Envelope)
	if err != nil {
		s.authFailed(ctx, vaultID, err)
		return err
	}

	stored.Envelope = envelope
	if _, err = s.vaults.Update(ctx, stored); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			log.Warn().Str("vault_id", vaultID).Msg("vault changed concurrently")
		}
		return err
	}

	log.Info().Str("vault_id", vaultID).Msg("vault rewritten")
	return nil
}

// authFailed logs a failed authentication without its cause beyond the
// generic message.
func (s *vaultService) authFailed(ctx context.Context, vaultID string, err error) {
	logger.FromContext(ctx).Warn().
		Str("vault_id", vaultID).
		Str("reason", err.Error()).
		Msg("vault authentication failed")
}
