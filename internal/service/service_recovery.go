package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/recovery"
	"github.com/MKhiriev/go-vault-keeper/internal/session"
	"github.com/MKhiriev/go-vault-keeper/internal/shamir"
	"github.com/MKhiriev/go-vault-keeper/internal/store"
	"github.com/MKhiriev/go-vault-keeper/internal/validators"
	"github.com/MKhiriev/go-vault-keeper/internal/vault"
	"github.com/MKhiriev/go-vault-keeper/models"
)

type recoveryService struct {
	vaults   store.VaultRepository
	bundles  store.RecoveryBundleRepository
	hardware store.HardwareRecordRepository
	tokens   store.RecoveryTokenRepository

	engine    *vault.Engine
	social    *recovery.SocialManager
	keys      *recovery.HardwareManager
	issuer    *recovery.TokenService
	pool      *KDFPool
	biometric *session.BiometricKeys
	sessions  *session.RecoverySessions
	validator validators.Validator

	ttl time.Duration
	now func() time.Time

	logger *logger.Logger
}

// NewRecoveryService constructs a [RecoveryService] over deps.
func NewRecoveryService(deps Dependencies, logger *logger.Logger) RecoveryService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	ttl := deps.RecoveryTTL
	if ttl <= 0 {
		ttl = session.DefaultRecoveryTTL
	}

	return &recoveryService{
		vaults:    deps.Repositories.Vaults,
		bundles:   deps.Repositories.RecoveryBundles,
		hardware:  deps.Repositories.HardwareRecords,
		tokens:    deps.Repositories.RecoveryTokens,
		engine:    deps.Engine,
		social:    deps.Social,
		keys:      deps.Hardware,
		issuer:    deps.Tokens,
		pool:      deps.Pool,
		biometric: deps.Biometric,
		sessions:  deps.Sessions,
		validator: deps.Validator,
		ttl:       ttl,
		now:       now,
		logger:    logger,
	}
}

// ── Social recovery ──────────────────────────────────────────────────────────

func (s *recoveryService) SetupSocial(ctx context.Context, vaultID, phrase string, contacts []models.Contact, threshold int) (models.RecoveryBundle, error) {
	ctx = s.logger.WithOperation(ctx, "recovery.setup_social")
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, contacts); err != nil {
		return models.RecoveryBundle{}, err
	}

	seed, err := s.seedFromPhrase(ctx, vaultID, phrase)
	if err != nil {
		return models.RecoveryBundle{}, err
	}
	defer crypto.Zero(seed)

	bundle, err := s.social.Setup(seed, contacts, threshold)
	if err != nil {
		return models.RecoveryBundle{}, err
	}
	if err = s.validator.Validate(ctx, bundle); err != nil {
		return models.RecoveryBundle{}, err
	}

	if err = s.bundles.Save(ctx, models.StoredRecoveryBundle{VaultID: vaultID, Bundle: bundle}); err != nil {
		return models.RecoveryBundle{}, err
	}

	log.Info().
		Str("vault_id", vaultID).
		Str("recovery_id", bundle.RecoveryID).
		Int("threshold", bundle.Threshold).
		Int("contacts", bundle.TotalShares).
		Msg("social recovery set up")
	return bundle, nil
}

func (s *recoveryService) DecryptContactShard(ctx context.Context, recoveryID, email string) (string, error) {
	ctx = s.logger.WithOperation(ctx, "recovery.decrypt_shard")

	stored, err := s.bundles.Get(ctx, recoveryID)
	if err != nil {
		return "", err
	}

	for _, c := range stored.Bundle.Contacts {
		if c.Email != email {
			continue
		}
		share, err := s.social.DecryptContactShard(recoveryID, email, c.EncryptedShard)
		if err != nil {
			return "", err
		}
		return shamir.Encode(share), nil
	}
	return "", ErrUnknownContact
}

// SocialBundles lists the social recovery bundles enrolled for vaultID,
// oldest first.
func (s *recoveryService) SocialBundles(ctx context.Context, vaultID string) ([]models.RecoveryBundle, error) {
	ctx = s.logger.WithOperation(ctx, "recovery.list_social")

	if _, err := s.vaults.Get(ctx, vaultID); err != nil {
		return nil, err
	}

	stored, err := s.bundles.ListByVault(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	bundles := make([]models.RecoveryBundle, 0, len(stored))
	for _, b := range stored {
		bundles = append(bundles, b.Bundle)
	}
	return bundles, nil
}

func (s *recoveryService) RecoverWithShards(ctx context.Context, token, recoveryID string, shares []string, newPassword string) (err error) {
	ctx = s.logger.WithOperation(ctx, "recovery.recover_social")
	log := logger.FromContext(ctx)

	if len(shares) == 0 {
		return ErrNoShares
	}

	stored, err := s.bundles.Get(ctx, recoveryID)
	if err != nil {
		return err
	}

	tok, err := s.claimToken(ctx, token, models.RecoveryMethodSocial, stored.VaultID)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			s.releaseToken(ctx, tok)
		}
	}()

	decoded := make([]shamir.Share, 0, len(shares))
	for _, text := range shares {
		share, decodeErr := shamir.Decode(text)
		if decodeErr != nil {
			return decodeErr
		}
		decoded = append(decoded, share)
	}

	seed, err := s.social.RecoverSeed(decoded)
	if err != nil {
		return err
	}
	defer crypto.Zero(seed)

	if err = s.resetWithSeed(ctx, stored.VaultID, seed, newPassword); err != nil {
		return err
	}

	log.Info().Str("vault_id", stored.VaultID).Int("shares", len(decoded)).Msg("vault recovered from contact shards")
	return nil
}

// ── Hardware key recovery ────────────────────────────────────────────────────

func (s *recoveryService) GenerateHardwareKey(ctx context.Context) (models.HardwareBackupKey, error) {
	ctx = s.logger.WithOperation(ctx, "recovery.generate_hardware_key")

	key, err := s.keys.Generate()
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("failed to generate backup key")
		return models.HardwareBackupKey{}, err
	}
	return key, nil
}

func (s *recoveryService) SetupHardware(ctx context.Context, vaultID, phrase string, keyBytes []byte) (models.HardwareRecord, error) {
	ctx = s.logger.WithOperation(ctx, "recovery.setup_hardware")

	seed, err := s.seedFromPhrase(ctx, vaultID, phrase)
	if err != nil {
		return models.HardwareRecord{}, err
	}
	defer crypto.Zero(seed)

	record, err := s.keys.Setup(seed, keyBytes)
	if err != nil {
		return models.HardwareRecord{}, err
	}

	if err = s.hardware.Save(ctx, models.StoredHardwareRecord{VaultID: vaultID, Record: record}); err != nil {
		return models.HardwareRecord{}, err
	}

	logger.FromContext(ctx).Info().Str("vault_id", vaultID).Msg("hardware recovery set up")
	return record, nil
}

func (s *recoveryService) RecoverWithHardwareKey(ctx context.Context, token, backupKey, newPassword string) (_ string, err error) {
	ctx = s.logger.WithOperation(ctx, "recovery.recover_hardware")

	keyBytes, err := recovery.ParseBackupKey(backupKey)
	if err != nil {
		return "", err
	}
	keyHash := recovery.HashBackupKey(keyBytes)
	crypto.Zero(keyBytes)

	stored, err := s.hardware.FindByKeyHash(ctx, keyHash)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return "", recovery.ErrInvalidBackupKey
		}
		return "", err
	}

	tok, err := s.claimToken(ctx, token, models.RecoveryMethodHardware, stored.VaultID)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			s.releaseToken(ctx, tok)
		}
	}()

	seed, err := s.keys.Recover(backupKey, stored.Record.EncryptedSeed)
	if err != nil {
		return "", err
	}
	defer crypto.Zero(seed)

	if err = s.resetWithSeed(ctx, stored.VaultID, seed, newPassword); err != nil {
		return "", err
	}

	logger.FromContext(ctx).Info().Str("vault_id", stored.VaultID).Msg("vault recovered with hardware key")
	return stored.VaultID, nil
}

// ── Recovery tokens ──────────────────────────────────────────────────────────

func (s *recoveryService) StartRecovery(ctx context.Context, vaultID string, method models.RecoveryMethod) (string, error) {
	ctx = s.logger.WithOperation(ctx, "recovery.start")

	if _, err := s.vaults.Get(ctx, vaultID); err != nil {
		return "", err
	}

	token, err := s.issuer.Create()
	if err != nil {
		return "", err
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	record := models.RecoveryToken{
		TokenHash: s.issuer.Hash(token),
		VaultID:   vaultID,
		Method:    method,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err = s.validator.Validate(ctx, record); err != nil {
		return "", err
	}

	if err = s.tokens.Save(ctx, record); err != nil {
		return "", err
	}
	s.sessions.Open(record)

	logger.FromContext(ctx).Info().
		Str("vault_id", vaultID).
		Str("method", string(method)).
		Time("expires_at", record.ExpiresAt).
		Msg("recovery session opened")
	return token, nil
}

func (s *recoveryService) VerifyToken(ctx context.Context, token string) (models.RecoveryToken, error) {
	ctx = s.logger.WithOperation(ctx, "recovery.verify_token")

	if token == "" {
		return models.RecoveryToken{}, ErrInvalidRecoveryToken
	}
	hash := s.issuer.Hash(token)

	if record, ok := s.sessions.Lookup(hash); ok {
		return record, nil
	}

	// the in-memory session is gone after a restart; fall back to the
	// durable record and re-open it
	record, err := s.tokens.Get(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return models.RecoveryToken{}, ErrInvalidRecoveryToken
		}
		return models.RecoveryToken{}, err
	}
	if !s.now().Before(record.ExpiresAt) {
		return models.RecoveryToken{}, ErrInvalidRecoveryToken
	}

	s.sessions.Open(record)
	return record, nil
}

// claimToken checks that token opens a live session of the given method
// for vaultID and consumes it. The durable delete arbitrates between
// concurrent claims: only the caller that removes the row may go on, every
// other one gets [ErrInvalidRecoveryToken].
func (s *recoveryService) claimToken(ctx context.Context, token string, method models.RecoveryMethod, vaultID string) (models.RecoveryToken, error) {
	record, err := s.VerifyToken(ctx, token)
	if err != nil {
		return models.RecoveryToken{}, err
	}
	if record.Method != method {
		return models.RecoveryToken{}, ErrRecoveryMethodMismatch
	}
	if record.VaultID != vaultID {
		return models.RecoveryToken{}, ErrTokenVaultMismatch
	}

	s.sessions.Consume(record.TokenHash)
	if err = s.tokens.Delete(ctx, record.TokenHash); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			logger.FromContext(ctx).Warn().Str("vault_id", vaultID).Msg("recovery token already used")
			return models.RecoveryToken{}, ErrInvalidRecoveryToken
		}
		return models.RecoveryToken{}, err
	}
	return record, nil
}

// releaseToken gives a claimed token back after a failed attempt, so the
// user can retry until it expires.
func (s *recoveryService) releaseToken(ctx context.Context, record models.RecoveryToken) {
	if err := s.tokens.Save(ctx, record); err != nil {
		logger.FromContext(ctx).Err(err).Str("vault_id", record.VaultID).Msg("failed to restore recovery token")
		return
	}
	s.sessions.Open(record)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// seedFromPhrase opens the stored vault with phrase and returns its seed,
// so that a mistyped phrase cannot enrol a seed the vault does not use.
func (s *recoveryService) seedFromPhrase(ctx context.Context, vaultID, phrase string) ([]byte, error) {
	stored, err := s.vaults.Get(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	recovered, err := runKDF(ctx, s.pool, func() (vault.Recovered, error) {
		return s.engine.UnlockWithRecovery(stored.Envelope, phrase)
	})
	if err != nil {
		return nil, err
	}
	return recovered.Seed, nil
}

// resetWithSeed opens the vault with seed and rebuilds it under
// newPassword, keeping the payload and the seed.
func (s *recoveryService) resetWithSeed(ctx context.Context, vaultID string, seed []byte, newPassword string) error {
	stored, err := s.vaults.Get(ctx, vaultID)
	if err != nil {
		return err
	}

	envelope, err := runKDF(ctx, s.pool, func() (models.Vault, error) {
		payload, err := s.engine.UnlockWithSeed(stored.Envelope, seed)
		if err != nil {
			return models.Vault{}, err
		}
		return s.engine.CreateWithData(newPassword, payload, seed)
	})
	if err != nil {
		return fmt.Errorf("reset vault password: %w", err)
	}

	stored.Envelope = envelope
	if _, err = s.vaults.Update(ctx, stored); err != nil {
		return err
	}

	s.biometric.Forget(vaultID)
	return nil
}
