package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/recovery"
	"github.com/MKhiriev/go-vault-keeper/internal/session"
	"github.com/MKhiriev/go-vault-keeper/internal/store"
	"github.com/MKhiriev/go-vault-keeper/internal/utils"
	"github.com/MKhiriev/go-vault-keeper/internal/validators"
	"github.com/MKhiriev/go-vault-keeper/internal/vault"
)

// Services groups the service layer together with the worker that sweeps
// its session stores.
type Services struct {
	VaultService    VaultService
	RecoveryService RecoveryService
	Sweeper         *session.Sweeper
}

// Dependencies are the collaborators shared by both services.
type Dependencies struct {
	Repositories *store.Repositories
	Engine       *vault.Engine
	Social       *recovery.SocialManager
	Hardware     *recovery.HardwareManager
	Tokens       *recovery.TokenService
	Pool         *KDFPool
	Biometric    *session.BiometricKeys
	Sessions     *session.RecoverySessions
	Validator    validators.Validator
	IDs          *utils.UUIDGenerator
	RecoveryTTL  time.Duration
	Now          func() time.Time
}

// NewDependencies wires the crypto core, the KDF pool and the session
// stores from cfg.
func NewDependencies(repos *store.Repositories, cfg config.StructuredConfig) Dependencies {
	keys := crypto.NewKeyChain(crypto.WithPasswordParams(cfg.KDF.Params()))
	cipher := crypto.NewCipher()

	return Dependencies{
		Repositories: repos,
		Engine:       vault.NewEngine(keys, cipher),
		Social:       recovery.NewSocialManager(keys, cipher),
		Hardware:     recovery.NewHardwareManager(cipher),
		Tokens:       recovery.NewTokenService(cfg.App.TokenHashKey),
		Pool:         NewKDFPool(cfg.Workers.KDFConcurrency),
		Biometric:    session.NewBiometricKeys(cfg.Session.BiometricWindow),
		Sessions:     session.NewRecoverySessions(cfg.Session.RecoveryTTL),
		Validator:    validators.NewVaultValidator(),
		IDs:          utils.NewUUIDGenerator(),
		RecoveryTTL:  cfg.Session.RecoveryTTL,
		Now:          time.Now,
	}
}

// NewServices builds both services over deps and a sweeper for the
// biometric keys, the recovery sessions and the persisted tokens.
func NewServices(deps Dependencies, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	reaper := newTokenReaper(deps.Repositories.RecoveryTokens, logger)

	return &Services{
		VaultService:    NewVaultService(deps, logger),
		RecoveryService: NewRecoveryService(deps, logger),
		Sweeper:         session.NewSweeper(cfg.Session.SweepInterval, logger, deps.Biometric, deps.Sessions, reaper),
	}
}

// tokenReaper deletes expired recovery tokens from the durable store on
// every sweep.
type tokenReaper struct {
	tokens store.RecoveryTokenRepository
	logger *logger.Logger
}

func newTokenReaper(tokens store.RecoveryTokenRepository, logger *logger.Logger) *tokenReaper {
	return &tokenReaper{tokens: tokens, logger: logger}
}

// Sweep implements [session.Sweepable].
func (r *tokenReaper) Sweep(now time.Time) int {
	ctx := r.logger.WithOperation(context.Background(), "token.reap")

	n, err := r.tokens.DeleteExpired(ctx, now)
	if err != nil {
		r.logger.Err(err).Str("func", "*tokenReaper.Sweep").Msg("failed to delete expired recovery tokens")
		return 0
	}
	return int(n)
}
