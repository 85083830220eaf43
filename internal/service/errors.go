package service

import "errors"

var (
	ErrBiometricsUnavailable = errors.New("biometric unlock is not available for this vault")

	ErrInvalidRecoveryToken   = errors.New("invalid or expired recovery token")
	ErrRecoveryMethodMismatch = errors.New("recovery token was issued for a different method")
	ErrTokenVaultMismatch     = errors.New("recovery token was issued for a different vault")

	ErrUnknownContact = errors.New("contact is not enrolled in this recovery bundle")
	ErrNoShares       = errors.New("no recovery shares provided")
)
