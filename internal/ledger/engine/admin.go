package engine

import (
	apperrors "github.com/louisbranch/giving.space/internal/errors"
	"github.com/louisbranch/giving.space/internal/ledger/domain"
)

// SetCharityAddress updates the charity beneficiary identity. Admin-only.
func (e *Engine) SetCharityAddress(caller, charity domain.Identity) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if charity.IsZero() {
		return apperrors.New(apperrors.CodeInvalidParameter, "charity identity is required")
	}
	e.cfg.Charity = charity
	return nil
}

// SetDonationPercentage updates the marketplace charity share. Admin-only.
func (e *Engine) SetDonationPercentage(caller domain.Identity, percent uint64) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if err := domain.ValidateDonationPercent(percent); err != nil {
		return err
	}
	e.cfg.DonationPercent = percent
	return nil
}

// TogglePause flips the emergency pause flag. Admin-only, no other effects.
func (e *Engine) TogglePause(caller domain.Identity) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	e.cfg.Paused = !e.cfg.Paused
	return nil
}
