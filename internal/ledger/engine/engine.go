// Package engine implements the ledger state-transition engine: asset
// ownership, marketplace sales with a charity split, campaign accounting,
// and milestone rewards. The engine executes one operation to completion
// before the next begins; every failure leaves state untouched.
package engine

import (
	"context"
	"errors"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
	"github.com/louisbranch/giving.space/internal/ledger/domain"
)

// Bank moves fungible currency between identities atomically. A failed
// transfer must leave both balances unchanged.
type Bank interface {
	Transfer(ctx context.Context, amount uint64, from, to domain.Identity) error
}

// participationKey identifies a (user, campaign) record.
type participationKey struct {
	User     domain.Identity
	Campaign uint64
}

// milestoneKey identifies a (campaign, milestone) record.
type milestoneKey struct {
	Campaign  uint64
	Milestone uint64
}

// Engine owns the four ledgers and the global configuration. All mutation
// goes through its methods; callers serialize invocations.
type Engine struct {
	cfg    domain.Config
	bank   Bank
	height func() uint64

	assets         map[uint64]*domain.Asset
	campaigns      map[uint64]*domain.Campaign
	participations map[participationKey]*domain.Participation
	donations      map[participationKey]domain.DonationRecord
	milestones     map[milestoneKey]*domain.Milestone
	rewards        map[domain.Identity][]uint64
}

// Options configures a new engine.
type Options struct {
	// Admin is the fixed administrator identity established at deployment.
	Admin domain.Identity
	// Charity receives the charitable share of marketplace and campaign proceeds.
	Charity domain.Identity
	// DonationPercent is the 0-100 share of each sale routed to the charity.
	DonationPercent uint64
	// Bank executes currency transfers on the engine's behalf.
	Bank Bank
	// Height supplies the external monotonic logical clock.
	Height func() uint64
}

// New creates an engine with empty ledgers.
func New(opts Options) (*Engine, error) {
	if opts.Admin.IsZero() {
		return nil, errors.New("admin identity is required")
	}
	if opts.Charity.IsZero() {
		return nil, errors.New("charity identity is required")
	}
	if opts.Bank == nil {
		return nil, errors.New("bank is required")
	}
	if opts.Height == nil {
		return nil, errors.New("height clock is required")
	}
	if err := domain.ValidateDonationPercent(opts.DonationPercent); err != nil {
		return nil, err
	}

	return &Engine{
		cfg: domain.Config{
			Admin:           opts.Admin,
			Charity:         opts.Charity,
			DonationPercent: opts.DonationPercent,
		},
		bank:           opts.Bank,
		height:         opts.Height,
		assets:         make(map[uint64]*domain.Asset),
		campaigns:      make(map[uint64]*domain.Campaign),
		participations: make(map[participationKey]*domain.Participation),
		donations:      make(map[participationKey]domain.DonationRecord),
		milestones:     make(map[milestoneKey]*domain.Milestone),
		rewards:        make(map[domain.Identity][]uint64),
	}, nil
}

// Config returns a copy of the global configuration.
func (e *Engine) Config() domain.Config {
	return e.cfg
}

// requireUnpaused fails with PAUSED while the emergency flag is set.
func (e *Engine) requireUnpaused() error {
	if e.cfg.Paused {
		return apperrors.New(apperrors.CodePaused, "ledger is paused")
	}
	return nil
}

// requireAdmin fails with NOT_AUTHORIZED unless caller is the administrator.
func (e *Engine) requireAdmin(caller domain.Identity) error {
	if caller != e.cfg.Admin {
		return apperrors.New(apperrors.CodeNotAuthorized, "caller is not the administrator")
	}
	return nil
}
