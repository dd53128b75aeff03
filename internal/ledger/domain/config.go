package domain

import (
	"strconv"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
)

// Config is the ledger's global mutable configuration. The administrator and
// the charity beneficiary are identities; the counters are only advanced by
// the engine, never by admin setters.
type Config struct {
	Admin           Identity
	Charity         Identity
	DonationPercent uint64 // 0-100 share of sale price routed to charity
	Paused          bool
	TotalAssets     uint64 // last allocated asset id
	TotalDonations  uint64 // accumulated charity proceeds
	CampaignCount   uint64 // last allocated campaign id
}

// ValidateDonationPercent rejects percentages above 100.
func ValidateDonationPercent(percent uint64) error {
	if percent > 100 {
		return apperrors.WithMetadata(apperrors.CodeInvalidPercentage,
			"donation percentage must be between 0 and 100",
			map[string]string{"Percentage": strconv.FormatUint(percent, 10)})
	}
	return nil
}
