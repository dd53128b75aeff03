package domain

import (
	"strings"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
)

// Campaign is a time-bounded fundraising goal accepting currency and in-kind
// asset donations. Raised only increases while the campaign is active; Active
// transitions true to false exactly once and never back.
type Campaign struct {
	ID          uint64
	Name        string
	Description string
	Goal        uint64 // always > 0
	Raised      uint64
	Deadline    uint64 // logical height
	Active      bool
	AssetIDs    []uint64 // donated assets, bounded by MaxListLen
}

// Expired reports whether the campaign deadline has passed at the given
// height. Expiry is computed, never stored.
func (c Campaign) Expired(height uint64) bool {
	return height > c.Deadline
}

// CreateCampaignInput describes the metadata needed to create a campaign.
type CreateCampaignInput struct {
	Name        string
	Description string
	Goal        uint64
	Duration    uint64 // blocks until deadline, relative to current height
}

// NormalizeCreateCampaignInput trims and validates campaign input metadata.
// A zero goal is rejected so report percentages never divide by zero.
func NormalizeCreateCampaignInput(input CreateCampaignInput) (CreateCampaignInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if len(input.Name) > MaxNameLen {
		return CreateCampaignInput{}, apperrors.New(apperrors.CodeInvalidParameter, "campaign name exceeds maximum length")
	}
	if len(input.Description) > MaxDescriptionLen {
		return CreateCampaignInput{}, apperrors.New(apperrors.CodeInvalidParameter, "campaign description exceeds maximum length")
	}
	if input.Goal == 0 {
		return CreateCampaignInput{}, apperrors.New(apperrors.CodeInvalidParameter, "campaign goal must be greater than zero")
	}
	return input, nil
}

// Participation records a user's in-kind donations to one campaign: the
// donated asset identifiers and the cumulative value attributed to them.
// Records are created on first donation and never deleted.
type Participation struct {
	AssetIDs []uint64 // bounded by MaxListLen
	Total    uint64   // cumulative attributed value
}

// DonationRecord is a snapshot of the most recent direct currency donation by
// one user to one campaign. It is overwritten on every donation, not a log.
type DonationRecord struct {
	Amount uint64
	Height uint64
}

// Report summarizes one campaign for external consumers. GoalPercent uses
// integer division and is deliberately uncapped; RemainingBlocks is signed
// and goes negative once the deadline passes.
type Report struct {
	Name            string
	Raised          uint64
	GoalPercent     uint64
	AssetCount      int
	Active          bool
	RemainingBlocks int64
}
