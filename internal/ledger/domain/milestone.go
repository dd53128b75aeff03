package domain

import (
	apperrors "github.com/louisbranch/giving.space/internal/errors"
)

// Milestone is a per-campaign cumulative-contribution threshold that unlocks
// a one-time reward asset for the first qualifying claimer. Reached flips
// false to true exactly once.
type Milestone struct {
	Description string
	Target      uint64
	Reached     bool
	RewardURI   string
}

// ValidateMilestoneInput checks the bounded milestone strings.
func ValidateMilestoneInput(description, rewardURI string) error {
	if len(description) > MaxDescriptionLen {
		return apperrors.New(apperrors.CodeInvalidParameter, "milestone description exceeds maximum length")
	}
	if len(rewardURI) > MaxURILen {
		return apperrors.New(apperrors.CodeInvalidParameter, "milestone reward uri exceeds maximum length")
	}
	return nil
}
