package engine

import (
	"strconv"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
	"github.com/louisbranch/giving.space/internal/ledger/domain"
)

// AddMilestone creates or overwrites a funding target for a campaign.
// Admin-only; only campaign existence is checked, so milestones can be
// attached to expired or ended campaigns.
func (e *Engine) AddMilestone(caller domain.Identity, campaignID, milestoneID uint64, description string, target uint64, rewardURI string) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if _, ok := e.campaigns[campaignID]; !ok {
		return campaignNotFound(campaignID)
	}
	if err := domain.ValidateMilestoneInput(description, rewardURI); err != nil {
		return err
	}

	e.milestones[milestoneKey{Campaign: campaignID, Milestone: milestoneID}] = &domain.Milestone{
		Description: description,
		Target:      target,
		RewardURI:   rewardURI,
	}
	return nil
}

// ClaimMilestoneReward mints a reward asset for a caller whose cumulative
// in-kind participation value reached the milestone target. Direct currency
// donations never count toward the target. The claim is one-shot: once
// reached flips, every later claim fails regardless of qualification.
func (e *Engine) ClaimMilestoneReward(caller domain.Identity, campaignID, milestoneID uint64) (uint64, error) {
	milestone, ok := e.milestones[milestoneKey{Campaign: campaignID, Milestone: milestoneID}]
	if !ok {
		return 0, apperrors.WithMetadata(apperrors.CodeMilestoneNotFound, "milestone not found",
			map[string]string{
				"CampaignID":  strconv.FormatUint(campaignID, 10),
				"MilestoneID": strconv.FormatUint(milestoneID, 10),
			})
	}
	participation, ok := e.participations[participationKey{User: caller, Campaign: campaignID}]
	if !ok {
		return 0, apperrors.New(apperrors.CodeParticipationNotFound, "caller has no participation record")
	}
	if milestone.Reached {
		return 0, apperrors.New(apperrors.CodeInvalidParameter, "milestone reward already claimed")
	}
	if participation.Total < milestone.Target {
		return 0, apperrors.WithMetadata(apperrors.CodeInvalidParameter,
			"participation total is below the milestone target",
			map[string]string{
				"Total":  strconv.FormatUint(participation.Total, 10),
				"Target": strconv.FormatUint(milestone.Target, 10),
			})
	}
	if len(e.rewards[caller]) >= domain.MaxListLen {
		return 0, apperrors.New(apperrors.CodeInvalidParameter, "reward list is full")
	}

	assetID := e.mintInternal(caller, milestone.RewardURI, domain.RewardCategory)
	milestone.Reached = true
	e.rewards[caller] = append(e.rewards[caller], assetID)
	return assetID, nil
}

// Milestone returns a copy of the milestone record, reporting absence via ok.
func (e *Engine) Milestone(campaignID, milestoneID uint64) (domain.Milestone, bool) {
	milestone, ok := e.milestones[milestoneKey{Campaign: campaignID, Milestone: milestoneID}]
	if !ok {
		return domain.Milestone{}, false
	}
	return *milestone, true
}

// Rewards returns the asset identifiers minted for a user as milestone rewards.
func (e *Engine) Rewards(user domain.Identity) []uint64 {
	return append([]uint64(nil), e.rewards[user]...)
}
