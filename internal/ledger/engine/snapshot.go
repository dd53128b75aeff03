package engine

import (
	"cmp"
	"slices"

	"github.com/louisbranch/giving.space/internal/ledger/domain"
)

// State is a complete, self-contained copy of every ledger the engine owns.
// It exists so storage can persist and restore the engine without reaching
// into its maps. Slices are ordered deterministically.
type State struct {
	Config         domain.Config
	Assets         []domain.Asset
	Campaigns      []domain.Campaign
	Participations []ParticipationState
	Donations      []DonationState
	Milestones     []MilestoneState
	Rewards        []RewardState
}

// ParticipationState flattens one (user, campaign) participation record.
type ParticipationState struct {
	User       domain.Identity
	CampaignID uint64
	AssetIDs   []uint64
	Total      uint64
}

// DonationState flattens one (user, campaign) donation snapshot.
type DonationState struct {
	User       domain.Identity
	CampaignID uint64
	Amount     uint64
	Height     uint64
}

// MilestoneState flattens one (campaign, milestone) record.
type MilestoneState struct {
	CampaignID  uint64
	MilestoneID uint64
	Milestone   domain.Milestone
}

// RewardState flattens one user's reward asset list.
type RewardState struct {
	User     domain.Identity
	AssetIDs []uint64
}

// Snapshot copies the engine state for persistence.
func (e *Engine) Snapshot() State {
	state := State{Config: e.cfg}

	for _, asset := range e.assets {
		state.Assets = append(state.Assets, *asset)
	}
	slices.SortFunc(state.Assets, func(a, b domain.Asset) int {
		return cmp.Compare(a.ID, b.ID)
	})

	for _, campaign := range e.campaigns {
		copied := *campaign
		copied.AssetIDs = append([]uint64(nil), campaign.AssetIDs...)
		state.Campaigns = append(state.Campaigns, copied)
	}
	slices.SortFunc(state.Campaigns, func(a, b domain.Campaign) int {
		return cmp.Compare(a.ID, b.ID)
	})

	for key, participation := range e.participations {
		state.Participations = append(state.Participations, ParticipationState{
			User:       key.User,
			CampaignID: key.Campaign,
			AssetIDs:   append([]uint64(nil), participation.AssetIDs...),
			Total:      participation.Total,
		})
	}
	slices.SortFunc(state.Participations, func(a, b ParticipationState) int {
		if c := cmp.Compare(a.User, b.User); c != 0 {
			return c
		}
		return cmp.Compare(a.CampaignID, b.CampaignID)
	})

	for key, record := range e.donations {
		state.Donations = append(state.Donations, DonationState{
			User:       key.User,
			CampaignID: key.Campaign,
			Amount:     record.Amount,
			Height:     record.Height,
		})
	}
	slices.SortFunc(state.Donations, func(a, b DonationState) int {
		if c := cmp.Compare(a.User, b.User); c != 0 {
			return c
		}
		return cmp.Compare(a.CampaignID, b.CampaignID)
	})

	for key, milestone := range e.milestones {
		state.Milestones = append(state.Milestones, MilestoneState{
			CampaignID:  key.Campaign,
			MilestoneID: key.Milestone,
			Milestone:   *milestone,
		})
	}
	slices.SortFunc(state.Milestones, func(a, b MilestoneState) int {
		if c := cmp.Compare(a.CampaignID, b.CampaignID); c != 0 {
			return c
		}
		return cmp.Compare(a.MilestoneID, b.MilestoneID)
	})

	for user, assetIDs := range e.rewards {
		state.Rewards = append(state.Rewards, RewardState{
			User:     user,
			AssetIDs: append([]uint64(nil), assetIDs...),
		})
	}
	slices.SortFunc(state.Rewards, func(a, b RewardState) int {
		return cmp.Compare(a.User, b.User)
	})

	return state
}

// Restore replaces the engine state with a previously captured snapshot.
// The admin identity from construction wins over the persisted one so a
// stored snapshot cannot rotate the administrator.
func (e *Engine) Restore(state State) {
	admin := e.cfg.Admin
	e.cfg = state.Config
	e.cfg.Admin = admin

	e.assets = make(map[uint64]*domain.Asset, len(state.Assets))
	for _, asset := range state.Assets {
		copied := asset
		e.assets[asset.ID] = &copied
	}

	e.campaigns = make(map[uint64]*domain.Campaign, len(state.Campaigns))
	for _, campaign := range state.Campaigns {
		copied := campaign
		copied.AssetIDs = append([]uint64(nil), campaign.AssetIDs...)
		e.campaigns[campaign.ID] = &copied
	}

	e.participations = make(map[participationKey]*domain.Participation, len(state.Participations))
	for _, p := range state.Participations {
		e.participations[participationKey{User: p.User, Campaign: p.CampaignID}] = &domain.Participation{
			AssetIDs: append([]uint64(nil), p.AssetIDs...),
			Total:    p.Total,
		}
	}

	e.donations = make(map[participationKey]domain.DonationRecord, len(state.Donations))
	for _, d := range state.Donations {
		e.donations[participationKey{User: d.User, Campaign: d.CampaignID}] = domain.DonationRecord{
			Amount: d.Amount,
			Height: d.Height,
		}
	}

	e.milestones = make(map[milestoneKey]*domain.Milestone, len(state.Milestones))
	for _, m := range state.Milestones {
		copied := m.Milestone
		e.milestones[milestoneKey{Campaign: m.CampaignID, Milestone: m.MilestoneID}] = &copied
	}

	e.rewards = make(map[domain.Identity][]uint64, len(state.Rewards))
	for _, r := range state.Rewards {
		e.rewards[r.User] = append([]uint64(nil), r.AssetIDs...)
	}
}
