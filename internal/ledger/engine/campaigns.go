package engine

import (
	"context"
	"strconv"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
	"github.com/louisbranch/giving.space/internal/ledger/domain"
)

// CreateCampaign allocates a campaign with deadline = current height +
// duration. Admin-only; campaign creation stays open during a pause.
func (e *Engine) CreateCampaign(caller domain.Identity, input domain.CreateCampaignInput) (uint64, error) {
	if err := e.requireAdmin(caller); err != nil {
		return 0, err
	}
	normalized, err := domain.NormalizeCreateCampaignInput(input)
	if err != nil {
		return 0, err
	}

	id := e.cfg.CampaignCount + 1
	e.campaigns[id] = &domain.Campaign{
		ID:          id,
		Name:        normalized.Name,
		Description: normalized.Description,
		Goal:        normalized.Goal,
		Deadline:    e.height() + normalized.Duration,
		Active:      true,
	}
	e.cfg.CampaignCount = id
	return id, nil
}

// DonateCurrency moves amount from the caller to the charity beneficiary and
// credits the campaign. The (user, campaign) donation snapshot is overwritten
// with this amount and the current height. Currency donations are considered
// safe during a pause and are not gated on it.
func (e *Engine) DonateCurrency(ctx context.Context, caller domain.Identity, campaignID, amount uint64) error {
	campaign, err := e.activeCampaign(campaignID)
	if err != nil {
		return err
	}
	height := e.height()
	if campaign.Expired(height) {
		return campaignExpired(campaignID)
	}
	if caller.IsZero() {
		return apperrors.New(apperrors.CodeInvalidParameter, "caller identity is required")
	}

	if err := e.bank.Transfer(ctx, amount, caller, e.cfg.Charity); err != nil {
		return err
	}

	campaign.Raised += amount
	e.cfg.TotalDonations += amount
	e.donations[participationKey{User: caller, Campaign: campaignID}] = domain.DonationRecord{
		Amount: amount,
		Height: height,
	}
	return nil
}

// DonateAsset donates an owned asset in kind. The asset moves into admin
// custody and its listing price at this moment becomes the attributed value;
// an unlisted asset contributes zero. Both the campaign's asset list and the
// caller's participation list must have capacity before anything mutates.
func (e *Engine) DonateAsset(caller domain.Identity, assetID, campaignID uint64) error {
	if err := e.requireUnpaused(); err != nil {
		return err
	}
	campaign, err := e.activeCampaign(campaignID)
	if err != nil {
		return err
	}
	if campaign.Expired(e.height()) {
		return campaignExpired(campaignID)
	}
	asset, ok := e.assets[assetID]
	if !ok {
		return assetNotFound(assetID)
	}
	if asset.Owner != caller {
		return notOwner(assetID)
	}
	if len(campaign.AssetIDs) >= domain.MaxListLen {
		return apperrors.New(apperrors.CodeInvalidParameter, "campaign asset list is full")
	}
	key := participationKey{User: caller, Campaign: campaignID}
	participation := e.participations[key]
	if participation != nil && len(participation.AssetIDs) >= domain.MaxListLen {
		return apperrors.New(apperrors.CodeInvalidParameter, "participation list is full")
	}

	value := asset.Price // 0 when unlisted; valuation is the listing at donation time

	asset.Owner = e.cfg.Admin
	campaign.AssetIDs = append(campaign.AssetIDs, assetID)
	campaign.Raised += value
	if participation == nil {
		participation = &domain.Participation{}
		e.participations[key] = participation
	}
	participation.AssetIDs = append(participation.AssetIDs, assetID)
	participation.Total += value
	return nil
}

// EndCampaign permanently deactivates a campaign. Admin-only and idempotent:
// ending an ended campaign is harmless.
func (e *Engine) EndCampaign(caller domain.Identity, campaignID uint64) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	campaign, ok := e.campaigns[campaignID]
	if !ok {
		return campaignNotFound(campaignID)
	}
	campaign.Active = false
	return nil
}

// Campaign returns a copy of the campaign record, reporting absence via ok.
func (e *Engine) Campaign(campaignID uint64) (domain.Campaign, bool) {
	campaign, ok := e.campaigns[campaignID]
	if !ok {
		return domain.Campaign{}, false
	}
	out := *campaign
	out.AssetIDs = append([]uint64(nil), campaign.AssetIDs...)
	return out, true
}

// CampaignAssets returns the identifiers of assets donated to the campaign.
func (e *Engine) CampaignAssets(campaignID uint64) ([]uint64, bool) {
	campaign, ok := e.campaigns[campaignID]
	if !ok {
		return nil, false
	}
	return append([]uint64(nil), campaign.AssetIDs...), true
}

// Participation returns the caller's in-kind donation record for a campaign.
func (e *Engine) Participation(user domain.Identity, campaignID uint64) (domain.Participation, bool) {
	participation, ok := e.participations[participationKey{User: user, Campaign: campaignID}]
	if !ok {
		return domain.Participation{}, false
	}
	out := *participation
	out.AssetIDs = append([]uint64(nil), participation.AssetIDs...)
	return out, true
}

// DonationHistory returns the last direct currency donation snapshot for
// (user, campaign).
func (e *Engine) DonationHistory(user domain.Identity, campaignID uint64) (domain.DonationRecord, bool) {
	record, ok := e.donations[participationKey{User: user, Campaign: campaignID}]
	return record, ok
}

// Report summarizes a campaign. The goal percentage is uncapped integer
// math and wraps above raised totals of 1<<57; remaining blocks is signed
// and negative past the deadline.
func (e *Engine) Report(campaignID uint64) (domain.Report, error) {
	campaign, ok := e.campaigns[campaignID]
	if !ok {
		return domain.Report{}, campaignNotFound(campaignID)
	}
	return domain.Report{
		Name:            campaign.Name,
		Raised:          campaign.Raised,
		GoalPercent:     campaign.Raised * 100 / campaign.Goal,
		AssetCount:      len(campaign.AssetIDs),
		Active:          campaign.Active,
		RemainingBlocks: int64(campaign.Deadline) - int64(e.height()),
	}, nil
}

// activeCampaign resolves a campaign that exists and has not been ended.
// Missing and inactive campaigns intentionally share CAMPAIGN_NOT_FOUND so
// donors cannot distinguish them.
func (e *Engine) activeCampaign(campaignID uint64) (*domain.Campaign, error) {
	campaign, ok := e.campaigns[campaignID]
	if !ok || !campaign.Active {
		return nil, campaignNotFound(campaignID)
	}
	return campaign, nil
}

func campaignNotFound(campaignID uint64) error {
	return apperrors.WithMetadata(apperrors.CodeCampaignNotFound, "campaign not found or inactive",
		map[string]string{"CampaignID": strconv.FormatUint(campaignID, 10)})
}

func campaignExpired(campaignID uint64) error {
	return apperrors.WithMetadata(apperrors.CodeCampaignExpired, "campaign deadline has passed",
		map[string]string{"CampaignID": strconv.FormatUint(campaignID, 10)})
}
