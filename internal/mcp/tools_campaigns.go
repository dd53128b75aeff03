package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/giving.space/internal/ledger/domain"
)

// CampaignCreateInput represents the MCP tool input for creating a campaign.
type CampaignCreateInput struct {
	Caller      string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant       string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
	Name        string `json:"name" jsonschema:"campaign name"`
	Description string `json:"description,omitempty" jsonschema:"campaign description"`
	Goal        uint64 `json:"goal" jsonschema:"fundraising goal, must be greater than zero"`
	Duration    uint64 `json:"duration" jsonschema:"campaign lifetime in blocks"`
}

// CampaignCreateResult represents the MCP tool output for campaign creation.
type CampaignCreateResult struct {
	CampaignID uint64 `json:"campaign_id" jsonschema:"identifier of the new campaign"`
	Deadline   uint64 `json:"deadline" jsonschema:"block height at which the campaign expires"`
}

func campaignCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_create",
		Description: "Creates a fundraising campaign (admin only)",
	}
}

func (s *Server) campaignCreateHandler() mcp.ToolHandlerFor[CampaignCreateInput, CampaignCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignCreateInput) (*mcp.CallToolResult, CampaignCreateResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, CampaignCreateResult{}, err
		}
		var result CampaignCreateResult
		err = s.mutate(ctx, "campaign_create", func(context.Context) error {
			campaignID, err := s.engine.CreateCampaign(caller, domain.CreateCampaignInput{
				Name:        input.Name,
				Description: input.Description,
				Goal:        input.Goal,
				Duration:    input.Duration,
			})
			if err != nil {
				return err
			}
			result.CampaignID = campaignID
			if campaign, ok := s.engine.Campaign(campaignID); ok {
				result.Deadline = campaign.Deadline
			}
			return nil
		})
		if err != nil {
			return nil, CampaignCreateResult{}, err
		}
		return nil, result, nil
	}
}

// CampaignDonateInput represents the MCP tool input for a currency donation.
type CampaignDonateInput struct {
	Caller     string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant      string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
	CampaignID uint64 `json:"campaign_id" jsonschema:"campaign to donate to"`
	Amount     uint64 `json:"amount" jsonschema:"amount to donate"`
}

// CampaignDonateResult represents the MCP tool output for a currency donation.
type CampaignDonateResult struct {
	CampaignID uint64 `json:"campaign_id" jsonschema:"campaign donated to"`
	Raised     uint64 `json:"raised" jsonschema:"campaign total after the donation"`
}

func campaignDonateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_donate",
		Description: "Donates currency to a campaign; funds go straight to the charity",
	}
}

func (s *Server) campaignDonateHandler() mcp.ToolHandlerFor[CampaignDonateInput, CampaignDonateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignDonateInput) (*mcp.CallToolResult, CampaignDonateResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, CampaignDonateResult{}, err
		}
		var result CampaignDonateResult
		err = s.mutate(ctx, "campaign_donate", func(ctx context.Context) error {
			if err := s.engine.DonateCurrency(ctx, caller, input.CampaignID, input.Amount); err != nil {
				return err
			}
			result.CampaignID = input.CampaignID
			if campaign, ok := s.engine.Campaign(input.CampaignID); ok {
				result.Raised = campaign.Raised
			}
			return nil
		})
		if err != nil {
			return nil, CampaignDonateResult{}, err
		}
		return nil, result, nil
	}
}

// CampaignDonateAssetInput represents the MCP tool input for an in-kind donation.
type CampaignDonateAssetInput struct {
	Caller     string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant      string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
	CampaignID uint64 `json:"campaign_id" jsonschema:"campaign to donate to"`
	AssetID    uint64 `json:"asset_id" jsonschema:"asset to donate"`
}

// CampaignDonateAssetResult represents the MCP tool output for an in-kind donation.
type CampaignDonateAssetResult struct {
	CampaignID uint64 `json:"campaign_id" jsonschema:"campaign donated to"`
	Raised     uint64 `json:"raised" jsonschema:"campaign total after the donation"`
}

func campaignDonateAssetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_donate_asset",
		Description: "Donates an asset to a campaign at its current listing value",
	}
}

func (s *Server) campaignDonateAssetHandler() mcp.ToolHandlerFor[CampaignDonateAssetInput, CampaignDonateAssetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignDonateAssetInput) (*mcp.CallToolResult, CampaignDonateAssetResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, CampaignDonateAssetResult{}, err
		}
		var result CampaignDonateAssetResult
		err = s.mutate(ctx, "campaign_donate_asset", func(context.Context) error {
			if err := s.engine.DonateAsset(caller, input.AssetID, input.CampaignID); err != nil {
				return err
			}
			result.CampaignID = input.CampaignID
			if campaign, ok := s.engine.Campaign(input.CampaignID); ok {
				result.Raised = campaign.Raised
			}
			return nil
		})
		if err != nil {
			return nil, CampaignDonateAssetResult{}, err
		}
		return nil, result, nil
	}
}

// CampaignEndInput represents the MCP tool input for ending a campaign.
type CampaignEndInput struct {
	Caller     string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant      string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
	CampaignID uint64 `json:"campaign_id" jsonschema:"campaign to end"`
}

// CampaignEndResult represents the MCP tool output for ending a campaign.
type CampaignEndResult struct {
	CampaignID uint64 `json:"campaign_id" jsonschema:"campaign ended"`
	Active     bool   `json:"active" jsonschema:"campaign state after the call"`
}

func campaignEndTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_end",
		Description: "Ends a campaign (admin only, idempotent)",
	}
}

func (s *Server) campaignEndHandler() mcp.ToolHandlerFor[CampaignEndInput, CampaignEndResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignEndInput) (*mcp.CallToolResult, CampaignEndResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, CampaignEndResult{}, err
		}
		err = s.mutate(ctx, "campaign_end", func(context.Context) error {
			return s.engine.EndCampaign(caller, input.CampaignID)
		})
		if err != nil {
			return nil, CampaignEndResult{}, err
		}
		return nil, CampaignEndResult{CampaignID: input.CampaignID, Active: false}, nil
	}
}

// CampaignReportInput represents the MCP tool input for a campaign report.
type CampaignReportInput struct {
	CampaignID uint64 `json:"campaign_id" jsonschema:"campaign to report on"`
}

// CampaignReportResult represents the MCP tool output for a campaign report.
type CampaignReportResult struct {
	Name            string `json:"name" jsonschema:"campaign name"`
	Raised          uint64 `json:"raised" jsonschema:"total raised so far"`
	GoalPercent     uint64 `json:"goal_percent" jsonschema:"progress toward the goal, uncapped integer percent"`
	AssetCount      int    `json:"asset_count" jsonschema:"number of donated assets"`
	Active          bool   `json:"active" jsonschema:"whether the campaign is active"`
	RemainingBlocks int64  `json:"remaining_blocks" jsonschema:"blocks until the deadline, negative when past"`
}

func campaignReportTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_report",
		Description: "Summarizes a campaign's fundraising progress",
	}
}

func (s *Server) campaignReportHandler() mcp.ToolHandlerFor[CampaignReportInput, CampaignReportResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CampaignReportInput) (*mcp.CallToolResult, CampaignReportResult, error) {
		var report domain.Report
		var err error
		s.read(func() {
			report, err = s.engine.Report(input.CampaignID)
		})
		if err != nil {
			return nil, CampaignReportResult{}, s.localize(err)
		}
		return nil, CampaignReportResult{
			Name:            report.Name,
			Raised:          report.Raised,
			GoalPercent:     report.GoalPercent,
			AssetCount:      report.AssetCount,
			Active:          report.Active,
			RemainingBlocks: report.RemainingBlocks,
		}, nil
	}
}

// CampaignGetInput represents the MCP tool input for reading a campaign.
type CampaignGetInput struct {
	CampaignID uint64 `json:"campaign_id" jsonschema:"campaign to look up"`
}

// CampaignGetResult represents the MCP tool output for a campaign lookup.
type CampaignGetResult struct {
	CampaignID  uint64 `json:"campaign_id" jsonschema:"campaign identifier"`
	Name        string `json:"name" jsonschema:"campaign name"`
	Description string `json:"description" jsonschema:"campaign description"`
	Goal        uint64 `json:"goal" jsonschema:"fundraising goal"`
	Raised      uint64 `json:"raised" jsonschema:"total raised so far"`
	Deadline    uint64 `json:"deadline" jsonschema:"block height at which the campaign expires"`
	Active      bool   `json:"active" jsonschema:"whether the campaign is active"`
}

func campaignGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_get",
		Description: "Reads one campaign record",
	}
}

func (s *Server) campaignGetHandler() mcp.ToolHandlerFor[CampaignGetInput, CampaignGetResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CampaignGetInput) (*mcp.CallToolResult, CampaignGetResult, error) {
		var campaign domain.Campaign
		var ok bool
		s.read(func() {
			campaign, ok = s.engine.Campaign(input.CampaignID)
		})
		if !ok {
			return nil, CampaignGetResult{}, s.campaignNotFoundError(input.CampaignID)
		}
		return nil, CampaignGetResult{
			CampaignID:  campaign.ID,
			Name:        campaign.Name,
			Description: campaign.Description,
			Goal:        campaign.Goal,
			Raised:      campaign.Raised,
			Deadline:    campaign.Deadline,
			Active:      campaign.Active,
		}, nil
	}
}

// CampaignAssetsInput represents the MCP tool input for listing donated assets.
type CampaignAssetsInput struct {
	CampaignID uint64 `json:"campaign_id" jsonschema:"campaign to look up"`
}

// CampaignAssetsResult represents the MCP tool output for donated assets.
type CampaignAssetsResult struct {
	CampaignID uint64   `json:"campaign_id" jsonschema:"campaign identifier"`
	AssetIDs   []uint64 `json:"asset_ids" jsonschema:"assets donated to the campaign"`
}

func campaignAssetsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_assets",
		Description: "Lists the assets donated to a campaign",
	}
}

func (s *Server) campaignAssetsHandler() mcp.ToolHandlerFor[CampaignAssetsInput, CampaignAssetsResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CampaignAssetsInput) (*mcp.CallToolResult, CampaignAssetsResult, error) {
		var assetIDs []uint64
		var ok bool
		s.read(func() {
			assetIDs, ok = s.engine.CampaignAssets(input.CampaignID)
		})
		if !ok {
			return nil, CampaignAssetsResult{}, s.campaignNotFoundError(input.CampaignID)
		}
		return nil, CampaignAssetsResult{CampaignID: input.CampaignID, AssetIDs: assetIDs}, nil
	}
}

// ParticipationGetInput represents the MCP tool input for a participation lookup.
type ParticipationGetInput struct {
	User       string `json:"user" jsonschema:"participant identity"`
	CampaignID uint64 `json:"campaign_id" jsonschema:"campaign to look up"`
}

// ParticipationGetResult represents the MCP tool output for a participation lookup.
type ParticipationGetResult struct {
	User     string   `json:"user" jsonschema:"participant identity"`
	AssetIDs []uint64 `json:"asset_ids" jsonschema:"assets the user donated"`
	Total    uint64   `json:"total" jsonschema:"cumulative attributed value"`
}

func participationGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "participation_get",
		Description: "Reads a user's in-kind participation in a campaign",
	}
}

func (s *Server) participationGetHandler() mcp.ToolHandlerFor[ParticipationGetInput, ParticipationGetResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ParticipationGetInput) (*mcp.CallToolResult, ParticipationGetResult, error) {
		var participation domain.Participation
		var ok bool
		s.read(func() {
			participation, ok = s.engine.Participation(domain.Identity(input.User), input.CampaignID)
		})
		if !ok {
			return nil, ParticipationGetResult{}, s.participationNotFoundError()
		}
		return nil, ParticipationGetResult{
			User:     input.User,
			AssetIDs: participation.AssetIDs,
			Total:    participation.Total,
		}, nil
	}
}

// DonationGetInput represents the MCP tool input for a donation lookup.
type DonationGetInput struct {
	User       string `json:"user" jsonschema:"donor identity"`
	CampaignID uint64 `json:"campaign_id" jsonschema:"campaign to look up"`
}

// DonationGetResult represents the MCP tool output for a donation lookup.
type DonationGetResult struct {
	User   string `json:"user" jsonschema:"donor identity"`
	Amount uint64 `json:"amount" jsonschema:"amount of the latest donation"`
	Height uint64 `json:"height" jsonschema:"block height of the latest donation"`
}

func donationGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "donation_get",
		Description: "Reads a user's latest currency donation to a campaign",
	}
}

func (s *Server) donationGetHandler() mcp.ToolHandlerFor[DonationGetInput, DonationGetResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input DonationGetInput) (*mcp.CallToolResult, DonationGetResult, error) {
		var record domain.DonationRecord
		var ok bool
		s.read(func() {
			record, ok = s.engine.DonationHistory(domain.Identity(input.User), input.CampaignID)
		})
		if !ok {
			return nil, DonationGetResult{}, s.donationNotFoundError()
		}
		return nil, DonationGetResult{User: input.User, Amount: record.Amount, Height: record.Height}, nil
	}
}
