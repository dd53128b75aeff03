package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/giving.space/internal/ledger/domain"
)

// MilestoneAddInput represents the MCP tool input for adding a milestone.
type MilestoneAddInput struct {
	Caller      string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant       string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
	CampaignID  uint64 `json:"campaign_id" jsonschema:"campaign the milestone belongs to"`
	MilestoneID uint64 `json:"milestone_id" jsonschema:"milestone identifier within the campaign"`
	Description string `json:"description,omitempty" jsonschema:"milestone description"`
	Target      uint64 `json:"target" jsonschema:"participation value required to claim"`
	RewardURI   string `json:"reward_uri" jsonschema:"metadata URI for the reward asset"`
}

// MilestoneAddResult represents the MCP tool output for adding a milestone.
type MilestoneAddResult struct {
	CampaignID  uint64 `json:"campaign_id" jsonschema:"campaign the milestone belongs to"`
	MilestoneID uint64 `json:"milestone_id" jsonschema:"milestone identifier"`
}

func milestoneAddTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "milestone_add",
		Description: "Creates or replaces a campaign milestone (admin only)",
	}
}

func (s *Server) milestoneAddHandler() mcp.ToolHandlerFor[MilestoneAddInput, MilestoneAddResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MilestoneAddInput) (*mcp.CallToolResult, MilestoneAddResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, MilestoneAddResult{}, err
		}
		err = s.mutate(ctx, "milestone_add", func(context.Context) error {
			return s.engine.AddMilestone(caller, input.CampaignID, input.MilestoneID,
				input.Description, input.Target, input.RewardURI)
		})
		if err != nil {
			return nil, MilestoneAddResult{}, err
		}
		return nil, MilestoneAddResult{CampaignID: input.CampaignID, MilestoneID: input.MilestoneID}, nil
	}
}

// MilestoneClaimInput represents the MCP tool input for claiming a reward.
type MilestoneClaimInput struct {
	Caller      string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant       string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
	CampaignID  uint64 `json:"campaign_id" jsonschema:"campaign the milestone belongs to"`
	MilestoneID uint64 `json:"milestone_id" jsonschema:"milestone to claim"`
}

// MilestoneClaimResult represents the MCP tool output for a reward claim.
type MilestoneClaimResult struct {
	RewardAssetID uint64 `json:"reward_asset_id" jsonschema:"asset minted as the reward"`
}

func milestoneClaimTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "milestone_claim",
		Description: "Claims a milestone reward; mints a reward asset for the caller",
	}
}

func (s *Server) milestoneClaimHandler() mcp.ToolHandlerFor[MilestoneClaimInput, MilestoneClaimResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MilestoneClaimInput) (*mcp.CallToolResult, MilestoneClaimResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, MilestoneClaimResult{}, err
		}
		var rewardAssetID uint64
		err = s.mutate(ctx, "milestone_claim", func(context.Context) error {
			var err error
			rewardAssetID, err = s.engine.ClaimMilestoneReward(caller, input.CampaignID, input.MilestoneID)
			return err
		})
		if err != nil {
			return nil, MilestoneClaimResult{}, err
		}
		return nil, MilestoneClaimResult{RewardAssetID: rewardAssetID}, nil
	}
}

// MilestoneGetInput represents the MCP tool input for reading a milestone.
type MilestoneGetInput struct {
	CampaignID  uint64 `json:"campaign_id" jsonschema:"campaign the milestone belongs to"`
	MilestoneID uint64 `json:"milestone_id" jsonschema:"milestone to look up"`
}

// MilestoneGetResult represents the MCP tool output for a milestone lookup.
type MilestoneGetResult struct {
	CampaignID  uint64 `json:"campaign_id" jsonschema:"campaign the milestone belongs to"`
	MilestoneID uint64 `json:"milestone_id" jsonschema:"milestone identifier"`
	Description string `json:"description" jsonschema:"milestone description"`
	Target      uint64 `json:"target" jsonschema:"participation value required to claim"`
	Reached     bool   `json:"reached" jsonschema:"whether the reward was claimed"`
	RewardURI   string `json:"reward_uri" jsonschema:"metadata URI for the reward asset"`
}

func milestoneGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "milestone_get",
		Description: "Reads one campaign milestone",
	}
}

func (s *Server) milestoneGetHandler() mcp.ToolHandlerFor[MilestoneGetInput, MilestoneGetResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input MilestoneGetInput) (*mcp.CallToolResult, MilestoneGetResult, error) {
		var milestone domain.Milestone
		var ok bool
		s.read(func() {
			milestone, ok = s.engine.Milestone(input.CampaignID, input.MilestoneID)
		})
		if !ok {
			return nil, MilestoneGetResult{}, s.milestoneNotFoundError(input.CampaignID, input.MilestoneID)
		}
		return nil, MilestoneGetResult{
			CampaignID:  input.CampaignID,
			MilestoneID: input.MilestoneID,
			Description: milestone.Description,
			Target:      milestone.Target,
			Reached:     milestone.Reached,
			RewardURI:   milestone.RewardURI,
		}, nil
	}
}

// RewardsGetInput represents the MCP tool input for listing a user's rewards.
type RewardsGetInput struct {
	User string `json:"user" jsonschema:"identity to look up"`
}

// RewardsGetResult represents the MCP tool output for a rewards lookup.
type RewardsGetResult struct {
	User     string   `json:"user" jsonschema:"identity looked up"`
	AssetIDs []uint64 `json:"asset_ids" jsonschema:"reward assets minted for the user"`
}

func rewardsGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "rewards_get",
		Description: "Lists the milestone reward assets minted for a user",
	}
}

func (s *Server) rewardsGetHandler() mcp.ToolHandlerFor[RewardsGetInput, RewardsGetResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input RewardsGetInput) (*mcp.CallToolResult, RewardsGetResult, error) {
		var assetIDs []uint64
		s.read(func() {
			assetIDs = s.engine.Rewards(domain.Identity(input.User))
		})
		return nil, RewardsGetResult{User: input.User, AssetIDs: assetIDs}, nil
	}
}
