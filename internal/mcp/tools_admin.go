package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/giving.space/internal/ledger/domain"
)

// AdminSetCharityInput represents the MCP tool input for rotating the charity.
type AdminSetCharityInput struct {
	Caller  string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant   string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
	Charity string `json:"charity" jsonschema:"new charity beneficiary identity"`
}

// AdminSetCharityResult represents the MCP tool output for rotating the charity.
type AdminSetCharityResult struct {
	Charity string `json:"charity" jsonschema:"charity beneficiary after the call"`
}

func adminSetCharityTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "admin_set_charity",
		Description: "Updates the charity beneficiary identity (admin only)",
	}
}

func (s *Server) adminSetCharityHandler() mcp.ToolHandlerFor[AdminSetCharityInput, AdminSetCharityResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AdminSetCharityInput) (*mcp.CallToolResult, AdminSetCharityResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, AdminSetCharityResult{}, err
		}
		err = s.mutate(ctx, "admin_set_charity", func(context.Context) error {
			return s.engine.SetCharityAddress(caller, domain.Identity(input.Charity))
		})
		if err != nil {
			return nil, AdminSetCharityResult{}, err
		}
		return nil, AdminSetCharityResult{Charity: input.Charity}, nil
	}
}

// AdminSetDonationPercentageInput represents the MCP tool input for the
// marketplace charity share.
type AdminSetDonationPercentageInput struct {
	Caller  string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant   string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
	Percent uint64 `json:"percent" jsonschema:"charity share of each sale, 0 to 100"`
}

// AdminSetDonationPercentageResult represents the MCP tool output for the
// marketplace charity share.
type AdminSetDonationPercentageResult struct {
	Percent uint64 `json:"percent" jsonschema:"charity share after the call"`
}

func adminSetDonationPercentageTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "admin_set_donation_percentage",
		Description: "Updates the charity share of marketplace sales (admin only)",
	}
}

func (s *Server) adminSetDonationPercentageHandler() mcp.ToolHandlerFor[AdminSetDonationPercentageInput, AdminSetDonationPercentageResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AdminSetDonationPercentageInput) (*mcp.CallToolResult, AdminSetDonationPercentageResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, AdminSetDonationPercentageResult{}, err
		}
		err = s.mutate(ctx, "admin_set_donation_percentage", func(context.Context) error {
			return s.engine.SetDonationPercentage(caller, input.Percent)
		})
		if err != nil {
			return nil, AdminSetDonationPercentageResult{}, err
		}
		return nil, AdminSetDonationPercentageResult{Percent: input.Percent}, nil
	}
}

// AdminTogglePauseInput represents the MCP tool input for the emergency pause.
type AdminTogglePauseInput struct {
	Caller string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant  string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
}

// AdminTogglePauseResult represents the MCP tool output for the emergency pause.
type AdminTogglePauseResult struct {
	Paused bool `json:"paused" jsonschema:"pause state after the call"`
}

func adminTogglePauseTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "admin_toggle_pause",
		Description: "Flips the emergency pause flag (admin only)",
	}
}

func (s *Server) adminTogglePauseHandler() mcp.ToolHandlerFor[AdminTogglePauseInput, AdminTogglePauseResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AdminTogglePauseInput) (*mcp.CallToolResult, AdminTogglePauseResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, AdminTogglePauseResult{}, err
		}
		var paused bool
		err = s.mutate(ctx, "admin_toggle_pause", func(context.Context) error {
			if err := s.engine.TogglePause(caller); err != nil {
				return err
			}
			paused = s.engine.Config().Paused
			return nil
		})
		if err != nil {
			return nil, AdminTogglePauseResult{}, err
		}
		return nil, AdminTogglePauseResult{Paused: paused}, nil
	}
}
