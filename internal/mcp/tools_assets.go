package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/giving.space/internal/ledger/domain"
)

// AssetMintInput represents the MCP tool input for minting an asset.
type AssetMintInput struct {
	Caller   string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant    string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
	URI      string `json:"uri" jsonschema:"metadata URI for the asset"`
	Category string `json:"category" jsonschema:"free-form category label"`
}

// AssetMintResult represents the MCP tool output for minting an asset.
type AssetMintResult struct {
	AssetID uint64 `json:"asset_id" jsonschema:"identifier of the minted asset"`
}

func assetMintTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_mint",
		Description: "Mints a new asset owned by the caller",
	}
}

func (s *Server) assetMintHandler() mcp.ToolHandlerFor[AssetMintInput, AssetMintResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssetMintInput) (*mcp.CallToolResult, AssetMintResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, AssetMintResult{}, err
		}
		var assetID uint64
		err = s.mutate(ctx, "asset_mint", func(context.Context) error {
			var err error
			assetID, err = s.engine.Mint(caller, input.URI, input.Category)
			return err
		})
		if err != nil {
			return nil, AssetMintResult{}, err
		}
		return nil, AssetMintResult{AssetID: assetID}, nil
	}
}

// AssetTransferInput represents the MCP tool input for transferring an asset.
type AssetTransferInput struct {
	Caller  string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant   string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
	AssetID uint64 `json:"asset_id" jsonschema:"asset to transfer"`
	To      string `json:"to" jsonschema:"recipient identity"`
}

// AssetTransferResult represents the MCP tool output for a transfer.
type AssetTransferResult struct {
	AssetID uint64 `json:"asset_id" jsonschema:"transferred asset"`
	Owner   string `json:"owner" jsonschema:"owner after the transfer"`
}

func assetTransferTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_transfer",
		Description: "Transfers an asset the caller owns to another identity",
	}
}

func (s *Server) assetTransferHandler() mcp.ToolHandlerFor[AssetTransferInput, AssetTransferResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssetTransferInput) (*mcp.CallToolResult, AssetTransferResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, AssetTransferResult{}, err
		}
		err = s.mutate(ctx, "asset_transfer", func(context.Context) error {
			return s.engine.Transfer(caller, input.AssetID, domain.Identity(input.To))
		})
		if err != nil {
			return nil, AssetTransferResult{}, err
		}
		return nil, AssetTransferResult{AssetID: input.AssetID, Owner: input.To}, nil
	}
}

// AssetListForSaleInput represents the MCP tool input for listing an asset.
type AssetListForSaleInput struct {
	Caller  string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant   string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
	AssetID uint64 `json:"asset_id" jsonschema:"asset to list"`
	Price   uint64 `json:"price" jsonschema:"asking price, must be greater than zero"`
}

// AssetListForSaleResult represents the MCP tool output for a listing.
type AssetListForSaleResult struct {
	AssetID uint64 `json:"asset_id" jsonschema:"listed asset"`
	Price   uint64 `json:"price" jsonschema:"asking price"`
}

func assetListForSaleTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_list_for_sale",
		Description: "Lists an asset the caller owns on the marketplace",
	}
}

func (s *Server) assetListForSaleHandler() mcp.ToolHandlerFor[AssetListForSaleInput, AssetListForSaleResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssetListForSaleInput) (*mcp.CallToolResult, AssetListForSaleResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, AssetListForSaleResult{}, err
		}
		err = s.mutate(ctx, "asset_list_for_sale", func(context.Context) error {
			return s.engine.ListForSale(caller, input.AssetID, input.Price)
		})
		if err != nil {
			return nil, AssetListForSaleResult{}, err
		}
		return nil, AssetListForSaleResult{AssetID: input.AssetID, Price: input.Price}, nil
	}
}

// AssetBuyInput represents the MCP tool input for buying a listed asset.
type AssetBuyInput struct {
	Caller  string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant   string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
	AssetID uint64 `json:"asset_id" jsonschema:"listed asset to buy"`
}

// AssetBuyResult represents the MCP tool output for a purchase.
type AssetBuyResult struct {
	AssetID   uint64 `json:"asset_id" jsonschema:"purchased asset"`
	Owner     string `json:"owner" jsonschema:"owner after the purchase"`
	PricePaid uint64 `json:"price_paid" jsonschema:"total amount the buyer paid"`
}

func assetBuyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_buy",
		Description: "Buys a listed asset; part of the price goes to the charity",
	}
}

func (s *Server) assetBuyHandler() mcp.ToolHandlerFor[AssetBuyInput, AssetBuyResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssetBuyInput) (*mcp.CallToolResult, AssetBuyResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, AssetBuyResult{}, err
		}
		var pricePaid uint64
		err = s.mutate(ctx, "asset_buy", func(ctx context.Context) error {
			if price, ok := s.engine.Price(input.AssetID); ok {
				pricePaid = price
			}
			return s.engine.Buy(ctx, caller, input.AssetID)
		})
		if err != nil {
			return nil, AssetBuyResult{}, err
		}
		return nil, AssetBuyResult{AssetID: input.AssetID, Owner: string(caller), PricePaid: pricePaid}, nil
	}
}

// AssetGetInput represents the MCP tool input for reading an asset.
type AssetGetInput struct {
	AssetID uint64 `json:"asset_id" jsonschema:"asset to look up"`
}

// AssetGetResult represents the MCP tool output for an asset lookup.
type AssetGetResult struct {
	AssetID   uint64 `json:"asset_id" jsonschema:"asset identifier"`
	Owner     string `json:"owner" jsonschema:"current owner"`
	Creator   string `json:"creator" jsonschema:"original minter"`
	URI       string `json:"uri" jsonschema:"metadata URI"`
	Category  string `json:"category" jsonschema:"category label"`
	CreatedAt uint64 `json:"created_at" jsonschema:"block height at creation"`
	Price     uint64 `json:"price" jsonschema:"asking price, zero when unlisted"`
	Listed    bool   `json:"listed" jsonschema:"whether the asset is for sale"`
}

func assetGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_get",
		Description: "Reads one asset record",
	}
}

func (s *Server) assetGetHandler() mcp.ToolHandlerFor[AssetGetInput, AssetGetResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input AssetGetInput) (*mcp.CallToolResult, AssetGetResult, error) {
		var asset domain.Asset
		var ok bool
		s.read(func() {
			asset, ok = s.engine.Asset(input.AssetID)
		})
		if !ok {
			return nil, AssetGetResult{}, s.assetNotFoundError(input.AssetID)
		}
		return nil, AssetGetResult{
			AssetID:   asset.ID,
			Owner:     string(asset.Owner),
			Creator:   string(asset.Creator),
			URI:       asset.URI,
			Category:  asset.Category,
			CreatedAt: asset.CreatedAt,
			Price:     asset.Price,
			Listed:    asset.Listed(),
		}, nil
	}
}

// BankDepositInput represents the MCP tool input for a currency deposit.
type BankDepositInput struct {
	Caller string `json:"caller,omitempty" jsonschema:"acting identity (ignored when grants are enforced)"`
	Grant  string `json:"grant,omitempty" jsonschema:"signed caller grant token"`
	Amount uint64 `json:"amount" jsonschema:"amount to credit to the caller"`
}

// BankDepositResult represents the MCP tool output for a deposit.
type BankDepositResult struct {
	Balance uint64 `json:"balance" jsonschema:"caller balance after the deposit"`
}

func bankDepositTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "bank_deposit",
		Description: "Credits currency to the caller's bank account",
	}
}

func (s *Server) bankDepositHandler() mcp.ToolHandlerFor[BankDepositInput, BankDepositResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BankDepositInput) (*mcp.CallToolResult, BankDepositResult, error) {
		caller, err := s.resolveCaller(input.Caller, input.Grant)
		if err != nil {
			return nil, BankDepositResult{}, err
		}
		var balance uint64
		err = s.mutate(ctx, "bank_deposit", func(context.Context) error {
			s.bank.Deposit(caller, input.Amount)
			balance = s.bank.Balance(caller)
			return nil
		})
		if err != nil {
			return nil, BankDepositResult{}, err
		}
		return nil, BankDepositResult{Balance: balance}, nil
	}
}

// BankBalanceInput represents the MCP tool input for a balance lookup.
type BankBalanceInput struct {
	Account string `json:"account" jsonschema:"identity to look up"`
}

// BankBalanceResult represents the MCP tool output for a balance lookup.
type BankBalanceResult struct {
	Account string `json:"account" jsonschema:"identity looked up"`
	Balance uint64 `json:"balance" jsonschema:"current balance"`
}

func bankBalanceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "bank_balance",
		Description: "Reads one bank account balance",
	}
}

func (s *Server) bankBalanceHandler() mcp.ToolHandlerFor[BankBalanceInput, BankBalanceResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input BankBalanceInput) (*mcp.CallToolResult, BankBalanceResult, error) {
		var balance uint64
		s.read(func() {
			balance = s.bank.Balance(domain.Identity(input.Account))
		})
		return nil, BankBalanceResult{Account: input.Account, Balance: balance}, nil
	}
}
