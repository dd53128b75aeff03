// Package mcp exposes the ledger engine as an MCP server over stdio.
// Every mutating tool runs under one mutex so the engine stays a strict
// single-writer state machine, and each successful mutation is persisted
// as a full snapshot before the tool returns.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
	"github.com/louisbranch/giving.space/internal/errors/i18n"
	"github.com/louisbranch/giving.space/internal/ledger/bank"
	"github.com/louisbranch/giving.space/internal/ledger/domain"
	"github.com/louisbranch/giving.space/internal/ledger/engine"
	"github.com/louisbranch/giving.space/internal/ledger/grant"
	"github.com/louisbranch/giving.space/internal/ledger/storage"
)

const (
	serverName = "giving-space-ledger"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Options configures the ledger MCP server.
type Options struct {
	Engine *engine.Engine
	Bank   *bank.Ledger
	// Store is optional; without it the ledger is in-memory only.
	Store storage.StateStore
	// Grant controls caller grant verification. When disabled the server
	// trusts the caller field on each tool input.
	Grant  grant.Config
	Logger *log.Logger
	// Locale selects the message catalog for client-facing errors.
	// Defaults to en-US.
	Locale string
}

// Server binds ledger tools to an MCP server instance.
type Server struct {
	mcpServer *mcp.Server
	engine    *engine.Engine
	bank      *bank.Ledger
	store     storage.StateStore
	grantCfg  grant.Config
	logger    *log.Logger
	tracer    trace.Tracer
	catalog   *i18n.Catalog

	mu sync.Mutex
}

// NewServer wires the engine, bank, and store into an MCP server and
// restores any persisted snapshot.
func NewServer(ctx context.Context, opts Options) (*Server, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if opts.Bank == nil {
		return nil, fmt.Errorf("bank is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[LEDGER] ", log.LstdFlags)
	}

	if opts.Store != nil {
		state, err := opts.Store.LoadState(ctx)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			logger.Printf("no persisted snapshot, starting fresh")
		case err != nil:
			return nil, fmt.Errorf("load persisted state: %w", err)
		default:
			opts.Engine.Restore(state)
			logger.Printf("restored snapshot: %d assets, %d campaigns",
				len(state.Assets), len(state.Campaigns))
		}
	}

	server := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil),
		engine:    opts.Engine,
		bank:      opts.Bank,
		store:     opts.Store,
		grantCfg:  opts.Grant,
		logger:    logger,
		tracer:    otel.Tracer("github.com/louisbranch/giving.space/internal/mcp"),
		catalog:   i18n.GetCatalog(opts.Locale),
	}
	server.registerTools()
	return server, nil
}

// Serve runs the MCP server on stdio until the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("server is not initialized")
	}
	s.logger.Printf("serving MCP on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, assetMintTool(), s.assetMintHandler())
	mcp.AddTool(s.mcpServer, assetTransferTool(), s.assetTransferHandler())
	mcp.AddTool(s.mcpServer, assetListForSaleTool(), s.assetListForSaleHandler())
	mcp.AddTool(s.mcpServer, assetBuyTool(), s.assetBuyHandler())
	mcp.AddTool(s.mcpServer, assetGetTool(), s.assetGetHandler())

	mcp.AddTool(s.mcpServer, campaignCreateTool(), s.campaignCreateHandler())
	mcp.AddTool(s.mcpServer, campaignDonateTool(), s.campaignDonateHandler())
	mcp.AddTool(s.mcpServer, campaignDonateAssetTool(), s.campaignDonateAssetHandler())
	mcp.AddTool(s.mcpServer, campaignEndTool(), s.campaignEndHandler())
	mcp.AddTool(s.mcpServer, campaignReportTool(), s.campaignReportHandler())
	mcp.AddTool(s.mcpServer, campaignGetTool(), s.campaignGetHandler())
	mcp.AddTool(s.mcpServer, campaignAssetsTool(), s.campaignAssetsHandler())
	mcp.AddTool(s.mcpServer, participationGetTool(), s.participationGetHandler())
	mcp.AddTool(s.mcpServer, donationGetTool(), s.donationGetHandler())

	mcp.AddTool(s.mcpServer, milestoneAddTool(), s.milestoneAddHandler())
	mcp.AddTool(s.mcpServer, milestoneClaimTool(), s.milestoneClaimHandler())
	mcp.AddTool(s.mcpServer, milestoneGetTool(), s.milestoneGetHandler())
	mcp.AddTool(s.mcpServer, rewardsGetTool(), s.rewardsGetHandler())

	mcp.AddTool(s.mcpServer, adminSetCharityTool(), s.adminSetCharityHandler())
	mcp.AddTool(s.mcpServer, adminSetDonationPercentageTool(), s.adminSetDonationPercentageHandler())
	mcp.AddTool(s.mcpServer, adminTogglePauseTool(), s.adminTogglePauseHandler())

	mcp.AddTool(s.mcpServer, bankDepositTool(), s.bankDepositHandler())
	mcp.AddTool(s.mcpServer, bankBalanceTool(), s.bankBalanceHandler())
}

// resolveCaller determines the acting identity for a tool call. With grant
// verification enabled the grant subject is authoritative; a caller field,
// if present, must agree with it.
func (s *Server) resolveCaller(callerField, grantToken string) (domain.Identity, error) {
	if s.grantCfg.Enabled() {
		claims, err := grant.Validate(grantToken, s.grantCfg)
		if err != nil {
			return "", s.localize(err)
		}
		caller := domain.Identity(strings.TrimSpace(callerField))
		if !caller.IsZero() && caller != claims.Caller {
			return "", s.localize(apperrors.New(apperrors.CodeNotAuthorized, "caller does not match grant subject"))
		}
		return claims.Caller, nil
	}
	caller := domain.Identity(strings.TrimSpace(callerField))
	if caller.IsZero() {
		return "", s.localize(apperrors.New(apperrors.CodeInvalidParameter, "caller is required"))
	}
	return caller, nil
}

// mutate serializes a state-changing operation and persists the resulting
// snapshot. The engine mutation and the snapshot write happen under one
// lock so no tool observes a half-applied state. Engine failures leave with
// their catalog message rendered for the client.
func (s *Server) mutate(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, op)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		return s.localize(err)
	}
	if s.store != nil {
		if err := s.store.SaveState(ctx, s.engine.Snapshot()); err != nil {
			span.RecordError(err)
			return fmt.Errorf("persist state: %w", err)
		}
	}
	return nil
}

// read serializes a lookup against the engine.
func (s *Server) read(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}
