package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/louisbranch/giving.space/internal/ledger/bank"
	"github.com/louisbranch/giving.space/internal/ledger/domain"
	"github.com/louisbranch/giving.space/internal/ledger/engine"
	"github.com/louisbranch/giving.space/internal/ledger/grant"
	"github.com/louisbranch/giving.space/internal/ledger/storage"
	"github.com/louisbranch/giving.space/internal/ledger/storage/sqlite"
)

// RunConfig holds the dependencies Run assembles the ledger from.
type RunConfig struct {
	// DBPath is the SQLite file path. Empty means in-memory only.
	DBPath          string
	Admin           domain.Identity
	Charity         domain.Identity
	DonationPercent uint64
	// Locale selects the catalog for client-facing error messages.
	Locale string
}

// Run assembles the ledger and serves it over stdio until the context ends.
// Block height is wall-clock seconds since the Unix epoch, so deadlines stay
// comparable across restarts without extra persisted state.
func Run(ctx context.Context, cfg RunConfig) error {
	ledger := bank.New()
	eng, err := engine.New(engine.Options{
		Admin:           cfg.Admin,
		Charity:         cfg.Charity,
		DonationPercent: cfg.DonationPercent,
		Bank:            ledger,
		Height:          func() uint64 { return uint64(time.Now().Unix()) },
	})
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	grantCfg, err := grant.LoadConfigFromEnv(nil)
	if err != nil {
		return fmt.Errorf("load caller grant config: %w", err)
	}

	logger := log.New(os.Stderr, "[LEDGER] ", log.LstdFlags)
	var store storage.StateStore
	if cfg.DBPath != "" {
		sqliteStore, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open ledger store: %w", err)
		}
		defer func() {
			if err := sqliteStore.Close(); err != nil {
				logger.Printf("close ledger store: %v", err)
			}
		}()
		store = sqliteStore
	} else {
		logger.Printf("no db path configured, ledger state is in-memory only")
	}

	server, err := NewServer(ctx, Options{
		Engine: eng,
		Bank:   ledger,
		Store:  store,
		Grant:  grantCfg,
		Logger: logger,
		Locale: cfg.Locale,
	})
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
