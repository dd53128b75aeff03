// Package ledger parses ledger command flags and runs the MCP server.
package ledger

import (
	"context"
	"flag"

	"github.com/louisbranch/giving.space/internal/ledger/domain"
	"github.com/louisbranch/giving.space/internal/mcp"
	platformcmd "github.com/louisbranch/giving.space/internal/platform/cmd"
)

// Config holds ledger command configuration. Tags name environment
// variables without the GIVING_SPACE_ prefix; config.ParseEnv adds it.
type Config struct {
	DBPath          string `env:"LEDGER_DB_PATH"`
	Admin           string `env:"LEDGER_ADMIN"            envDefault:"admin"`
	Charity         string `env:"LEDGER_CHARITY"          envDefault:"charity"`
	DonationPercent uint64 `env:"LEDGER_DONATION_PERCENT" envDefault:"10"`
	Locale          string `env:"LEDGER_LOCALE"           envDefault:"en-US"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (empty for in-memory)")
	fs.StringVar(&cfg.Admin, "admin", cfg.Admin, "administrator identity")
	fs.StringVar(&cfg.Charity, "charity", cfg.Charity, "charity beneficiary identity")
	fs.Uint64Var(&cfg.DonationPercent, "donation-percent", cfg.DonationPercent, "charity share of marketplace sales (0-100)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for client-facing error messages")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the ledger MCP server with telemetry configured.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceLedger, func(ctx context.Context) error {
		return mcp.Run(ctx, mcp.RunConfig{
			DBPath:          cfg.DBPath,
			Admin:           domain.Identity(cfg.Admin),
			Charity:         domain.Identity(cfg.Charity),
			DonationPercent: cfg.DonationPercent,
			Locale:          cfg.Locale,
		})
	})
}
