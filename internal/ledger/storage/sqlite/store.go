// Package sqlite provides a SQLite-backed ledger snapshot store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/louisbranch/giving.space/internal/ledger/domain"
	"github.com/louisbranch/giving.space/internal/ledger/engine"
	"github.com/louisbranch/giving.space/internal/ledger/storage"
	"github.com/louisbranch/giving.space/internal/ledger/storage/sqlite/migrations"
	"github.com/louisbranch/giving.space/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store persists ledger snapshots in SQLite. Each save replaces the whole
// snapshot inside one transaction; the engine state is small enough that a
// full rewrite beats tracking per-row deltas.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite ledger store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	applied, err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, "")
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if len(applied) > 0 {
		log.Printf("applied %d ledger schema migrations", len(applied))
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveState replaces the persisted snapshot with the given state.
func (s *Store) SaveState(ctx context.Context, state engine.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save state: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	tables := []string{
		"ledger_config", "assets", "campaigns", "campaign_assets",
		"participations", "participation_assets", "donations",
		"milestones", "rewards",
	}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_config (
		   id, admin, charity, donation_percent, paused,
		   total_assets, total_donations, campaign_count
		 ) VALUES (1, ?, ?, ?, ?, ?, ?, ?)`,
		string(state.Config.Admin),
		string(state.Config.Charity),
		int64(state.Config.DonationPercent),
		boolToInt(state.Config.Paused),
		int64(state.Config.TotalAssets),
		int64(state.Config.TotalDonations),
		int64(state.Config.CampaignCount),
	)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	for _, asset := range state.Assets {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO assets (id, owner, uri, category, creator, created_at, price)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			int64(asset.ID),
			string(asset.Owner),
			asset.URI,
			asset.Category,
			string(asset.Creator),
			int64(asset.CreatedAt),
			int64(asset.Price),
		)
		if err != nil {
			return fmt.Errorf("save asset %d: %w", asset.ID, err)
		}
	}

	for _, campaign := range state.Campaigns {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO campaigns (id, name, description, goal, raised, deadline, active)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			int64(campaign.ID),
			campaign.Name,
			campaign.Description,
			int64(campaign.Goal),
			int64(campaign.Raised),
			int64(campaign.Deadline),
			boolToInt(campaign.Active),
		)
		if err != nil {
			return fmt.Errorf("save campaign %d: %w", campaign.ID, err)
		}
		for position, assetID := range campaign.AssetIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO campaign_assets (campaign_id, position, asset_id)
				 VALUES (?, ?, ?)`,
				int64(campaign.ID), position, int64(assetID),
			)
			if err != nil {
				return fmt.Errorf("save campaign %d assets: %w", campaign.ID, err)
			}
		}
	}

	for _, participation := range state.Participations {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO participations (user_id, campaign_id, total)
			 VALUES (?, ?, ?)`,
			string(participation.User),
			int64(participation.CampaignID),
			int64(participation.Total),
		)
		if err != nil {
			return fmt.Errorf("save participation: %w", err)
		}
		for position, assetID := range participation.AssetIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO participation_assets (user_id, campaign_id, position, asset_id)
				 VALUES (?, ?, ?, ?)`,
				string(participation.User),
				int64(participation.CampaignID),
				position,
				int64(assetID),
			)
			if err != nil {
				return fmt.Errorf("save participation assets: %w", err)
			}
		}
	}

	for _, donation := range state.Donations {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO donations (user_id, campaign_id, amount, height)
			 VALUES (?, ?, ?, ?)`,
			string(donation.User),
			int64(donation.CampaignID),
			int64(donation.Amount),
			int64(donation.Height),
		)
		if err != nil {
			return fmt.Errorf("save donation: %w", err)
		}
	}

	for _, milestone := range state.Milestones {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO milestones (campaign_id, milestone_id, description, target, reached, reward_uri)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			int64(milestone.CampaignID),
			int64(milestone.MilestoneID),
			milestone.Milestone.Description,
			int64(milestone.Milestone.Target),
			boolToInt(milestone.Milestone.Reached),
			milestone.Milestone.RewardURI,
		)
		if err != nil {
			return fmt.Errorf("save milestone: %w", err)
		}
	}

	for _, reward := range state.Rewards {
		for position, assetID := range reward.AssetIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO rewards (user_id, position, asset_id)
				 VALUES (?, ?, ?)`,
				string(reward.User), position, int64(assetID),
			)
			if err != nil {
				return fmt.Errorf("save rewards: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save state: %w", err)
	}
	return nil
}

// LoadState reads the persisted snapshot. Returns storage.ErrNotFound when
// nothing has been saved yet.
func (s *Store) LoadState(ctx context.Context) (engine.State, error) {
	if err := ctx.Err(); err != nil {
		return engine.State{}, err
	}
	if s == nil || s.sqlDB == nil {
		return engine.State{}, fmt.Errorf("storage is not configured")
	}

	var state engine.State
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT admin, charity, donation_percent, paused,
		        total_assets, total_donations, campaign_count
		   FROM ledger_config WHERE id = 1`)
	var admin, charity string
	var donationPercent, paused, totalAssets, totalDonations, campaignCount int64
	err := row.Scan(&admin, &charity, &donationPercent, &paused,
		&totalAssets, &totalDonations, &campaignCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return engine.State{}, storage.ErrNotFound
		}
		return engine.State{}, fmt.Errorf("load config: %w", err)
	}
	state.Config = domain.Config{
		Admin:           domain.Identity(admin),
		Charity:         domain.Identity(charity),
		DonationPercent: uint64(donationPercent),
		Paused:          paused != 0,
		TotalAssets:     uint64(totalAssets),
		TotalDonations:  uint64(totalDonations),
		CampaignCount:   uint64(campaignCount),
	}

	if err := s.loadAssets(ctx, &state); err != nil {
		return engine.State{}, err
	}
	if err := s.loadCampaigns(ctx, &state); err != nil {
		return engine.State{}, err
	}
	if err := s.loadParticipations(ctx, &state); err != nil {
		return engine.State{}, err
	}
	if err := s.loadDonations(ctx, &state); err != nil {
		return engine.State{}, err
	}
	if err := s.loadMilestones(ctx, &state); err != nil {
		return engine.State{}, err
	}
	if err := s.loadRewards(ctx, &state); err != nil {
		return engine.State{}, err
	}
	return state, nil
}

func (s *Store) loadAssets(ctx context.Context, state *engine.State) error {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, owner, uri, category, creator, created_at, price
		   FROM assets ORDER BY id ASC`)
	if err != nil {
		return fmt.Errorf("load assets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, createdAt, price int64
		var owner, uri, category, creator string
		if err := rows.Scan(&id, &owner, &uri, &category, &creator, &createdAt, &price); err != nil {
			return fmt.Errorf("load assets: %w", err)
		}
		state.Assets = append(state.Assets, domain.Asset{
			ID:        uint64(id),
			Owner:     domain.Identity(owner),
			URI:       uri,
			Category:  category,
			Creator:   domain.Identity(creator),
			CreatedAt: uint64(createdAt),
			Price:     uint64(price),
		})
	}
	return rows.Err()
}

func (s *Store) loadCampaigns(ctx context.Context, state *engine.State) error {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, description, goal, raised, deadline, active
		   FROM campaigns ORDER BY id ASC`)
	if err != nil {
		return fmt.Errorf("load campaigns: %w", err)
	}
	defer rows.Close()

	index := make(map[uint64]int)
	for rows.Next() {
		var id, goal, raised, deadline, active int64
		var name, description string
		if err := rows.Scan(&id, &name, &description, &goal, &raised, &deadline, &active); err != nil {
			return fmt.Errorf("load campaigns: %w", err)
		}
		index[uint64(id)] = len(state.Campaigns)
		state.Campaigns = append(state.Campaigns, domain.Campaign{
			ID:          uint64(id),
			Name:        name,
			Description: description,
			Goal:        uint64(goal),
			Raised:      uint64(raised),
			Deadline:    uint64(deadline),
			Active:      active != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load campaigns: %w", err)
	}

	assetRows, err := s.sqlDB.QueryContext(ctx,
		`SELECT campaign_id, asset_id FROM campaign_assets
		  ORDER BY campaign_id ASC, position ASC`)
	if err != nil {
		return fmt.Errorf("load campaign assets: %w", err)
	}
	defer assetRows.Close()

	for assetRows.Next() {
		var campaignID, assetID int64
		if err := assetRows.Scan(&campaignID, &assetID); err != nil {
			return fmt.Errorf("load campaign assets: %w", err)
		}
		i, ok := index[uint64(campaignID)]
		if !ok {
			return fmt.Errorf("campaign asset references unknown campaign %d", campaignID)
		}
		state.Campaigns[i].AssetIDs = append(state.Campaigns[i].AssetIDs, uint64(assetID))
	}
	return assetRows.Err()
}

func (s *Store) loadParticipations(ctx context.Context, state *engine.State) error {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT user_id, campaign_id, total FROM participations
		  ORDER BY user_id ASC, campaign_id ASC`)
	if err != nil {
		return fmt.Errorf("load participations: %w", err)
	}
	defer rows.Close()

	type key struct {
		user       string
		campaignID uint64
	}
	index := make(map[key]int)
	for rows.Next() {
		var user string
		var campaignID, total int64
		if err := rows.Scan(&user, &campaignID, &total); err != nil {
			return fmt.Errorf("load participations: %w", err)
		}
		index[key{user, uint64(campaignID)}] = len(state.Participations)
		state.Participations = append(state.Participations, engine.ParticipationState{
			User:       domain.Identity(user),
			CampaignID: uint64(campaignID),
			Total:      uint64(total),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load participations: %w", err)
	}

	assetRows, err := s.sqlDB.QueryContext(ctx,
		`SELECT user_id, campaign_id, asset_id FROM participation_assets
		  ORDER BY user_id ASC, campaign_id ASC, position ASC`)
	if err != nil {
		return fmt.Errorf("load participation assets: %w", err)
	}
	defer assetRows.Close()

	for assetRows.Next() {
		var user string
		var campaignID, assetID int64
		if err := assetRows.Scan(&user, &campaignID, &assetID); err != nil {
			return fmt.Errorf("load participation assets: %w", err)
		}
		i, ok := index[key{user, uint64(campaignID)}]
		if !ok {
			return fmt.Errorf("participation asset references unknown participation")
		}
		state.Participations[i].AssetIDs = append(state.Participations[i].AssetIDs, uint64(assetID))
	}
	return assetRows.Err()
}

func (s *Store) loadDonations(ctx context.Context, state *engine.State) error {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT user_id, campaign_id, amount, height FROM donations
		  ORDER BY user_id ASC, campaign_id ASC`)
	if err != nil {
		return fmt.Errorf("load donations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user string
		var campaignID, amount, height int64
		if err := rows.Scan(&user, &campaignID, &amount, &height); err != nil {
			return fmt.Errorf("load donations: %w", err)
		}
		state.Donations = append(state.Donations, engine.DonationState{
			User:       domain.Identity(user),
			CampaignID: uint64(campaignID),
			Amount:     uint64(amount),
			Height:     uint64(height),
		})
	}
	return rows.Err()
}

func (s *Store) loadMilestones(ctx context.Context, state *engine.State) error {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT campaign_id, milestone_id, description, target, reached, reward_uri
		   FROM milestones ORDER BY campaign_id ASC, milestone_id ASC`)
	if err != nil {
		return fmt.Errorf("load milestones: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var campaignID, milestoneID, target, reached int64
		var description, rewardURI string
		if err := rows.Scan(&campaignID, &milestoneID, &description, &target, &reached, &rewardURI); err != nil {
			return fmt.Errorf("load milestones: %w", err)
		}
		state.Milestones = append(state.Milestones, engine.MilestoneState{
			CampaignID:  uint64(campaignID),
			MilestoneID: uint64(milestoneID),
			Milestone: domain.Milestone{
				Description: description,
				Target:      uint64(target),
				Reached:     reached != 0,
				RewardURI:   rewardURI,
			},
		})
	}
	return rows.Err()
}

func (s *Store) loadRewards(ctx context.Context, state *engine.State) error {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT user_id, asset_id FROM rewards
		  ORDER BY user_id ASC, position ASC`)
	if err != nil {
		return fmt.Errorf("load rewards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user string
		var assetID int64
		if err := rows.Scan(&user, &assetID); err != nil {
			return fmt.Errorf("load rewards: %w", err)
		}
		if n := len(state.Rewards); n > 0 && state.Rewards[n-1].User == domain.Identity(user) {
			state.Rewards[n-1].AssetIDs = append(state.Rewards[n-1].AssetIDs, uint64(assetID))
			continue
		}
		state.Rewards = append(state.Rewards, engine.RewardState{
			User:     domain.Identity(user),
			AssetIDs: []uint64{uint64(assetID)},
		})
	}
	return rows.Err()
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

var _ storage.StateStore = (*Store)(nil)
