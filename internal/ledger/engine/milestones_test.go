package engine

import (
	"context"
	"testing"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
	"github.com/louisbranch/giving.space/internal/ledger/domain"
)

func TestAddMilestoneValidation(t *testing.T) {
	env := newTestEnv(t, 0)
	id := createCampaign(t, env, 10_000, 1000)

	err := env.engine.AddMilestone(alice, id, 1, "first", 100, "ipfs://reward")
	if !apperrors.IsCode(err, apperrors.CodeNotAuthorized) {
		t.Fatalf("expected NOT_AUTHORIZED, got %v", err)
	}
	err = env.engine.AddMilestone(admin, 99, 1, "first", 100, "ipfs://reward")
	if !apperrors.IsCode(err, apperrors.CodeCampaignNotFound) {
		t.Fatalf("expected CAMPAIGN_NOT_FOUND, got %v", err)
	}
	if err := env.engine.AddMilestone(admin, id, 1, "first", 100, "ipfs://reward"); err != nil {
		t.Fatalf("add milestone: %v", err)
	}

	milestone, ok := env.engine.Milestone(id, 1)
	if !ok {
		t.Fatal("expected milestone")
	}
	if milestone.Reached || milestone.Target != 100 || milestone.RewardURI != "ipfs://reward" {
		t.Fatalf("unexpected milestone: %+v", milestone)
	}
}

// Re-adding a milestone id overwrites it and resets the reached flag.
func TestAddMilestoneOverwrites(t *testing.T) {
	env := newTestEnv(t, 0)
	id := createCampaign(t, env, 10_000, 1000)

	if err := env.engine.AddMilestone(admin, id, 1, "first", 100, "ipfs://a"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := env.engine.AddMilestone(admin, id, 1, "revised", 200, "ipfs://b"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	milestone, _ := env.engine.Milestone(id, 1)
	if milestone.Target != 200 || milestone.Description != "revised" {
		t.Fatalf("expected overwritten milestone, got %+v", milestone)
	}
}

func TestClaimMilestoneRewardMintsOnce(t *testing.T) {
	env := newTestEnv(t, 0)
	id := createCampaign(t, env, 10_000_000, 1000)
	if err := env.engine.AddMilestone(admin, id, 1, "first", 1_000_000, "ipfs://trophy"); err != nil {
		t.Fatalf("add milestone: %v", err)
	}

	assetID, err := env.engine.Mint(alice, "ipfs://art", "Art")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := env.engine.ListForSale(alice, assetID, 2_000_000); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := env.engine.DonateAsset(alice, assetID, id); err != nil {
		t.Fatalf("donate asset: %v", err)
	}

	rewardID, err := env.engine.ClaimMilestoneReward(alice, id, 1)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if rewardID != assetID+1 {
		t.Fatalf("expected freshly minted asset %d, got %d", assetID+1, rewardID)
	}

	reward, ok := env.engine.Asset(rewardID)
	if !ok {
		t.Fatal("expected reward asset")
	}
	if reward.Owner != alice || reward.Creator != alice {
		t.Fatalf("expected alice as reward owner, got %+v", reward)
	}
	if reward.URI != "ipfs://trophy" || reward.Category != domain.RewardCategory {
		t.Fatalf("unexpected reward metadata: %+v", reward)
	}
	if got := env.engine.Rewards(alice); len(got) != 1 || got[0] != rewardID {
		t.Fatalf("expected rewards [%d], got %v", rewardID, got)
	}
	milestone, _ := env.engine.Milestone(id, 1)
	if !milestone.Reached {
		t.Fatal("expected milestone marked reached")
	}

	_, err = env.engine.ClaimMilestoneReward(alice, id, 1)
	if !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Fatalf("second claim must fail with INVALID_PARAMETER, got %v", err)
	}
}

// The claim works even while paused: the internal mint bypasses the gate.
func TestClaimMilestoneRewardWhilePaused(t *testing.T) {
	env := newTestEnv(t, 0)
	id := createCampaign(t, env, 10_000, 1000)
	if err := env.engine.AddMilestone(admin, id, 1, "first", 100, "ipfs://trophy"); err != nil {
		t.Fatalf("add milestone: %v", err)
	}
	assetID, err := env.engine.Mint(alice, "ipfs://art", "Art")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := env.engine.ListForSale(alice, assetID, 500); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := env.engine.DonateAsset(alice, assetID, id); err != nil {
		t.Fatalf("donate: %v", err)
	}
	if err := env.engine.TogglePause(admin); err != nil {
		t.Fatalf("toggle pause: %v", err)
	}

	if _, err := env.engine.ClaimMilestoneReward(alice, id, 1); err != nil {
		t.Fatalf("claim during pause: %v", err)
	}
}

func TestClaimMilestoneRewardErrorCodes(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	id := createCampaign(t, env, 10_000, 1000)
	if err := env.engine.AddMilestone(admin, id, 1, "first", 1_000, "ipfs://trophy"); err != nil {
		t.Fatalf("add milestone: %v", err)
	}

	_, err := env.engine.ClaimMilestoneReward(alice, id, 7)
	if !apperrors.IsCode(err, apperrors.CodeMilestoneNotFound) {
		t.Fatalf("expected MILESTONE_NOT_FOUND, got %v", err)
	}

	_, err = env.engine.ClaimMilestoneReward(alice, id, 1)
	if !apperrors.IsCode(err, apperrors.CodeParticipationNotFound) {
		t.Fatalf("expected PARTICIPATION_NOT_FOUND, got %v", err)
	}

	// A currency donation creates no participation record and never
	// counts toward milestone targets.
	env.bank.Deposit(alice, 5_000)
	if err := env.engine.DonateCurrency(ctx, alice, id, 5_000); err != nil {
		t.Fatalf("donate currency: %v", err)
	}
	_, err = env.engine.ClaimMilestoneReward(alice, id, 1)
	if !apperrors.IsCode(err, apperrors.CodeParticipationNotFound) {
		t.Fatalf("currency donation must not create participation, got %v", err)
	}

	// An in-kind donation below the target qualifies nothing.
	assetID, err := env.engine.Mint(alice, "ipfs://art", "Art")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := env.engine.ListForSale(alice, assetID, 500); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := env.engine.DonateAsset(alice, assetID, id); err != nil {
		t.Fatalf("donate: %v", err)
	}
	_, err = env.engine.ClaimMilestoneReward(alice, id, 1)
	if !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Fatalf("expected INVALID_PARAMETER below target, got %v", err)
	}
	if got := apperrors.GetMetadata(err); got["Total"] != "500" || got["Target"] != "1000" {
		t.Fatalf("expected Total/Target metadata, got %v", got)
	}
}
