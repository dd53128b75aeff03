package mcp

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
	"github.com/louisbranch/giving.space/internal/ledger/bank"
	"github.com/louisbranch/giving.space/internal/ledger/engine"
	"github.com/louisbranch/giving.space/internal/ledger/grant"
	"github.com/louisbranch/giving.space/internal/ledger/storage"
)

// memStore keeps snapshots in memory for handler tests.
type memStore struct {
	state engine.State
	saved int
	has   bool
}

func (m *memStore) SaveState(_ context.Context, state engine.State) error {
	m.state = state
	m.saved++
	m.has = true
	return nil
}

func (m *memStore) LoadState(context.Context) (engine.State, error) {
	if !m.has {
		return engine.State{}, storage.ErrNotFound
	}
	return m.state, nil
}

func (m *memStore) Close() error { return nil }

type serverEnv struct {
	server *Server
	bank   *bank.Ledger
	store  *memStore
	height uint64
}

func newServerEnv(t *testing.T, grantCfg grant.Config) *serverEnv {
	t.Helper()
	env := &serverEnv{bank: bank.New(), store: &memStore{}, height: 1}
	eng, err := engine.New(engine.Options{
		Admin:           "admin",
		Charity:         "charity",
		DonationPercent: 20,
		Bank:            env.bank,
		Height:          func() uint64 { return env.height },
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	server, err := NewServer(context.Background(), Options{
		Engine: eng,
		Bank:   env.bank,
		Store:  env.store,
		Grant:  grantCfg,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	env.server = server
	return env
}

func TestNewServerValidatesOptions(t *testing.T) {
	if _, err := NewServer(context.Background(), Options{}); err == nil {
		t.Fatal("expected error for missing engine")
	}
}

func TestNewServerRestoresPersistedState(t *testing.T) {
	first := newServerEnv(t, grant.Config{})
	ctx := context.Background()

	_, out, err := first.server.assetMintHandler()(ctx, nil, AssetMintInput{
		Caller: "alice", URI: "ipfs://a", Category: "Art",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	// A second server sharing the store must see the minted asset.
	eng, err := engine.New(engine.Options{
		Admin:   "admin",
		Charity: "charity",
		Bank:    bank.New(),
		Height:  func() uint64 { return 1 },
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	second, err := NewServer(ctx, Options{Engine: eng, Bank: bank.New(), Store: first.store})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	_, got, err := second.assetGetHandler()(ctx, nil, AssetGetInput{AssetID: out.AssetID})
	if err != nil {
		t.Fatalf("asset get after restore: %v", err)
	}
	if got.Owner != "alice" || got.URI != "ipfs://a" {
		t.Fatalf("unexpected restored asset: %+v", got)
	}
}

func TestMintPersistsSnapshot(t *testing.T) {
	env := newServerEnv(t, grant.Config{})
	ctx := context.Background()

	_, out, err := env.server.assetMintHandler()(ctx, nil, AssetMintInput{
		Caller: "alice", URI: "ipfs://a", Category: "Art",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if out.AssetID != 1 {
		t.Fatalf("expected asset id 1, got %d", out.AssetID)
	}
	if env.store.saved != 1 {
		t.Fatalf("expected one snapshot save, got %d", env.store.saved)
	}
	if len(env.store.state.Assets) != 1 {
		t.Fatalf("expected persisted asset, got %+v", env.store.state.Assets)
	}
}

func TestFailedMutationDoesNotPersist(t *testing.T) {
	env := newServerEnv(t, grant.Config{})
	ctx := context.Background()

	_, _, err := env.server.assetTransferHandler()(ctx, nil, AssetTransferInput{
		Caller: "alice", AssetID: 99, To: "bob",
	})
	if !apperrors.IsCode(err, apperrors.CodeAssetNotFound) {
		t.Fatalf("expected ASSET_NOT_FOUND, got %v", err)
	}
	if env.store.saved != 0 {
		t.Fatalf("failed mutation must not persist, got %d saves", env.store.saved)
	}
}

func TestCallerIsRequiredWithoutGrants(t *testing.T) {
	env := newServerEnv(t, grant.Config{})
	ctx := context.Background()

	_, _, err := env.server.assetMintHandler()(ctx, nil, AssetMintInput{URI: "ipfs://a", Category: "Art"})
	if !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Fatalf("expected INVALID_PARAMETER for missing caller, got %v", err)
	}
}

func TestMarketplaceFlowThroughTools(t *testing.T) {
	env := newServerEnv(t, grant.Config{})
	ctx := context.Background()

	_, minted, err := env.server.assetMintHandler()(ctx, nil, AssetMintInput{
		Caller: "alice", URI: "ipfs://a", Category: "Art",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	_, _, err = env.server.assetListForSaleHandler()(ctx, nil, AssetListForSaleInput{
		Caller: "alice", AssetID: minted.AssetID, Price: 1_000,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	_, deposit, err := env.server.bankDepositHandler()(ctx, nil, BankDepositInput{
		Caller: "bob", Amount: 1_000,
	})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if deposit.Balance != 1_000 {
		t.Fatalf("expected balance 1000, got %d", deposit.Balance)
	}

	_, bought, err := env.server.assetBuyHandler()(ctx, nil, AssetBuyInput{
		Caller: "bob", AssetID: minted.AssetID,
	})
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if bought.Owner != "bob" || bought.PricePaid != 1_000 {
		t.Fatalf("unexpected buy result: %+v", bought)
	}

	_, charityBalance, err := env.server.bankBalanceHandler()(ctx, nil, BankBalanceInput{Account: "charity"})
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if charityBalance.Balance != 200 {
		t.Fatalf("expected charity share 200 at 20%%, got %d", charityBalance.Balance)
	}
}

func TestCampaignFlowThroughTools(t *testing.T) {
	env := newServerEnv(t, grant.Config{})
	ctx := context.Background()

	_, created, err := env.server.campaignCreateHandler()(ctx, nil, CampaignCreateInput{
		Caller: "admin", Name: "Clean Water", Goal: 10_000, Duration: 100,
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	if created.CampaignID != 1 || created.Deadline != 101 {
		t.Fatalf("unexpected create result: %+v", created)
	}

	if _, _, err := env.server.bankDepositHandler()(ctx, nil, BankDepositInput{Caller: "alice", Amount: 2_000}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	_, donated, err := env.server.campaignDonateHandler()(ctx, nil, CampaignDonateInput{
		Caller: "alice", CampaignID: created.CampaignID, Amount: 2_000,
	})
	if err != nil {
		t.Fatalf("donate: %v", err)
	}
	if donated.Raised != 2_000 {
		t.Fatalf("expected raised 2000, got %d", donated.Raised)
	}

	_, report, err := env.server.campaignReportHandler()(ctx, nil, CampaignReportInput{CampaignID: created.CampaignID})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.GoalPercent != 20 || !report.Active {
		t.Fatalf("unexpected report: %+v", report)
	}

	_, ended, err := env.server.campaignEndHandler()(ctx, nil, CampaignEndInput{
		Caller: "admin", CampaignID: created.CampaignID,
	})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.Active {
		t.Fatal("expected campaign inactive")
	}
}

func TestMilestoneFlowThroughTools(t *testing.T) {
	env := newServerEnv(t, grant.Config{})
	ctx := context.Background()

	_, created, err := env.server.campaignCreateHandler()(ctx, nil, CampaignCreateInput{
		Caller: "admin", Name: "Clean Water", Goal: 10_000_000, Duration: 100,
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	_, _, err = env.server.milestoneAddHandler()(ctx, nil, MilestoneAddInput{
		Caller: "admin", CampaignID: created.CampaignID, MilestoneID: 1,
		Description: "first", Target: 1_000, RewardURI: "ipfs://trophy",
	})
	if err != nil {
		t.Fatalf("add milestone: %v", err)
	}

	_, minted, err := env.server.assetMintHandler()(ctx, nil, AssetMintInput{
		Caller: "alice", URI: "ipfs://a", Category: "Art",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, _, err := env.server.assetListForSaleHandler()(ctx, nil, AssetListForSaleInput{
		Caller: "alice", AssetID: minted.AssetID, Price: 2_000,
	}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, _, err := env.server.campaignDonateAssetHandler()(ctx, nil, CampaignDonateAssetInput{
		Caller: "alice", CampaignID: created.CampaignID, AssetID: minted.AssetID,
	}); err != nil {
		t.Fatalf("donate asset: %v", err)
	}

	_, claimed, err := env.server.milestoneClaimHandler()(ctx, nil, MilestoneClaimInput{
		Caller: "alice", CampaignID: created.CampaignID, MilestoneID: 1,
	})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	_, rewards, err := env.server.rewardsGetHandler()(ctx, nil, RewardsGetInput{User: "alice"})
	if err != nil {
		t.Fatalf("rewards: %v", err)
	}
	if len(rewards.AssetIDs) != 1 || rewards.AssetIDs[0] != claimed.RewardAssetID {
		t.Fatalf("expected rewards [%d], got %v", claimed.RewardAssetID, rewards.AssetIDs)
	}
}

func TestGrantEnforcedCallerResolution(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := grant.Config{
		Issuer:   "issuer",
		Audience: "ledger",
		Key:      pub,
		Now:      func() time.Time { return now },
	}
	env := newServerEnv(t, cfg)
	ctx := context.Background()

	// No grant token: refused outright.
	_, _, err = env.server.assetMintHandler()(ctx, nil, AssetMintInput{
		Caller: "alice", URI: "ipfs://a", Category: "Art",
	})
	if !apperrors.IsCode(err, apperrors.CodeNotAuthorized) {
		t.Fatalf("expected NOT_AUTHORIZED without grant, got %v", err)
	}

	token := signTestGrant(t, priv, map[string]any{
		"iss": "issuer", "aud": "ledger", "sub": "alice",
		"exp": now.Add(time.Hour).Unix(), "jti": "jti-1",
	})

	// Caller field disagreeing with the grant subject is refused.
	_, _, err = env.server.assetMintHandler()(ctx, nil, AssetMintInput{
		Caller: "bob", Grant: token, URI: "ipfs://a", Category: "Art",
	})
	if !apperrors.IsCode(err, apperrors.CodeNotAuthorized) {
		t.Fatalf("expected NOT_AUTHORIZED for subject mismatch, got %v", err)
	}

	_, minted, err := env.server.assetMintHandler()(ctx, nil, AssetMintInput{
		Grant: token, URI: "ipfs://a", Category: "Art",
	})
	if err != nil {
		t.Fatalf("mint with grant: %v", err)
	}
	_, got, err := env.server.assetGetHandler()(ctx, nil, AssetGetInput{AssetID: minted.AssetID})
	if err != nil {
		t.Fatalf("asset get: %v", err)
	}
	if got.Owner != "alice" {
		t.Fatalf("expected grant subject as owner, got %q", got.Owner)
	}
}

func TestReadToolsReportAbsence(t *testing.T) {
	env := newServerEnv(t, grant.Config{})
	ctx := context.Background()

	_, _, err := env.server.assetGetHandler()(ctx, nil, AssetGetInput{AssetID: 1})
	if !apperrors.IsCode(err, apperrors.CodeAssetNotFound) {
		t.Fatalf("expected ASSET_NOT_FOUND, got %v", err)
	}
	_, _, err = env.server.campaignGetHandler()(ctx, nil, CampaignGetInput{CampaignID: 1})
	if !apperrors.IsCode(err, apperrors.CodeCampaignNotFound) {
		t.Fatalf("expected CAMPAIGN_NOT_FOUND, got %v", err)
	}
	_, _, err = env.server.milestoneGetHandler()(ctx, nil, MilestoneGetInput{CampaignID: 1, MilestoneID: 1})
	if !apperrors.IsCode(err, apperrors.CodeMilestoneNotFound) {
		t.Fatalf("expected MILESTONE_NOT_FOUND, got %v", err)
	}
	_, _, err = env.server.participationGetHandler()(ctx, nil, ParticipationGetInput{User: "alice", CampaignID: 1})
	if !apperrors.IsCode(err, apperrors.CodeParticipationNotFound) {
		t.Fatalf("expected PARTICIPATION_NOT_FOUND, got %v", err)
	}
	_, _, err = env.server.donationGetHandler()(ctx, nil, DonationGetInput{User: "alice", CampaignID: 1})
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestToolErrorsCarryLocalizedMessages(t *testing.T) {
	env := newServerEnv(t, grant.Config{})
	ctx := context.Background()

	// Read-path errors template their metadata through the catalog.
	_, _, err := env.server.assetGetHandler()(ctx, nil, AssetGetInput{AssetID: 42})
	if !apperrors.IsCode(err, apperrors.CodeAssetNotFound) {
		t.Fatalf("expected ASSET_NOT_FOUND, got %v", err)
	}
	if got := err.Error(); got != "Asset 42 was not found" {
		t.Fatalf("expected localized message, got %q", got)
	}

	// Engine failures on the mutate path are localized too.
	if _, _, err := env.server.adminTogglePauseHandler()(ctx, nil, AdminTogglePauseInput{Caller: "admin"}); err != nil {
		t.Fatalf("toggle pause: %v", err)
	}
	_, _, err = env.server.assetMintHandler()(ctx, nil, AssetMintInput{
		Caller: "alice", URI: "ipfs://a", Category: "Art",
	})
	if !apperrors.IsCode(err, apperrors.CodePaused) {
		t.Fatalf("expected PAUSED, got %v", err)
	}
	if got := err.Error(); got != "The ledger is paused for maintenance" {
		t.Fatalf("expected localized pause message, got %q", got)
	}
}

func TestAdminToolsThroughServer(t *testing.T) {
	env := newServerEnv(t, grant.Config{})
	ctx := context.Background()

	_, toggled, err := env.server.adminTogglePauseHandler()(ctx, nil, AdminTogglePauseInput{Caller: "admin"})
	if err != nil {
		t.Fatalf("toggle pause: %v", err)
	}
	if !toggled.Paused {
		t.Fatal("expected paused after toggle")
	}

	_, _, err = env.server.adminSetDonationPercentageHandler()(ctx, nil, AdminSetDonationPercentageInput{
		Caller: "admin", Percent: 101,
	})
	if !apperrors.IsCode(err, apperrors.CodeInvalidPercentage) {
		t.Fatalf("expected INVALID_PERCENTAGE, got %v", err)
	}

	_, charitySet, err := env.server.adminSetCharityHandler()(ctx, nil, AdminSetCharityInput{
		Caller: "admin", Charity: "new-charity",
	})
	if err != nil {
		t.Fatalf("set charity: %v", err)
	}
	if charitySet.Charity != "new-charity" {
		t.Fatalf("unexpected charity: %+v", charitySet)
	}
}

func signTestGrant(t *testing.T, privateKey ed25519.PrivateKey, payload map[string]any) string {
	t.Helper()

	headerJSON, err := json.Marshal(map[string]any{"alg": "EdDSA", "typ": "JWT"})
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	encodedHeader := base64.RawURLEncoding.EncodeToString(headerJSON)
	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadJSON)
	signingInput := encodedHeader + "." + encodedPayload
	signature := ed25519.Sign(privateKey, []byte(signingInput))
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(signature)
}

var _ storage.StateStore = (*memStore)(nil)
