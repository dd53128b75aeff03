package i18n

// Error codes must match the codes defined in internal/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeNotAuthorized         = "NOT_AUTHORIZED"
	CodeNotOwner              = "NOT_OWNER"
	CodePaused                = "PAUSED"
	CodeAssetNotFound         = "ASSET_NOT_FOUND"
	CodeInvalidPrice          = "INVALID_PRICE"
	CodeCampaignNotFound      = "CAMPAIGN_NOT_FOUND"
	CodeCampaignExpired       = "CAMPAIGN_EXPIRED"
	CodeMilestoneNotFound     = "MILESTONE_NOT_FOUND"
	CodeParticipationNotFound = "PARTICIPATION_NOT_FOUND"
	CodeInvalidParameter      = "INVALID_PARAMETER"
	CodeInvalidPercentage     = "INVALID_PERCENTAGE"
	CodeInsufficientFunds     = "INSUFFICIENT_FUNDS"
	CodeNotFound              = "NOT_FOUND"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Authorization errors
		CodeNotAuthorized: "Caller is not authorized to perform this operation",
		CodeNotOwner:      "Caller does not own asset {{.AssetID}}",
		CodePaused:        "The ledger is paused for maintenance",

		// Asset errors
		CodeAssetNotFound: "Asset {{.AssetID}} was not found",
		CodeInvalidPrice:  "Asset {{.AssetID}} has no valid listing price",

		// Campaign errors
		CodeCampaignNotFound: "Campaign {{.CampaignID}} was not found or is no longer active",
		CodeCampaignExpired:  "Campaign {{.CampaignID}} passed its deadline",

		// Milestone errors
		CodeMilestoneNotFound:     "Milestone {{.MilestoneID}} was not found for campaign {{.CampaignID}}",
		CodeParticipationNotFound: "No participation record for this campaign",

		// Parameter errors
		CodeInvalidParameter:  "A request parameter is invalid",
		CodeInvalidPercentage: "Donation percentage {{.Percentage}} must be between 0 and 100",

		// Bank errors
		CodeInsufficientFunds: "Insufficient funds to complete the transfer",

		// Storage errors
		CodeNotFound: "The requested resource was not found",
	},
}
