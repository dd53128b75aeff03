// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Authorization errors
	CodeNotAuthorized Code = "NOT_AUTHORIZED"
	CodeNotOwner      Code = "NOT_OWNER"
	CodePaused        Code = "PAUSED"

	// Asset errors
	CodeAssetNotFound Code = "ASSET_NOT_FOUND"
	CodeInvalidPrice  Code = "INVALID_PRICE"

	// Campaign errors
	CodeCampaignNotFound Code = "CAMPAIGN_NOT_FOUND"
	CodeCampaignExpired  Code = "CAMPAIGN_EXPIRED"

	// Milestone errors
	CodeMilestoneNotFound     Code = "MILESTONE_NOT_FOUND"
	CodeParticipationNotFound Code = "PARTICIPATION_NOT_FOUND"

	// Parameter errors
	CodeInvalidParameter  Code = "INVALID_PARAMETER"
	CodeInvalidPercentage Code = "INVALID_PERCENTAGE"

	// Bank errors
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidParameter,
		CodeInvalidPercentage:
		return codes.InvalidArgument

	// PermissionDenied - caller fails an identity check
	case CodeNotAuthorized,
		CodeNotOwner:
		return codes.PermissionDenied

	// FailedPrecondition - state doesn't allow operation
	case CodePaused,
		CodeInvalidPrice,
		CodeCampaignExpired,
		CodeInsufficientFunds:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeAssetNotFound,
		CodeCampaignNotFound,
		CodeMilestoneNotFound,
		CodeParticipationNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
