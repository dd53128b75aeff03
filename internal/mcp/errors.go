package mcp

import (
	"strconv"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
)

// localizedError pairs the catalog message shown to MCP clients with the
// underlying domain error so code-based matching keeps working through
// Unwrap.
type localizedError struct {
	cause   error
	message string
}

func (e *localizedError) Error() string { return e.message }

func (e *localizedError) Unwrap() error { return e.cause }

// localize renders a domain error's client-facing message through the
// server's catalog before it crosses the tool boundary. Errors without a
// known code pass through unchanged.
func (s *Server) localize(err error) error {
	if err == nil {
		return nil
	}
	code := apperrors.GetCode(err)
	if code == apperrors.CodeUnknown {
		return err
	}
	return &localizedError{
		cause:   err,
		message: s.catalog.Format(string(code), apperrors.GetMetadata(err)),
	}
}

func (s *Server) assetNotFoundError(assetID uint64) error {
	return s.localize(apperrors.WithMetadata(apperrors.CodeAssetNotFound, "asset not found",
		map[string]string{"AssetID": strconv.FormatUint(assetID, 10)}))
}

func (s *Server) campaignNotFoundError(campaignID uint64) error {
	return s.localize(apperrors.WithMetadata(apperrors.CodeCampaignNotFound, "campaign not found",
		map[string]string{"CampaignID": strconv.FormatUint(campaignID, 10)}))
}

func (s *Server) milestoneNotFoundError(campaignID, milestoneID uint64) error {
	return s.localize(apperrors.WithMetadata(apperrors.CodeMilestoneNotFound, "milestone not found",
		map[string]string{
			"CampaignID":  strconv.FormatUint(campaignID, 10),
			"MilestoneID": strconv.FormatUint(milestoneID, 10),
		}))
}

func (s *Server) participationNotFoundError() error {
	return s.localize(apperrors.New(apperrors.CodeParticipationNotFound, "no participation record"))
}

func (s *Server) donationNotFoundError() error {
	return s.localize(apperrors.New(apperrors.CodeNotFound, "no donation record"))
}
