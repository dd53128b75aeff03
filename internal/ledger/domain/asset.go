package domain

import (
	apperrors "github.com/louisbranch/giving.space/internal/errors"
)

// Bounded string and list limits shared across the ledger.
const (
	MaxURILen         = 256
	MaxCategoryLen    = 64
	MaxNameLen        = 128
	MaxDescriptionLen = 512

	// MaxListLen caps campaign asset lists, participation lists, and
	// per-user reward lists.
	MaxListLen = 100
)

// RewardCategory is the category assigned to milestone reward assets.
const RewardCategory = "milestone-reward"

// Asset is a uniquely identified digital item with a single current owner.
// Identifiers are 1-based and strictly increasing. A zero Price means the
// asset is not listed for sale.
type Asset struct {
	ID        uint64
	Owner     Identity
	URI       string
	Category  string
	Creator   Identity // immutable after mint
	CreatedAt uint64   // logical height at mint, immutable
	Price     uint64   // 0 = not listed
}

// Listed reports whether the asset has an active sale listing.
func (a Asset) Listed() bool {
	return a.Price > 0
}

// ValidateAssetInput checks the bounded URI and category strings for mint.
func ValidateAssetInput(uri, category string) error {
	if len(uri) > MaxURILen {
		return apperrors.New(apperrors.CodeInvalidParameter, "asset uri exceeds maximum length")
	}
	if len(category) > MaxCategoryLen {
		return apperrors.New(apperrors.CodeInvalidParameter, "asset category exceeds maximum length")
	}
	return nil
}
