package engine

import (
	"context"
	"strconv"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
	"github.com/louisbranch/giving.space/internal/ledger/domain"
)

// Buy purchases a listed asset. The price splits into a charity share
// (floor(price * percent / 100)) and a seller share; both currency legs must
// succeed before any ledger state changes. Buying one's own listing is
// permitted and still pays the split.
func (e *Engine) Buy(ctx context.Context, caller domain.Identity, assetID uint64) error {
	if err := e.requireUnpaused(); err != nil {
		return err
	}
	if caller.IsZero() {
		return apperrors.New(apperrors.CodeInvalidParameter, "caller identity is required")
	}
	asset, ok := e.assets[assetID]
	if !ok || !asset.Listed() {
		return apperrors.WithMetadata(apperrors.CodeInvalidPrice, "asset has no active listing",
			map[string]string{"AssetID": strconv.FormatUint(assetID, 10)})
	}

	price := asset.Price
	// price*percent wraps above 1<<57; listing prices are assumed below that.
	donation := price * e.cfg.DonationPercent / 100
	sellerAmount := price - donation

	seller := asset.Owner
	if err := e.bank.Transfer(ctx, sellerAmount, caller, seller); err != nil {
		return err
	}
	if err := e.bank.Transfer(ctx, donation, caller, e.cfg.Charity); err != nil {
		// Undo the seller leg so a half-failed purchase leaves balances intact.
		if undoErr := e.bank.Transfer(ctx, sellerAmount, seller, caller); undoErr != nil {
			return apperrors.Wrap(apperrors.CodeInsufficientFunds,
				"charity transfer failed and seller refund failed", undoErr)
		}
		return err
	}

	asset.Owner = caller
	asset.Price = 0
	e.cfg.TotalDonations += donation
	return nil
}
