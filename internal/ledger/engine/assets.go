package engine

import (
	"strconv"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
	"github.com/louisbranch/giving.space/internal/ledger/domain"
)

// Mint allocates the next asset identifier and records the caller as both
// owner and creator. Minting is blocked while the ledger is paused.
func (e *Engine) Mint(caller domain.Identity, uri, category string) (uint64, error) {
	if err := e.requireUnpaused(); err != nil {
		return 0, err
	}
	if caller.IsZero() {
		return 0, apperrors.New(apperrors.CodeInvalidParameter, "caller identity is required")
	}
	if err := domain.ValidateAssetInput(uri, category); err != nil {
		return 0, err
	}

	id := e.cfg.TotalAssets + 1
	e.assets[id] = &domain.Asset{
		ID:        id,
		Owner:     caller,
		URI:       uri,
		Category:  category,
		Creator:   caller,
		CreatedAt: e.height(),
	}
	e.cfg.TotalAssets = id
	return id, nil
}

// Transfer reassigns ownership of an asset. The sale listing, if any, is
// deliberately left in place: a transferred asset keeps its stale price.
func (e *Engine) Transfer(caller domain.Identity, assetID uint64, recipient domain.Identity) error {
	asset, ok := e.assets[assetID]
	if !ok {
		return assetNotFound(assetID)
	}
	if asset.Owner != caller {
		return notOwner(assetID)
	}
	if recipient.IsZero() {
		return apperrors.New(apperrors.CodeInvalidParameter, "recipient identity is required")
	}
	asset.Owner = recipient
	return nil
}

// ListForSale sets the asset's sale price. A zero price is invalid; delisting
// happens only through a successful purchase.
func (e *Engine) ListForSale(caller domain.Identity, assetID uint64, price uint64) error {
	if err := e.requireUnpaused(); err != nil {
		return err
	}
	asset, ok := e.assets[assetID]
	if !ok {
		return assetNotFound(assetID)
	}
	if asset.Owner != caller {
		return notOwner(assetID)
	}
	if price == 0 {
		return apperrors.WithMetadata(apperrors.CodeInvalidPrice,
			"listing price must be greater than zero",
			map[string]string{"AssetID": strconv.FormatUint(assetID, 10)})
	}
	asset.Price = price
	return nil
}

// Asset returns a copy of the asset record, reporting absence via ok.
func (e *Engine) Asset(assetID uint64) (domain.Asset, bool) {
	asset, ok := e.assets[assetID]
	if !ok {
		return domain.Asset{}, false
	}
	return *asset, true
}

// Owner returns the asset's current owner.
func (e *Engine) Owner(assetID uint64) (domain.Identity, bool) {
	asset, ok := e.assets[assetID]
	if !ok {
		return "", false
	}
	return asset.Owner, true
}

// Price returns the asset's listing price; ok is false when the asset is
// unknown or not listed.
func (e *Engine) Price(assetID uint64) (uint64, bool) {
	asset, ok := e.assets[assetID]
	if !ok || !asset.Listed() {
		return 0, false
	}
	return asset.Price, true
}

// URI returns the asset's content URI.
func (e *Engine) URI(assetID uint64) (string, bool) {
	asset, ok := e.assets[assetID]
	if !ok {
		return "", false
	}
	return asset.URI, true
}

// mintInternal allocates an asset without the pause gate; milestone reward
// minting stays available during an incident pause.
func (e *Engine) mintInternal(owner domain.Identity, uri, category string) uint64 {
	id := e.cfg.TotalAssets + 1
	e.assets[id] = &domain.Asset{
		ID:        id,
		Owner:     owner,
		URI:       uri,
		Category:  category,
		Creator:   owner,
		CreatedAt: e.height(),
	}
	e.cfg.TotalAssets = id
	return id
}

func assetNotFound(assetID uint64) error {
	return apperrors.WithMetadata(apperrors.CodeAssetNotFound, "asset does not exist",
		map[string]string{"AssetID": strconv.FormatUint(assetID, 10)})
}

func notOwner(assetID uint64) error {
	return apperrors.WithMetadata(apperrors.CodeNotOwner, "caller does not own asset",
		map[string]string{"AssetID": strconv.FormatUint(assetID, 10)})
}
