package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Product Status
// ---------------------------------------------------------------------------

// ProductStatus represents the local product status enum
type ProductStatus string

const (
	// ProductStatusNormal indicates the item is live and sellable
	ProductStatusNormal ProductStatus = "normal"
	// ProductStatusDeleted indicates the item was removed on the platform
	ProductStatusDeleted ProductStatus = "deleted"
	// ProductStatusBanned indicates the item was taken down by the platform
	ProductStatusBanned ProductStatus = "banned"
	// ProductStatusReviewing indicates the item is under platform review
	ProductStatusReviewing ProductStatus = "reviewing"
)

// IsValid returns true if the status is a known value
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusNormal, ProductStatusDeleted, ProductStatusBanned, ProductStatusReviewing:
		return true
	default:
		return false
	}
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Remote Product
// ---------------------------------------------------------------------------

// RemoteProduct is the normalized local copy of a platform listing, keyed by
// the platform item id. A remote "deleted" status maps to a local status
// value; the row itself is never deleted by sync.
type RemoteProduct struct {
	// ID is the local row identifier
	ID uuid.UUID
	// ShopID is the shop the listing belongs to
	ShopID int64
	// ItemID is the platform item identifier, the stable remote key
	ItemID int64
	// Name is the listing title
	Name string
	// Status is the translated local status
	Status ProductStatus
	// RawStatus is the platform's raw status string as received
	RawStatus string
	// Currency is the ISO currency code of the prices
	Currency string
	// Price is the current price in canonical units
	Price decimal.Decimal
	// OriginalPrice is the pre-discount price in canonical units
	OriginalPrice decimal.Decimal
	// Stock is the total available stock across models
	Stock int
	// CategoryID is the platform category identifier
	CategoryID int64
	// ImageURL is the primary listing image
	ImageURL string
	// RemoteCreatedAt is the listing creation time on the platform
	RemoteCreatedAt time.Time
	// RemoteUpdatedAt is the last update time on the platform
	RemoteUpdatedAt time.Time
	// CreatedAt is when the row was first synced
	CreatedAt time.Time
	// UpdatedAt is when the row was last synced
	UpdatedAt time.Time
}

// ---------------------------------------------------------------------------
// RemoteProductRepository Interface
// ---------------------------------------------------------------------------

// RemoteProductFilter defines filter criteria for listing remote products
type RemoteProductFilter struct {
	// Status filters by local status (optional)
	Status *ProductStatus
	// Keyword filters by name substring (optional)
	Keyword string
	// Page number (1-indexed)
	Page int
	// Page size
	PageSize int
}

// RemoteProductRepository defines the interface for persisting remote products
type RemoteProductRepository interface {
	// Upsert inserts the product if absent, otherwise overwrites mutable
	// fields keyed by (shop id, item id). Creation metadata is preserved.
	Upsert(ctx context.Context, product *RemoteProduct) error

	// FindByItemID finds a product by shop and platform item id.
	// Returns ErrProductNotFound if no row exists.
	FindByItemID(ctx context.Context, shopID int64, itemID int64) (*RemoteProduct, error)

	// FindAll lists products for a shop matching the filter
	FindAll(ctx context.Context, shopID int64, filter RemoteProductFilter) ([]RemoteProduct, error)

	// Count counts products for a shop matching the filter
	Count(ctx context.Context, shopID int64, filter RemoteProductFilter) (int64, error)
}
