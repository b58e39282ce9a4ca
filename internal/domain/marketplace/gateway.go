package marketplace

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// Gateway Types
// ---------------------------------------------------------------------------

// TokenPair is a freshly issued access/refresh token pair. Plaintext tokens
// live only inside the call scope that obtained them.
type TokenPair struct {
	// AccessToken is the short-lived API token
	AccessToken string
	// RefreshToken is the token used to obtain the next pair
	RefreshToken string
	// ExpiresAt is when the access token expires
	ExpiresAt time.Time
}

// ShopInfo is the shop metadata reported by the platform
type ShopInfo struct {
	// ShopName is the shop display name
	ShopName string
	// Region is the platform region code
	Region string
	// Status is the shop status string on the platform
	Status string
}

// OrderListQuery describes one page request of the order list endpoint.
// The platform caps the time window per request, so a 90 day sync window is
// walked in slices, each slice paginated by an opaque cursor.
type OrderListQuery struct {
	// TimeFrom is the window start (order creation time)
	TimeFrom time.Time
	// TimeTo is the window end
	TimeTo time.Time
	// Cursor is the opaque pagination token, empty for the first page
	Cursor string
	// PageSize is the requested page size
	PageSize int
}

// OrderPage is one page of order summaries
type OrderPage struct {
	// OrderSNs are the order numbers on this page
	OrderSNs []string
	// NextCursor is the cursor for the following page
	NextCursor string
	// HasMore indicates whether more pages exist in this window
	HasMore bool
}

// ProductListQuery describes one page request of the product list endpoint
type ProductListQuery struct {
	// Status filters listings by platform status
	Status ProductStatus
	// Offset is the numeric pagination offset
	Offset int
	// PageSize is the requested page size
	PageSize int
}

// ProductPage is one page of product summaries
type ProductPage struct {
	// ItemIDs are the item ids on this page
	ItemIDs []int64
	// NextOffset is the offset for the following page
	NextOffset int
	// HasMore indicates whether more pages exist
	HasMore bool
}

// ItemFailure records one remote item that failed to map during a detail
// fetch. Failures are isolated per item and never abort the batch.
type ItemFailure struct {
	// Ref is the remote identifier of the failed item
	Ref string
	// Reason describes the failure
	Reason string
}

// TrackingInfo carries the shipment details for a ship-order call
type TrackingInfo struct {
	// Carrier is the logistics channel name
	Carrier string
	// TrackingNumber is the shipment tracking number
	TrackingNumber string
}

// ---------------------------------------------------------------------------
// PlatformGateway Interface
// ---------------------------------------------------------------------------

// PlatformGateway defines the port to the marketplace's signed HTTP API.
// Implementations translate loosely typed platform payloads into the
// normalized domain entities, rejecting items with missing required fields
// as ItemFailures instead of propagating partial records.
type PlatformGateway interface {
	// AuthorizationURL builds the signed URL the operator visits to
	// authorize a shop
	AuthorizationURL(redirectURL string) (string, error)

	// ExchangeAuthorizationCode trades an authorization code for the
	// initial token pair
	ExchangeAuthorizationCode(ctx context.Context, code string, shopID int64) (*TokenPair, error)

	// RefreshAccessToken obtains a fresh token pair from a refresh token
	RefreshAccessToken(ctx context.Context, shopID int64, refreshToken string) (*TokenPair, error)

	// GetShopInfo fetches the shop display metadata
	GetShopInfo(ctx context.Context, shopID int64, accessToken string) (*ShopInfo, error)

	// ListOrders fetches one page of order numbers in a time window
	ListOrders(ctx context.Context, shopID int64, accessToken string, query OrderListQuery) (*OrderPage, error)

	// FetchOrderDetails fetches and normalizes order details. Items that
	// fail validation or mapping are returned as failures.
	FetchOrderDetails(ctx context.Context, shopID int64, accessToken string, orderSNs []string) ([]RemoteOrder, []ItemFailure, error)

	// ListProducts fetches one page of item ids matching a status filter
	ListProducts(ctx context.Context, shopID int64, accessToken string, query ProductListQuery) (*ProductPage, error)

	// FetchProductDetails fetches and normalizes product details. Items
	// that fail validation or mapping are returned as failures.
	FetchProductDetails(ctx context.Context, shopID int64, accessToken string, itemIDs []int64) ([]RemoteProduct, []ItemFailure, error)

	// ShipOrder submits a ship request for an order. A logical error in the
	// response body is returned as an error even when the HTTP call
	// succeeded; callers must not touch local state in that case.
	ShipOrder(ctx context.Context, shopID int64, accessToken string, orderSN string, tracking TrackingInfo) error
}
