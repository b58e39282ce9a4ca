package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Order Status
// ---------------------------------------------------------------------------

// OrderStatus represents the local order status enum, translated from the
// platform's raw status strings
type OrderStatus string

const (
	// OrderStatusUnpaid indicates the buyer has not paid yet
	OrderStatusUnpaid OrderStatus = "unpaid"
	// OrderStatusToShip indicates the order is paid and awaiting shipment
	OrderStatusToShip OrderStatus = "to_ship"
	// OrderStatusShipped indicates the order has been handed to logistics
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusToConfirmReceive indicates delivery awaiting buyer confirmation
	OrderStatusToConfirmReceive OrderStatus = "to_confirm_receive"
	// OrderStatusInCancel indicates a cancellation request is pending
	OrderStatusInCancel OrderStatus = "in_cancel"
	// OrderStatusCancelled indicates the order was cancelled
	OrderStatusCancelled OrderStatus = "cancelled"
	// OrderStatusToReturn indicates a return/refund is in progress
	OrderStatusToReturn OrderStatus = "to_return"
	// OrderStatusCompleted indicates the order is finished
	OrderStatusCompleted OrderStatus = "completed"
)

// IsValid returns true if the status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusUnpaid, OrderStatusToShip, OrderStatusShipped,
		OrderStatusToConfirmReceive, OrderStatusInCancel, OrderStatusCancelled,
		OrderStatusToReturn, OrderStatusCompleted:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsFinal returns true if the order can no longer change on the platform
func (s OrderStatus) IsFinal() bool {
	switch s {
	case OrderStatusCancelled, OrderStatusCompleted:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// Remote Order
// ---------------------------------------------------------------------------

// RemoteOrder is the normalized local copy of a platform order, keyed by the
// platform order number. Rows are upserted by sync and never deleted;
// a cancelled remote order keeps its row with a cancelled status.
type RemoteOrder struct {
	// ID is the local row identifier
	ID uuid.UUID
	// ShopID is the shop the order belongs to
	ShopID int64
	// OrderSN is the platform order number, the stable remote key
	OrderSN string
	// Status is the translated local status
	Status OrderStatus
	// RawStatus is the platform's raw status string as received
	RawStatus string
	// Currency is the ISO currency code of the amounts
	Currency string
	// TotalAmount is the order total in canonical units
	TotalAmount decimal.Decimal
	// ShippingFee is the shipping cost in canonical units
	ShippingFee decimal.Decimal
	// BuyerUsername is the buyer's platform username
	BuyerUsername string
	// RecipientName is the shipping address recipient
	RecipientName string
	// RecipientPhone is the shipping address phone number
	RecipientPhone string
	// RecipientAddress is the full shipping address
	RecipientAddress string
	// ShippingCarrier is the logistics channel name
	ShippingCarrier string
	// TrackingNumber is the shipment tracking number, if shipped
	TrackingNumber string
	// Items are the order line items
	Items []RemoteOrderItem
	// RemoteCreatedAt is the order creation time on the platform
	RemoteCreatedAt time.Time
	// RemoteUpdatedAt is the last update time on the platform
	RemoteUpdatedAt time.Time
	// CreatedAt is when the row was first synced
	CreatedAt time.Time
	// UpdatedAt is when the row was last synced
	UpdatedAt time.Time
}

// RemoteOrderItem represents one line item of a remote order
type RemoteOrderItem struct {
	// ItemID is the platform item identifier
	ItemID int64
	// ItemName is the product name at order time
	ItemName string
	// ItemSKU is the seller SKU string
	ItemSKU string
	// Quantity is the purchased quantity
	Quantity int
	// UnitPrice is the discounted unit price in canonical units
	UnitPrice decimal.Decimal
	// OriginalPrice is the pre-discount unit price in canonical units
	OriginalPrice decimal.Decimal
}

// MarkShipped records the carrier and tracking number and moves the order to
// the shipped status. Called only after the platform confirmed the shipment.
func (o *RemoteOrder) MarkShipped(carrier, trackingNumber string) {
	o.Status = OrderStatusShipped
	o.ShippingCarrier = carrier
	o.TrackingNumber = trackingNumber
}

// ---------------------------------------------------------------------------
// RemoteOrderRepository Interface
// ---------------------------------------------------------------------------

// RemoteOrderFilter defines filter criteria for listing remote orders
type RemoteOrderFilter struct {
	// Status filters by local status (optional)
	Status *OrderStatus
	// StartTime filters orders created on the platform from this time
	StartTime *time.Time
	// EndTime filters orders created on the platform until this time
	EndTime *time.Time
	// Page number (1-indexed)
	Page int
	// Page size
	PageSize int
}

// RemoteOrderRepository defines the interface for persisting remote orders
type RemoteOrderRepository interface {
	// Upsert inserts the order if absent, otherwise overwrites mutable
	// fields keyed by (shop id, order sn). Creation metadata is preserved.
	Upsert(ctx context.Context, order *RemoteOrder) error

	// FindByOrderSN finds an order by shop and platform order number.
	// Returns ErrOrderNotFound if no row exists.
	FindByOrderSN(ctx context.Context, shopID int64, orderSN string) (*RemoteOrder, error)

	// FindAll lists orders for a shop matching the filter
	FindAll(ctx context.Context, shopID int64, filter RemoteOrderFilter) ([]RemoteOrder, error)

	// Count counts orders for a shop matching the filter
	Count(ctx context.Context, shopID int64, filter RemoteOrderFilter) (int64, error)
}
