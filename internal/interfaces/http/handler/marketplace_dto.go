package handler

import (
	"time"

	"github.com/shopbridge/backend/internal/domain/marketplace"
)

// ConnectionView is the API representation of a shop connection.
// Encrypted token material is never exposed.
type ConnectionView struct {
	ShopID            int64      `json:"shop_id"`
	PartnerID         int64      `json:"partner_id"`
	ShopName          string     `json:"shop_name,omitempty"`
	ShopRegion        string     `json:"shop_region,omitempty"`
	Connected         bool       `json:"connected"`
	TokenExpiresAt    *time.Time `json:"token_expires_at,omitempty"`
	LastOrderSyncAt   *time.Time `json:"last_order_sync_at,omitempty"`
	LastProductSyncAt *time.Time `json:"last_product_sync_at,omitempty"`
}

func toConnectionView(conn *marketplace.Connection) ConnectionView {
	view := ConnectionView{
		ShopID:            conn.ShopID,
		PartnerID:         conn.PartnerID,
		ShopName:          conn.ShopName,
		ShopRegion:        conn.ShopRegion,
		Connected:         conn.Connected,
		LastOrderSyncAt:   conn.LastOrderSyncAt,
		LastProductSyncAt: conn.LastProductSyncAt,
	}
	if conn.Connected && !conn.TokenExpiresAt.IsZero() {
		expiresAt := conn.TokenExpiresAt
		view.TokenExpiresAt = &expiresAt
	}
	return view
}

// SyncReportView is the API representation of a sync pass outcome
type SyncReportView struct {
	Success     bool      `json:"success"`
	SyncedCount int       `json:"synced_count"`
	Errors      []string  `json:"errors"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

func toSyncReportView(report *marketplace.SyncReport) SyncReportView {
	errs := report.Errors
	if errs == nil {
		errs = []string{}
	}
	return SyncReportView{
		Success:     report.Success,
		SyncedCount: report.SyncedCount,
		Errors:      errs,
		StartedAt:   report.StartedAt,
		FinishedAt:  report.FinishedAt,
	}
}

// OrderItemView is the API representation of an order line
type OrderItemView struct {
	ItemID        int64  `json:"item_id"`
	ItemName      string `json:"item_name"`
	ItemSKU       string `json:"item_sku,omitempty"`
	Quantity      int    `json:"quantity"`
	UnitPrice     string `json:"unit_price"`
	OriginalPrice string `json:"original_price"`
}

// OrderView is the API representation of a synced order
type OrderView struct {
	OrderSN          string          `json:"order_sn"`
	Status           string          `json:"status"`
	RawStatus        string          `json:"raw_status"`
	Currency         string          `json:"currency"`
	TotalAmount      string          `json:"total_amount"`
	ShippingFee      string          `json:"shipping_fee"`
	BuyerUsername    string          `json:"buyer_username,omitempty"`
	RecipientName    string          `json:"recipient_name,omitempty"`
	RecipientPhone   string          `json:"recipient_phone,omitempty"`
	RecipientAddress string          `json:"recipient_address,omitempty"`
	ShippingCarrier  string          `json:"shipping_carrier,omitempty"`
	TrackingNumber   string          `json:"tracking_number,omitempty"`
	Items            []OrderItemView `json:"items"`
	RemoteCreatedAt  time.Time       `json:"remote_created_at"`
	RemoteUpdatedAt  time.Time       `json:"remote_updated_at"`
}

func toOrderView(order *marketplace.RemoteOrder) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemView{
			ItemID:        item.ItemID,
			ItemName:      item.ItemName,
			ItemSKU:       item.ItemSKU,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice.StringFixed(2),
			OriginalPrice: item.OriginalPrice.StringFixed(2),
		})
	}
	return OrderView{
		OrderSN:          order.OrderSN,
		Status:           order.Status.String(),
		RawStatus:        order.RawStatus,
		Currency:         order.Currency,
		TotalAmount:      order.TotalAmount.StringFixed(2),
		ShippingFee:      order.ShippingFee.StringFixed(2),
		BuyerUsername:    order.BuyerUsername,
		RecipientName:    order.RecipientName,
		RecipientPhone:   order.RecipientPhone,
		RecipientAddress: order.RecipientAddress,
		ShippingCarrier:  order.ShippingCarrier,
		TrackingNumber:   order.TrackingNumber,
		Items:            items,
		RemoteCreatedAt:  order.RemoteCreatedAt,
		RemoteUpdatedAt:  order.RemoteUpdatedAt,
	}
}

// ProductView is the API representation of a synced product
type ProductView struct {
	ItemID          int64     `json:"item_id"`
	Name            string    `json:"name"`
	Status          string    `json:"status"`
	RawStatus       string    `json:"raw_status"`
	Currency        string    `json:"currency"`
	Price           string    `json:"price"`
	OriginalPrice   string    `json:"original_price"`
	Stock           int       `json:"stock"`
	CategoryID      int64     `json:"category_id,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	RemoteCreatedAt time.Time `json:"remote_created_at"`
	RemoteUpdatedAt time.Time `json:"remote_updated_at"`
}

func toProductView(product *marketplace.RemoteProduct) ProductView {
	return ProductView{
		ItemID:          product.ItemID,
		Name:            product.Name,
		Status:          product.Status.String(),
		RawStatus:       product.RawStatus,
		Currency:        product.Currency,
		Price:           product.Price.StringFixed(2),
		OriginalPrice:   product.OriginalPrice.StringFixed(2),
		Stock:           product.Stock,
		CategoryID:      product.CategoryID,
		ImageURL:        product.ImageURL,
		RemoteCreatedAt: product.RemoteCreatedAt,
		RemoteUpdatedAt: product.RemoteUpdatedAt,
	}
}

// ShipResultView is the API representation of a confirmed shipment
type ShipResultView struct {
	OrderSN        string    `json:"order_sn"`
	Carrier        string    `json:"carrier,omitempty"`
	TrackingNumber string    `json:"tracking_number"`
	ShippedAt      time.Time `json:"shipped_at"`
}

// ShipOrderRequest is the request body for shipping an order
type ShipOrderRequest struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number" binding:"required"`
}

// AuthorizeURLResponse carries the platform consent page URL
type AuthorizeURLResponse struct {
	URL string `json:"url"`
}
