package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopbridge/backend/internal/domain/marketplace"
)

// ---------------------------------------------------------------------------
// Connection
// ---------------------------------------------------------------------------

// ConnectionModel is the persistence model for the Connection domain entity.
// Token columns hold the encrypted iv:tag:ciphertext encoding, never
// plaintext.
type ConnectionModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key"`
	ShopID            int64      `gorm:"not null;uniqueIndex:idx_connection_shop"`
	PartnerID         int64      `gorm:"not null"`
	AccessTokenEnc    string     `gorm:"type:text;column:access_token_enc"`
	RefreshTokenEnc   string     `gorm:"type:text;column:refresh_token_enc"`
	TokenExpiresAt    time.Time  `gorm:""`
	ShopName          string     `gorm:"type:varchar(255)"`
	ShopRegion        string     `gorm:"type:varchar(10)"`
	Connected         bool       `gorm:"not null;default:false;index"`
	LastOrderSyncAt   *time.Time `gorm:""`
	LastProductSyncAt *time.Time `gorm:""`
	CreatedAt         time.Time  `gorm:"not null"`
	UpdatedAt         time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ConnectionModel) TableName() string {
	return "marketplace_connections"
}

// ToDomain converts the persistence model to a domain Connection entity.
func (m *ConnectionModel) ToDomain() *marketplace.Connection {
	return &marketplace.Connection{
		ID:                m.ID,
		ShopID:            m.ShopID,
		PartnerID:         m.PartnerID,
		AccessTokenEnc:    m.AccessTokenEnc,
		RefreshTokenEnc:   m.RefreshTokenEnc,
		TokenExpiresAt:    m.TokenExpiresAt,
		ShopName:          m.ShopName,
		ShopRegion:        m.ShopRegion,
		Connected:         m.Connected,
		LastOrderSyncAt:   m.LastOrderSyncAt,
		LastProductSyncAt: m.LastProductSyncAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Connection entity.
func (m *ConnectionModel) FromDomain(c *marketplace.Connection) {
	m.ID = c.ID
	m.ShopID = c.ShopID
	m.PartnerID = c.PartnerID
	m.AccessTokenEnc = c.AccessTokenEnc
	m.RefreshTokenEnc = c.RefreshTokenEnc
	m.TokenExpiresAt = c.TokenExpiresAt
	m.ShopName = c.ShopName
	m.ShopRegion = c.ShopRegion
	m.Connected = c.Connected
	m.LastOrderSyncAt = c.LastOrderSyncAt
	m.LastProductSyncAt = c.LastProductSyncAt
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// ---------------------------------------------------------------------------
// Remote Order
// ---------------------------------------------------------------------------

// RemoteOrderModel is the persistence model for the RemoteOrder domain
// entity. Line items are serialized into a JSON column; they are only ever
// read and written as part of the order.
type RemoteOrderModel struct {
	ID               uuid.UUID               `gorm:"type:uuid;primary_key"`
	ShopID           int64                   `gorm:"not null;uniqueIndex:idx_remote_order_shop_sn,priority:1"`
	OrderSN          string                  `gorm:"type:varchar(64);not null;uniqueIndex:idx_remote_order_shop_sn,priority:2"`
	Status           marketplace.OrderStatus `gorm:"type:varchar(32);not null;index"`
	RawStatus        string                  `gorm:"type:varchar(64)"`
	Currency         string                  `gorm:"type:varchar(8)"`
	TotalAmount      decimal.Decimal         `gorm:"type:decimal(18,2)"`
	ShippingFee      decimal.Decimal         `gorm:"type:decimal(18,2)"`
	BuyerUsername    string                  `gorm:"type:varchar(128)"`
	RecipientName    string                  `gorm:"type:varchar(255)"`
	RecipientPhone   string                  `gorm:"type:varchar(32)"`
	RecipientAddress string                  `gorm:"type:text"`
	ShippingCarrier  string                  `gorm:"type:varchar(128)"`
	TrackingNumber   string                  `gorm:"type:varchar(128)"`
	ItemsJSON        string                  `gorm:"type:text;column:items"`
	RemoteCreatedAt  time.Time               `gorm:"index"`
	RemoteUpdatedAt  time.Time               `gorm:""`
	CreatedAt        time.Time               `gorm:"not null"`
	UpdatedAt        time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RemoteOrderModel) TableName() string {
	return "remote_orders"
}

// ToDomain converts the persistence model to a domain RemoteOrder entity.
func (m *RemoteOrderModel) ToDomain() *marketplace.RemoteOrder {
	order := &marketplace.RemoteOrder{
		ID:               m.ID,
		ShopID:           m.ShopID,
		OrderSN:          m.OrderSN,
		Status:           m.Status,
		RawStatus:        m.RawStatus,
		Currency:         m.Currency,
		TotalAmount:      m.TotalAmount,
		ShippingFee:      m.ShippingFee,
		BuyerUsername:    m.BuyerUsername,
		RecipientName:    m.RecipientName,
		RecipientPhone:   m.RecipientPhone,
		RecipientAddress: m.RecipientAddress,
		ShippingCarrier:  m.ShippingCarrier,
		TrackingNumber:   m.TrackingNumber,
		Items:            make([]marketplace.RemoteOrderItem, 0),
		RemoteCreatedAt:  m.RemoteCreatedAt,
		RemoteUpdatedAt:  m.RemoteUpdatedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}

	if m.ItemsJSON != "" {
		var items []marketplace.RemoteOrderItem
		if err := json.Unmarshal([]byte(m.ItemsJSON), &items); err == nil {
			order.Items = items
		}
	}

	return order
}

// FromDomain populates the persistence model from a domain RemoteOrder entity.
func (m *RemoteOrderModel) FromDomain(o *marketplace.RemoteOrder) {
	m.ID = o.ID
	m.ShopID = o.ShopID
	m.OrderSN = o.OrderSN
	m.Status = o.Status
	m.RawStatus = o.RawStatus
	m.Currency = o.Currency
	m.TotalAmount = o.TotalAmount
	m.ShippingFee = o.ShippingFee
	m.BuyerUsername = o.BuyerUsername
	m.RecipientName = o.RecipientName
	m.RecipientPhone = o.RecipientPhone
	m.RecipientAddress = o.RecipientAddress
	m.ShippingCarrier = o.ShippingCarrier
	m.TrackingNumber = o.TrackingNumber
	m.RemoteCreatedAt = o.RemoteCreatedAt
	m.RemoteUpdatedAt = o.RemoteUpdatedAt
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt

	if len(o.Items) > 0 {
		if jsonBytes, err := json.Marshal(o.Items); err == nil {
			m.ItemsJSON = string(jsonBytes)
		}
	} else {
		m.ItemsJSON = "[]"
	}
}

// ---------------------------------------------------------------------------
// Remote Product
// ---------------------------------------------------------------------------

// RemoteProductModel is the persistence model for the RemoteProduct domain
// entity.
type RemoteProductModel struct {
	ID              uuid.UUID                 `gorm:"type:uuid;primary_key"`
	ShopID          int64                     `gorm:"not null;uniqueIndex:idx_remote_product_shop_item,priority:1"`
	ItemID          int64                     `gorm:"not null;uniqueIndex:idx_remote_product_shop_item,priority:2"`
	Name            string                    `gorm:"type:varchar(255)"`
	Status          marketplace.ProductStatus `gorm:"type:varchar(32);not null;index"`
	RawStatus       string                    `gorm:"type:varchar(64)"`
	Currency        string                    `gorm:"type:varchar(8)"`
	Price           decimal.Decimal           `gorm:"type:decimal(18,2)"`
	OriginalPrice   decimal.Decimal           `gorm:"type:decimal(18,2)"`
	Stock           int                       `gorm:"not null;default:0"`
	CategoryID      int64                     `gorm:""`
	ImageURL        string                    `gorm:"type:text"`
	RemoteCreatedAt time.Time                 `gorm:""`
	RemoteUpdatedAt time.Time                 `gorm:""`
	CreatedAt       time.Time                 `gorm:"not null"`
	UpdatedAt       time.Time                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RemoteProductModel) TableName() string {
	return "remote_products"
}

// ToDomain converts the persistence model to a domain RemoteProduct entity.
func (m *RemoteProductModel) ToDomain() *marketplace.RemoteProduct {
	return &marketplace.RemoteProduct{
		ID:              m.ID,
		ShopID:          m.ShopID,
		ItemID:          m.ItemID,
		Name:            m.Name,
		Status:          m.Status,
		RawStatus:       m.RawStatus,
		Currency:        m.Currency,
		Price:           m.Price,
		OriginalPrice:   m.OriginalPrice,
		Stock:           m.Stock,
		CategoryID:      m.CategoryID,
		ImageURL:        m.ImageURL,
		RemoteCreatedAt: m.RemoteCreatedAt,
		RemoteUpdatedAt: m.RemoteUpdatedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain RemoteProduct entity.
func (m *RemoteProductModel) FromDomain(p *marketplace.RemoteProduct) {
	m.ID = p.ID
	m.ShopID = p.ShopID
	m.ItemID = p.ItemID
	m.Name = p.Name
	m.Status = p.Status
	m.RawStatus = p.RawStatus
	m.Currency = p.Currency
	m.Price = p.Price
	m.OriginalPrice = p.OriginalPrice
	m.Stock = p.Stock
	m.CategoryID = p.CategoryID
	m.ImageURL = p.ImageURL
	m.RemoteCreatedAt = p.RemoteCreatedAt
	m.RemoteUpdatedAt = p.RemoteUpdatedAt
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}
