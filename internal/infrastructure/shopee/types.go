package shopee

import "encoding/json"

// ---------------------------------------------------------------------------
// Wire Types
// ---------------------------------------------------------------------------
// Every platform response is treated as untrusted, loosely typed input.
// Payloads are decoded into these structs and validated before any field
// crosses into the domain.

// envelope is the common response wrapper of every endpoint
type envelope struct {
	Error     string          `json:"error"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Response  json.RawMessage `json:"response"`
}

// tokenPayload is returned by the token exchange and refresh endpoints.
// The error fields live at the top level of these two endpoints rather than
// in the envelope, so they are decoded directly.
type tokenPayload struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
	ExpireIn     int64  `json:"expire_in" validate:"required,gt=0"`
	Error        string `json:"error"`
	Message      string `json:"message"`
}

// shopInfoPayload is returned by the shop info endpoint
type shopInfoPayload struct {
	ShopName string `json:"shop_name" validate:"required"`
	Region   string `json:"region"`
	Status   string `json:"status"`
}

// orderListPayload is one page of the order list endpoint
type orderListPayload struct {
	OrderList []struct {
		OrderSN string `json:"order_sn"`
	} `json:"order_list"`
	More       bool   `json:"more"`
	NextCursor string `json:"next_cursor"`
}

// orderDetailPayload is one order of the order detail endpoint
type orderDetailPayload struct {
	OrderSN     string `json:"order_sn" validate:"required"`
	OrderStatus string `json:"order_status" validate:"required"`
	Currency    string `json:"currency"`
	// Monetary fields arrive as integer micro-units of the currency
	TotalAmount int64 `json:"total_amount"`
	ShippingFee int64 `json:"actual_shipping_fee"`
	BuyerUser   string `json:"buyer_username"`
	CreateTime  int64  `json:"create_time" validate:"required,gt=0"`
	UpdateTime  int64  `json:"update_time"`
	RecipientAddress struct {
		Name        string `json:"name"`
		Phone       string `json:"phone"`
		FullAddress string `json:"full_address"`
	} `json:"recipient_address"`
	ShippingCarrier string `json:"shipping_carrier"`
	TrackingNumber  string `json:"tracking_number"`
	ItemList        []struct {
		ItemID          int64  `json:"item_id"`
		ItemName        string `json:"item_name"`
		ItemSKU         string `json:"item_sku"`
		ModelQuantity   int    `json:"model_quantity_purchased"`
		ModelDiscounted int64  `json:"model_discounted_price"`
		ModelOriginal   int64  `json:"model_original_price"`
	} `json:"item_list"`
}

// orderDetailListPayload wraps the batch order detail response
type orderDetailListPayload struct {
	OrderList []json.RawMessage `json:"order_list"`
}

// itemListPayload is one page of the product list endpoint
type itemListPayload struct {
	Item []struct {
		ItemID int64 `json:"item_id"`
	} `json:"item"`
	TotalCount  int  `json:"total_count"`
	HasNextPage bool `json:"has_next_page"`
	NextOffset  int  `json:"next_offset"`
}

// itemBaseInfoPayload is one listing of the product detail endpoint
type itemBaseInfoPayload struct {
	ItemID     int64  `json:"item_id" validate:"required"`
	ItemName   string `json:"item_name" validate:"required"`
	ItemStatus string `json:"item_status" validate:"required"`
	CategoryID int64  `json:"category_id"`
	CreateTime int64  `json:"create_time"`
	UpdateTime int64  `json:"update_time"`
	PriceInfo  []struct {
		Currency      string `json:"currency"`
		CurrentPrice  int64  `json:"current_price"`
		OriginalPrice int64  `json:"original_price"`
	} `json:"price_info"`
	StockInfoV2 struct {
		SummaryInfo struct {
			TotalAvailableStock int `json:"total_available_stock"`
		} `json:"summary_info"`
	} `json:"stock_info_v2"`
	Image struct {
		ImageURLList []string `json:"image_url_list"`
	} `json:"image"`
}

// itemBaseInfoListPayload wraps the batch product detail response
type itemBaseInfoListPayload struct {
	ItemList []json.RawMessage `json:"item_list"`
}
