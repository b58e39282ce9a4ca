package shopee

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopbridge/backend/internal/domain/marketplace"
)

// microUnitScale is the fixed-point scale of the platform's monetary fields.
// An amount of 2999900000 on the wire is 29999.00 in the order currency.
const microUnitScale = 5

// microToDecimal rescales an integer micro-unit amount to canonical units
func microToDecimal(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).Shift(-microUnitScale).Round(2)
}

// mapOrderStatus translates a raw platform order status into the local enum.
// Unknown values fall back to unpaid so an unrecognized status never aborts
// a sync and never fakes progress the platform did not report.
func mapOrderStatus(raw string) marketplace.OrderStatus {
	switch raw {
	case "UNPAID":
		return marketplace.OrderStatusUnpaid
	case "READY_TO_SHIP", "PROCESSED":
		return marketplace.OrderStatusToShip
	case "SHIPPED":
		return marketplace.OrderStatusShipped
	case "TO_CONFIRM_RECEIVE":
		return marketplace.OrderStatusToConfirmReceive
	case "IN_CANCEL":
		return marketplace.OrderStatusInCancel
	case "CANCELLED":
		return marketplace.OrderStatusCancelled
	case "TO_RETURN":
		return marketplace.OrderStatusToReturn
	case "COMPLETED":
		return marketplace.OrderStatusCompleted
	default:
		return marketplace.OrderStatusUnpaid
	}
}

// mapProductStatus translates a raw platform item status into the local
// enum. Unknown values fall back to reviewing, the most restrictive state.
func mapProductStatus(raw string) marketplace.ProductStatus {
	switch raw {
	case "NORMAL":
		return marketplace.ProductStatusNormal
	case "DELETED":
		return marketplace.ProductStatusDeleted
	case "BANNED":
		return marketplace.ProductStatusBanned
	case "REVIEWING", "UNLIST":
		return marketplace.ProductStatusReviewing
	default:
		return marketplace.ProductStatusReviewing
	}
}

// productStatusParam translates the local product status filter back into
// the platform's list endpoint parameter
func productStatusParam(s marketplace.ProductStatus) string {
	switch s {
	case marketplace.ProductStatusNormal:
		return "NORMAL"
	case marketplace.ProductStatusDeleted:
		return "DELETED"
	case marketplace.ProductStatusBanned:
		return "BANNED"
	case marketplace.ProductStatusReviewing:
		return "REVIEWING"
	default:
		return "NORMAL"
	}
}

// convertOrderDetail maps a validated order payload to the domain entity
func convertOrderDetail(shopID int64, p *orderDetailPayload) *marketplace.RemoteOrder {
	order := &marketplace.RemoteOrder{
		ShopID:           shopID,
		OrderSN:          p.OrderSN,
		Status:           mapOrderStatus(p.OrderStatus),
		RawStatus:        p.OrderStatus,
		Currency:         p.Currency,
		TotalAmount:      microToDecimal(p.TotalAmount),
		ShippingFee:      microToDecimal(p.ShippingFee),
		BuyerUsername:    p.BuyerUser,
		RecipientName:    p.RecipientAddress.Name,
		RecipientPhone:   p.RecipientAddress.Phone,
		RecipientAddress: p.RecipientAddress.FullAddress,
		ShippingCarrier:  p.ShippingCarrier,
		TrackingNumber:   p.TrackingNumber,
		RemoteCreatedAt:  time.Unix(p.CreateTime, 0),
		RemoteUpdatedAt:  time.Unix(p.UpdateTime, 0),
	}

	order.Items = make([]marketplace.RemoteOrderItem, 0, len(p.ItemList))
	for _, item := range p.ItemList {
		order.Items = append(order.Items, marketplace.RemoteOrderItem{
			ItemID:        item.ItemID,
			ItemName:      item.ItemName,
			ItemSKU:       item.ItemSKU,
			Quantity:      item.ModelQuantity,
			UnitPrice:     microToDecimal(item.ModelDiscounted),
			OriginalPrice: microToDecimal(item.ModelOriginal),
		})
	}

	return order
}

// convertItemBaseInfo maps a validated product payload to the domain entity
func convertItemBaseInfo(shopID int64, p *itemBaseInfoPayload) *marketplace.RemoteProduct {
	product := &marketplace.RemoteProduct{
		ShopID:          shopID,
		ItemID:          p.ItemID,
		Name:            p.ItemName,
		Status:          mapProductStatus(p.ItemStatus),
		RawStatus:       p.ItemStatus,
		Stock:           p.StockInfoV2.SummaryInfo.TotalAvailableStock,
		CategoryID:      p.CategoryID,
		RemoteCreatedAt: time.Unix(p.CreateTime, 0),
		RemoteUpdatedAt: time.Unix(p.UpdateTime, 0),
	}

	if len(p.PriceInfo) > 0 {
		product.Currency = p.PriceInfo[0].Currency
		product.Price = microToDecimal(p.PriceInfo[0].CurrentPrice)
		product.OriginalPrice = microToDecimal(p.PriceInfo[0].OriginalPrice)
	}
	if len(p.Image.ImageURLList) > 0 {
		product.ImageURL = p.Image.ImageURLList[0]
	}

	return product
}
