package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/marketplace"
)

// ShippingService submits ship-order calls to the platform and reconciles
// local state on confirmed success. The local order only moves to shipped
// after the platform accepted the request; a logical error in the response
// leaves local state untouched even when the HTTP call returned 200.
type ShippingService struct {
	orders  marketplace.RemoteOrderRepository
	tokens  *TokenService
	gateway marketplace.PlatformGateway
	logger  *zap.Logger
}

// NewShippingService creates a new shipping service
func NewShippingService(
	orders marketplace.RemoteOrderRepository,
	tokens *TokenService,
	gateway marketplace.PlatformGateway,
	logger *zap.Logger,
) *ShippingService {
	return &ShippingService{
		orders:  orders,
		tokens:  tokens,
		gateway: gateway,
		logger:  logger.Named("shipping-service"),
	}
}

// ShipOrder marks an order shipped on the platform and, only after the
// platform confirmed, updates the local row's status and tracking fields.
func (s *ShippingService) ShipOrder(ctx context.Context, shopID int64, orderSN string, tracking marketplace.TrackingInfo) (*marketplace.ShipResult, error) {
	if orderSN == "" {
		return nil, fmt.Errorf("%w: order sn is required", marketplace.ErrItemMapping)
	}

	order, err := s.orders.FindByOrderSN(ctx, shopID, orderSN)
	if err != nil {
		return nil, err
	}
	if order.Status != marketplace.OrderStatusToShip {
		return nil, fmt.Errorf("%w: order %s is %s", marketplace.ErrOrderNotShippable, orderSN, order.Status)
	}

	token, err := s.tokens.GetValidAccessToken(ctx, shopID)
	if err != nil {
		return nil, err
	}

	if err := s.gateway.ShipOrder(ctx, shopID, token, orderSN, tracking); err != nil {
		if errors.Is(err, marketplace.ErrRemoteRejected) {
			s.logger.Warn("platform rejected ship request, local state unchanged",
				zap.Int64("shop_id", shopID),
				zap.String("order_sn", orderSN),
				zap.Error(err),
			)
		}
		return nil, err
	}

	order.MarkShipped(tracking.Carrier, tracking.TrackingNumber)
	if err := s.orders.Upsert(ctx, order); err != nil {
		// The platform accepted the shipment but the local write failed;
		// the next sync pass will reconcile the status from remote
		s.logger.Error("failed to persist shipped status",
			zap.Int64("shop_id", shopID),
			zap.String("order_sn", orderSN),
			zap.Error(err),
		)
		return nil, fmt.Errorf("shipment confirmed remotely but local update failed: %w", err)
	}

	s.logger.Info("order shipped",
		zap.Int64("shop_id", shopID),
		zap.String("order_sn", orderSN),
		zap.String("tracking_number", tracking.TrackingNumber),
	)
	return &marketplace.ShipResult{
		OrderSN:        orderSN,
		Carrier:        tracking.Carrier,
		TrackingNumber: tracking.TrackingNumber,
		ShippedAt:      time.Now(),
	}, nil
}
