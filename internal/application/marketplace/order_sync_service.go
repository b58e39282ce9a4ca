package marketplace

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/marketplace"
)

const (
	// orderSyncWindow is how far back the order pipeline reaches, on order
	// creation time
	orderSyncWindow = 90 * 24 * time.Hour
	// orderWindowSlice is the maximum time span per list request; the
	// platform caps the window of a single call
	orderWindowSlice = 15 * 24 * time.Hour
	// syncPageSize is the page size for list requests
	syncPageSize = 100
)

// OrderSyncService runs the paginated order synchronization pipeline:
// list a page of order numbers, fetch details, normalize, upsert by order
// number. Per-item failures are collected and never abort the pass; a
// page-level network failure aborts the remaining pages but keeps the
// progress already made.
type OrderSyncService struct {
	connections marketplace.ConnectionRepository
	orders      marketplace.RemoteOrderRepository
	tokens      *TokenService
	gateway     marketplace.PlatformGateway
	lock        marketplace.SyncLock
	logger      *zap.Logger
}

// NewOrderSyncService creates a new order sync service
func NewOrderSyncService(
	connections marketplace.ConnectionRepository,
	orders marketplace.RemoteOrderRepository,
	tokens *TokenService,
	gateway marketplace.PlatformGateway,
	lock marketplace.SyncLock,
	logger *zap.Logger,
) *OrderSyncService {
	return &OrderSyncService{
		connections: connections,
		orders:      orders,
		tokens:      tokens,
		gateway:     gateway,
		lock:        lock,
		logger:      logger.Named("order-sync"),
	}
}

// SyncOrders runs one full pass over the trailing sync window. The returned
// report always describes what succeeded and what did not; Success is false
// only when the pass hit a fatal page-level error.
//
// Pagination state (cursor, hasMore) lives only for the duration of this
// call; the next invocation starts a fresh pass from the window start.
func (s *OrderSyncService) SyncOrders(ctx context.Context, shopID int64) (*marketplace.SyncReport, error) {
	if err := s.lock.Acquire(ctx, shopID, marketplace.SyncPipelineOrders); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.lock.Release(ctx, shopID, marketplace.SyncPipelineOrders); err != nil {
			s.logger.Warn("failed to release sync lock", zap.Int64("shop_id", shopID), zap.Error(err))
		}
	}()

	token, err := s.tokens.GetValidAccessToken(ctx, shopID)
	if err != nil {
		return nil, err
	}

	report := &marketplace.SyncReport{
		Success:   true,
		Errors:    make([]string, 0),
		StartedAt: time.Now(),
	}

	windowEnd := time.Now()
	windowStart := windowEnd.Add(-orderSyncWindow)

	for sliceStart := windowStart; sliceStart.Before(windowEnd); sliceStart = sliceStart.Add(orderWindowSlice) {
		sliceEnd := sliceStart.Add(orderWindowSlice)
		if sliceEnd.After(windowEnd) {
			sliceEnd = windowEnd
		}

		if fatal := s.syncSlice(ctx, shopID, token, sliceStart, sliceEnd, report); fatal != nil {
			report.Success = false
			report.Errors = append(report.Errors, fatal.Error())
			break
		}
	}

	report.FinishedAt = time.Now()

	if report.Success {
		if err := s.connections.UpdateLastSync(ctx, shopID, marketplace.SyncPipelineOrders, report.FinishedAt); err != nil {
			s.logger.Warn("failed to stamp last sync time", zap.Int64("shop_id", shopID), zap.Error(err))
		}
	}

	s.logger.Info("order sync finished",
		zap.Int64("shop_id", shopID),
		zap.Bool("success", report.Success),
		zap.Int("synced", report.SyncedCount),
		zap.Int("errors", len(report.Errors)),
	)
	return report, nil
}

// syncSlice walks one time slice page by page. A returned error is fatal for
// the whole pass; per-item failures go into the report and do not stop it.
func (s *OrderSyncService) syncSlice(ctx context.Context, shopID int64, token string, from, to time.Time, report *marketplace.SyncReport) error {
	cursor := ""
	hasMore := true

	for hasMore {
		page, err := s.gateway.ListOrders(ctx, shopID, token, marketplace.OrderListQuery{
			TimeFrom: from,
			TimeTo:   to,
			Cursor:   cursor,
			PageSize: syncPageSize,
		})
		if err != nil {
			return fmt.Errorf("order list fetch failed: %w", err)
		}
		if len(page.OrderSNs) == 0 {
			return nil
		}

		orders, failures, err := s.gateway.FetchOrderDetails(ctx, shopID, token, page.OrderSNs)
		if err != nil {
			// Keep whatever the partial batch produced before failing
			s.upsertOrders(ctx, orders, report)
			for _, failure := range failures {
				report.AddItemError(failure.Ref, failure.Reason)
			}
			return fmt.Errorf("order detail fetch failed: %w", err)
		}

		for _, failure := range failures {
			report.AddItemError(failure.Ref, failure.Reason)
		}
		s.upsertOrders(ctx, orders, report)

		cursor = page.NextCursor
		hasMore = page.HasMore && cursor != ""
	}
	return nil
}

// upsertOrders stores normalized orders, isolating per-item upsert failures
func (s *OrderSyncService) upsertOrders(ctx context.Context, orders []marketplace.RemoteOrder, report *marketplace.SyncReport) {
	for i := range orders {
		if err := s.orders.Upsert(ctx, &orders[i]); err != nil {
			report.AddItemError(orders[i].OrderSN, fmt.Sprintf("upsert failed: %v", err))
			continue
		}
		report.SyncedCount++
	}
}
