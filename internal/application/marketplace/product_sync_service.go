package marketplace

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/marketplace"
)

// ProductSyncService runs the paginated product synchronization pipeline.
// Only live listings are pulled (the platform's "normal" status); details
// are normalized and upserted by item id with per-item failure isolation.
type ProductSyncService struct {
	connections marketplace.ConnectionRepository
	products    marketplace.RemoteProductRepository
	tokens      *TokenService
	gateway     marketplace.PlatformGateway
	lock        marketplace.SyncLock
	logger      *zap.Logger
}

// NewProductSyncService creates a new product sync service
func NewProductSyncService(
	connections marketplace.ConnectionRepository,
	products marketplace.RemoteProductRepository,
	tokens *TokenService,
	gateway marketplace.PlatformGateway,
	lock marketplace.SyncLock,
	logger *zap.Logger,
) *ProductSyncService {
	return &ProductSyncService{
		connections: connections,
		products:    products,
		tokens:      tokens,
		gateway:     gateway,
		lock:        lock,
		logger:      logger.Named("product-sync"),
	}
}

// SyncProducts runs one full pass over the shop's live listings. The
// returned report always describes what succeeded and what did not; Success
// is false only on a fatal page-level error. Pagination state (offset,
// hasMore) is transient; the next invocation starts fresh from offset zero.
func (s *ProductSyncService) SyncProducts(ctx context.Context, shopID int64) (*marketplace.SyncReport, error) {
	if err := s.lock.Acquire(ctx, shopID, marketplace.SyncPipelineProducts); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.lock.Release(ctx, shopID, marketplace.SyncPipelineProducts); err != nil {
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

	offset := 0
	hasMore := true

	for hasMore {
		page, err := s.gateway.ListProducts(ctx, shopID, token, marketplace.ProductListQuery{
			Status:   marketplace.ProductStatusNormal,
			Offset:   offset,
			PageSize: syncPageSize,
		})
		if err != nil {
			report.Success = false
			report.Errors = append(report.Errors, fmt.Sprintf("product list fetch failed: %v", err))
			break
		}
		if len(page.ItemIDs) == 0 {
			break
		}

		products, failures, err := s.gateway.FetchProductDetails(ctx, shopID, token, page.ItemIDs)
		for _, failure := range failures {
			report.AddItemError(failure.Ref, failure.Reason)
		}
		s.upsertProducts(ctx, products, report)
		if err != nil {
			report.Success = false
			report.Errors = append(report.Errors, fmt.Sprintf("product detail fetch failed: %v", err))
			break
		}

		offset = page.NextOffset
		hasMore = page.HasMore
	}

	report.FinishedAt = time.Now()

	if report.Success {
		if err := s.connections.UpdateLastSync(ctx, shopID, marketplace.SyncPipelineProducts, report.FinishedAt); err != nil {
			s.logger.Warn("failed to stamp last sync time", zap.Int64("shop_id", shopID), zap.Error(err))
		}
	}

	s.logger.Info("product sync finished",
		zap.Int64("shop_id", shopID),
		zap.Bool("success", report.Success),
		zap.Int("synced", report.SyncedCount),
		zap.Int("errors", len(report.Errors)),
	)
	return report, nil
}

// upsertProducts stores normalized products, isolating per-item failures
func (s *ProductSyncService) upsertProducts(ctx context.Context, products []marketplace.RemoteProduct, report *marketplace.SyncReport) {
	for i := range products {
		if err := s.products.Upsert(ctx, &products[i]); err != nil {
			report.AddItemError(fmt.Sprintf("%d", products[i].ItemID), fmt.Sprintf("upsert failed: %v", err))
			continue
		}
		report.SyncedCount++
	}
}
