package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopbridge/backend/internal/domain/marketplace"
	"github.com/shopbridge/backend/internal/infrastructure/persistence/models"
)

// RemoteOrderRepository is the GORM implementation of
// marketplace.RemoteOrderRepository
type RemoteOrderRepository struct {
	db *gorm.DB
}

// NewRemoteOrderRepository creates a new remote order repository
func NewRemoteOrderRepository(db *gorm.DB) *RemoteOrderRepository {
	return &RemoteOrderRepository{db: db}
}

// Upsert inserts the order if absent, otherwise overwrites mutable fields
// keyed by (shop id, order sn). The row id and first-sync time survive
// updates, so re-running a sync never duplicates or resets rows.
func (r *RemoteOrderRepository) Upsert(ctx context.Context, order *marketplace.RemoteOrder) error {
	var existing models.RemoteOrderModel
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND order_sn = ?", order.ShopID, order.OrderSN).
		First(&existing).Error

	now := time.Now()
	switch {
	case err == nil:
		order.ID = existing.ID
		order.CreatedAt = existing.CreatedAt
	case errors.Is(err, gorm.ErrRecordNotFound):
		order.ID = uuid.New()
		order.CreatedAt = now
	default:
		return fmt.Errorf("failed to look up order: %w", err)
	}
	order.UpdatedAt = now

	model := &models.RemoteOrderModel{}
	model.FromDomain(order)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to upsert order: %w", err)
	}
	return nil
}

// FindByOrderSN finds an order by shop and platform order number
func (r *RemoteOrderRepository) FindByOrderSN(ctx context.Context, shopID int64, orderSN string) (*marketplace.RemoteOrder, error) {
	var model models.RemoteOrderModel
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND order_sn = ?", shopID, orderSN).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, marketplace.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists orders for a shop matching the filter
func (r *RemoteOrderRepository) FindAll(ctx context.Context, shopID int64, filter marketplace.RemoteOrderFilter) ([]marketplace.RemoteOrder, error) {
	query := r.applyFilter(ctx, shopID, filter)

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var modelList []models.RemoteOrderModel
	if err := query.Order("remote_created_at DESC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]marketplace.RemoteOrder, 0, len(modelList))
	for i := range modelList {
		orders = append(orders, *modelList[i].ToDomain())
	}
	return orders, nil
}

// Count counts orders for a shop matching the filter
func (r *RemoteOrderRepository) Count(ctx context.Context, shopID int64, filter marketplace.RemoteOrderFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(ctx, shopID, filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// applyFilter builds the base query for the filter without pagination
func (r *RemoteOrderRepository) applyFilter(ctx context.Context, shopID int64, filter marketplace.RemoteOrderFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.RemoteOrderModel{}).
		Where("shop_id = ?", shopID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartTime != nil {
		query = query.Where("remote_created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("remote_created_at <= ?", *filter.EndTime)
	}
	return query
}

// Interface assertion
var _ marketplace.RemoteOrderRepository = (*RemoteOrderRepository)(nil)
