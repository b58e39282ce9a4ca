package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopbridge/backend/internal/domain/marketplace"
	"github.com/shopbridge/backend/internal/infrastructure/persistence/models"
)

// RemoteProductRepository is the GORM implementation of
// marketplace.RemoteProductRepository
type RemoteProductRepository struct {
	db *gorm.DB
}

// NewRemoteProductRepository creates a new remote product repository
func NewRemoteProductRepository(db *gorm.DB) *RemoteProductRepository {
	return &RemoteProductRepository{db: db}
}

// Upsert inserts the product if absent, otherwise overwrites mutable fields
// keyed by (shop id, item id). The row id and first-sync time survive
// updates.
func (r *RemoteProductRepository) Upsert(ctx context.Context, product *marketplace.RemoteProduct) error {
	var existing models.RemoteProductModel
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND item_id = ?", product.ShopID, product.ItemID).
		First(&existing).Error

	now := time.Now()
	switch {
	case err == nil:
		product.ID = existing.ID
		product.CreatedAt = existing.CreatedAt
	case errors.Is(err, gorm.ErrRecordNotFound):
		product.ID = uuid.New()
		product.CreatedAt = now
	default:
		return fmt.Errorf("failed to look up product: %w", err)
	}
	product.UpdatedAt = now

	model := &models.RemoteProductModel{}
	model.FromDomain(product)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

// FindByItemID finds a product by shop and platform item id
func (r *RemoteProductRepository) FindByItemID(ctx context.Context, shopID int64, itemID int64) (*marketplace.RemoteProduct, error) {
	var model models.RemoteProductModel
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND item_id = ?", shopID, itemID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, marketplace.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists products for a shop matching the filter
func (r *RemoteProductRepository) FindAll(ctx context.Context, shopID int64, filter marketplace.RemoteProductFilter) ([]marketplace.RemoteProduct, error) {
	query := r.applyFilter(ctx, shopID, filter)

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var modelList []models.RemoteProductModel
	if err := query.Order("item_id ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]marketplace.RemoteProduct, 0, len(modelList))
	for i := range modelList {
		products = append(products, *modelList[i].ToDomain())
	}
	return products, nil
}

// Count counts products for a shop matching the filter
func (r *RemoteProductRepository) Count(ctx context.Context, shopID int64, filter marketplace.RemoteProductFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(ctx, shopID, filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// applyFilter builds the base query for the filter without pagination
func (r *RemoteProductRepository) applyFilter(ctx context.Context, shopID int64, filter marketplace.RemoteProductFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.RemoteProductModel{}).
		Where("shop_id = ?", shopID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Keyword != "" {
		query = query.Where(`name LIKE ? ESCAPE '\'`, "%"+escapeLikePattern(filter.Keyword)+"%")
	}
	return query
}

// escapeLikePattern escapes LIKE wildcards in user-supplied search input
func escapeLikePattern(input string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(input)
}

// Interface assertion
var _ marketplace.RemoteProductRepository = (*RemoteProductRepository)(nil)
