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

// ConnectionRepository is the GORM implementation of
// marketplace.ConnectionRepository
type ConnectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Save creates or updates a connection record
func (r *ConnectionRepository) Save(ctx context.Context, conn *marketplace.Connection) error {
	if conn.ID == uuid.Nil {
		conn.ID = uuid.New()
	}
	now := time.Now()
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = now
	}
	conn.UpdatedAt = now

	model := &models.ConnectionModel{}
	model.FromDomain(conn)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save connection: %w", err)
	}
	return nil
}

// FindByShopID finds a connection by platform shop id
func (r *ConnectionRepository) FindByShopID(ctx context.Context, shopID int64) (*marketplace.Connection, error) {
	var model models.ConnectionModel
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, marketplace.ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to find connection: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAllConnected returns all connections with Connected=true
func (r *ConnectionRepository) FindAllConnected(ctx context.Context) ([]marketplace.Connection, error) {
	var modelList []models.ConnectionModel
	err := r.db.WithContext(ctx).
		Where("connected = ?", true).
		Order("shop_id ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	connections := make([]marketplace.Connection, 0, len(modelList))
	for i := range modelList {
		connections = append(connections, *modelList[i].ToDomain())
	}
	return connections, nil
}

// UpdateLastSync stamps the last sync time for the given pipeline
func (r *ConnectionRepository) UpdateLastSync(ctx context.Context, shopID int64, pipeline marketplace.SyncPipeline, at time.Time) error {
	column := "last_order_sync_at"
	if pipeline == marketplace.SyncPipelineProducts {
		column = "last_product_sync_at"
	}

	result := r.db.WithContext(ctx).
		Model(&models.ConnectionModel{}).
		Where("shop_id = ?", shopID).
		Updates(map[string]any{
			column:       at,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update last sync time: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return marketplace.ErrConnectionNotFound
	}
	return nil
}

// Interface assertion
var _ marketplace.ConnectionRepository = (*ConnectionRepository)(nil)
