package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/marketplace"
	"github.com/shopbridge/backend/internal/infrastructure/crypto"
)

// ConnectionService handles the shop authorization lifecycle: building the
// authorization URL, completing the code exchange, and disconnecting shops.
type ConnectionService struct {
	connections marketplace.ConnectionRepository
	gateway     marketplace.PlatformGateway
	cipher      *crypto.SecretCipher
	partnerID   int64
	logger      *zap.Logger
}

// NewConnectionService creates a new connection service
func NewConnectionService(
	connections marketplace.ConnectionRepository,
	gateway marketplace.PlatformGateway,
	cipher *crypto.SecretCipher,
	partnerID int64,
	logger *zap.Logger,
) *ConnectionService {
	return &ConnectionService{
		connections: connections,
		gateway:     gateway,
		cipher:      cipher,
		partnerID:   partnerID,
		logger:      logger.Named("connection-service"),
	}
}

// AuthorizationURL builds the URL the operator visits to authorize a shop
func (s *ConnectionService) AuthorizationURL(redirectURL string) (string, error) {
	return s.gateway.AuthorizationURL(redirectURL)
}

// CompleteAuthorization finishes the authorization flow: exchanges the code
// for the initial token pair, fetches the shop metadata, and stores the
// connection with encrypted tokens. Reconnecting an existing shop reuses its
// row so sync history survives.
func (s *ConnectionService) CompleteAuthorization(ctx context.Context, code string, shopID int64) (*marketplace.Connection, error) {
	pair, err := s.gateway.ExchangeAuthorizationCode(ctx, code, shopID)
	if err != nil {
		return nil, fmt.Errorf("authorization code exchange failed: %w", err)
	}

	info, err := s.gateway.GetShopInfo(ctx, shopID, pair.AccessToken)
	if err != nil {
		s.logger.Warn("shop info fetch failed, storing connection without metadata",
			zap.Int64("shop_id", shopID),
			zap.Error(err),
		)
		info = &marketplace.ShopInfo{}
	}

	accessEnc, err := s.cipher.Encrypt(pair.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}
	refreshEnc, err := s.cipher.Encrypt(pair.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	conn, err := s.connections.FindByShopID(ctx, shopID)
	if err != nil {
		if !errors.Is(err, marketplace.ErrConnectionNotFound) {
			return nil, fmt.Errorf("failed to load connection: %w", err)
		}
		conn = &marketplace.Connection{
			ID:        uuid.New(),
			ShopID:    shopID,
			CreatedAt: time.Now(),
		}
	}

	conn.PartnerID = s.partnerID
	conn.AccessTokenEnc = accessEnc
	conn.RefreshTokenEnc = refreshEnc
	conn.TokenExpiresAt = pair.ExpiresAt
	conn.ShopName = info.ShopName
	conn.ShopRegion = info.Region
	conn.Connected = true

	if err := s.connections.Save(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to persist connection: %w", err)
	}

	s.logger.Info("shop connected",
		zap.Int64("shop_id", shopID),
		zap.String("shop_name", conn.ShopName),
	)
	return conn, nil
}

// GetConnection returns the connection record for a shop
func (s *ConnectionService) GetConnection(ctx context.Context, shopID int64) (*marketplace.Connection, error) {
	return s.connections.FindByShopID(ctx, shopID)
}

// ListConnections returns all connected shops
func (s *ConnectionService) ListConnections(ctx context.Context) ([]marketplace.Connection, error) {
	return s.connections.FindAllConnected(ctx)
}

// Disconnect clears the stored tokens and marks the shop disconnected. The
// row is kept; reconnecting restores it.
func (s *ConnectionService) Disconnect(ctx context.Context, shopID int64) error {
	conn, err := s.connections.FindByShopID(ctx, shopID)
	if err != nil {
		if errors.Is(err, marketplace.ErrConnectionNotFound) {
			return fmt.Errorf("%w: shop %d", marketplace.ErrNotConnected, shopID)
		}
		return fmt.Errorf("failed to load connection: %w", err)
	}

	conn.Disconnect()
	if err := s.connections.Save(ctx, conn); err != nil {
		return fmt.Errorf("failed to persist disconnect: %w", err)
	}

	s.logger.Info("shop disconnected", zap.Int64("shop_id", shopID))
	return nil
}
