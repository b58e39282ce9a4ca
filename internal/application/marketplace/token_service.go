package marketplace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/marketplace"
	"github.com/shopbridge/backend/internal/infrastructure/crypto"
)

// tokenRefreshMargin is the safety window before expiry. A token expiring
// within the margin is refreshed before use so it cannot expire mid-call.
const tokenRefreshMargin = 5 * time.Minute

// TokenService manages the access token lifecycle per shop: it decides when
// a cached token is still usable, runs the refresh flow when the expiry is
// near, and persists rotated pairs. Plaintext tokens never leave a single
// call scope.
type TokenService struct {
	connections marketplace.ConnectionRepository
	gateway     marketplace.PlatformGateway
	cipher      *crypto.SecretCipher
	logger      *zap.Logger

	// mu guards shopLocks; each per-shop mutex keeps concurrent callers
	// from issuing redundant refresh calls for the same shop
	mu        sync.Mutex
	shopLocks map[int64]*sync.Mutex
}

// NewTokenService creates a new token service
func NewTokenService(
	connections marketplace.ConnectionRepository,
	gateway marketplace.PlatformGateway,
	cipher *crypto.SecretCipher,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		connections: connections,
		gateway:     gateway,
		cipher:      cipher,
		logger:      logger.Named("token-service"),
		shopLocks:   make(map[int64]*sync.Mutex),
	}
}

// lockShop returns the mutex for a shop, creating it on first use
func (s *TokenService) lockShop(shopID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.shopLocks[shopID]
	if !ok {
		lock = &sync.Mutex{}
		s.shopLocks[shopID] = lock
	}
	return lock
}

// GetValidAccessToken returns a usable access token for the shop.
//
// When the stored expiry is more than the refresh margin in the future the
// cached token is decrypted and returned without any network call.
// Otherwise the refresh flow runs and the rotated pair is persisted. A
// refresh failure returns ErrAuthFailed and leaves the stale record intact
// so a reconnect can recover without data loss.
func (s *TokenService) GetValidAccessToken(ctx context.Context, shopID int64) (string, error) {
	lock := s.lockShop(shopID)
	lock.Lock()
	defer lock.Unlock()

	conn, err := s.connections.FindByShopID(ctx, shopID)
	if err != nil {
		if errors.Is(err, marketplace.ErrConnectionNotFound) {
			return "", fmt.Errorf("%w: shop %d", marketplace.ErrNotConnected, shopID)
		}
		return "", fmt.Errorf("failed to load connection: %w", err)
	}
	if !conn.Connected || conn.AccessTokenEnc == "" {
		return "", fmt.Errorf("%w: shop %d", marketplace.ErrNotConnected, shopID)
	}

	if !conn.TokenExpiresWithin(tokenRefreshMargin) {
		token, err := s.cipher.Decrypt(conn.AccessTokenEnc)
		if err != nil {
			return "", fmt.Errorf("failed to decrypt access token: %w", err)
		}
		return token, nil
	}

	return s.refresh(ctx, conn)
}

// refresh runs the refresh flow for a connection whose token is expiring
func (s *TokenService) refresh(ctx context.Context, conn *marketplace.Connection) (string, error) {
	refreshToken, err := s.cipher.Decrypt(conn.RefreshTokenEnc)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt refresh token: %w", err)
	}

	pair, err := s.gateway.RefreshAccessToken(ctx, conn.ShopID, refreshToken)
	if err != nil {
		s.logger.Warn("token refresh failed",
			zap.Int64("shop_id", conn.ShopID),
			zap.Error(err),
		)
		if errors.Is(err, marketplace.ErrAuthFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", marketplace.ErrAuthFailed, err)
	}

	accessEnc, err := s.cipher.Encrypt(pair.AccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt access token: %w", err)
	}
	refreshEnc, err := s.cipher.Encrypt(pair.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	conn.AccessTokenEnc = accessEnc
	conn.RefreshTokenEnc = refreshEnc
	conn.TokenExpiresAt = pair.ExpiresAt
	if err := s.connections.Save(ctx, conn); err != nil {
		return "", fmt.Errorf("failed to persist rotated tokens: %w", err)
	}

	s.logger.Info("access token refreshed",
		zap.Int64("shop_id", conn.ShopID),
		zap.Time("expires_at", pair.ExpiresAt),
	)
	return pair.AccessToken, nil
}
