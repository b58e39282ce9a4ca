package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Connection
// ---------------------------------------------------------------------------

// Connection represents one merchant shop authorized against the marketplace.
// Access and refresh tokens are stored encrypted; plaintext tokens exist only
// inside a single call scope of the token service.
type Connection struct {
	// ID is the local row identifier
	ID uuid.UUID
	// ShopID is the shop identifier assigned by the platform
	ShopID int64
	// PartnerID is the partner identity the shop was authorized under
	PartnerID int64
	// AccessTokenEnc is the encrypted access token (iv:tag:ciphertext hex)
	AccessTokenEnc string
	// RefreshTokenEnc is the encrypted refresh token
	RefreshTokenEnc string
	// TokenExpiresAt is when the access token expires
	TokenExpiresAt time.Time
	// ShopName is the shop display name reported by the platform
	ShopName string
	// ShopRegion is the platform region the shop belongs to
	ShopRegion string
	// Connected is false after an explicit disconnect
	Connected bool
	// LastOrderSyncAt is when the last order sync pass completed
	LastOrderSyncAt *time.Time
	// LastProductSyncAt is when the last product sync pass completed
	LastProductSyncAt *time.Time
	// CreatedAt is when the shop was first authorized
	CreatedAt time.Time
	// UpdatedAt is when this record was last modified
	UpdatedAt time.Time
}

// TokenExpiresWithin reports whether the access token expires before
// now + margin. Used to decide if a refresh is needed before a signed call.
func (c *Connection) TokenExpiresWithin(margin time.Duration) bool {
	return time.Now().Add(margin).After(c.TokenExpiresAt)
}

// Disconnect clears the stored tokens and marks the connection inactive.
// The row is kept so shop metadata and sync history survive a reconnect.
func (c *Connection) Disconnect() {
	c.AccessTokenEnc = ""
	c.RefreshTokenEnc = ""
	c.Connected = false
}

// ---------------------------------------------------------------------------
// ConnectionRepository Interface
// ---------------------------------------------------------------------------

// ConnectionRepository defines the interface for persisting shop connections
type ConnectionRepository interface {
	// Save creates or updates a connection record
	Save(ctx context.Context, conn *Connection) error

	// FindByShopID finds a connection by platform shop id.
	// Returns ErrConnectionNotFound if no record exists.
	FindByShopID(ctx context.Context, shopID int64) (*Connection, error)

	// FindAllConnected returns all connections with Connected=true
	FindAllConnected(ctx context.Context) ([]Connection, error)

	// UpdateLastSync stamps the last sync time for the given pipeline
	UpdateLastSync(ctx context.Context, shopID int64, pipeline SyncPipeline, at time.Time) error
}
