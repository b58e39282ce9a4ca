package marketplace

import "errors"

// Configuration errors are fatal and never retried.
var (
	// ErrPassphraseMissing indicates no encryption passphrase is configured
	ErrPassphraseMissing = errors.New("marketplace: encryption passphrase not configured")
	// ErrPartnerConfigMissing indicates partner id or partner key is not configured
	ErrPartnerConfigMissing = errors.New("marketplace: partner credentials not configured")
)

// Credential and token errors.
var (
	// ErrIntegrity indicates a stored secret failed authentication on decrypt.
	// Either the ciphertext was tampered with or the passphrase was rotated
	// without re-encrypting the stored credentials.
	ErrIntegrity = errors.New("marketplace: stored secret failed integrity check")
	// ErrNotConnected indicates no connection record exists for the shop
	ErrNotConnected = errors.New("marketplace: shop is not connected")
	// ErrAuthFailed indicates the token refresh flow failed; the shop must be
	// reconnected through the authorization flow
	ErrAuthFailed = errors.New("marketplace: token refresh failed")
)

// Remote call errors.
var (
	// ErrRemoteUnavailable indicates an HTTP or connection level failure
	ErrRemoteUnavailable = errors.New("marketplace: remote platform unavailable")
	// ErrRemoteRejected indicates the platform returned a logical error body
	ErrRemoteRejected = errors.New("marketplace: remote platform rejected the request")
	// ErrItemMapping indicates a single remote item failed to map or upsert
	ErrItemMapping = errors.New("marketplace: remote item mapping failed")
	// ErrOrderNotShippable indicates the local order is not in a state that
	// allows arranging shipment
	ErrOrderNotShippable = errors.New("marketplace: order is not ready to ship")
)

// Persistence errors.
var (
	// ErrConnectionNotFound indicates the connection record does not exist
	ErrConnectionNotFound = errors.New("marketplace: connection not found")
	// ErrOrderNotFound indicates the remote order row does not exist locally
	ErrOrderNotFound = errors.New("marketplace: remote order not found")
	// ErrProductNotFound indicates the remote product row does not exist locally
	ErrProductNotFound = errors.New("marketplace: remote product not found")
)

// Sync coordination errors.
var (
	// ErrSyncInProgress indicates another sync pass holds the shop lock
	ErrSyncInProgress = errors.New("marketplace: sync already in progress for shop")
)
