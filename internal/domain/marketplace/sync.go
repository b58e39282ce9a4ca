package marketplace

import (
	"context"
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Sync Types
// ---------------------------------------------------------------------------

// SyncPipeline identifies one of the two synchronization pipelines
type SyncPipeline string

const (
	// SyncPipelineOrders is the order synchronization pipeline
	SyncPipelineOrders SyncPipeline = "orders"
	// SyncPipelineProducts is the product synchronization pipeline
	SyncPipelineProducts SyncPipeline = "products"
)

// IsValid returns true if the pipeline is a known value
func (p SyncPipeline) IsValid() bool {
	switch p {
	case SyncPipelineOrders, SyncPipelineProducts:
		return true
	default:
		return false
	}
}

// String returns the string representation of SyncPipeline
func (p SyncPipeline) String() string {
	return string(p)
}

// SyncReport is the summary returned by every sync invocation. Success is
// false only when the pipeline hit a fatal error (a page-level network
// failure); per-item errors are listed but do not flip Success.
type SyncReport struct {
	// Success indicates the pipeline completed without a fatal error
	Success bool
	// SyncedCount is the number of items upserted
	SyncedCount int
	// Errors lists per-item and fatal error descriptions
	Errors []string
	// StartedAt is when the pass started
	StartedAt time.Time
	// FinishedAt is when the pass finished
	FinishedAt time.Time
}

// AddItemError records an isolated per-item failure
func (r *SyncReport) AddItemError(ref, reason string) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %s", ref, reason))
}

// ShipResult is the outcome of a ship-order call
type ShipResult struct {
	// OrderSN is the shipped order number
	OrderSN string
	// Carrier is the logistics channel used
	Carrier string
	// TrackingNumber is the shipment tracking number
	TrackingNumber string
	// ShippedAt is when the platform confirmed the shipment
	ShippedAt time.Time
}

// ---------------------------------------------------------------------------
// SyncLock Interface
// ---------------------------------------------------------------------------

// SyncLock coordinates sync passes so two concurrent invocations for the
// same shop and pipeline do not interleave. Locks expire on their own; a
// crashed pass never wedges the shop.
type SyncLock interface {
	// Acquire takes the lock for a shop/pipeline pair. Returns
	// ErrSyncInProgress when another pass holds it.
	Acquire(ctx context.Context, shopID int64, pipeline SyncPipeline) error

	// Release frees the lock. Best effort; an expired lock is not an error.
	Release(ctx context.Context, shopID int64, pipeline SyncPipeline) error
}
