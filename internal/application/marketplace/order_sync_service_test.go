package marketplace

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/marketplace"
)

func remoteOrder(shopID int64, orderSN string, status marketplace.OrderStatus) marketplace.RemoteOrder {
	return marketplace.RemoteOrder{
		ShopID:          shopID,
		OrderSN:         orderSN,
		Status:          status,
		RawStatus:       "RAW",
		RemoteCreatedAt: time.Now().Add(-time.Hour),
	}
}

// newOrderSyncFixture wires a sync service over fakes with a valid token
func newOrderSyncFixture(t *testing.T, gateway *fakeGateway) (*OrderSyncService, *fakeConnectionRepo, *fakeOrderRepo, *fakeLock) {
	t.Helper()
	cipher := newTestCipher(t)
	connRepo := newFakeConnectionRepo()
	orderRepo := newFakeOrderRepo()
	lock := &fakeLock{}
	seedConnection(t, connRepo, cipher, 77, time.Now().Add(2*time.Hour))

	tokens := NewTokenService(connRepo, gateway, cipher, zap.NewNop())
	svc := NewOrderSyncService(connRepo, orderRepo, tokens, gateway, lock, zap.NewNop())
	return svc, connRepo, orderRepo, lock
}

func TestOrderSyncService_SyncOrders_PaginatesWithCursor(t *testing.T) {
	pages := map[string]*marketplace.OrderPage{
		"":   {OrderSNs: []string{"SN1", "SN2"}, NextCursor: "c2", HasMore: true},
		"c2": {OrderSNs: []string{"SN3"}, NextCursor: "", HasMore: false},
	}
	gateway := &fakeGateway{
		listOrdersFn: func(_ context.Context, _ int64, token string, q marketplace.OrderListQuery) (*marketplace.OrderPage, error) {
			assert.Equal(t, "cached-access", token)
			assert.Equal(t, 100, q.PageSize)
			if page, ok := pages[q.Cursor]; ok {
				// Each cursor is requested at most once per slice pass
				delete(pages, q.Cursor)
				return page, nil
			}
			return &marketplace.OrderPage{}, nil
		},
		fetchOrderDetailsFn: func(_ context.Context, shopID int64, _ string, orderSNs []string) ([]marketplace.RemoteOrder, []marketplace.ItemFailure, error) {
			orders := make([]marketplace.RemoteOrder, 0, len(orderSNs))
			for _, sn := range orderSNs {
				orders = append(orders, remoteOrder(shopID, sn, marketplace.OrderStatusToShip))
			}
			return orders, nil, nil
		},
	}

	svc, connRepo, orderRepo, lock := newOrderSyncFixture(t, gateway)
	report, err := svc.SyncOrders(context.Background(), 77)
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.Equal(t, 3, report.SyncedCount)
	assert.Empty(t, report.Errors)

	count, err := orderRepo.Count(context.Background(), 77, marketplace.RemoteOrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	assert.Equal(t, 1, lock.acquired)
	assert.Equal(t, 1, lock.released)
	assert.NotZero(t, connRepo.lastSync["77/orders"])
}

func TestOrderSyncService_SyncOrders_IsolatesBadItems(t *testing.T) {
	served := false
	gateway := &fakeGateway{
		listOrdersFn: func(_ context.Context, _ int64, _ string, _ marketplace.OrderListQuery) (*marketplace.OrderPage, error) {
			if served {
				return &marketplace.OrderPage{}, nil
			}
			served = true
			sns := make([]string, 10)
			for i := range sns {
				sns[i] = fmt.Sprintf("SN%d", i)
			}
			return &marketplace.OrderPage{OrderSNs: sns}, nil
		},
		fetchOrderDetailsFn: func(_ context.Context, shopID int64, _ string, orderSNs []string) ([]marketplace.RemoteOrder, []marketplace.ItemFailure, error) {
			// One of ten fails to map; the other nine flow through
			orders := make([]marketplace.RemoteOrder, 0, len(orderSNs)-1)
			for _, sn := range orderSNs[1:] {
				orders = append(orders, remoteOrder(shopID, sn, marketplace.OrderStatusCompleted))
			}
			failures := []marketplace.ItemFailure{{Ref: orderSNs[0], Reason: "missing required fields"}}
			return orders, failures, nil
		},
	}

	svc, _, orderRepo, _ := newOrderSyncFixture(t, gateway)
	report, err := svc.SyncOrders(context.Background(), 77)
	require.NoError(t, err)

	assert.True(t, report.Success, "per-item errors must not flip success")
	assert.Equal(t, 9, report.SyncedCount)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "SN0")

	count, err := orderRepo.Count(context.Background(), 77, marketplace.RemoteOrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(9), count)
}

func TestOrderSyncService_SyncOrders_PageErrorAbortsButKeepsProgress(t *testing.T) {
	call := 0
	gateway := &fakeGateway{
		listOrdersFn: func(_ context.Context, _ int64, _ string, q marketplace.OrderListQuery) (*marketplace.OrderPage, error) {
			call++
			if call == 1 {
				return &marketplace.OrderPage{OrderSNs: []string{"SN1"}, NextCursor: "c2", HasMore: true}, nil
			}
			return nil, fmt.Errorf("%w: connection reset", marketplace.ErrRemoteUnavailable)
		},
		fetchOrderDetailsFn: func(_ context.Context, shopID int64, _ string, orderSNs []string) ([]marketplace.RemoteOrder, []marketplace.ItemFailure, error) {
			return []marketplace.RemoteOrder{remoteOrder(shopID, orderSNs[0], marketplace.OrderStatusToShip)}, nil, nil
		},
	}

	svc, connRepo, orderRepo, lock := newOrderSyncFixture(t, gateway)
	report, err := svc.SyncOrders(context.Background(), 77)
	require.NoError(t, err)

	assert.False(t, report.Success)
	assert.Equal(t, 1, report.SyncedCount, "earlier pages stay synced")
	require.NotEmpty(t, report.Errors)
	assert.Contains(t, report.Errors[len(report.Errors)-1], "order list fetch failed")

	count, err := orderRepo.Count(context.Background(), 77, marketplace.RemoteOrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// A failed pass releases the lock but does not stamp last sync
	assert.Equal(t, 1, lock.released)
	assert.Zero(t, connRepo.lastSync["77/orders"])
}

func TestOrderSyncService_SyncOrders_Idempotent(t *testing.T) {
	listOrders := func(_ context.Context, _ int64, _ string, q marketplace.OrderListQuery) (*marketplace.OrderPage, error) {
		// Only the slice covering the order's creation time returns it;
		// other slices are empty
		if q.Cursor == "" && q.TimeTo.After(time.Now().Add(-time.Hour)) {
			return &marketplace.OrderPage{OrderSNs: []string{"SN1", "SN2"}}, nil
		}
		return &marketplace.OrderPage{}, nil
	}
	gateway := &fakeGateway{
		listOrdersFn: listOrders,
		fetchOrderDetailsFn: func(_ context.Context, shopID int64, _ string, orderSNs []string) ([]marketplace.RemoteOrder, []marketplace.ItemFailure, error) {
			orders := make([]marketplace.RemoteOrder, 0, len(orderSNs))
			for _, sn := range orderSNs {
				orders = append(orders, remoteOrder(shopID, sn, marketplace.OrderStatusToShip))
			}
			return orders, nil, nil
		},
	}

	svc, _, orderRepo, _ := newOrderSyncFixture(t, gateway)

	first, err := svc.SyncOrders(context.Background(), 77)
	require.NoError(t, err)
	second, err := svc.SyncOrders(context.Background(), 77)
	require.NoError(t, err)

	assert.Equal(t, first.SyncedCount, second.SyncedCount)

	// Upsert by order number: re-running must not duplicate rows
	count, err := orderRepo.Count(context.Background(), 77, marketplace.RemoteOrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestOrderSyncService_SyncOrders_LockBusy(t *testing.T) {
	svc, _, _, _ := newOrderSyncFixture(t, &fakeGateway{})
	busy := &fakeLock{busy: true}
	svc.lock = busy

	report, err := svc.SyncOrders(context.Background(), 77)
	assert.ErrorIs(t, err, marketplace.ErrSyncInProgress)
	assert.Nil(t, report)
}

func TestOrderSyncService_SyncOrders_NotConnected(t *testing.T) {
	cipher := newTestCipher(t)
	connRepo := newFakeConnectionRepo()
	tokens := NewTokenService(connRepo, &fakeGateway{}, cipher, zap.NewNop())
	svc := NewOrderSyncService(connRepo, newFakeOrderRepo(), tokens, &fakeGateway{}, &fakeLock{}, zap.NewNop())

	report, err := svc.SyncOrders(context.Background(), 404)
	assert.ErrorIs(t, err, marketplace.ErrNotConnected)
	assert.Nil(t, report)
}
