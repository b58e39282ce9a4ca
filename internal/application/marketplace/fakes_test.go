package marketplace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopbridge/backend/internal/domain/marketplace"
)

// ---------------------------------------------------------------------------
// Connection repository fake
// ---------------------------------------------------------------------------

type fakeConnectionRepo struct {
	mu       sync.Mutex
	conns    map[int64]*marketplace.Connection
	saveErr  error
	lastSync map[string]time.Time
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{
		conns:    make(map[int64]*marketplace.Connection),
		lastSync: make(map[string]time.Time),
	}
}

func (r *fakeConnectionRepo) Save(_ context.Context, conn *marketplace.Connection) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *conn
	r.conns[conn.ShopID] = &clone
	return nil
}

func (r *fakeConnectionRepo) FindByShopID(_ context.Context, shopID int64) (*marketplace.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[shopID]
	if !ok {
		return nil, marketplace.ErrConnectionNotFound
	}
	clone := *conn
	return &clone, nil
}

func (r *fakeConnectionRepo) FindAllConnected(_ context.Context) ([]marketplace.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]marketplace.Connection, 0)
	for _, conn := range r.conns {
		if conn.Connected {
			out = append(out, *conn)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) UpdateLastSync(_ context.Context, shopID int64, pipeline marketplace.SyncPipeline, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSync[fmt.Sprintf("%d/%s", shopID, pipeline)] = at
	return nil
}

// ---------------------------------------------------------------------------
// Order repository fake
// ---------------------------------------------------------------------------

type fakeOrderRepo struct {
	mu        sync.Mutex
	rows      map[string]*marketplace.RemoteOrder
	upsertErr map[string]error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		rows:      make(map[string]*marketplace.RemoteOrder),
		upsertErr: make(map[string]error),
	}
}

func orderKey(shopID int64, orderSN string) string {
	return fmt.Sprintf("%d/%s", shopID, orderSN)
}

func (r *fakeOrderRepo) Upsert(_ context.Context, order *marketplace.RemoteOrder) error {
	if err := r.upsertErr[order.OrderSN]; err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *order
	r.rows[orderKey(order.ShopID, order.OrderSN)] = &clone
	return nil
}

func (r *fakeOrderRepo) FindByOrderSN(_ context.Context, shopID int64, orderSN string) (*marketplace.RemoteOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.rows[orderKey(shopID, orderSN)]
	if !ok {
		return nil, marketplace.ErrOrderNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, shopID int64, _ marketplace.RemoteOrderFilter) ([]marketplace.RemoteOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]marketplace.RemoteOrder, 0)
	for _, order := range r.rows {
		if order.ShopID == shopID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Count(_ context.Context, shopID int64, _ marketplace.RemoteOrderFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, order := range r.rows {
		if order.ShopID == shopID {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Product repository fake
// ---------------------------------------------------------------------------

type fakeProductRepo struct {
	mu   sync.Mutex
	rows map[string]*marketplace.RemoteProduct
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{rows: make(map[string]*marketplace.RemoteProduct)}
}

func (r *fakeProductRepo) Upsert(_ context.Context, product *marketplace.RemoteProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *product
	r.rows[fmt.Sprintf("%d/%d", product.ShopID, product.ItemID)] = &clone
	return nil
}

func (r *fakeProductRepo) FindByItemID(_ context.Context, shopID int64, itemID int64) (*marketplace.RemoteProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.rows[fmt.Sprintf("%d/%d", shopID, itemID)]
	if !ok {
		return nil, marketplace.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *fakeProductRepo) FindAll(_ context.Context, shopID int64, _ marketplace.RemoteProductFilter) ([]marketplace.RemoteProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]marketplace.RemoteProduct, 0)
	for _, product := range r.rows {
		if product.ShopID == shopID {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Count(_ context.Context, shopID int64, _ marketplace.RemoteProductFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, product := range r.rows {
		if product.ShopID == shopID {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Gateway fake
// ---------------------------------------------------------------------------

type fakeGateway struct {
	refreshCalls int
	shipCalls    int
	refreshFn    func(ctx context.Context, shopID int64, refreshToken string) (*marketplace.TokenPair, error)

	listOrdersFn        func(ctx context.Context, shopID int64, token string, q marketplace.OrderListQuery) (*marketplace.OrderPage, error)
	fetchOrderDetailsFn func(ctx context.Context, shopID int64, token string, orderSNs []string) ([]marketplace.RemoteOrder, []marketplace.ItemFailure, error)
	listProductsFn      func(ctx context.Context, shopID int64, token string, q marketplace.ProductListQuery) (*marketplace.ProductPage, error)
	fetchProductsFn     func(ctx context.Context, shopID int64, token string, itemIDs []int64) ([]marketplace.RemoteProduct, []marketplace.ItemFailure, error)
	shipOrderFn         func(ctx context.Context, shopID int64, token string, orderSN string, tracking marketplace.TrackingInfo) error
	exchangeFn          func(ctx context.Context, code string, shopID int64) (*marketplace.TokenPair, error)
	shopInfoFn          func(ctx context.Context, shopID int64, token string) (*marketplace.ShopInfo, error)
}

func (g *fakeGateway) AuthorizationURL(redirectURL string) (string, error) {
	return "https://partner.example/authorize?redirect=" + redirectURL, nil
}

func (g *fakeGateway) ExchangeAuthorizationCode(ctx context.Context, code string, shopID int64) (*marketplace.TokenPair, error) {
	if g.exchangeFn == nil {
		return nil, marketplace.ErrAuthFailed
	}
	return g.exchangeFn(ctx, code, shopID)
}

func (g *fakeGateway) RefreshAccessToken(ctx context.Context, shopID int64, refreshToken string) (*marketplace.TokenPair, error) {
	g.refreshCalls++
	if g.refreshFn == nil {
		return nil, marketplace.ErrAuthFailed
	}
	return g.refreshFn(ctx, shopID, refreshToken)
}

func (g *fakeGateway) GetShopInfo(ctx context.Context, shopID int64, token string) (*marketplace.ShopInfo, error) {
	if g.shopInfoFn == nil {
		return &marketplace.ShopInfo{ShopName: "Fake Shop", Region: "SG"}, nil
	}
	return g.shopInfoFn(ctx, shopID, token)
}

func (g *fakeGateway) ListOrders(ctx context.Context, shopID int64, token string, q marketplace.OrderListQuery) (*marketplace.OrderPage, error) {
	if g.listOrdersFn == nil {
		return &marketplace.OrderPage{}, nil
	}
	return g.listOrdersFn(ctx, shopID, token, q)
}

func (g *fakeGateway) FetchOrderDetails(ctx context.Context, shopID int64, token string, orderSNs []string) ([]marketplace.RemoteOrder, []marketplace.ItemFailure, error) {
	if g.fetchOrderDetailsFn == nil {
		return nil, nil, nil
	}
	return g.fetchOrderDetailsFn(ctx, shopID, token, orderSNs)
}

func (g *fakeGateway) ListProducts(ctx context.Context, shopID int64, token string, q marketplace.ProductListQuery) (*marketplace.ProductPage, error) {
	if g.listProductsFn == nil {
		return &marketplace.ProductPage{}, nil
	}
	return g.listProductsFn(ctx, shopID, token, q)
}

func (g *fakeGateway) FetchProductDetails(ctx context.Context, shopID int64, token string, itemIDs []int64) ([]marketplace.RemoteProduct, []marketplace.ItemFailure, error) {
	if g.fetchProductsFn == nil {
		return nil, nil, nil
	}
	return g.fetchProductsFn(ctx, shopID, token, itemIDs)
}

func (g *fakeGateway) ShipOrder(ctx context.Context, shopID int64, token string, orderSN string, tracking marketplace.TrackingInfo) error {
	g.shipCalls++
	if g.shipOrderFn == nil {
		return nil
	}
	return g.shipOrderFn(ctx, shopID, token, orderSN, tracking)
}

var _ marketplace.PlatformGateway = (*fakeGateway)(nil)

// ---------------------------------------------------------------------------
// Sync lock fake
// ---------------------------------------------------------------------------

type fakeLock struct {
	busy     bool
	acquired int
	released int
}

func (l *fakeLock) Acquire(_ context.Context, _ int64, _ marketplace.SyncPipeline) error {
	if l.busy {
		return marketplace.ErrSyncInProgress
	}
	l.acquired++
	return nil
}

func (l *fakeLock) Release(_ context.Context, _ int64, _ marketplace.SyncPipeline) error {
	l.released++
	return nil
}

var _ marketplace.SyncLock = (*fakeLock)(nil)
