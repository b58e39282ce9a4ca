package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appmarketplace "github.com/shopbridge/backend/internal/application/marketplace"
	"github.com/shopbridge/backend/internal/domain/marketplace"
	"github.com/shopbridge/backend/internal/interfaces/http/dto"
)

// MarketplaceHandler exposes the marketplace integration API: shop
// authorization, sync triggers, shipping, and read access to synced data.
type MarketplaceHandler struct {
	BaseHandler
	connections *appmarketplace.ConnectionService
	orderSync   *appmarketplace.OrderSyncService
	productSync *appmarketplace.ProductSyncService
	shipping    *appmarketplace.ShippingService
	orders      marketplace.RemoteOrderRepository
	products    marketplace.RemoteProductRepository
	logger      *zap.Logger
}

// NewMarketplaceHandler creates a new marketplace handler
func NewMarketplaceHandler(
	connections *appmarketplace.ConnectionService,
	orderSync *appmarketplace.OrderSyncService,
	productSync *appmarketplace.ProductSyncService,
	shipping *appmarketplace.ShippingService,
	orders marketplace.RemoteOrderRepository,
	products marketplace.RemoteProductRepository,
	logger *zap.Logger,
) *MarketplaceHandler {
	return &MarketplaceHandler{
		connections: connections,
		orderSync:   orderSync,
		productSync: productSync,
		shipping:    shipping,
		orders:      orders,
		products:    products,
		logger:      logger.Named("marketplace-handler"),
	}
}

// shopIDParam parses the :shop_id path parameter
func (h *MarketplaceHandler) shopIDParam(c *gin.Context) (int64, bool) {
	shopID, err := strconv.ParseInt(c.Param("shop_id"), 10, 64)
	if err != nil || shopID <= 0 {
		h.Error(c, dto.ErrCodeBadRequest, "invalid shop_id")
		return 0, false
	}
	return shopID, true
}

// GetAuthorizeURL returns the platform consent page URL for connecting a shop
func (h *MarketplaceHandler) GetAuthorizeURL(c *gin.Context) {
	redirectURL := c.Query("redirect_url")
	if redirectURL == "" {
		h.Error(c, dto.ErrCodeValidation, "redirect_url is required")
		return
	}

	authURL, err := h.connections.AuthorizationURL(redirectURL)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, AuthorizeURLResponse{URL: authURL})
}

// HandleCallback completes the authorization flow after the seller granted
// consent. The platform redirects here with a one-time code and the shop id.
func (h *MarketplaceHandler) HandleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		h.Error(c, dto.ErrCodeValidation, "code is required")
		return
	}
	shopID, err := strconv.ParseInt(c.Query("shop_id"), 10, 64)
	if err != nil || shopID <= 0 {
		h.Error(c, dto.ErrCodeValidation, "invalid shop_id")
		return
	}

	conn, err := h.connections.CompleteAuthorization(c.Request.Context(), code, shopID)
	if err != nil {
		h.DomainError(c, err)
		return
	}

	h.logger.Info("shop connected",
		zap.Int64("shop_id", conn.ShopID),
		zap.String("shop_name", conn.ShopName))
	h.Success(c, toConnectionView(conn))
}

// ListShops lists all shop connections
func (h *MarketplaceHandler) ListShops(c *gin.Context) {
	conns, err := h.connections.ListConnections(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}

	views := make([]ConnectionView, 0, len(conns))
	for i := range conns {
		views = append(views, toConnectionView(&conns[i]))
	}
	h.Success(c, views)
}

// GetShop returns one shop connection
func (h *MarketplaceHandler) GetShop(c *gin.Context) {
	shopID, ok := h.shopIDParam(c)
	if !ok {
		return
	}

	conn, err := h.connections.GetConnection(c.Request.Context(), shopID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toConnectionView(conn))
}

// DisconnectShop revokes a shop connection. The connection row and synced
// data are kept; only the credentials are discarded.
func (h *MarketplaceHandler) DisconnectShop(c *gin.Context) {
	shopID, ok := h.shopIDParam(c)
	if !ok {
		return
	}

	if err := h.connections.Disconnect(c.Request.Context(), shopID); err != nil {
		h.DomainError(c, err)
		return
	}

	h.logger.Info("shop disconnected", zap.Int64("shop_id", shopID))
	h.NoContent(c)
}

// SyncOrders runs an order sync pass for the shop
func (h *MarketplaceHandler) SyncOrders(c *gin.Context) {
	shopID, ok := h.shopIDParam(c)
	if !ok {
		return
	}

	report, err := h.orderSync.SyncOrders(c.Request.Context(), shopID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toSyncReportView(report))
}

// SyncProducts runs a product sync pass for the shop
func (h *MarketplaceHandler) SyncProducts(c *gin.Context) {
	shopID, ok := h.shopIDParam(c)
	if !ok {
		return
	}

	report, err := h.productSync.SyncProducts(c.Request.Context(), shopID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toSyncReportView(report))
}

// ShipOrder arranges shipment for an order on the platform and, once the
// platform confirms, records the shipment locally.
func (h *MarketplaceHandler) ShipOrder(c *gin.Context) {
	shopID, ok := h.shopIDParam(c)
	if !ok {
		return
	}
	orderSN := c.Param("order_sn")

	var req ShipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.ErrCodeValidation, "tracking_number is required")
		return
	}

	result, err := h.shipping.ShipOrder(c.Request.Context(), shopID, orderSN, marketplace.TrackingInfo{
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		h.DomainError(c, err)
		return
	}

	h.Success(c, ShipResultView{
		OrderSN:        result.OrderSN,
		Carrier:        result.Carrier,
		TrackingNumber: result.TrackingNumber,
		ShippedAt:      result.ShippedAt,
	})
}

// ListOrders lists synced orders for a shop
func (h *MarketplaceHandler) ListOrders(c *gin.Context) {
	shopID, ok := h.shopIDParam(c)
	if !ok {
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.Error(c, dto.ErrCodeValidation, "invalid pagination parameters")
		return
	}

	filter := marketplace.RemoteOrderFilter{Page: listReq.Page, PageSize: listReq.PageSize}
	if raw := c.Query("status"); raw != "" {
		status := marketplace.OrderStatus(raw)
		if !status.IsValid() {
			h.Error(c, dto.ErrCodeValidation, "unknown order status")
			return
		}
		filter.Status = &status
	}

	ctx := c.Request.Context()
	orders, err := h.orders.FindAll(ctx, shopID, filter)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	total, err := h.orders.Count(ctx, shopID, filter)
	if err != nil {
		h.DomainError(c, err)
		return
	}

	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, toOrderView(&orders[i]))
	}
	h.SuccessWithMeta(c, views, total, filter.Page, filter.PageSize)
}

// GetOrder returns one synced order
func (h *MarketplaceHandler) GetOrder(c *gin.Context) {
	shopID, ok := h.shopIDParam(c)
	if !ok {
		return
	}

	order, err := h.orders.FindByOrderSN(c.Request.Context(), shopID, c.Param("order_sn"))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toOrderView(order))
}

// ListProducts lists synced products for a shop
func (h *MarketplaceHandler) ListProducts(c *gin.Context) {
	shopID, ok := h.shopIDParam(c)
	if !ok {
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.Error(c, dto.ErrCodeValidation, "invalid pagination parameters")
		return
	}

	filter := marketplace.RemoteProductFilter{
		Keyword:  listReq.Search,
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
	}
	if raw := c.Query("status"); raw != "" {
		status := marketplace.ProductStatus(raw)
		if !status.IsValid() {
			h.Error(c, dto.ErrCodeValidation, "unknown product status")
			return
		}
		filter.Status = &status
	}

	ctx := c.Request.Context()
	products, err := h.products.FindAll(ctx, shopID, filter)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	total, err := h.products.Count(ctx, shopID, filter)
	if err != nil {
		h.DomainError(c, err)
		return
	}

	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, toProductView(&products[i]))
	}
	h.SuccessWithMeta(c, views, total, filter.Page, filter.PageSize)
}

// GetProduct returns one synced product
func (h *MarketplaceHandler) GetProduct(c *gin.Context) {
	shopID, ok := h.shopIDParam(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil || itemID <= 0 {
		h.Error(c, dto.ErrCodeBadRequest, "invalid item_id")
		return
	}

	product, err := h.products.FindByItemID(c.Request.Context(), shopID, itemID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toProductView(product))
}
