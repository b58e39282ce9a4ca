package shopee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/marketplace"
)

const (
	// maxResponseSize limits response body reads to prevent memory issues
	maxResponseSize = 10 * 1024 * 1024

	// orderDetailBatchSize is the platform cap on order numbers per detail call
	orderDetailBatchSize = 50
	// itemDetailBatchSize is the platform cap on item ids per detail call
	itemDetailBatchSize = 50
)

// Client is the signed HTTP client for the Shopee Open Platform API.
// It implements the marketplace.PlatformGateway port.
type Client struct {
	config     *Config
	httpClient *http.Client
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewClient creates a new client with the given configuration
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if config == nil {
		return nil, marketplace.ErrPartnerConfigMissing
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shopee config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		validate: validator.New(),
		logger:   logger.Named("shopee"),
	}, nil
}

// ---------------------------------------------------------------------------
// Request Construction
// ---------------------------------------------------------------------------

// signedURL builds the full request URL with the common signed parameters.
// accessToken is empty for partner-level calls; shop-authenticated calls
// carry access_token and shop_id and include both in the signature.
func (c *Client) signedURL(path string, shopID int64, accessToken string, params url.Values) string {
	timestamp := time.Now().Unix()

	extra := ""
	if accessToken != "" {
		extra = ShopSignExtra(accessToken, shopID)
	}

	query := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	query.Set("partner_id", strconv.FormatInt(c.config.PartnerID, 10))
	query.Set("timestamp", strconv.FormatInt(timestamp, 10))
	query.Set("sign", c.config.Sign(path, timestamp, extra))
	if accessToken != "" {
		query.Set("access_token", accessToken)
		query.Set("shop_id", strconv.FormatInt(shopID, 10))
	}

	return c.config.BaseURL + path + "?" + query.Encode()
}

// doRequest executes a signed call and decodes the envelope. A transport or
// HTTP-level failure maps to ErrRemoteUnavailable; a logical error in the
// envelope maps to ErrRemoteRejected.
func (c *Client) doRequest(ctx context.Context, method, path string, shopID int64, accessToken string, params url.Values, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	requestURL := c.signedURL(path, shopID, accessToken, params)
	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", marketplace.ErrRemoteUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", marketplace.ErrRemoteUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned HTTP %d", marketplace.ErrRemoteUnavailable, path, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: malformed response from %s: %v", marketplace.ErrRemoteUnavailable, path, err)
	}
	if env.Error != "" {
		c.logger.Warn("platform rejected request",
			zap.String("path", path),
			zap.String("error", env.Error),
			zap.String("message", env.Message),
			zap.String("request_id", env.RequestID),
		)
		return fmt.Errorf("%w: %s: %s", marketplace.ErrRemoteRejected, env.Error, env.Message)
	}

	if out != nil && len(env.Response) > 0 {
		if err := json.Unmarshal(env.Response, out); err != nil {
			return fmt.Errorf("%w: malformed payload from %s: %v", marketplace.ErrRemoteUnavailable, path, err)
		}
	}
	return nil
}

// doTokenRequest executes a token endpoint call. The token endpoints report
// errors at the top level of the body instead of the envelope, and a failure
// means the credential is expired or revoked, so errors map to ErrAuthFailed.
func (c *Client) doTokenRequest(ctx context.Context, path string, body any) (*marketplace.TokenPair, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	requestURL := c.signedURL(path, 0, "", nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: POST %s: %v", marketplace.ErrRemoteUnavailable, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", marketplace.ErrRemoteUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", marketplace.ErrRemoteUnavailable, path, resp.StatusCode)
	}

	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed token response: %v", marketplace.ErrRemoteUnavailable, err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("%w: %s: %s", marketplace.ErrAuthFailed, payload.Error, payload.Message)
	}
	if err := c.validate.Struct(&payload); err != nil {
		return nil, fmt.Errorf("%w: incomplete token response: %v", marketplace.ErrAuthFailed, err)
	}

	return &marketplace.TokenPair{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(payload.ExpireIn) * time.Second),
	}, nil
}

// ---------------------------------------------------------------------------
// Authorization
// ---------------------------------------------------------------------------

// AuthorizationURL builds the signed URL the operator visits to authorize a
// shop against the partner
func (c *Client) AuthorizationURL(redirectURL string) (string, error) {
	if err := c.config.Validate(); err != nil {
		return "", err
	}

	path := apiBasePath + "/shop/auth_partner"
	timestamp := time.Now().Unix()

	query := url.Values{}
	query.Set("partner_id", strconv.FormatInt(c.config.PartnerID, 10))
	query.Set("timestamp", strconv.FormatInt(timestamp, 10))
	query.Set("sign", c.config.Sign(path, timestamp, ""))
	query.Set("redirect", redirectURL)

	return c.config.BaseURL + path + "?" + query.Encode(), nil
}

// ExchangeAuthorizationCode trades an authorization code for the initial
// token pair
func (c *Client) ExchangeAuthorizationCode(ctx context.Context, code string, shopID int64) (*marketplace.TokenPair, error) {
	body := map[string]any{
		"code":       code,
		"shop_id":    shopID,
		"partner_id": c.config.PartnerID,
	}
	return c.doTokenRequest(ctx, apiBasePath+"/auth/token/get", body)
}

// RefreshAccessToken obtains a fresh token pair from a refresh token
func (c *Client) RefreshAccessToken(ctx context.Context, shopID int64, refreshToken string) (*marketplace.TokenPair, error) {
	body := map[string]any{
		"refresh_token": refreshToken,
		"shop_id":       shopID,
		"partner_id":    c.config.PartnerID,
	}
	return c.doTokenRequest(ctx, apiBasePath+"/auth/access_token/get", body)
}

// GetShopInfo fetches the shop display metadata
func (c *Client) GetShopInfo(ctx context.Context, shopID int64, accessToken string) (*marketplace.ShopInfo, error) {
	var payload shopInfoPayload
	err := c.doRequest(ctx, http.MethodGet, apiBasePath+"/shop/get_shop_info", shopID, accessToken, nil, nil, &payload)
	if err != nil {
		return nil, err
	}
	if err := c.validate.Struct(&payload); err != nil {
		return nil, fmt.Errorf("%w: incomplete shop info: %v", marketplace.ErrRemoteRejected, err)
	}

	return &marketplace.ShopInfo{
		ShopName: payload.ShopName,
		Region:   payload.Region,
		Status:   payload.Status,
	}, nil
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// ListOrders fetches one page of order numbers created in the query window
func (c *Client) ListOrders(ctx context.Context, shopID int64, accessToken string, query marketplace.OrderListQuery) (*marketplace.OrderPage, error) {
	params := url.Values{}
	params.Set("time_range_field", "create_time")
	params.Set("time_from", strconv.FormatInt(query.TimeFrom.Unix(), 10))
	params.Set("time_to", strconv.FormatInt(query.TimeTo.Unix(), 10))
	params.Set("page_size", strconv.Itoa(query.PageSize))
	if query.Cursor != "" {
		params.Set("cursor", query.Cursor)
	}

	var payload orderListPayload
	err := c.doRequest(ctx, http.MethodGet, apiBasePath+"/order/get_order_list", shopID, accessToken, params, nil, &payload)
	if err != nil {
		return nil, err
	}

	page := &marketplace.OrderPage{
		OrderSNs:   make([]string, 0, len(payload.OrderList)),
		NextCursor: payload.NextCursor,
		HasMore:    payload.More,
	}
	for _, entry := range payload.OrderList {
		if entry.OrderSN != "" {
			page.OrderSNs = append(page.OrderSNs, entry.OrderSN)
		}
	}
	return page, nil
}

// FetchOrderDetails fetches and normalizes order details in platform-sized
// batches. Orders that fail validation are returned as failures; one bad
// order never drops the rest of the batch.
func (c *Client) FetchOrderDetails(ctx context.Context, shopID int64, accessToken string, orderSNs []string) ([]marketplace.RemoteOrder, []marketplace.ItemFailure, error) {
	orders := make([]marketplace.RemoteOrder, 0, len(orderSNs))
	failures := make([]marketplace.ItemFailure, 0)

	for start := 0; start < len(orderSNs); start += orderDetailBatchSize {
		end := min(start+orderDetailBatchSize, len(orderSNs))

		params := url.Values{}
		params.Set("order_sn_list", strings.Join(orderSNs[start:end], ","))
		params.Set("response_optional_fields", "buyer_username,recipient_address,item_list,total_amount,actual_shipping_fee,shipping_carrier,tracking_number")

		var payload orderDetailListPayload
		err := c.doRequest(ctx, http.MethodGet, apiBasePath+"/order/get_order_detail", shopID, accessToken, params, nil, &payload)
		if err != nil {
			return orders, failures, err
		}

		for i, raw := range payload.OrderList {
			var detail orderDetailPayload
			if err := json.Unmarshal(raw, &detail); err != nil {
				failures = append(failures, marketplace.ItemFailure{
					Ref:    fmt.Sprintf("order[%d]", start+i),
					Reason: fmt.Sprintf("malformed order detail: %v", err),
				})
				continue
			}
			if err := c.validate.Struct(&detail); err != nil {
				ref := detail.OrderSN
				if ref == "" {
					ref = fmt.Sprintf("order[%d]", start+i)
				}
				failures = append(failures, marketplace.ItemFailure{
					Ref:    ref,
					Reason: fmt.Sprintf("missing required fields: %v", err),
				})
				continue
			}
			orders = append(orders, *convertOrderDetail(shopID, &detail))
		}
	}

	return orders, failures, nil
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// ListProducts fetches one page of item ids matching the status filter
func (c *Client) ListProducts(ctx context.Context, shopID int64, accessToken string, query marketplace.ProductListQuery) (*marketplace.ProductPage, error) {
	params := url.Values{}
	params.Set("offset", strconv.Itoa(query.Offset))
	params.Set("page_size", strconv.Itoa(query.PageSize))
	params.Set("item_status", productStatusParam(query.Status))

	var payload itemListPayload
	err := c.doRequest(ctx, http.MethodGet, apiBasePath+"/product/get_item_list", shopID, accessToken, params, nil, &payload)
	if err != nil {
		return nil, err
	}

	page := &marketplace.ProductPage{
		ItemIDs:    make([]int64, 0, len(payload.Item)),
		NextOffset: payload.NextOffset,
		HasMore:    payload.HasNextPage,
	}
	for _, entry := range payload.Item {
		if entry.ItemID != 0 {
			page.ItemIDs = append(page.ItemIDs, entry.ItemID)
		}
	}
	return page, nil
}

// FetchProductDetails fetches and normalizes product details in
// platform-sized batches, isolating per-item validation failures
func (c *Client) FetchProductDetails(ctx context.Context, shopID int64, accessToken string, itemIDs []int64) ([]marketplace.RemoteProduct, []marketplace.ItemFailure, error) {
	products := make([]marketplace.RemoteProduct, 0, len(itemIDs))
	failures := make([]marketplace.ItemFailure, 0)

	for start := 0; start < len(itemIDs); start += itemDetailBatchSize {
		end := min(start+itemDetailBatchSize, len(itemIDs))

		ids := make([]string, 0, end-start)
		for _, id := range itemIDs[start:end] {
			ids = append(ids, strconv.FormatInt(id, 10))
		}

		params := url.Values{}
		params.Set("item_id_list", strings.Join(ids, ","))

		var payload itemBaseInfoListPayload
		err := c.doRequest(ctx, http.MethodGet, apiBasePath+"/product/get_item_base_info", shopID, accessToken, params, nil, &payload)
		if err != nil {
			return products, failures, err
		}

		for i, raw := range payload.ItemList {
			var detail itemBaseInfoPayload
			if err := json.Unmarshal(raw, &detail); err != nil {
				failures = append(failures, marketplace.ItemFailure{
					Ref:    fmt.Sprintf("item[%d]", start+i),
					Reason: fmt.Sprintf("malformed item detail: %v", err),
				})
				continue
			}
			if err := c.validate.Struct(&detail); err != nil {
				ref := fmt.Sprintf("item[%d]", start+i)
				if detail.ItemID != 0 {
					ref = strconv.FormatInt(detail.ItemID, 10)
				}
				failures = append(failures, marketplace.ItemFailure{
					Ref:    ref,
					Reason: fmt.Sprintf("missing required fields: %v", err),
				})
				continue
			}
			products = append(products, *convertItemBaseInfo(shopID, &detail))
		}
	}

	return products, failures, nil
}

// ---------------------------------------------------------------------------
// Logistics
// ---------------------------------------------------------------------------

// ShipOrder submits a ship request. The envelope error check in doRequest
// turns an HTTP 200 with a logical error into ErrRemoteRejected, so callers
// only see nil when the platform confirmed the shipment.
func (c *Client) ShipOrder(ctx context.Context, shopID int64, accessToken string, orderSN string, tracking marketplace.TrackingInfo) error {
	body := map[string]any{
		"order_sn": orderSN,
		"pickup": map[string]any{
			"tracking_number": tracking.TrackingNumber,
		},
	}
	return c.doRequest(ctx, http.MethodPost, apiBasePath+"/logistics/ship_order", shopID, accessToken, nil, body, nil)
}

// Interface assertion
var _ marketplace.PlatformGateway = (*Client)(nil)
