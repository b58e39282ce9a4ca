package shopee

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
)

// Config holds configuration for the Shopee Open Platform API
type Config struct {
	// PartnerID is the partner identity registered with the platform
	PartnerID int64
	// PartnerKey is the partner secret used to sign every request
	PartnerKey string
	// Region selects the regional API host
	Region string
	// BaseURL overrides the region-derived API host when set
	BaseURL string
	// IsSandbox routes calls to the platform test environment
	IsSandbox bool
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Regional API hosts. The platform serves each market from a fixed base URL.
var regionBaseURLs = map[string]string{
	"sg": "https://partner.shopeemobile.com",
	"my": "https://partner.shopeemobile.com",
	"th": "https://partner.shopeemobile.com",
	"vn": "https://partner.shopeemobile.com",
	"ph": "https://partner.shopeemobile.com",
	"id": "https://partner.shopeemobile.com",
	"tw": "https://partner.shopeemobile.com",
	"br": "https://openplatform.shopee.com.br",
	"cn": "https://openplatform.shopee.cn",
}

// SandboxBaseURL is the test environment endpoint for all regions
const SandboxBaseURL = "https://partner.test-stable.shopeemobile.com"

// apiBasePath is the versioned path prefix every endpoint lives under
const apiBasePath = "/api/v2"

// Errors for Shopee configuration
var (
	ErrConfigMissingPartnerID  = errors.New("shopee: partner id is required")
	ErrConfigMissingPartnerKey = errors.New("shopee: partner key is required")
	ErrConfigUnknownRegion     = errors.New("shopee: unknown region")
)

// NewConfig creates a new Shopee configuration with defaults
func NewConfig(partnerID int64, partnerKey, region string) *Config {
	return &Config{
		PartnerID:      partnerID,
		PartnerKey:     partnerKey,
		Region:         region,
		TimeoutSeconds: 30,
	}
}

// Validate validates the configuration and resolves the base URL
func (c *Config) Validate() error {
	if c.PartnerID == 0 {
		return ErrConfigMissingPartnerID
	}
	if c.PartnerKey == "" {
		return ErrConfigMissingPartnerKey
	}
	if c.BaseURL == "" {
		if c.IsSandbox {
			c.BaseURL = SandboxBaseURL
		} else {
			base, ok := regionBaseURLs[c.Region]
			if !ok {
				return ErrConfigUnknownRegion
			}
			c.BaseURL = base
		}
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Sign generates the request signature per the platform's signing contract:
// lowercase hex of HMAC-SHA256 over partner_id + path + timestamp + extra,
// keyed by the partner key. Pure and deterministic; identical inputs always
// produce identical output.
//
// extra is empty for public-level calls (the authorization URL and both
// token endpoints) and access_token + shop_id for shop-authenticated calls.
func (c *Config) Sign(path string, timestamp int64, extra string) string {
	base := strconv.FormatInt(c.PartnerID, 10) + path + strconv.FormatInt(timestamp, 10) + extra

	h := hmac.New(sha256.New, []byte(c.PartnerKey))
	h.Write([]byte(base))
	return hex.EncodeToString(h.Sum(nil))
}

// ShopSignExtra builds the extra segment for shop-authenticated calls
func ShopSignExtra(accessToken string, shopID int64) string {
	return accessToken + strconv.FormatInt(shopID, 10)
}
