package shopee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{
			name:    "valid config",
			config:  &Config{PartnerID: 123456, PartnerKey: "secret", Region: "sg"},
			wantErr: nil,
		},
		{
			name:    "missing partner id",
			config:  &Config{PartnerKey: "secret", Region: "sg"},
			wantErr: ErrConfigMissingPartnerID,
		},
		{
			name:    "missing partner key",
			config:  &Config{PartnerID: 123456, Region: "sg"},
			wantErr: ErrConfigMissingPartnerKey,
		},
		{
			name:    "unknown region",
			config:  &Config{PartnerID: 123456, PartnerKey: "secret", Region: "xx"},
			wantErr: ErrConfigUnknownRegion,
		},
		{
			name:    "sandbox ignores region",
			config:  &Config{PartnerID: 123456, PartnerKey: "secret", Region: "xx", IsSandbox: true},
			wantErr: nil,
		},
		{
			name:    "explicit base url wins",
			config:  &Config{PartnerID: 123456, PartnerKey: "secret", BaseURL: "https://example.test"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, tt.config.BaseURL)
				assert.True(t, tt.config.TimeoutSeconds > 0)
			}
		})
	}
}

func TestConfig_ValidateResolvesRegionURL(t *testing.T) {
	config := &Config{PartnerID: 1, PartnerKey: "k", Region: "br"}
	assert.NoError(t, config.Validate())
	assert.Equal(t, "https://openplatform.shopee.com.br", config.BaseURL)

	sandbox := &Config{PartnerID: 1, PartnerKey: "k", IsSandbox: true}
	assert.NoError(t, sandbox.Validate())
	assert.Equal(t, SandboxBaseURL, sandbox.BaseURL)
}

func TestConfig_Sign(t *testing.T) {
	config := &Config{PartnerID: 2005678, PartnerKey: "partner-key"}

	sign1 := config.Sign("/api/v2/order/get_order_list", 1700000000, "tokenabc123")
	sign2 := config.Sign("/api/v2/order/get_order_list", 1700000000, "tokenabc123")

	// Deterministic: identical inputs always produce identical output
	assert.Equal(t, sign1, sign2)
	assert.Len(t, sign1, 64) // SHA-256 produces 64 hex characters
}

func TestConfig_SignInputSensitivity(t *testing.T) {
	config := &Config{PartnerID: 2005678, PartnerKey: "partner-key"}
	base := config.Sign("/api/v2/shop/get_shop_info", 1700000000, "extra")

	tests := []struct {
		name string
		sign string
	}{
		{name: "different path", sign: config.Sign("/api/v2/shop/auth_partner", 1700000000, "extra")},
		{name: "different timestamp", sign: config.Sign("/api/v2/shop/get_shop_info", 1700000001, "extra")},
		{name: "different extra", sign: config.Sign("/api/v2/shop/get_shop_info", 1700000000, "other")},
		{name: "different partner id", sign: (&Config{PartnerID: 2005679, PartnerKey: "partner-key"}).Sign("/api/v2/shop/get_shop_info", 1700000000, "extra")},
		{name: "different partner key", sign: (&Config{PartnerID: 2005678, PartnerKey: "other-key"}).Sign("/api/v2/shop/get_shop_info", 1700000000, "extra")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.sign)
		})
	}
}

func TestShopSignExtra(t *testing.T) {
	assert.Equal(t, "token123456789", ShopSignExtra("token123", 456789))
}
