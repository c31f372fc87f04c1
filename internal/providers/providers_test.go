package providers

import (
	"context"
	"fmt"
	"testing"

	"github.com/dealwise-project/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAdaptersAreDeterministic(t *testing.T) {
	cases := []struct {
		provider Provider
		prefix   string
		step     float64
	}{
		{NewAmazon(config.ProvidersConfig{}), "AMZ", 50.5},
		{NewFlipkart(config.ProvidersConfig{}), "FK", 48.3},
	}

	for _, tc := range cases {
		t.Run(tc.provider.Name(), func(t *testing.T) {
			results, err := tc.provider.Fetch(context.Background(), "phone", 4)
			require.NoError(t, err)
			require.Len(t, results, 4)

			for i, r := range results {
				assert.Equal(t, fmt.Sprintf("%s-%d", tc.prefix, i+1), r.SKU)
				assert.Contains(t, r.Title, "Phone")
				assert.Contains(t, r.Title, fmt.Sprintf("Variant %d", i+1))
				assert.Equal(t, tc.provider.Name(), string(r.Merchant))
				assert.Equal(t, "INR", r.Currency)
				if i > 0 {
					assert.InDelta(t, tc.step, r.Price-results[i-1].Price, 0.011)
				}
			}

			again, err := tc.provider.Fetch(context.Background(), "phone", 4)
			require.NoError(t, err)
			assert.Equal(t, results, again)
		})
	}
}

func TestAmazonMockValues(t *testing.T) {
	results, err := NewAmazon(config.ProvidersConfig{}).Fetch(context.Background(), "gaming laptop", 2)
	require.NoError(t, err)

	assert.Equal(t, "Gaming Laptop - Amazon Variant 1", results[0].Title)
	assert.Equal(t, 1049.5, results[0].Price)
	assert.Equal(t, 1100.0, results[1].Price)
	require.NotNil(t, results[1].TotalReviews)
	assert.Equal(t, 1230, *results[1].TotalReviews)
}

func TestFlipkartMockValues(t *testing.T) {
	results, err := NewFlipkart(config.ProvidersConfig{}).Fetch(context.Background(), "tv", 3)
	require.NoError(t, err)

	assert.Equal(t, 1027.3, results[0].Price)
	assert.Equal(t, 1123.9, results[2].Price)
}

func TestZeroLimit(t *testing.T) {
	results, err := NewAmazon(config.ProvidersConfig{}).Fetch(context.Background(), "phone", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestConfiguredAdaptersReturnNothing(t *testing.T) {
	cfg := config.ProvidersConfig{
		AmazonAccessKey: "a", AmazonSecretKey: "b", AmazonPartnerTag: "c",
		FlipkartAffiliateID: "d", FlipkartAffiliateToken: "e",
	}
	for _, p := range NewRegistry(cfg).All() {
		assert.True(t, p.Configured())
		results, err := p.Fetch(context.Background(), "phone", 10)
		require.NoError(t, err)
		assert.Empty(t, results, p.Name())
	}
}

func TestRegistrySelect(t *testing.T) {
	reg := NewRegistry(config.ProvidersConfig{})

	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{"amazon", "flipkart"}},
		{"  ", []string{}},
		{"amazon", []string{"amazon"}},
		{"flipkart,amazon", []string{"amazon", "flipkart"}},
		{" Amazon , FLIPKART ,amazon", []string{"amazon", "flipkart"}},
		{"bogus", []string{}},
		{"bogus,flipkart", []string{"flipkart"}},
		{",,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Names(reg.Select(tt.raw)))
		})
	}
}
