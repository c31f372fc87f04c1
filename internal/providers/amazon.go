package providers

import (
	"context"

	"github.com/dealwise-project/backend/internal/config"
	"github.com/dealwise-project/backend/internal/models"
)

const NameAmazon = "amazon"

var amazonMock = mockSpec{
	merchant:     models.MerchantAmazon,
	skuPrefix:    "AMZ",
	label:        "Amazon",
	imageURL:     "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?q=80&w=600",
	storeURL:     "https://www.amazon.in/",
	basePrice:    999,
	priceStep:    50.5,
	rating:       4.2,
	baseReviews:  1200,
	reviewStep:   15,
	availability: "In Stock",
}

// Amazon adapts the Product Advertising API
type Amazon struct {
	configured bool
}

// NewAmazon reads credential presence once
func NewAmazon(cfg config.ProvidersConfig) *Amazon {
	return &Amazon{configured: cfg.AmazonConfigured()}
}

func (a *Amazon) Name() string { return NameAmazon }

func (a *Amazon) Configured() bool { return a.configured }

// Fetch returns mock listings when unconfigured.
// TODO: sign PA-API v5 SearchItems requests once live credentials are issued.
func (a *Amazon) Fetch(_ context.Context, query string, limit int) ([]models.ListingResult, error) {
	if !a.configured {
		return mockListings(amazonMock, query, limit), nil
	}
	return []models.ListingResult{}, nil
}
