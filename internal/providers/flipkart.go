package providers

import (
	"context"

	"github.com/dealwise-project/backend/internal/config"
	"github.com/dealwise-project/backend/internal/models"
)

const NameFlipkart = "flipkart"

var flipkartMock = mockSpec{
	merchant:     models.MerchantFlipkart,
	skuPrefix:    "FK",
	label:        "Flipkart",
	imageURL:     "https://images.unsplash.com/photo-1516387938699-a93567ec168e?q=80&w=600",
	storeURL:     "https://www.flipkart.com/",
	basePrice:    979,
	priceStep:    48.3,
	rating:       4.1,
	baseReviews:  900,
	reviewStep:   25,
	availability: "In Stock",
}

// Flipkart adapts the Flipkart Affiliate API
type Flipkart struct {
	configured bool
}

func NewFlipkart(cfg config.ProvidersConfig) *Flipkart {
	return &Flipkart{configured: cfg.FlipkartConfigured()}
}

func (f *Flipkart) Name() string { return NameFlipkart }

func (f *Flipkart) Configured() bool { return f.configured }

// Fetch returns mock listings when unconfigured, nothing otherwise
func (f *Flipkart) Fetch(_ context.Context, query string, limit int) ([]models.ListingResult, error) {
	if !f.configured {
		return mockListings(flipkartMock, query, limit), nil
	}
	return []models.ListingResult{}, nil
}
