/**
 * @description
 * Provider adapters.
 * Each adapter turns a search query into normalized ListingResults for one merchant.
 * Without credentials an adapter runs in mock mode and synthesizes deterministic listings;
 * with credentials it is an integration point that currently yields no results.
 *
 * @dependencies
 * - golang.org/x/text/cases: title-casing queries in mock titles
 */

package providers

import (
	"context"
	"math"
	"strconv"

	"github.com/dealwise-project/backend/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode names reported by /providers
const (
	ModeMock = "mock"
	ModeLive = "live"
)

// Provider fetches listings from one merchant
type Provider interface {
	Name() string
	Configured() bool
	Fetch(ctx context.Context, query string, limit int) ([]models.ListingResult, error)
}

// mockSpec describes the deterministic catalogue a merchant returns in mock mode
type mockSpec struct {
	merchant     models.Merchant
	skuPrefix    string
	label        string
	imageURL     string
	storeURL     string
	basePrice    float64
	priceStep    float64
	rating       float64
	baseReviews  int
	reviewStep   int
	availability string
}

// mockListings builds limit results, indexed from 1
func mockListings(spec mockSpec, query string, limit int) []models.ListingResult {
	if limit <= 0 {
		return []models.ListingResult{}
	}

	title := cases.Title(language.Und).String(query)
	out := make([]models.ListingResult, 0, limit)
	for i := 1; i <= limit; i++ {
		rating := spec.rating
		reviews := spec.baseReviews + i*spec.reviewStep
		image := spec.imageURL
		link := spec.storeURL
		availability := spec.availability

		out = append(out, models.ListingResult{
			SKU:          spec.skuPrefix + "-" + itoa(i),
			Title:        title + " - " + spec.label + " Variant " + itoa(i),
			ImageURL:     &image,
			URL:          &link,
			Merchant:     spec.merchant,
			Price:        round2(spec.basePrice + float64(i)*spec.priceStep),
			Currency:     models.DefaultCurrency,
			Rating:       &rating,
			TotalReviews: &reviews,
			Availability: &availability,
		})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func itoa(i int) string { return strconv.Itoa(i) }
