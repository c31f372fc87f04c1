/**
 * @description
 * Price event side-channel on Redis.
 * Every stored price observation updates a latest-price hash and is published on
 * a pub/sub channel consumed by the SSE stream.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9
 */

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dealwise-project/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	PriceUpdateChannel = "listing:price_updates"
	LatestPriceTTL     = 7 * 24 * time.Hour
)

// PriceEvents publishes price observations. A nil Redis client makes it a no-op.
type PriceEvents struct {
	redis *redis.Client
}

func NewPriceEvents(rdb *redis.Client) *PriceEvents {
	return &PriceEvents{redis: rdb}
}

// Enabled reports whether Redis is configured
func (p *PriceEvents) Enabled() bool {
	return p != nil && p.redis != nil
}

// Publish records entry as the latest price and broadcasts it
func (p *PriceEvents) Publish(ctx context.Context, entry *models.PriceHistory) error {
	if !p.Enabled() {
		return nil
	}

	payload, err := json.Marshal(entry.Event())
	if err != nil {
		return err
	}

	key := priceRedisKey(string(entry.Merchant), entry.SKU)
	pipe := p.redis.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"price":    strconv.FormatFloat(entry.Price, 'f', -1, 64),
		"currency": entry.Currency,
		"updated":  strconv.FormatInt(entry.Timestamp.UnixMilli(), 10),
	})
	pipe.Expire(ctx, key, LatestPriceTTL)
	pipe.Publish(ctx, PriceUpdateChannel, payload)
	_, err = pipe.Exec(ctx)
	return err
}

// Latest returns the cached latest price, or nil when none is cached
func (p *PriceEvents) Latest(ctx context.Context, merchant, sku string) (*models.PriceEvent, error) {
	if !p.Enabled() {
		return nil, nil
	}

	result, err := p.redis.HGetAll(ctx, priceRedisKey(merchant, sku)).Result()
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}

	event := &models.PriceEvent{
		SKU:      sku,
		Merchant: models.Merchant(merchant),
		Price:    parseStringFloat(result["price"]),
		Currency: result["currency"],
	}
	if ts := parseUnixTimestamp(result["updated"]); ts != nil {
		event.Timestamp = *ts
	}
	return event, nil
}

func priceRedisKey(merchant, sku string) string {
	return fmt.Sprintf("price:%s:%s", merchant, sku)
}

func parseStringFloat(value string) float64 {
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseUnixTimestamp(value string) *time.Time {
	if value == "" {
		return nil
	}

	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return &t
	}

	return nil
}
