/**
 * @description
 * Server-Sent Events stream of price observations.
 * Clients may narrow the stream with ?sku= and ?merchant=.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services (PriceStreamHub)
 */

package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const streamHeartbeat = 15 * time.Second

type StreamHandler struct {
	Hub *services.PriceStreamHub
}

func NewStreamHandler(hub *services.PriceStreamHub) *StreamHandler {
	return &StreamHandler{Hub: hub}
}

// StreamPrices streams live price updates over SSE
// GET /stream/prices
func (h *StreamHandler) StreamPrices(c *fiber.Ctx) error {
	if h.Hub == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Price streaming requires Redis",
		})
	}

	sku := c.Query("sku")
	merchant := c.Query("merchant")

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	events, unsubscribe := h.Hub.Subscribe()
	serverDone := c.Context().Done()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()

		fmt.Fprint(w, ": connected\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case <-serverDone:
				return
			case <-heartbeat.C:
				// Flush fails once the client is gone
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			case payload, ok := <-events:
				if !ok {
					return
				}
				if !matches(payload, sku, merchant) {
					continue
				}
				fmt.Fprintf(w, "event: price\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}

func matches(payload []byte, sku, merchant string) bool {
	if sku == "" && merchant == "" {
		return true
	}
	var ev models.PriceEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return false
	}
	return (sku == "" || ev.SKU == sku) && (merchant == "" || string(ev.Merchant) == merchant)
}
