package printful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/robabby/sacred-geometry-sub000/internal/config"
	"github.com/robabby/sacred-geometry-sub000/internal/domain"
	pkgerrors "github.com/robabby/sacred-geometry-sub000/pkg/errors"
)

const requestTimeout = 15 * time.Second

// Client calls the Printful API: variant/price lookups (the price authority)
// and order creation. Calls run through a circuit breaker so a flapping
// upstream fails fast instead of tying up request handlers.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *zap.Logger
}

// NewClient creates a Printful HTTP client
func NewClient(cfg config.PrintfulConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "printful",
		Timeout: 30 * time.Second,
	})
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		breaker:    breaker,
		logger:     logger,
	}
}

type syncVariantPayload struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	RetailPrice        string `json:"retail_price"`
	Synced             bool   `json:"synced"`
	AvailabilityStatus string `json:"availability_status"`
}

type syncProductResponse struct {
	Result struct {
		SyncVariants []syncVariantPayload `json:"sync_variants"`
	} `json:"result"`
}

// FetchVariants returns the current variant list for a sync product. This is
// the price authority: prices and stock flags returned here override anything
// the client submitted.
func (c *Client) FetchVariants(ctx context.Context, syncProductID int64) ([]domain.AuthoritativeVariant, error) {
	path := fmt.Sprintf("/store/products/%d", syncProductID)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, &pkgerrors.ErrPriceAuthority{SyncProductID: syncProductID, Err: err}
	}

	var resp syncProductResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &pkgerrors.ErrPriceAuthority{SyncProductID: syncProductID, Err: fmt.Errorf("malformed response: %w", err)}
	}

	variants := make([]domain.AuthoritativeVariant, 0, len(resp.Result.SyncVariants))
	for _, v := range resp.Result.SyncVariants {
		cents, err := parsePriceCents(v.RetailPrice)
		if err != nil {
			return nil, &pkgerrors.ErrPriceAuthority{SyncProductID: syncProductID, Err: fmt.Errorf("variant %d has unparseable price %q", v.ID, v.RetailPrice)}
		}
		variants = append(variants, domain.AuthoritativeVariant{
			ID:         v.ID,
			Name:       v.Name,
			PriceCents: cents,
			InStock:    v.Synced && v.AvailabilityStatus == "active",
		})
	}
	return variants, nil
}

// Recipient is the shipping recipient of a fulfillment order.
type Recipient struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	StateCode   string `json:"state_code,omitempty"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
}

// OrderItem is one fulfillment line: a sync variant and a quantity.
type OrderItem struct {
	SyncVariantID int64 `json:"sync_variant_id"`
	Quantity      int   `json:"quantity"`
}

// OrderRequest is the order-creation payload. ExternalID correlates the
// Printful order back to the originating checkout session.
type OrderRequest struct {
	ExternalID string      `json:"external_id"`
	Recipient  Recipient   `json:"recipient"`
	Items      []OrderItem `json:"items"`
}

// OrderResponse is the subset of the order-creation response we use.
type OrderResponse struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
}

type createOrderResponse struct {
	Result OrderResponse `json:"result"`
}

// CreateOrder submits a fulfillment order. Any non-2xx response is a hard
// failure; the caller decides whether the payment provider should redeliver.
func (c *Client) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/orders", payload)
	if err != nil {
		return nil, err
	}

	var resp createOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("malformed order response: %w", err)
	}
	return &resp.Result, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return nil, fmt.Errorf("printful client not configured: base URL and API key required")
	}

	return c.breaker.Execute(func() ([]byte, error) {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("Printful request failed", zap.String("path", path), zap.Error(err))
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			c.logger.Warn("Printful returned non-2xx",
				zap.String("path", path), zap.Int("status", resp.StatusCode))
			return nil, fmt.Errorf("printful returned %d", resp.StatusCode)
		}
		return body, nil
	})
}

// parsePriceCents converts Printful's decimal price string ("5.99") to cents.
func parsePriceCents(raw string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f * 100)), nil
}
