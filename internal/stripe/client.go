package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/robabby/sacred-geometry-sub000/internal/config"
	"github.com/robabby/sacred-geometry-sub000/internal/domain"
	pkgerrors "github.com/robabby/sacred-geometry-sub000/pkg/errors"
)

const requestTimeout = 15 * time.Second

// Client talks to the Stripe REST API. Stripe's session endpoints accept
// form-encoded bodies and return JSON.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Stripe HTTP client
func NewClient(cfg config.StripeConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// LineItem is one priced line of a checkout session. UnitAmount is in cents
// and always comes from the validated price, never the client's.
type LineItem struct {
	Name        string
	Description string
	ImageURL    string
	UnitAmount  int64
	Quantity    int
}

// SessionParams describes a checkout session to create.
type SessionParams struct {
	SuccessURL       string
	CancelURL        string
	LineItems        []LineItem
	AllowedCountries []string
	Metadata         map[string]string
}

type sessionPayload struct {
	ID              string            `json:"id"`
	URL             string            `json:"url"`
	PaymentStatus   string            `json:"payment_status"`
	Metadata        map[string]string `json:"metadata"`
	CustomerDetails *struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer_details"`
	ShippingDetails *struct {
		Name    string `json:"name"`
		Address *struct {
			Line1      string `json:"line1"`
			Line2      string `json:"line2"`
			City       string `json:"city"`
			State      string `json:"state"`
			PostalCode string `json:"postal_code"`
			Country    string `json:"country"`
		} `json:"address"`
	} `json:"shipping_details"`
}

// CreateCheckoutSession creates a payment-mode checkout session.
func (c *Client) CreateCheckoutSession(ctx context.Context, params *SessionParams) (*domain.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)

	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", "usd")
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		if item.Description != "" {
			form.Set(prefix+"[price_data][product_data][description]", item.Description)
		}
		if item.ImageURL != "" {
			form.Set(prefix+"[price_data][product_data][images][0]", item.ImageURL)
		}
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
	}
	for i, country := range params.AllowedCountries {
		form.Set(fmt.Sprintf("shipping_address_collection[allowed_countries][%d]", i), country)
	}
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	body, err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form)
	if err != nil {
		return nil, err
	}
	return parseSession(body)
}

// GetCheckoutSession retrieves the full session, including the shipping
// address and buyer email that the lean webhook payload may omit.
func (c *Client) GetCheckoutSession(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return parseSession(body)
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	if c.baseURL == "" || c.secretKey == "" {
		return nil, fmt.Errorf("stripe client not configured: base URL and secret key required")
	}

	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Stripe request failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Stripe returned non-2xx",
			zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil, &pkgerrors.ErrPaymentGateway{StatusCode: resp.StatusCode, Message: "stripe request rejected"}
	}
	return body, nil
}

func parseSession(body []byte) (*domain.CheckoutSession, error) {
	var payload sessionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed session response: %w", err)
	}

	session := &domain.CheckoutSession{
		ID:            payload.ID,
		URL:           payload.URL,
		PaymentStatus: payload.PaymentStatus,
		Metadata:      payload.Metadata,
	}
	if payload.CustomerDetails != nil {
		session.CustomerEmail = payload.CustomerDetails.Email
	}
	if payload.ShippingDetails != nil {
		shipping := &domain.ShippingDetails{Name: payload.ShippingDetails.Name}
		if addr := payload.ShippingDetails.Address; addr != nil {
			shipping.Address = &domain.Address{
				Line1:      addr.Line1,
				Line2:      addr.Line2,
				City:       addr.City,
				State:      addr.State,
				PostalCode: addr.PostalCode,
				Country:    addr.Country,
			}
		}
		session.Shipping = shipping
	}
	return session, nil
}
