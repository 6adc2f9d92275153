package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/robabby/sacred-geometry-sub000/internal/catalog"
	"github.com/robabby/sacred-geometry-sub000/internal/config"
	"github.com/robabby/sacred-geometry-sub000/internal/domain"
	"github.com/robabby/sacred-geometry-sub000/internal/service"
)

func checkoutRouter(authority *mockAuthority, gateway *mockGateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	products := catalog.NewStaticRepository([]catalog.Entry{
		{ProductID: "flower-of-life-tee", SyncProductID: 100, Name: "Flower of Life Tee"},
	})
	validator := service.NewValidator(products, authority, logger)
	checkout := service.NewCheckoutService(gateway, config.CheckoutConfig{
		SiteBaseURL:      "https://example.com",
		AllowedCountries: []string{"US"},
	}, logger)

	router := gin.New()
	router.POST("/checkout", HandleCheckout(validator, checkout, nil, logger))
	return router
}

func postCheckout(t *testing.T, router *gin.Engine, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleCheckout_EmptyCartRejected(t *testing.T) {
	router := checkoutRouter(&mockAuthority{}, &mockGateway{})

	w := postCheckout(t, router, `{"items": []}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid cart data", resp["error"])
}

func TestHandleCheckout_MalformedBodyRejected(t *testing.T) {
	router := checkoutRouter(&mockAuthority{}, &mockGateway{})

	w := postCheckout(t, router, `{"items": "not-an-array"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid cart data", resp["error"])
}

func TestHandleCheckout_ValidationFailureReturnsLineErrors(t *testing.T) {
	authority := &mockAuthority{
		variants: map[int64][]domain.AuthoritativeVariant{
			100: {{ID: 12345, Name: "Tee / M", PriceCents: 599, InStock: false}},
		},
	}
	router := checkoutRouter(authority, &mockGateway{})

	w := postCheckout(t, router, `{"items":[{"productId":"flower-of-life-tee","variantId":12345,"quantity":1,"price":5.99}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error            string             `json:"error"`
		ValidationErrors []domain.LineError `json:"validationErrors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Cart validation failed", resp.Error)
	require.Len(t, resp.ValidationErrors, 1)
	assert.Equal(t, domain.CodeOutOfStock, resp.ValidationErrors[0].Code)
}

func TestHandleCheckout_Success(t *testing.T) {
	authority := &mockAuthority{
		variants: map[int64][]domain.AuthoritativeVariant{
			100: {{ID: 12345, Name: "Tee / M", PriceCents: 599, InStock: true}},
		},
	}
	gateway := &mockGateway{
		session: &domain.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/cs_1"},
	}
	router := checkoutRouter(authority, gateway)

	w := postCheckout(t, router, `{"items":[{"productId":"flower-of-life-tee","variantId":12345,"quantity":1,"price":0.01}]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://checkout.stripe.com/c/cs_1", resp["url"])
}

func TestHandleCheckout_GatewayFailureIs500(t *testing.T) {
	authority := &mockAuthority{
		variants: map[int64][]domain.AuthoritativeVariant{
			100: {{ID: 12345, Name: "Tee / M", PriceCents: 599, InStock: true}},
		},
	}
	gateway := &mockGateway{createErr: errors.New("stripe down")}
	router := checkoutRouter(authority, gateway)

	w := postCheckout(t, router, `{"items":[{"productId":"flower-of-life-tee","variantId":12345,"quantity":1,"price":5.99}]}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to create checkout session", resp["error"])
}
