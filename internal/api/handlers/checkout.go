package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/robabby/sacred-geometry-sub000/internal/domain"
	"github.com/robabby/sacred-geometry-sub000/internal/service"
	"github.com/robabby/sacred-geometry-sub000/pkg/metrics"
)

// CheckoutRequest is the cart submission payload
type CheckoutRequest struct {
	Items []domain.CartLine `json:"items"`
}

// HandleCheckout handles POST /checkout: re-validates the untrusted cart
// against the price authority and creates a checkout session priced only
// from validated prices.
func HandleCheckout(validator *service.Validator, checkout *service.CheckoutService, m *metrics.ServerMetrics, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid cart data",
				"details": err.Error(),
			})
			return
		}
		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart data"})
			return
		}

		result := validator.Validate(c.Request.Context(), req.Items)
		if !result.Success {
			logger.Info("Cart validation failed",
				zap.Int("item_count", len(req.Items)),
				zap.Int("error_count", len(result.Errors)))
			c.JSON(http.StatusBadRequest, gin.H{
				"error":            "Cart validation failed",
				"validationErrors": result.Errors,
			})
			return
		}
		if result.PricesAdjusted {
			logger.Warn("Client submitted prices differing from authority",
				zap.Int("item_count", len(req.Items)))
		}

		session, err := checkout.CreateSession(c.Request.Context(), result.ValidatedItems)
		if err != nil {
			logger.Error("Failed to create checkout session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
			return
		}

		if m != nil {
			m.SessionsCreated.Inc()
		}
		c.JSON(http.StatusOK, gin.H{"url": session.URL})
	}
}
