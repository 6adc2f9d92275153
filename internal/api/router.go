package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/robabby/sacred-geometry-sub000/internal/api/handlers"
	"github.com/robabby/sacred-geometry-sub000/internal/config"
	"github.com/robabby/sacred-geometry-sub000/internal/repository"
	"github.com/robabby/sacred-geometry-sub000/internal/service"
	"github.com/robabby/sacred-geometry-sub000/internal/stripe"
	"github.com/robabby/sacred-geometry-sub000/pkg/metrics"
)

// Dependencies carries everything the handlers need. All provider access goes
// through interfaces so tests can substitute them.
type Dependencies struct {
	Validator *service.Validator
	Checkout  *service.CheckoutService
	Orders    *service.OrderService
	Gateway   service.PaymentGateway
	Verifier  *stripe.WebhookVerifier
	Repos     *repository.Repositories
	Metrics   *metrics.ServerMetrics
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps *Dependencies, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(logger, deps.Metrics))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Shop Checkout API",
			"endpoints": []string{
				"GET /health",
				"POST /checkout",
				"POST /webhooks/payment",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Checkout: validate the cart against the price authority, create a session
	router.POST("/checkout", handlers.HandleCheckout(deps.Validator, deps.Checkout, deps.Metrics, logger))

	// Stripe webhook: paid sessions trigger fulfillment order submission
	router.POST("/webhooks/payment", handlers.HandlePaymentWebhook(deps.Verifier, deps.Gateway, deps.Orders, deps.Repos, deps.Metrics, logger))

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// requestIDMiddleware tags each request with an ID so log lines from one
// request can be correlated. An inbound X-Request-ID is honored.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// loggingMiddleware logs HTTP requests and records request metrics
func loggingMiddleware(logger *zap.Logger, m *metrics.ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		if m != nil {
			m.Requests.WithLabelValues(path, strconv.Itoa(status)).Inc()
			m.LatencyMS.WithLabelValues(path).Observe(float64(time.Since(start).Milliseconds()))
		}
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}
