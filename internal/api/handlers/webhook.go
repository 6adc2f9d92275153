package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/robabby/sacred-geometry-sub000/internal/domain"
	"github.com/robabby/sacred-geometry-sub000/internal/repository"
	"github.com/robabby/sacred-geometry-sub000/internal/service"
	"github.com/robabby/sacred-geometry-sub000/internal/stripe"
	"github.com/robabby/sacred-geometry-sub000/pkg/metrics"
)

const maxWebhookBody = 1 << 20 // 1MB

// HandlePaymentWebhook handles POST /webhooks/payment.
// The raw body is verified against Stripe-Signature before any parsing. A
// paid checkout.session.completed event triggers order submission; a 500
// response tells Stripe to redeliver later. Everything else is acknowledged
// so the provider stops retrying.
func HandlePaymentWebhook(
	verifier *stripe.WebhookVerifier,
	gateway service.PaymentGateway,
	orders *service.OrderService,
	repos *repository.Repositories,
	m *metrics.ServerMetrics,
	logger *zap.Logger,
) gin.HandlerFunc {
	countEvent := func(outcome string) {
		if m != nil {
			m.WebhookEvents.WithLabelValues(outcome).Inc()
		}
	}

	return func(c *gin.Context) {
		// Signature is computed over raw bytes; read before anything touches the body
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
			return
		}

		header := c.GetHeader(stripe.SignatureHeader)
		if header == "" {
			countEvent("unsigned")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing stripe-signature header"})
			return
		}

		event, err := verifier.VerifyAndParse(body, header)
		if err != nil {
			countEvent("signature_invalid")
			logger.Warn("Webhook signature verification failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
			return
		}

		switch event.Kind() {
		case domain.EventCheckoutSessionCompleted:
			handleSessionCompleted(c, event, gateway, orders, repos, m, countEvent, logger)
		case domain.EventUnrecognized:
			// Forward-compatible: acknowledge provider event types we don't act on
			countEvent("ignored")
			logger.Info("Ignoring unrecognized webhook event", zap.String("type", event.Type))
			c.JSON(http.StatusOK, gin.H{"received": true})
		}
	}
}

func handleSessionCompleted(
	c *gin.Context,
	event *domain.WebhookEvent,
	gateway service.PaymentGateway,
	orders *service.OrderService,
	repos *repository.Repositories,
	m *metrics.ServerMetrics,
	countEvent func(string),
	logger *zap.Logger,
) {
	snap, err := domain.SessionFromEvent(event)
	if err != nil {
		countEvent("malformed")
		logger.Warn("Webhook event carried malformed session object", zap.Error(err))
		// The signature verified, so this is Stripe's payload; redelivery won't fix it
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if snap.PaymentStatus != "paid" {
		// Async payment methods fire the event before payment clears
		countEvent("unpaid")
		logger.Info("Session completed but not paid; acknowledging without order",
			zap.String("session_id", snap.ID),
			zap.String("payment_status", snap.PaymentStatus))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	// Redelivery guard: an order already submitted for this session stays one order
	existing, err := repos.FulfilledSession.GetBySessionID(c.Request.Context(), snap.ID)
	if err != nil {
		countEvent("ledger_error")
		logger.Error("Fulfilled-session lookup failed", zap.String("session_id", snap.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}
	if existing != nil {
		countEvent("duplicate")
		logger.Info("Session already fulfilled; acknowledging redelivery",
			zap.String("session_id", snap.ID),
			zap.Int64("printful_order_id", existing.PrintfulOrderID))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	// The lean payload may omit shipping and email; fetch the full session
	session, err := gateway.GetCheckoutSession(c.Request.Context(), snap.ID)
	if err != nil {
		countEvent("session_fetch_failed")
		logger.Error("Failed to retrieve full session", zap.String("session_id", snap.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	record, err := orders.SubmitOrder(c.Request.Context(), session)
	if err != nil {
		countEvent("order_failed")
		logger.Error("Order submission failed", zap.String("session_id", snap.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	// The order exists regardless of whether the ledger write lands; failing
	// the webhook here would invite Stripe to redeliver and duplicate it.
	if err := repos.FulfilledSession.Create(c.Request.Context(), record); err != nil {
		logger.Warn("Failed to record fulfilled session",
			zap.String("session_id", snap.ID), zap.Error(err))
	}

	countEvent("fulfilled")
	if m != nil {
		m.OrdersSubmitted.Inc()
	}
	logger.Info("Order created from paid session",
		zap.String("session_id", snap.ID),
		zap.Int64("printful_order_id", record.PrintfulOrderID))
	c.JSON(http.StatusOK, gin.H{"received": true})
}
