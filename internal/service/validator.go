package service

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/robabby/sacred-geometry-sub000/internal/catalog"
	"github.com/robabby/sacred-geometry-sub000/internal/domain"
)

// PriceAuthority fetches the current variant list for a sync product. It is
// the only source prices and stock flags are taken from.
type PriceAuthority interface {
	FetchVariants(ctx context.Context, syncProductID int64) ([]domain.AuthoritativeVariant, error)
}

// Validator re-validates an untrusted cart against the catalog and the price
// authority. Pure apart from the authority fetches: no other side effects.
type Validator struct {
	catalog   catalog.Repository
	authority PriceAuthority
	logger    *zap.Logger
}

// NewValidator creates a cart item validator
func NewValidator(cat catalog.Repository, authority PriceAuthority, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		catalog:   cat,
		authority: authority,
		logger:    logger,
	}
}

// fetchOutcome is the result of one per-product authority fetch.
type fetchOutcome struct {
	variants map[int64]domain.AuthoritativeVariant
	err      error
}

// Validate resolves every cart line to exactly one of a validated line or a
// line error. Lines are grouped by product so each distinct product costs one
// authority fetch; fetches for different products run concurrently.
func (v *Validator) Validate(ctx context.Context, lines []domain.CartLine) domain.ValidationResult {
	result := domain.ValidationResult{
		Success:        true,
		ValidatedItems: []domain.ValidatedLine{},
		Errors:         []domain.LineError{},
	}
	if len(lines) == 0 {
		return result
	}

	// One catalog lookup per distinct product; misses skip the fetch entirely.
	entries := make(map[string]catalog.Entry)
	missing := make(map[string]bool)
	for _, line := range lines {
		if _, seen := entries[line.ProductID]; seen || missing[line.ProductID] {
			continue
		}
		entry, ok := v.catalog.Lookup(line.ProductID)
		if !ok {
			missing[line.ProductID] = true
			continue
		}
		entries[line.ProductID] = entry
	}

	outcomes := make(map[string]*fetchOutcome, len(entries))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for productID, entry := range entries {
		wg.Add(1)
		go func(productID string, syncProductID int64) {
			defer wg.Done()
			variants, err := v.authority.FetchVariants(ctx, syncProductID)
			outcome := &fetchOutcome{err: err}
			if err == nil {
				outcome.variants = make(map[int64]domain.AuthoritativeVariant, len(variants))
				for _, variant := range variants {
					outcome.variants[variant.ID] = variant
				}
			} else {
				v.logger.Warn("Price authority fetch failed",
					zap.String("product_id", productID),
					zap.Int64("sync_product_id", syncProductID),
					zap.Error(err))
			}
			mu.Lock()
			outcomes[productID] = outcome
			mu.Unlock()
		}(productID, entry.SyncProductID)
	}
	wg.Wait()

	for i, line := range lines {
		if missing[line.ProductID] {
			result.Errors = append(result.Errors, lineError(i, line, domain.CodeProductNotFound,
				fmt.Sprintf("Product %s not found", line.ProductID)))
			continue
		}
		outcome := outcomes[line.ProductID]
		if outcome.err != nil {
			// Do not leak the upstream error; the line simply could not be verified.
			result.Errors = append(result.Errors, lineError(i, line, domain.CodePrintfulAPIError,
				fmt.Sprintf("Product %s could not be verified", line.ProductID)))
			continue
		}

		if line.Quantity <= 0 || line.Quantity != math.Trunc(line.Quantity) {
			result.Errors = append(result.Errors, lineError(i, line, domain.CodeInvalidQuantity,
				"Quantity must be a positive whole number"))
			continue
		}

		variant, ok := outcome.variants[line.VariantID]
		if !ok {
			result.Errors = append(result.Errors, lineError(i, line, domain.CodeVariantNotFound,
				fmt.Sprintf("Variant %d not found for product %s", line.VariantID, line.ProductID)))
			continue
		}
		if !variant.InStock {
			result.Errors = append(result.Errors, lineError(i, line, domain.CodeOutOfStock,
				fmt.Sprintf("%s is out of stock", variant.Name)))
			continue
		}

		clientCents := domain.CentsFromDollars(line.UnitPrice)
		validated := domain.ValidatedLine{
			CartLine:            line,
			LineIndex:           i,
			ValidatedPrice:      variant.PriceCents,
			OriginalClientPrice: clientCents,
			PriceWasAdjusted:    clientCents != variant.PriceCents,
		}
		if validated.PriceWasAdjusted {
			result.PricesAdjusted = true
			v.logger.Info("Client price adjusted to authoritative price",
				zap.String("product_id", line.ProductID),
				zap.Int64("variant_id", line.VariantID),
				zap.Int64("client_cents", clientCents),
				zap.Int64("validated_cents", variant.PriceCents))
		}
		result.ValidatedItems = append(result.ValidatedItems, validated)
	}

	result.Success = len(result.Errors) == 0
	return result
}

func lineError(index int, line domain.CartLine, code domain.ErrorCode, message string) domain.LineError {
	return domain.LineError{
		LineIndex: index,
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		Code:      code,
		Message:   message,
	}
}
