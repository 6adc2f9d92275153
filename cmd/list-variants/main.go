package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/robabby/sacred-geometry-sub000/internal/catalog"
	"github.com/robabby/sacred-geometry-sub000/internal/config"
	"github.com/robabby/sacred-geometry-sub000/internal/printful"
)

// Operator tool: resolves catalog products through Printful and prints the
// current authoritative variants, so the static catalog table can be checked
// against what the store actually sells.
//
// Usage:
//   go run ./cmd/list-variants            # all catalog products
//   go run ./cmd/list-variants <productId>
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := printful.NewClient(cfg.Printful, logger)
	entries := catalog.DefaultEntries()

	if len(os.Args) > 1 {
		repo := catalog.NewStaticRepository(entries)
		entry, ok := repo.Lookup(os.Args[1])
		if !ok {
			fmt.Fprintf(os.Stderr, "Product %q is not in the catalog\n", os.Args[1])
			os.Exit(1)
		}
		entries = []catalog.Entry{entry}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, entry := range entries {
		fmt.Printf("%s (sync product %d)\n", entry.ProductID, entry.SyncProductID)
		variants, err := client.FetchVariants(ctx, entry.SyncProductID)
		if err != nil {
			fmt.Printf("  fetch failed: %v\n", err)
			continue
		}
		for _, v := range variants {
			stock := "in stock"
			if !v.InStock {
				stock = "OUT OF STOCK"
			}
			fmt.Printf("  %d  %-40s  $%d.%02d  %s\n", v.ID, v.Name, v.PriceCents/100, v.PriceCents%100, stock)
		}
	}
}
