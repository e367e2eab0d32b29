package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"skintech-consultant-be/internal/config"
	"skintech-consultant-be/internal/repository/implementation"
	"skintech-consultant-be/pkg/database"
	"skintech-consultant-be/pkg/embedding"
	"skintech-consultant-be/pkg/rag/ingestion"

	"github.com/fatih/color"
)

func main() {
	count := flag.Int("count", 1000, "number of products to generate")
	batch := flag.Int("batch", ingestion.DefaultBatchSize, "products per upsert batch")
	seed := flag.Int64("seed", 42, "random seed for the generator")
	dump := flag.String("dump", "", "optional path to write the generated products as JSON")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	embedder, err := embedding.NewProvider(cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel, cfg.Ai.OllamaBaseURL, cfg.Keys.OpenAI)
	if err != nil {
		color.Red("Embedding provider unavailable: %v", err)
		os.Exit(1)
	}

	color.Cyan("🧴 Generating %d products (seed %d)", *count, *seed)
	products := ingestion.NewGenerator(*seed).Generate(*count)

	if *dump != "" {
		data, err := json.MarshalIndent(products, "", "  ")
		if err != nil {
			color.Red("Failed to encode products: %v", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*dump, data, 0o644); err != nil {
			color.Red("Failed to write %s: %v", *dump, err)
			os.Exit(1)
		}
		color.Green("Wrote %s", *dump)
	}

	repo := implementation.NewProductEmbeddingRepository(db)
	ingester := ingestion.NewIngester(embedder, repo, *batch)

	started := time.Now()
	done, err := ingester.Ingest(context.Background(), products, func(done, total int) {
		color.Yellow("  indexed %d/%d", done, total)
	})
	if err != nil {
		color.Red("Ingestion stopped after %d products: %v", done, err)
		os.Exit(1)
	}

	total, err := repo.Count(context.Background())
	if err != nil {
		color.Red("Failed to count indexed products: %v", err)
		os.Exit(1)
	}
	color.Green("✅ Indexed %d products in %s (%d rows in knowledge base)", done, time.Since(started).Round(time.Millisecond), total)
}
