package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/livesale/backend/internal/infrastructure/config"
	"github.com/livesale/backend/internal/infrastructure/logger"
	"github.com/livesale/backend/internal/infrastructure/persistence"
	"github.com/livesale/backend/internal/infrastructure/persistence/models"
	"github.com/livesale/backend/internal/infrastructure/seed"
	"go.uber.org/zap"
)

func main() {
	var (
		products int
		seedVal  uint64
	)
	flag.IntVar(&products, "products", 20, "Number of products to generate")
	flag.Uint64Var(&seedVal, "seed", 0, "Random seed, 0 for a random catalog")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.App.Env == "production" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel("warn")))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	fx, err := seed.Generate(seed.Options{Products: products, Seed: seedVal})
	if err != nil {
		log.Fatal("Failed to generate fixtures", zap.Error(err))
	}
	if _, err := seed.Load(context.Background(), db.DB, fx, log); err != nil {
		log.Fatal("Failed to load fixtures", zap.Error(err))
	}

	// Print what is stored, earlier runs may have inserted the same codes with other IDs
	var stored []models.ProductModel
	if err := db.DB.Order("code").Find(&stored).Error; err != nil {
		log.Fatal("Failed to list products", zap.Error(err))
	}
	for _, p := range stored {
		fmt.Printf("%s\t%s\t%s\t%s\n", p.ID, p.Code, p.UnitPrice.StringFixed(2), p.Name)
	}
}
