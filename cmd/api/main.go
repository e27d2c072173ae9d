package main

import (
	"context"
	"log"

	"nagoyameshi/internal/billing"
	"nagoyameshi/internal/config"
	"nagoyameshi/internal/database"
	"nagoyameshi/internal/routes"
	"nagoyameshi/internal/services"
	"nagoyameshi/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	var images storage.ImageStore
	if cfg.S3Bucket == "" {
		log.Println("S3_BUCKET is not set; restaurant images are kept in memory")
		images = storage.NewMemoryStore()
	} else {
		s3Store, err := storage.NewS3Store(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to initialize image storage: %v", err)
		}
		images = s3Store
	}

	if cfg.StripeSecretKey == "" {
		log.Println("Warning: STRIPE_SECRET_KEY is not set; subscription requests will fail")
	}
	provider := billing.NewStripeProvider(cfg.StripeSecretKey)
	mailer := services.NewSMTPMailer(cfg)

	r := routes.SetupRouter(db, cfg, provider, images, mailer)

	// サーバー起動
	log.Printf("Server listening on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
