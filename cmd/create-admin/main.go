// create-admin は管理者アカウントを作成します。
//
//	go run ./cmd/create-admin -email admin@example.com -password secret123
package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"nagoyameshi/internal/config"
	"nagoyameshi/internal/database"
	"nagoyameshi/internal/repositories"
	"nagoyameshi/internal/services"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (8 characters or more)")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		flag.Usage()
		log.Fatal("email and a password of at least 8 characters are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	adminService := services.NewAdminService(repositories.NewAdminRepository(db))
	admin, err := adminService.CreateAdmin(context.Background(), *email, *password)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			log.Fatalf("Admin %s already exists", *email)
		}
		log.Fatalf("Failed to create admin: %v", err)
	}
	log.Printf("Admin created: id=%d email=%s", admin.ID, admin.Email)
}
