package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/Pratik980/GharNirman-sub000/config"
	"github.com/Pratik980/GharNirman-sub000/pkg/helpers"
)

// Seeds one user per role into the identity directory mirror and
// prints a dev token for each, so local clients can hit the API
// without a running identity provider.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	verifier := helpers.NewIdentityVerifier(cfg.IdentitySecret)

	seeds := []struct {
		email string
		name  string
		role  string
	}{
		{"admin@gharnirman.local", "Demo Admin", "admin"},
		{"homeowner@gharnirman.local", "Demo Homeowner", "homeowner"},
		{"contractor@gharnirman.local", "Demo Contractor", "contractor"},
	}

	for _, s := range seeds {
		id := uuid.NewString()
		err := db.QueryRow(`
			INSERT INTO users (id, email, name, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, id, s.email, s.name, s.role).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed %s: %v", s.role, err)
		}

		token, err := verifier.Generate(id, s.role, 30*24*time.Hour)
		if err != nil {
			log.Fatalf("failed to mint token for %s: %v", s.role, err)
		}
		fmt.Printf("seeded %-10s id=%s email=%s\n  token=%s\n", s.role, id, s.email, token)
	}
}
