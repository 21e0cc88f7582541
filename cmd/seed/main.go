// seed inserts a handful of test users into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/akmatoff/auth-api/internal/auth"
	"github.com/akmatoff/auth-api/internal/infrastructure/postgres"
	"github.com/joho/godotenv"
)

const seedPassword = "password-123"

type seedUser struct {
	email string
	name  string
	link  string
}

var users = []seedUser{
	{"alice@test.local", "Alice Seed", "https://example.com/alice"},
	{"bob@test.local", "Bob Seed", ""},
	{"carol@test.local", "Carol Seed", "https://example.com/carol"},
	{"dave@test.local", "Dave Seed", ""},
	{"erin@test.local", "Erin Seed", ""},
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hasher := auth.NewHasher(2)

	// Insert users, skip any that already exist (idempotent re-runs)
	var inserted, skipped int
	for _, u := range users {
		hash, err := hasher.Hash(ctx, seedPassword)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}

		var link *string
		if u.link != "" {
			link = &u.link
		}

		tag, err := pool.Exec(ctx, `
			INSERT INTO users (email, password, name, profile_link)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO NOTHING`,
			u.email, hash, u.name, link,
		)
		if err != nil {
			log.Fatalf("insert user %s: %v", u.email, err)
		}
		if tag.RowsAffected() == 0 {
			skipped++
		} else {
			inserted++
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Users created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Printf("  Password:      %s (same for all seed users)\n", seedPassword)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1: log in as a seed user:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"alice@test.local\",\"password\":\"%s\"}'\n", seedPassword)
	fmt.Println("    # → {\"user_id\":\"...\",\"email\":\"...\",\"token\":\"eyJ...\",\"name\":\"...\"}")
	fmt.Println()
	fmt.Println("  Step 2: list users with the token:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/auth/users -H \"Authorization: Bearer $JWT\"")
}
