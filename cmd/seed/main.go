package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/moneta-app/moneta-server/config"
	"github.com/moneta-app/moneta-server/pkg/helpers"
)

// Seeds a demo account with a handful of transactions for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@moneta.app"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	samples := []struct {
		title    string
		amount   string
		txType   string
		category string
		date     string
		notes    string
	}{
		{"Salary", "3200.00", "Income", "Work", "2024-01-01", "monthly paycheck"},
		{"Rent", "1100.00", "Expense", "Housing", "2024-01-02", ""},
		{"Groceries", "86.40", "Expense", "Food", "2024-01-03", ""},
		{"Coffee", "4.50", "Expense", "Food", "2024-01-05", ""},
		{"Freelance", "450.00", "Income", "Work", "2024-01-08", "side project"},
	}
	for _, s := range samples {
		if _, err := db.Exec(`
			INSERT INTO transactions (user_id, title, amount, type, category, date, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, s.title, s.amount, s.txType, s.category, s.date, s.notes); err != nil {
			log.Fatalf("failed to seed transaction %q: %v", s.title, err)
		}
	}
	fmt.Printf("seeded %d transactions\n", len(samples))
}
