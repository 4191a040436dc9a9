package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres() *pgxpool.Pool {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal(err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal("Postgres connection failed:", err)
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize schema
	if err := initSchema(db); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	return db
}

// initSchema creates or updates the database schema
func initSchema(db *pgxpool.Pool) error {
	ctx := context.Background()

	// -------------------------------
	// USERS
	// -------------------------------
	userTableSQL := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'MANAGER',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, userTableSQL); err != nil {
		return err
	}

	// -------------------------------
	// BRANCHES
	// -------------------------------
	branchTableSQL := `
		CREATE TABLE IF NOT EXISTS branches (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			city VARCHAR(100) NOT NULL DEFAULT '',
			address VARCHAR(500) NOT NULL DEFAULT '',
			phone VARCHAR(50) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, branchTableSQL); err != nil {
		return err
	}

	// -------------------------------
	// DISCOUNTS
	// -------------------------------
	discountTableSQL := `
		CREATE TABLE IF NOT EXISTS discounts (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type VARCHAR(50) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			all_branches BOOLEAN NOT NULL DEFAULT false,
			branch_ids TEXT[] NOT NULL DEFAULT '{}',
			start_date TIMESTAMP NULL,
			end_date TIMESTAMP NULL,
			start_time VARCHAR(5) NOT NULL DEFAULT '',
			end_time VARCHAR(5) NOT NULL DEFAULT '',
			days_of_week TEXT[] NOT NULL DEFAULT '{}',
			image_url VARCHAR(500) NOT NULL DEFAULT '',
			payload JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, discountTableSQL); err != nil {
		return err
	}

	// partial index backing the single-active-loyalty rule
	loyaltyIndexSQL := `
		CREATE INDEX IF NOT EXISTS idx_discounts_active_loyalty
		ON discounts (status)
		WHERE type = 'loyalty' AND status = 'active'
	`
	if _, err := db.Exec(ctx, loyaltyIndexSQL); err != nil {
		return err
	}

	log.Println("✅ Schema initialized successfully")
	return nil
}
