package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		godotenv.Load("../../.env") // Fallback
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set. Please check your .env file.")
	}

	fmt.Println("Attempting to connect to PostgreSQL...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to the database. Error: %v\n(Check your connection string, password, and ensure you have internet access)", err)
	}
	defer conn.Close(context.Background())

	var version string
	if err := conn.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		log.Fatalf("❌ Query failed: %v", err)
	}

	var rows int
	if err := conn.QueryRow(ctx, "SELECT count(*) FROM ezynotify").Scan(&rows); err != nil {
		log.Printf("⚠️ Could not count ezynotify rows (table missing?): %v", err)
	} else {
		fmt.Printf("📦 ezynotify rows: %d\n", rows)
	}

	fmt.Println("✅ Successfully connected to Supabase Database!")
	fmt.Println("🚀 Database Version:", version)
}
