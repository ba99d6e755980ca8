package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/health-hub/records-service/internal/db"
	"github.com/health-hub/records-service/internal/prescriptions"
)

const defaultRetentionDays = 30

func main() {
	retentionDays := defaultRetentionDays
	if v := os.Getenv("PRESCRIPTION_RETENTION_DAYS"); v != "" {
		if d, err := strconv.Atoi(v); err == nil && d > 0 {
			retentionDays = d
		}
	}

	log.Println("Prescription Cleanup Job - Starting")
	log.Printf("Retention Policy: pending prescriptions expire after %d days", retentionDays)

	// Connect to database
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	service := prescriptions.NewService(prescriptions.NewRepository(database), nil, nil)

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	retention := time.Duration(retentionDays) * 24 * time.Hour
	swept, err := service.ExpireStale(ctx, retention)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}

	if swept == 0 {
		log.Println("No stale pending prescriptions found. Exiting.")
		os.Exit(0)
	}

	log.Printf("✓ Cleanup completed successfully: %d prescriptions marked Expired", swept)
	log.Println("Cleanup Job - Finished")
}
