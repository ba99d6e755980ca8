package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/health-hub/records-service/internal/auth"
	"github.com/health-hub/records-service/internal/db"
	"github.com/health-hub/records-service/internal/httpapi"
	"github.com/health-hub/records-service/internal/messaging"
	"github.com/health-hub/records-service/internal/telemetry"
)

func main() {
	log.Println("records-service starting")

	ctx := context.Background()

	// Initialize OpenTelemetry. The service runs without telemetry if the
	// collector is unreachable.
	provider, err := telemetry.InitProvider(ctx, telemetry.LoadConfig())
	if err != nil {
		log.Printf("Warning: failed to initialize telemetry: %v", err)
	}
	if provider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			provider.Shutdown(shutdownCtx)
		}()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Printf("Warning: failed to initialize metrics: %v", err)
	}

	// Connect to database
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Connect to RabbitMQ. Event publishing is best effort; the API stays up
	// without it.
	var publisher messaging.PublisherInterface
	if p, err := messaging.NewPublisher(); err != nil {
		log.Printf("Warning: failed to connect to RabbitMQ: %v", err)
		log.Println("Service will continue without event publishing")
	} else {
		publisher = p
		defer p.Close()
	}

	issuer := auth.NewIssuer(auth.LoadConfig())

	perms := auth.DefaultPermissions()
	if path := os.Getenv("PERMISSIONS_FILE"); path != "" {
		loaded, err := auth.LoadPermissions(path)
		if err != nil {
			log.Fatalf("Failed to load permissions from %s: %v", path, err)
		}
		perms = loaded
		log.Printf("Loaded permissions for %d roles from %s", len(loaded), path)
	}

	router := httpapi.SetupRouter(database, issuer, perms, publisher, metrics)
	handler := httpapi.CORSMiddleware(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("records-service listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
