package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ShuvashreeBharati/FYP-22067184/internal/api"
	"github.com/ShuvashreeBharati/FYP-22067184/internal/auth"
	"github.com/ShuvashreeBharati/FYP-22067184/internal/config"
	"github.com/ShuvashreeBharati/FYP-22067184/internal/core"
	"github.com/ShuvashreeBharati/FYP-22067184/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if cfg.TokenTTL == 0 {
		log.Println("TOKEN_TTL=0: issuing non-expiring tokens (compatibility mode)")
	}

	predictionClient := core.NewPredictionClient(cfg.PredictAPIURL, cfg.PredictTimeout)

	authService := core.NewAuthService(dbStore, issuer)
	diagnosisService := core.NewDiagnosisService(dbStore, predictionClient)
	profileService := core.NewProfileService(dbStore)
	feedbackService := core.NewFeedbackService(dbStore)
	enquiryService := core.NewEnquiryService(dbStore)

	apiHandler := api.NewAPIHandler(authService, diagnosisService, profileService,
		feedbackService, enquiryService, issuer, cfg.UploadDir, cfg.Production())
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // diagnose waits on the prediction service
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
