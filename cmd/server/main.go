package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	httpapi "carrental-backend/internal/api/http"
	"carrental-backend/internal/config"
	"carrental-backend/internal/currency"
	"carrental-backend/internal/geocode"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/payment"
	"carrental-backend/internal/repository/postgres"
	"carrental-backend/internal/security"
	"carrental-backend/internal/service"
	"carrental-backend/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Car Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Display currency
	settings, err := currency.Load(cfg.Currency.Default, cfg.Currency.Rates)
	if err != nil {
		logger.Error("Invalid currency configuration", "error", err)
		log.Fatalf("Invalid currency configuration: %v", err)
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.InvitationTokenExpiry)*time.Hour,
	)

	// Initialize Storage Service
	storageCfg := storage.Config{
		Type:         cfg.Storage.Type,
		UploadDir:    cfg.Storage.UploadDir,
		BaseURL:      cfg.Server.BaseURL,
		MaxFileSize:  cfg.Storage.MaxFileSize * 1024 * 1024,
		AllowedTypes: cfg.Storage.AllowedTypes,
	}
	logger.Info("Using mock storage (local filesystem)", "upload_dir", storageCfg.UploadDir)
	mockStorage, err := storage.NewMockStorageService(storageCfg.BaseURL, storageCfg.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize mock storage", "error", err)
		log.Fatalf("Failed to initialize mock storage: %v", err)
	}

	// Initialize external clients
	geocoder, err := newGeocoder(cfg.Geocode)
	if err != nil {
		logger.Error("Failed to initialize geocoder", "error", err)
		log.Fatalf("Failed to initialize geocoder: %v", err)
	}
	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, nil)
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	// Initialize Services
	vehicleSvc := service.NewVehicleService(store.CarRepository, store.PromotionRepository)
	bookingSvc := service.NewBookingService(
		store.CarRepository,
		store.CustomerRepository,
		store.BookingRepository,
		store.PromotionRepository,
		store.PaymentRepository,
		store.NotificationRepository,
		emailSvc,
		gateway,
		settings,
	)
	loyaltySvc := service.NewLoyaltyService(store.CustomerRepository, store.BookingRepository, store.PromotionRepository)
	customerSvc := service.NewCustomerService(store.CustomerRepository, settings)
	subscriptionSvc := service.NewSubscriptionService(
		service.DefaultPlans(cfg.Stripe.PriceIDs),
		store.CustomerRepository,
		store.PaymentRepository,
		gateway,
	)
	webhookSvc := service.NewWebhookService(gateway, subscriptionSvc, bookingSvc)
	staffSvc := service.NewStaffService(store.StaffRepository, tokenManager, emailSvc, cfg.Server.BaseURL)
	geocodeSvc := service.NewGeocodeService(geocoder)
	pictureSvc := service.NewPictureService(store.CarRepository, mockStorage, storageCfg)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Set up HTTP API
	router := httpapi.NewRouter(httpapi.RouterConfig{
		TokenManager:  tokenManager,
		Health:        db.PingContext,
		Vehicles:      httpapi.NewVehicleHandler(vehicleSvc),
		Pictures:      httpapi.NewPictureHandler(pictureSvc),
		Bookings:      httpapi.NewBookingHandler(bookingSvc),
		Loyalty:       httpapi.NewLoyaltyHandler(loyaltySvc),
		Customers:     httpapi.NewCustomerHandler(customerSvc),
		Subscriptions: httpapi.NewSubscriptionHandler(subscriptionSvc),
		Webhooks:      httpapi.NewWebhookHandler(webhookSvc),
		Staff:         httpapi.NewStaffHandler(staffSvc),
		Geocode:       httpapi.NewGeocodeHandler(geocodeSvc),
		Currency:      httpapi.NewCurrencyHandler(settings, customerSvc),
		Notifications: httpapi.NewNotificationHandler(noteSvc),
		Uploads:       httpapi.NewImageUploadHandler(mockStorage, storageCfg),
	})
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up gRPC server for health checks
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Register reflection service for grpcurl
	reflection.Register(grpcServer)

	go func() {
		logger.Info("gRPC health server listening", "address", cfg.GetGRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
		}
	}()

	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		}
	}()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down servers...")
	healthServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Servers stopped. Goodbye!")
}

func newGeocoder(cfg config.GeocodeConfig) (geocode.Geocoder, error) {
	if cfg.Provider == "google" {
		logger.Info("Using Google reverse geocoding")
		return geocode.NewGoogleClient(cfg.GoogleAPIKey)
	}
	logger.Info("Using Nominatim reverse geocoding", "url", cfg.NominatimURL, "rps", cfg.RequestsPerSecond)
	return geocode.NewNominatimClient(cfg.NominatimURL, cfg.UserAgent, cfg.RequestsPerSecond), nil
}
