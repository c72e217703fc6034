package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/lotus-pos/internal/application/service"
	"github.com/sangkips/lotus-pos/internal/config"
	"github.com/sangkips/lotus-pos/internal/infrastructure/database"
	"github.com/sangkips/lotus-pos/internal/infrastructure/repository"
	"github.com/sangkips/lotus-pos/internal/presentation/http/handler"
	"github.com/sangkips/lotus-pos/internal/presentation/http/routes"
	"github.com/sangkips/lotus-pos/pkg/broker"
	"github.com/sangkips/lotus-pos/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout        = 15 * time.Second
	idempotencySweepPeriod = time.Hour
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer)

	// Kitchen tickets go out over AMQP when a broker is configured
	publisher, err := broker.NewPublisherFromConfig(cfg.Broker.URL, cfg.Broker.Exchange)
	if err != nil {
		log.Printf("Warning: Failed to connect to broker, kitchen tickets disabled: %v", err)
		publisher = broker.NewNullPublisher()
	}

	// Initialize repositories
	txManager := repository.NewTransactionManager(db)
	orderRepo := repository.NewOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	invoiceItemRepo := repository.NewInvoiceItemRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	tableRepo := repository.NewTableRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	orderService := service.NewOrderService(txManager, orderRepo, catalogRepo, tableRepo, customerRepo, publisher)
	invoiceService := service.NewInvoiceService(txManager, invoiceRepo, invoiceItemRepo, orderRepo, catalogRepo, employeeRepo, customerRepo, cfg.Reconcile)
	catalogService := service.NewCatalogService(catalogRepo, tableRepo)

	handlers := &routes.Handlers{
		Order:   handler.NewOrderHandler(orderService),
		Invoice: handler.NewInvoiceHandler(invoiceService),
		Catalog: handler.NewCatalogHandler(catalogService),
	}

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(idempotencySweepPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := idempotencyRepo.DeleteExpired(gctx); err != nil {
					log.Printf("Warning: Failed to purge expired idempotency keys: %v", err)
				}
			}
		}
	})

	err = g.Wait()
	rateLimiter.Stop()
	if cerr := publisher.Close(); cerr != nil {
		log.Printf("Warning: Failed to close broker connection: %v", cerr)
	}
	if err != nil {
		log.Printf("Server stopped with error: %v", err)
		os.Exit(1)
	}
	log.Println("Server exited")
}
