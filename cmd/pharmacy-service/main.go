package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/handler"
	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/migrations"
	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/repository"
	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/seed"
	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/service"
	"github.com/pharmstock/pharmstock-backend/pkg/config"
	"github.com/pharmstock/pharmstock-backend/pkg/database"
	"github.com/pharmstock/pharmstock-backend/pkg/httputil"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

func main() {
	// Local .env overrides, if present
	_ = godotenv.Load()

	cfg, err := config.Load("pharmacy-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("pharmacy-service", cfg.Server.Environment)
	log.Info().Msg("starting Pharmacy Service")

	// The database handle is owned here: constructed before anything uses it,
	// closed on the way out.
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	ctx := context.Background()

	// Schema must be current before the core is usable
	if err := migrations.Apply(ctx, db.DB, log); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	// Initialize repositories
	medicineRepo := repository.NewMedicineRepository(db)
	lotRepo := repository.NewLotRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// One-time catalog seed (no-op when the catalog already has rows)
	if err := seed.LoadCatalog(ctx, medicineRepo, cfg.Pharmacy.CatalogPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed medicine catalog")
	}

	// Initialize services
	catalogService := service.NewCatalogService(medicineRepo, log)
	ledgerService := service.NewLedgerService(medicineRepo, lotRepo,
		cfg.Pharmacy.LowStockThreshold, cfg.Pharmacy.NearExpiryDays, log)
	salesService := service.NewSalesService(db, lotRepo, saleRepo, log)
	alertService := service.NewAlertService(lotRepo, cfg.Pharmacy.ExpiringIncludesZeroStock, log)
	reportService := service.NewReportService(saleRepo, lotRepo, ledgerService, alertService, log)

	// Initialize handlers
	medicineHandler := handler.NewMedicineHandler(catalogService, log)
	inventoryHandler := handler.NewInventoryHandler(ledgerService, log)
	saleHandler := handler.NewSaleHandler(salesService, log)
	alertHandler := handler.NewAlertHandler(alertService, log)
	reportHandler := handler.NewReportHandler(reportService, log)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "pharmacy-service",
			"database": db.Health(r.Context()),
		})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", medicineHandler.ListRefs)
			r.Get("/search", medicineHandler.Search)
			r.Get("/{id}", medicineHandler.Get)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", inventoryHandler.List)
			r.Post("/", inventoryHandler.AddLot)
			r.Get("/{id}", inventoryHandler.Get)
		})

		r.Post("/sales", saleHandler.Sell)

		r.Get("/reports/sales", reportHandler.Sales)
		r.Get("/alerts/expiring", alertHandler.Expiring)
		r.Get("/dashboard/stats", reportHandler.DashboardStats)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
