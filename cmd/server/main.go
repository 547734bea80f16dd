package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"phonebills/internal/config"
	"phonebills/internal/export"
	"phonebills/internal/extract"
	"phonebills/internal/handler"
	"phonebills/internal/logger"
	"phonebills/internal/parser/claude"
	"phonebills/internal/port"
	"phonebills/internal/repository/postgres"
	"phonebills/internal/router"
	"phonebills/internal/service"
	localstorage "phonebills/internal/storage/local"
	s3storage "phonebills/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// A missing .env is fine; real deployments use environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl := logger.New(&cfg.Log)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	groupRepo := postgres.NewGroupRepo(db)
	serviceRepo := postgres.NewServiceRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)
	txRunner := postgres.NewTxRunner(db)

	// Initialize file storage
	var store port.FileStore
	switch cfg.Storage.Provider {
	case "s3":
		store, err = s3storage.NewStore(&cfg.Storage.S3)
	default:
		store, err = localstorage.NewStore(cfg.Import.UploadDir)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize file storage: %w", err)
	}

	// The AI fallback is optional; without an API key the marker-based
	// parser runs alone.
	var fallback port.LineItemParser
	if cfg.Parser.Enabled() {
		fallback = claude.NewParser(&cfg.Parser)
		zl.Info().Str("model", cfg.Parser.DefaultModel).Msg("ai fallback parser enabled")
	}

	// Initialize services
	ingestSvc := service.NewIngestService(txRunner, fallback, extract.NewPDFExtractor(), store, cfg.Import.ImportDir, zl)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, paymentRepo, store, zl)
	paymentSvc := service.NewPaymentService(paymentRepo, invoiceRepo, txRunner, zl)
	groupSvc := service.NewGroupService(groupRepo, zl)
	registrySvc := service.NewRegistryService(serviceRepo, groupRepo)

	account := export.BankAccount{
		IBAN:          cfg.Billing.IBAN,
		Display:       cfg.Billing.AccountDisplay,
		MessagePrefix: cfg.Billing.MessagePrefix,
	}

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(invoiceSvc, ingestSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc, account)
	groupH := handler.NewGroupHandler(groupSvc)
	serviceH := handler.NewServiceHandler(registrySvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(zl, cfg.CORS.AllowedOrigins, invoiceH, paymentH, groupH, serviceH, healthH)

	zl.Info().Str("addr", cfg.Server.Port).Msg("server starting")
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
