// Package router wires handlers and middleware into the Gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"phonebills/internal/handler"
	"phonebills/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log zerolog.Logger,
	corsOrigins []string,
	invoiceH *handler.InvoiceHandler,
	paymentH *handler.PaymentHandler,
	groupH *handler.GroupHandler,
	serviceH *handler.ServiceHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Invoice ingestion and reads
	invoices := v1.Group("/invoices")
	invoices.POST("/upload", invoiceH.Upload)
	invoices.POST("/import", invoiceH.Import)
	invoices.GET("", invoiceH.List)
	invoices.GET("/:id", invoiceH.GetByID)
	invoices.GET("/:id/file", invoiceH.GetFile)
	invoices.DELETE("/:id", invoiceH.Delete)
	invoices.POST("/:id/payments", paymentH.Generate)

	// Payments
	payments := v1.Group("/payments")
	payments.GET("", paymentH.List)
	payments.GET("/summary", paymentH.Summary)
	payments.GET("/export", paymentH.ExportPDF)
	payments.GET("/export/csv", paymentH.ExportCSV)
	payments.GET("/export/xlsx", paymentH.ExportXLSX)
	payments.PUT("/:id", paymentH.SetPaid)

	// Cost-center groups
	groups := v1.Group("/groups")
	groups.POST("", groupH.Create)
	groups.GET("", groupH.List)
	groups.GET("/:id", groupH.GetByID)
	groups.PUT("/:id", groupH.Update)
	groups.DELETE("/:id", groupH.Delete)

	// Service registry
	services := v1.Group("/services")
	services.GET("", serviceH.List)
	services.PUT("/:id", serviceH.Update)
	services.POST("/reconcile", serviceH.Reconcile)

	return r
}
