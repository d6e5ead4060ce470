// @title           Procurement API
// @version         1.0
// @description     Procurement workflow backend - purchase requisitions, RFQs, quotation reconciliation and comparison.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	"backend/handlers"
	"backend/models"
	"backend/repository"
	"backend/services"
	"backend/storage"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var cronRunning int32

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	if origin := os.Getenv("FRONTEND_ORIGIN"); origin != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origin)
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Authorization", "Content-Type", "Content-Disposition",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

func runMigrations(ctx context.Context) {
	gormDB := storage.GetGormDB()
	err := gormDB.WithContext(ctx).AutoMigrate(
		&models.Company{},
		&models.Division{},
		&models.Department{},
		&models.Factory{},
		&models.Vendor{},
		&models.Material{},
		&models.PurchaseRequisition{},
		&models.RequisitionLineItem{},
		&models.RFQ{},
		&models.RFQLineItem{},
		&models.RFQVendorInvitation{},
		&models.QuotationResponse{},
		&models.QuotationLineItem{},
		&models.EmailDispatchLog{},
		&models.EmailTemplate{},
		&models.ComparisonDecision{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
}

func main() {
	db := storage.InitDB()
	gormDB := storage.InitGormDB()

	runMigrations(context.Background())

	// Wiring: one store/unit-of-work pair feeds every service.
	store := repository.NewGormStore(gormDB)
	uow := repository.NewGormUnitOfWork(gormDB)
	policy := services.NewPolicy()
	sequences := services.NewSequenceService()
	notifier := services.NewNotificationService()
	emails := services.NewEmailService(store)
	requisitions := services.NewRequisitionService(uow, sequences, policy, notifier)
	rfqs := services.NewRFQService(uow, policy, emails)
	reconciliation := services.NewReconciliationService(uow, policy)
	comparisons := services.NewComparisonService(uow, policy)
	exports := services.NewExportService(comparisons)
	pdfs := services.NewPDFService(store)

	// Nightly maintenance: expired-session cleanup, RFQ auto-close past
	// deadline, and the per-company quotation dedup sweep.
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)
	_, err := c.AddFunc("30 1 * * *", func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			log.Println("Previous cron still running. Skipping this run.")
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Minute)
		defer cancel()

		if err := storage.CleanupExpiredSessions(db); err != nil {
			log.Printf("cron: session cleanup failed: %v", err)
		}

		closed := rfqs.AutoCloseExpired(ctx)
		log.Printf("cron: auto-closed %d expired RFQs", closed)

		companies, err := store.Scopes().ListCompanies(ctx)
		if err != nil {
			log.Printf("cron: listing companies failed: %v", err)
			return
		}
		for _, company := range companies {
			summary, err := reconciliation.RunDedupSweep(ctx, nil, company.ID)
			if err != nil {
				log.Printf("cron: dedup sweep failed for company %d: %v", company.ID, err)
				continue
			}
			if summary.GroupsFound > 0 {
				log.Printf("cron: dedup sweep %s company %d: %d groups, %d rows deleted, %d errors",
					summary.SweepID, company.ID, summary.GroupsFound, summary.RecordsDeleted, len(summary.Errors))
			}
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule maintenance cron job: %v", err)
	}
	c.Start()

	r := gin.Default()
	r.Use(cors.New(CORSConfig()))

	api := r.Group("/api")
	{
		// Authentication
		api.POST("/login", handlers.LoginHandler(db))
		api.POST("/validate-session", handlers.ValidateSession(db))
		api.POST("/refresh-token", handlers.RefreshTokenHandler(db))
		api.POST("/logout/:user_id", handlers.LogoutHandler(db))

		// Purchase requisitions
		api.POST("/requisitions", handlers.CreateRequisitionHandler(db, requisitions))
		api.GET("/requisitions", handlers.ListRequisitionsHandler(db, requisitions))
		api.GET("/requisitions/:id", handlers.GetRequisitionHandler(db, requisitions))
		api.PUT("/requisitions/:id", handlers.UpdateRequisitionHandler(db, requisitions))
		api.POST("/requisitions/:id/submit", handlers.SubmitRequisitionHandler(db, requisitions))
		api.POST("/requisitions/:id/decision", handlers.DecideRequisitionHandler(db, requisitions))
		api.POST("/requisitions/:id/convert", handlers.ConvertRequisitionHandler(db, requisitions))

		// RFQs
		api.GET("/rfqs", handlers.ListRFQsHandler(db, rfqs))
		api.GET("/rfqs/:id", handlers.GetRFQHandler(db, rfqs))
		api.POST("/rfqs/:id/send", handlers.SendRFQHandler(db, rfqs))
		api.POST("/rfqs/:id/close", handlers.CloseRFQHandler(db, rfqs))
		api.POST("/rfqs/:id/cancel", handlers.CancelRFQHandler(db, rfqs))
		api.POST("/rfqs/:id/award", handlers.AwardRFQHandler(db, rfqs))
		api.GET("/rfqs/:id/dispatch-history", handlers.RFQDispatchHistoryHandler(db, rfqs))
		api.GET("/rfqs/:id/pdf", handlers.RFQPDFHandler(db, pdfs))

		// Quotation reconciliation
		api.POST("/rfqs/:id/vendors/:vendor_id/inbound-email", handlers.IngestInboundEmailHandler(db, reconciliation))
		api.GET("/quotations/pending", handlers.ListPendingQuotationsHandler(db, reconciliation))
		api.POST("/quotations/:id/review", handlers.MarkQuotationReviewedHandler(db, reconciliation))
		api.PUT("/quotations/:id/status", handlers.SetQuotationStatusHandler(db, reconciliation))
		api.POST("/quotations/dedup-sweep", handlers.RunDedupSweepHandler(db, reconciliation))

		// Comparison
		api.GET("/rfqs/:id/comparison", handlers.CompareQuotationsHandler(db, comparisons))
		api.GET("/rfqs/:id/comparison/export", handlers.ExportComparisonHandler(db, exports))
		api.POST("/rfqs/:id/selections", handlers.RecordSelectionsHandler(db, comparisons))
		api.GET("/rfqs/:id/selections", handlers.ListSelectionsHandler(db, comparisons))

		// Master data
		api.POST("/vendors", handlers.CreateVendorHandler(db, store))
		api.GET("/vendors", handlers.ListVendorsHandler(db, store))
		api.GET("/vendors/:id", handlers.GetVendorHandler(db, store))
		api.PUT("/vendors/:id", handlers.UpdateVendorHandler(db, store))
		api.POST("/materials", handlers.CreateMaterialHandler(db, store))
		api.GET("/materials", handlers.ListMaterialsHandler(db, store))
		api.GET("/materials/:id", handlers.GetMaterialHandler(db, store))

		// Email templates
		api.POST("/email-templates", handlers.CreateEmailTemplateHandler(db, emails))
		api.GET("/email-templates", handlers.ListEmailTemplatesHandler(db))
		api.POST("/email-templates/preview", handlers.PreviewEmailTemplateHandler(db, emails))
		api.GET("/email-templates/variables", handlers.EmailTemplateVariablesHandler(db, emails))

		// Notifications
		api.GET("/notifications", handlers.ListNotificationsHandler(db, store))
		api.PUT("/notifications/:id/read", handlers.MarkNotificationReadHandler(db, store))
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if portInt, err := strconv.Atoi(port); err != nil || portInt < 1 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %s", port)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server listening on :%s", port)

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cronCtx := c.Stop()
	<-cronCtx.Done()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
