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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mswdo/soloparent-backend/config"
	"github.com/mswdo/soloparent-backend/database"
	"github.com/mswdo/soloparent-backend/internal/admin"
	"github.com/mswdo/soloparent-backend/internal/announcement"
	"github.com/mswdo/soloparent-backend/internal/applicant"
	"github.com/mswdo/soloparent-backend/internal/auditlog"
	"github.com/mswdo/soloparent-backend/internal/childrequest"
	"github.com/mswdo/soloparent-backend/internal/document"
	"github.com/mswdo/soloparent-backend/internal/event"
	"github.com/mswdo/soloparent-backend/internal/notification"
	"github.com/mswdo/soloparent-backend/internal/reports"
	"github.com/mswdo/soloparent-backend/internal/storage"
	"github.com/mswdo/soloparent-backend/routes"
)

// @title Solo Parent Case Management API
// @version 1.0
// @description Municipal social welfare backend for solo parent registration, verification and assistance tracking.
// @BasePath /api/v1
func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis (reset tokens, export quotas)
	if err := database.ConnectRedis(cfg); err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}

	// Init S3 (profile photos, documents, announcement images, ID cards)
	uploader, err := storage.NewUploader(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ S3 init failed: %v", err)
	}

	// Init outbound email pipeline (Kafka producer + consumer)
	sender := notification.NewEmailSender(cfg)
	mail := notification.NewEmailQueue(cfg, sender)
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	notification.StartEmailConsumer(consumerCtx, cfg, sender)

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&applicant.User{},
		&applicant.IdentifyingInformation{},
		&applicant.FamilyMember{},
		&applicant.Classification{},
		&applicant.NeedsProblems{},
		&applicant.EmergencyContact{},
		&admin.Admin{},
		&admin.Superadmin{},
		&auditlog.AuditLog{},
		&notification.AcceptedUser{},
		&notification.DeclinedUser{},
		&notification.TerminatedUser{},
		&notification.UserRemark{},
		&notification.FollowUpDocument{},
		&notification.ChildRequestNotice{},
		&notification.AdminNotification{},
		&notification.SuperadminNotification{},
		&event.Event{},
		&event.Attendee{},
		&event.Rating{},
		&event.Read{},
		&childrequest.ChildRequest{},
		&announcement.Announcement{},
		&reports.IDCard{},
	); err != nil {
		log.Fatalf("❌ DB AutoMigrate failed: %v", err)
	}

	// Each document type persists to its own table.
	for _, dt := range document.AllTypes() {
		table := document.Meta(dt).Table
		if err := db.Table(table).AutoMigrate(&document.Document{}); err != nil {
			log.Fatalf("❌ Document table migration failed (%s): %v", table, err)
		}
	}
	log.Println("✅ Database migrations completed")

	if err := admin.SeedSuperadmin(db, cfg); err != nil {
		log.Fatalf("❌ Failed to seed superadmin: %v", err)
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL, "http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg, mail, uploader)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	go func() {
		fmt.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🔄 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}

	stopConsumer()
	if err := mail.Close(); err != nil {
		log.Printf("⚠️ Email queue close: %v", err)
	}
	database.Close()
	log.Println("✅ Server stopped")
}
