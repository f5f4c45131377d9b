package routes

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mswdo/soloparent-backend/config"
	"github.com/mswdo/soloparent-backend/database"
	"github.com/mswdo/soloparent-backend/internal/admin"
	"github.com/mswdo/soloparent-backend/internal/announcement"
	"github.com/mswdo/soloparent-backend/internal/applicant"
	"github.com/mswdo/soloparent-backend/internal/auditlog"
	"github.com/mswdo/soloparent-backend/internal/auth"
	"github.com/mswdo/soloparent-backend/internal/childrequest"
	"github.com/mswdo/soloparent-backend/internal/document"
	"github.com/mswdo/soloparent-backend/internal/event"
	"github.com/mswdo/soloparent-backend/internal/notification"
	"github.com/mswdo/soloparent-backend/internal/reports"
	"github.com/mswdo/soloparent-backend/internal/storage"
	"github.com/mswdo/soloparent-backend/internal/workflow"
	"github.com/mswdo/soloparent-backend/middleware"

	_ "github.com/mswdo/soloparent-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup wires every module onto the router. Repositories and services are
// built here once and shared; mail and uploader are owned by main so they
// can be closed on shutdown.
func Setup(r *gin.Engine, cfg *config.Config, mail *notification.EmailQueue, uploader *storage.Uploader) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter()) // Global rate limit: 5 req/sec per IP

	// ========== Audit Log ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Shared Repositories ==========
	userRepo := applicant.NewRepository(database.DB)
	adminRepo := admin.NewRepository(database.DB)
	notifRepo := notification.NewRepository(database.DB)

	// ========== Case Workflow ==========
	wfSvc := workflow.NewService(database.DB, userRepo, notifRepo, mail, auditSvc)
	wfHandler := workflow.NewHandler(wfSvc)

	// ========== Auth ==========
	authSvc := auth.NewService(userRepo, adminRepo, wfSvc, mail, auditSvc, cfg)
	authHandler := auth.NewHandler(authSvc, userRepo)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", middleware.LoginRateLimiter(), authHandler.Login)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
		authGroup.GET("/check-status", authHandler.CheckUserStatus)
	}

	// ========== Announcements ==========
	annRepo := announcement.NewRepository(database.DB)
	annHandler := announcement.NewHandler(annRepo, uploader)

	// Public: the landing page shows active announcements before login.
	api.GET("/announcements", annHandler.List)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg))

	protected.POST("/auth/change-password", authHandler.ChangePassword)

	announcementRoutes := protected.Group("/announcements")
	announcementRoutes.Use(middleware.RBACMiddleware(middleware.RoleAdmin, middleware.RoleSuperadmin))
	{
		announcementRoutes.POST("", annHandler.Create)
		announcementRoutes.PUT("/:id", annHandler.Update)
		announcementRoutes.DELETE("/:id", annHandler.Delete)
	}

	// ========== Applicants ==========
	appSvc := applicant.NewService(database.DB, userRepo, uploader)
	appHandler := applicant.NewHandler(appSvc, userRepo, notifRepo)

	userRoutes := protected.Group("/users")
	{
		userRoutes.POST("/profile", middleware.RBACMiddleware(middleware.RoleUser), appHandler.SubmitProfile)
		userRoutes.PUT("/:userId/photos", middleware.RBACMiddleware(middleware.RoleUser), appHandler.UpdateProfilePhotos)
		userRoutes.GET("/:userId/details", appHandler.GetDetails)
		userRoutes.DELETE("/:userId/family-members/:memberId", appHandler.DeleteFamilyMember)
	}

	staffUserRoutes := protected.Group("/users")
	staffUserRoutes.Use(middleware.RBACMiddleware(middleware.RoleAdmin, middleware.RoleSuperadmin))
	{
		staffUserRoutes.GET("/pending", appHandler.ListPending)
		staffUserRoutes.GET("/verified", appHandler.ListVerified)
		staffUserRoutes.GET("/renewal", appHandler.ListRenewal)
		staffUserRoutes.GET("/terminated", appHandler.ListTerminated)
		staffUserRoutes.GET("/declined", appHandler.ListDeclined)
		staffUserRoutes.GET("/remarks", appHandler.ListRemarks)
		staffUserRoutes.GET("/beneficiaries", appHandler.ListBeneficiaries)
		staffUserRoutes.PUT("/:userId/information", appHandler.UpdateInformation)
		staffUserRoutes.PUT("/approval", appHandler.UpdateApproval)
		staffUserRoutes.PUT("/beneficiary-status", appHandler.UpdateBeneficiaryStatus)
		staffUserRoutes.PUT("/remove-beneficiary", appHandler.RemoveBeneficiary)
		staffUserRoutes.PUT("/classification", appHandler.UpdateClassification)
	}

	// ========== Documents ==========
	docRepo := document.NewRepository(database.DB)
	docHandler := document.NewHandler(docRepo, uploader, func(ctx context.Context, codeID string) error {
		_, err := wfSvc.Recompute(ctx, codeID, workflow.Options{})
		return err
	})

	documentRoutes := protected.Group("/documents")
	{
		documentRoutes.POST("", middleware.RBACMiddleware(middleware.RoleUser), docHandler.Upload)
		documentRoutes.GET("/checklist", docHandler.GetChecklist)
		documentRoutes.GET("/checklist/:codeId", docHandler.GetChecklist)
		documentRoutes.DELETE("", middleware.RBACMiddleware(middleware.RoleAdmin, middleware.RoleSuperadmin), docHandler.Delete)
	}

	// ========== Case Decisions (Admin + Superadmin) ==========
	caseRoutes := protected.Group("/cases")
	caseRoutes.Use(middleware.RBACMiddleware(middleware.RoleAdmin, middleware.RoleSuperadmin))
	{
		caseRoutes.PUT("/status", wfHandler.UpdateUserStatus)
		caseRoutes.PUT("/terminate", wfHandler.TerminateUser)
		caseRoutes.PUT("/reinstate", wfHandler.UnTerminateUser)
		caseRoutes.POST("/remarks", wfHandler.SaveRemarks)
		caseRoutes.PUT("/remarks/accept", wfHandler.AcceptRemarks)
		caseRoutes.PUT("/remarks/decline", wfHandler.DeclineRemarks)
		caseRoutes.POST("/:codeId/recompute", wfHandler.RecomputeDocuments)
		caseRoutes.PUT("/documents/status", wfHandler.UpdateDocumentStatus)
	}

	// ========== Events ==========
	eventRepo := event.NewRepository(database.DB)
	eventSvc := event.NewService(eventRepo, uploader)
	eventHandler := event.NewHandler(eventSvc, eventRepo)

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.GET("", eventHandler.List)
		eventRoutes.POST("/:eventId/read", middleware.RBACMiddleware(middleware.RoleUser), eventHandler.MarkRead)
		eventRoutes.POST("/:eventId/ratings", middleware.RBACMiddleware(middleware.RoleUser), eventHandler.Rate)
		eventRoutes.GET("/:eventId/ratings", eventHandler.ListRatings)
	}

	staffEventRoutes := protected.Group("/events")
	staffEventRoutes.Use(middleware.RBACMiddleware(middleware.RoleAdmin, middleware.RoleSuperadmin))
	{
		staffEventRoutes.POST("", eventHandler.Create)
		staffEventRoutes.PUT("/:eventId", eventHandler.Update)
		staffEventRoutes.PUT("/:eventId/archive", eventHandler.Archive)
		staffEventRoutes.GET("/:eventId/attendees", eventHandler.ListAttendees)
		staffEventRoutes.POST("/:eventId/attendees", eventHandler.AddAttendee)
	}

	// ========== Child Addition Requests ==========
	childRepo := childrequest.NewRepository(database.DB)
	childSvc := childrequest.NewService(childRepo, userRepo, wfSvc)
	childHandler := childrequest.NewHandler(childSvc, childRepo)

	childRoutes := protected.Group("/child-requests")
	{
		childRoutes.POST("", middleware.RBACMiddleware(middleware.RoleUser), childHandler.File)
		childRoutes.GET("/mine", middleware.RBACMiddleware(middleware.RoleUser), childHandler.ListMine)
		childRoutes.GET("", middleware.RBACMiddleware(middleware.RoleAdmin), middleware.RequireBarangayScope(), childHandler.ListForBarangay)
		childRoutes.PUT("/:id/endorse", middleware.RBACMiddleware(middleware.RoleAdmin), childHandler.Endorse)
		childRoutes.PUT("/:id/approve", middleware.RBACMiddleware(middleware.RoleSuperadmin), childHandler.Approve)
		childRoutes.PUT("/:id/decline", middleware.RBACMiddleware(middleware.RoleSuperadmin), childHandler.Decline)
	}

	// ========== Notifications ==========
	notifHandler := notification.NewHandler(notifRepo)

	notifRoutes := protected.Group("/notifications")
	{
		notifRoutes.GET("/admin", middleware.RBACMiddleware(middleware.RoleAdmin), notifHandler.GetAdminNotifications)
		notifRoutes.PUT("/admin/read-all", middleware.RBACMiddleware(middleware.RoleAdmin), notifHandler.MarkAllAdminRead)
		notifRoutes.GET("/superadmin", middleware.RBACMiddleware(middleware.RoleSuperadmin), notifHandler.GetSuperadminNotifications)
		notifRoutes.PUT("/superadmin/read-all", middleware.RBACMiddleware(middleware.RoleSuperadmin), notifHandler.MarkAllSuperadminRead)
		notifRoutes.GET("/:userId", notifHandler.GetInbox)
		notifRoutes.PUT("/read", notifHandler.MarkRead)
		notifRoutes.DELETE("/:kind/:id", notifHandler.Delete)
	}

	// ========== Reports & ID Cards ==========
	exportLimiter := reports.NewExportLimiter(database.RDB, cfg.ExportLimitPerMonth)
	cardRepo := reports.NewIDCardRepository(database.DB)
	reportsHandler := reports.NewHandler(reports.NewMasterlistExporter(), exportLimiter, cardRepo, userRepo, uploader)

	reportRoutes := protected.Group("/reports")
	reportRoutes.Use(middleware.RBACMiddleware(middleware.RoleAdmin, middleware.RoleSuperadmin))
	{
		reportRoutes.GET("/masterlist", reportsHandler.ExportMasterlist)
		reportRoutes.GET("/export-limit", reportsHandler.GetExportLimit)
	}

	idCardRoutes := protected.Group("/id-cards")
	{
		idCardRoutes.POST("", middleware.RBACMiddleware(middleware.RoleUser), reportsHandler.UploadIDCard)
		idCardRoutes.GET("/:userId/pdf", reportsHandler.DownloadIDCardPDF)
	}

	// ========== Superadmin ==========
	superadminRoutes := protected.Group("/superadmin")
	superadminRoutes.Use(middleware.RBACMiddleware(middleware.RoleSuperadmin))
	{
		superadminRoutes.PUT("/renewal-status", wfHandler.SuperadminUpdateStatus)

		adminHandler := admin.NewHandler(adminRepo)
		superadminRoutes.POST("/admins", adminHandler.CreateAdmin)
		superadminRoutes.GET("/admins", adminHandler.ListAdmins)
		superadminRoutes.DELETE("/admins/:id", adminHandler.DeleteAdmin)

		superadminRoutes.GET("/child-requests", childHandler.ListForSuperadmin)

		superadminRoutes.GET("/export-limit/:adminId", reportsHandler.GetExportLimit)
		superadminRoutes.DELETE("/export-limit/:adminId", reportsHandler.ResetExportLimit)
		superadminRoutes.DELETE("/export-limits", reportsHandler.ResetAllExportLimits)
	}

	// ========== Audit Logs (Superadmin Only) ==========
	auditRoutes := protected.Group("/auditlogs")
	auditRoutes.Use(middleware.RBACMiddleware(middleware.RoleSuperadmin))
	{
		auditRoutes.GET("", auditHandler.GetAuditLogs)
	}
}
