package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"eventhub/internal/authz"
	"eventhub/internal/handlers"
	"eventhub/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	departmentHandler *handlers.DepartmentHandler,
	eventHandler *handlers.EventHandler,
	taskHandler *handlers.TaskHandler,
	partnershipHandler *handlers.PartnershipHandler,
	contactHandler *handlers.ContactHandler,
	jobsHandler *handlers.JobsHandler, // nil when background jobs are disabled
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.GET("/healthz", healthHandler.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ---- protected
	api := r.Group("/api", middleware.AuthMiddleware(jwtSecret), middleware.ReadOnlyGuard())

	api.GET("/me", userHandler.Me)
	api.POST("/logout", authHandler.Logout)

	editors := middleware.RequireRoles(authz.RoleAdmin, authz.RoleManager)

	// USERS (Admin)
	users := api.Group("/users", middleware.RequireRoles(authz.RoleAdmin))
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	// DEPARTMENTS
	departments := api.Group("/departments")
	{
		departments.GET("", departmentHandler.List)
		departments.GET("/:id", departmentHandler.GetByID)
		departments.POST("", editors, departmentHandler.Create)
		departments.PUT("/:id", editors, departmentHandler.Update)
		departments.DELETE("/:id", editors, departmentHandler.Delete)
	}

	// EVENTS
	events := api.Group("/events")
	{
		events.POST("/import", editors, eventHandler.Import)
		events.GET("", eventHandler.List)
		events.GET("/:id", eventHandler.GetByID)
		events.GET("/:id/departments", eventHandler.ListDepartments)
		events.POST("", editors, eventHandler.Create)
		events.PUT("/:id", editors, eventHandler.Update)
		events.DELETE("/:id", editors, eventHandler.Delete)
		events.POST("/:id/departments", editors, eventHandler.LinkDepartment)
	}

	// TASKS (staff are confined to their department inside the handler)
	tasks := api.Group("/tasks")
	{
		tasks.GET("/pending-range", taskHandler.PendingRange)
		tasks.GET("/pending-range/pdf", taskHandler.PendingRangePDF)
		tasks.POST("", taskHandler.Create)
		tasks.GET("", taskHandler.GetAll)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.POST("/:id/status", taskHandler.ChangeStatus)
		tasks.DELETE("/:id", middleware.RequireRoles(authz.RoleAdmin), taskHandler.Delete)
	}

	// PARTNERSHIPS
	partnerships := api.Group("/partnerships")
	{
		partnerships.GET("", partnershipHandler.List)
		partnerships.GET("/:id", partnershipHandler.GetByID)
		partnerships.GET("/:id/inactivity", partnershipHandler.Inactivity)
		partnerships.GET("/:id/activities", partnershipHandler.ListActivities)
		partnerships.POST("/:id/activities", partnershipHandler.AddActivity)
		partnerships.POST("", editors, partnershipHandler.Create)
		partnerships.PUT("/:id", editors, partnershipHandler.Update)
		partnerships.DELETE("/:id", editors, partnershipHandler.Delete)
		partnerships.PUT("/:id/inactivity-settings", editors, partnershipHandler.UpdateInactivitySettings)
	}

	// CONTACTS
	contacts := api.Group("/contacts")
	{
		contacts.GET("/export", contactHandler.Export)
		contacts.POST("/import", editors, contactHandler.Import)
		contacts.POST("", contactHandler.Create)
		contacts.GET("", contactHandler.List)
		contacts.GET("/:id", contactHandler.GetByID)
		contacts.PUT("/:id", contactHandler.Update)
		contacts.DELETE("/:id", editors, contactHandler.Delete)
	}

	// JOBS (Admin)
	if jobsHandler != nil {
		jobs := api.Group("/jobs", middleware.RequireRoles(authz.RoleAdmin))
		{
			jobs.POST("/inactivity-check", jobsHandler.RunInactivityCheck)
			jobs.POST("/pending-digest", jobsHandler.RunPendingDigest)
		}
	}

	return r
}
