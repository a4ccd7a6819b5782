package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/crbservicos/field-api/internal/handler"    // import the handlers that implement business logic
	"github.com/crbservicos/field-api/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// Handlers collects every resource handler the router mounts.  main builds
// this once with the concrete repositories wired in.
type Handlers struct {
	Auth      *handler.AuthHandler
	Records   *handler.RecordHandler
	Locations *handler.LocationHandler
	Services  *handler.ServiceHandler
	Goals     *handler.GoalHandler
	Users     *handler.UserHandler
	AuditLog  *handler.AuditLogHandler
}

// Register mounts every route of the API on the provided Echo instance.
// Open endpoints (health, banner, login) take no middleware; everything
// else under /api composes the two authorization gates explicitly: JWTAuth
// resolves the identity (401 on failure) and RequireAdmin enforces the
// admin predicate (403) on the routes that need it.
func Register(e *echo.Echo, h Handlers, jwtSecret string) {
	// Health check for load balancers and deploy probes.
	e.GET("/healthz", handler.Health)
	// Banner confirming the API is reachable.
	e.GET("/api", handler.Root)

	// Session management.  Login, refresh and logout operate without an
	// access token; /me requires one.
	auth := e.Group("/api/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me, middleware.JWTAuth(jwtSecret))

	// Every remaining /api route requires a valid access token.
	api := e.Group("/api", middleware.JWTAuth(jwtSecret))
	admin := middleware.RequireAdmin()

	// Records: any authenticated user can list, read, create, upload
	// photos and close records; deletion is an admin action with an
	// audit trail.
	api.GET("/records", h.Records.List)
	api.GET("/records/:id", h.Records.Get)
	api.POST("/records", h.Records.Create)
	api.POST("/records/:id/photos", h.Records.UploadPhotos)
	api.PUT("/records/:id", h.Records.Update)
	api.DELETE("/records/:id", h.Records.Delete, admin)

	// Locations: readable by any authenticated user, writable by admins.
	api.GET("/locations", h.Locations.List)
	api.POST("/locations", h.Locations.Create, admin)
	api.PUT("/locations/:id", h.Locations.Update, admin)
	api.DELETE("/locations/:id", h.Locations.Delete, admin)

	// Services: same split as locations.
	api.GET("/services", h.Services.List)
	api.POST("/services", h.Services.Create, admin)
	api.PUT("/services/:id", h.Services.Update, admin)
	api.DELETE("/services/:id", h.Services.Delete, admin)

	// Goals, users and the audit trail are admin-only surfaces.
	api.GET("/goals", h.Goals.List, admin)
	api.POST("/goals", h.Goals.Create, admin)
	api.PUT("/goals/:id", h.Goals.Update, admin)
	api.DELETE("/goals/:id", h.Goals.Delete, admin)

	api.GET("/users", h.Users.List, admin)
	api.POST("/users", h.Users.Create, admin)
	api.PUT("/users/:id", h.Users.Update, admin)
	api.DELETE("/users/:id", h.Users.Delete, admin)

	api.GET("/audit-log", h.AuditLog.List, admin)
}
