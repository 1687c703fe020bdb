package api

import (
	"catalog_system/internal/config"     // Application configuration
	"catalog_system/internal/middleware" // Guards, logging, metrics
	"catalog_system/internal/service"    // Business services
	"catalog_system/internal/session"    // Session manager

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Deps are the collaborators the HTTP surface is built from
type Deps struct {
	Config        *config.Config
	DB            *gorm.DB
	Auth          *service.AuthService
	Sessions      *session.Manager
	Categories    *service.CategoryService
	Logos         *service.LogoService
	PrintSettings *service.PrintSettingsService
	Products      *service.ProductService
	Metrics       *middleware.Metrics
	LoginLimiter  *middleware.RateLimiter
}

// NewRouter wires every route onto a new gin engine
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	r := gin.New()

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.WithError(err).Warn("Failed to set trusted proxies")
	}
	r.MaxMultipartMemory = service.MaxLogoSize + 1<<20

	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		d.Metrics.Middleware(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.LoadSession(d.Sessions, d.Auth),
	)

	r.GET("/health", HealthHandler(d.DB))
	r.GET("/metrics", d.Metrics.Handler())
	r.Static("/uploads", cfg.UploadDir) // Stored logo files

	// Pages
	r.GET("/login", LoginPageHandler(cfg.WebDir))
	r.GET("/", middleware.RequireAuthPage(), PageHandler(cfg.WebDir, "index.html"))
	r.GET("/admin", middleware.RequireAdminPage(), PageHandler(cfg.WebDir, "admin.html"))

	api := r.Group("/api")
	authed := middleware.RequireAuth()
	admin := middleware.RequireAdmin()

	// Auth routes
	api.POST("/auth/login", d.LoginLimiter.Middleware(), LoginHandler(d.Auth, d.Sessions, d.Metrics, cfg.IsProd))
	api.POST("/auth/logout", LogoutHandler(d.Sessions, cfg.IsProd))
	api.GET("/auth/me", authed, MeHandler())

	// User management (admin only)
	users := api.Group("/users", admin)
	users.GET("", ListUsersHandler(d.Auth))
	users.POST("", CreateUserHandler(d.Auth))
	users.PUT("/:id", UpdateUserHandler(d.Auth))
	users.DELETE("/:id", DeleteUserHandler(d.Auth))
	users.POST("/:id/toggle-status", ToggleUserStatusHandler(d.Auth))

	api.GET("/categories", authed, ListCategoriesHandler(d.Categories))
	api.POST("/categories", admin, CreateCategoryHandler(d.Categories))
	api.PUT("/categories/:id", admin, UpdateCategoryHandler(d.Categories))
	api.DELETE("/categories/:id", admin, DeleteCategoryHandler(d.Categories))

	api.GET("/logos", authed, ListLogosHandler(d.Logos))
	api.POST("/logos", admin, UploadLogoHandler(d.Logos))
	api.DELETE("/logos/:id", admin, DeleteLogoHandler(d.Logos))

	api.GET("/print-settings", authed, GetPrintSettingsHandler(d.PrintSettings))
	api.POST("/print-settings", authed, SavePrintSettingsHandler(d.PrintSettings))

	api.GET("/products", authed, ListProductsHandler(d.Products))
	api.GET("/products/:code", authed, GetProductHandler(d.Products))
	api.POST("/products", admin, CreateProductHandler(d.Products))
	api.PUT("/products/:code", admin, UpdateProductHandler(d.Products))
	api.DELETE("/products/:code", admin, DeleteProductHandler(d.Products))

	return r
}
