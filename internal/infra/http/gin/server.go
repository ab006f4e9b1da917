package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/infra/config"
	"stayfinder/internal/infra/obs"
)

type PropertyHTTP interface {
	Catalog(c *gin.Context)
	Get(c *gin.Context)
	Calendar(c *gin.Context)
	Quote(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
}

type MeHTTP interface {
	ListBookings(c *gin.Context)
}

type AdminHTTP interface {
	ListUsers(c *gin.Context)
	ListBookings(c *gin.Context)
	CreateProperty(c *gin.Context)
	UpdateProperty(c *gin.Context)
	DeleteProperty(c *gin.Context)
	UploadImage(c *gin.Context)
}

type Handlers struct {
	Property       PropertyHTTP
	Booking        BookingHTTP
	Me             MeHTTP
	Auth           AuthHTTP
	Admin          AdminHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Property != nil {
		api.GET("/properties", h.Property.Catalog)
		api.GET("/properties/:id", h.Property.Get)
		api.GET("/properties/:id/calendar", h.Property.Calendar)
		api.GET("/properties/:id/quote", h.Property.Quote)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/bookings", h.Me.ListBookings)
	}
	if h.Admin != nil {
		adminGroup := api.Group("/admin")
		adminGroup.GET("/users", h.Admin.ListUsers)
		adminGroup.GET("/bookings", h.Admin.ListBookings)
		adminGroup.POST("/properties", h.Admin.CreateProperty)
		adminGroup.PUT("/properties/:id", h.Admin.UpdateProperty)
		adminGroup.DELETE("/properties/:id", h.Admin.DeleteProperty)
		adminGroup.POST("/properties/images", h.Admin.UploadImage)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
