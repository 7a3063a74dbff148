package server

import (
	"context"
	"net/http"
	"time"

	"fitstudio/internal/booking"
	"fitstudio/internal/catalog"
	"fitstudio/internal/config"

	"github.com/gin-gonic/gin"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	config *config.Config
}

func New(cfg *config.Config, catalogService catalog.Service, bookingService booking.Service) *Server {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
	)

	catalogHandler := catalog.NewHandler(catalogService, cfg.DefaultTimezone)
	bookingHandler := booking.NewHandler(bookingService)

	router.GET("/", Root)
	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	public := router.Group("/")
	public.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		public.GET("/classes", catalogHandler.ListClasses)
		public.POST("/book", bookingHandler.Book)
		public.GET("/bookings", bookingHandler.ListBookings)
	}

	return &Server{
		router: router,
		config: cfg,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
