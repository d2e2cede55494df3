package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushelp/faqbot/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
		errorHandlingMiddleware(handler.logger),
	)

	api := router.Group("/api/v1")
	{
		api.POST("/ask", handler.Ask)
		api.GET("/faqs", handler.ListFAQs)
		api.GET("/faqs/trending", handler.Trending)
		api.POST("/feedback", handler.Feedback)
	}

	if cfg.Admin.Enabled {
		admin := api.Group("/admin", adminMiddleware(cfg.Admin.PasswordHash))
		{
			admin.POST("/faqs", handler.AddFAQ)
			admin.PUT("/faqs/:position", handler.EditFAQ)
			admin.DELETE("/faqs/:position", handler.DeleteFAQ)
			admin.POST("/faqs/import", handler.ImportFAQs)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
