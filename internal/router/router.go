package router

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"whatsdesk-go/internal/auth"
	"whatsdesk-go/internal/config"
	"whatsdesk-go/internal/handler"
)

// SetupRouter configures the Gin router with routes and middleware
func SetupRouter(cfg *config.Config, h *handler.Handlers, jwt *auth.JWT) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(loggerMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Provider webhooks are signature-verified, not token-authenticated.
	r.POST("/webhooks/provider", h.InboundWebhook)
	r.POST("/webhooks/provider/status", h.DeliveryStatusCallback)

	api := r.Group("/api/v1")
	api.Use(jwt.Middleware())
	{
		api.GET("/clients", h.GetClients)
		api.POST("/clients", h.CreateClient)
		api.GET("/clients/stats", h.GetClientStats)
		api.GET("/clients/:id", h.GetClient)
		api.PUT("/clients/:id", h.UpdateClient)
		api.DELETE("/clients/:id", h.DeleteClient)
		api.PATCH("/clients/:id/archive", h.ArchiveClient)
		api.PATCH("/clients/:id/activate", h.ActivateClient)
		api.POST("/clients/:id/labels/:labelId", h.AssignLabel)
		api.DELETE("/clients/:id/labels/:labelId", h.UnassignLabel)

		api.GET("/messages", h.GetMessages)
		api.POST("/messages/send", h.SendMessage)
		api.GET("/messages/conversations", h.GetConversations)
		api.POST("/messages/read", h.MarkMessagesRead)
		api.GET("/messages/stats", h.GetMessageStats)

		api.GET("/faqs", h.GetFAQs)
		api.POST("/faqs", h.CreateFAQ)
		api.PUT("/faqs/:id", h.UpdateFAQ)
		api.DELETE("/faqs/:id", h.DeleteFAQ)

		api.GET("/labels", h.GetLabels)
		api.POST("/labels", h.CreateLabel)
		api.PUT("/labels/:id", h.UpdateLabel)
		api.DELETE("/labels/:id", h.DeleteLabel)
		api.POST("/labels/refresh", h.RefreshLabels)
		api.POST("/labels/bootstrap", h.BootstrapLabels)

		api.GET("/settings", h.GetSettings)
		api.POST("/settings", h.UpdateSettings)

		api.GET("/provider/status", h.ProviderStatus)

		api.POST("/scheduler/start", h.StartScheduler)
		api.POST("/scheduler/stop", h.StopScheduler)
		api.POST("/scheduler/run-once", h.RunSchedulerOnce)
		api.GET("/scheduler/status", h.GetSchedulerStatus)
	}

	return r
}

func loggerMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	})
}
