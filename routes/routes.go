package routes

import (
	"net/http"
	"time"

	"dulai/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes registers the assistant endpoint.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/chat", hb.ChatHandler)
}

// RegisterHealthRoute registers the health-check endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	probe := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "dulai-tree-api"})
	}
	r.GET("/", probe)
	r.GET("/health", probe)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterChatRoutes(r, hb)
}
