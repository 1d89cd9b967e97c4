package routes

import (
	"net/http"
	"time"

	"aitana/handlers"
	"aitana/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes registers the conversational endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/chat", hb.Chat.HandleChat)
	r.POST("/send-notification", hb.Notification.HandleSendNotification)
}

// RegisterShopRoutes registers the roster, appointment and upload
// pass-throughs.
func RegisterShopRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/roster", hb.Roster.HandleGetRoster)
	r.POST("/appointments", hb.Appointments.HandleCreateAppointment)
	r.GET("/appointments", hb.Appointments.HandleListAppointments)
	r.POST("/upload", hb.Storage.HandleUpload)
}

// RegisterAdminRoutes sets up endpoints for back-office operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AdminAuthMiddleware())
		adminGroup.GET("/handoffs", hb.Records.HandleListHandoffs)
	}
}

// RegisterStaticRoutes serves the widget assets and the welcome redirect.
func RegisterStaticRoutes(r *gin.Engine) {
	r.Static("/static", "./public")
	r.StaticFile("/welcome.html", "./public/welcome.html")
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/welcome.html")
	})
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Aitana"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterChatRoutes(r, hb)
	RegisterShopRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterStaticRoutes(r)
	RegisterHealthRoute(r)
}
