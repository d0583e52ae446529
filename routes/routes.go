package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kayceelyoDev/RoomManagement-sub001/controllers"
	"github.com/kayceelyoDev/RoomManagement-sub001/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires controller instances onto the HTTP surface. Mutating
// routes sit behind the staff API key; reads are open.
func SetupRouter(
	rc *controllers.ReservationController,
	roomCtrl *controllers.RoomController,
	catCtrl *controllers.RoomCategoryController,
	svcCtrl *controllers.ServiceCatalogController,
	apiKey string,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	staff := middleware.RequireAPIKey(apiKey)

	api := r.Group("/api")
	{
		reservations := api.Group("/reservations")
		{
			reservations.GET("", rc.ListReservations)
			// /ref must register before /:id.
			reservations.GET("/ref/:code", rc.GetReservationByReference)
			reservations.GET("/:id", rc.GetReservation)
			reservations.POST("", rc.CreateReservation)
			reservations.POST("/:id/confirm", staff, rc.ConfirmReservation)
			reservations.POST("/:id/checkin", staff, rc.CheckIn)
			reservations.POST("/:id/checkout", staff, rc.CheckOut)
			reservations.POST("/:id/cancel", staff, rc.Cancel)
			reservations.POST("/:id/services", staff, rc.AddService)
		}

		api.POST("/sweep", staff, rc.TriggerSweep)

		rooms := api.Group("/rooms")
		{
			// /available must register before /:id.
			rooms.GET("/available", roomCtrl.GetAvailableRooms)
			rooms.GET("", roomCtrl.GetRooms)
			rooms.GET("/:id", roomCtrl.GetRoom)
			rooms.POST("", staff, roomCtrl.CreateRoom)
			rooms.PUT("/:id", staff, roomCtrl.UpdateRoom)
			rooms.PATCH("/:id/status", staff, roomCtrl.SetRoomStatus)
			rooms.DELETE("/:id", staff, roomCtrl.DeleteRoom)
		}

		categories := api.Group("/room-categories")
		{
			categories.GET("", catCtrl.GetCategories)
			categories.GET("/:id", catCtrl.GetCategory)
			categories.POST("", staff, catCtrl.CreateCategory)
			categories.DELETE("/:id", staff, catCtrl.DeleteCategory)
		}

		catalog := api.Group("/services")
		{
			catalog.GET("", svcCtrl.GetServices)
			catalog.GET("/:id", svcCtrl.GetService)
			catalog.POST("", staff, svcCtrl.CreateService)
			catalog.PATCH("/:id/price", staff, svcCtrl.UpdateServicePrice)
			catalog.DELETE("/:id", staff, svcCtrl.DeleteService)
		}
	}

	return r
}
