package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kayceelyoDev/RoomManagement-sub001/config"
	"github.com/kayceelyoDev/RoomManagement-sub001/controllers"
	"github.com/kayceelyoDev/RoomManagement-sub001/routes"
	"github.com/kayceelyoDev/RoomManagement-sub001/services"
)

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func envDurationHours(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("warning: ignoring invalid %s=%q", key, raw)
		return def
	}
	return time.Duration(n) * time.Hour
}

func envDurationMinutes(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("warning: ignoring invalid %s=%q", key, raw)
		return def
	}
	return time.Duration(n) * time.Minute
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	log.Println("database connection established, migrations applied")

	// Optional infrastructure: both degrade gracefully when absent.
	cache := config.NewRedisClient()
	if cache == nil {
		log.Println("redis not configured, room listings served uncached")
	}
	notifier := services.NewNotifierFromEnv()

	clock := services.RealClock{}
	availability := services.NewAvailabilityService()
	reservationSvc := services.NewReservationService(
		db,
		availability,
		notifier,
		clock,
		envBool("ENFORCE_ROOM_CAPACITY"),
	)
	sweeper := services.NewSweeperService(
		db,
		reservationSvc,
		clock,
		envDurationHours("STALE_PENDING_HOURS", services.DefaultStaleThreshold),
	)
	roomSvc := services.NewRoomService(db, cache, availability)
	categorySvc := services.NewRoomCategoryService(db)
	catalogSvc := services.NewServiceCatalogService(db)

	reservationCtrl := controllers.NewReservationController(reservationSvc, sweeper)
	roomCtrl := controllers.NewRoomController(roomSvc, clock)
	categoryCtrl := controllers.NewRoomCategoryController(categorySvc)
	catalogCtrl := controllers.NewServiceCatalogController(catalogSvc)

	apiKey := os.Getenv("STAFF_API_KEY")
	if apiKey == "" {
		log.Println("STAFF_API_KEY not set, staff routes are unauthenticated")
	}

	router := routes.SetupRouter(reservationCtrl, roomCtrl, categoryCtrl, catalogCtrl, apiKey)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweeper.Run(ctx, envDurationMinutes("SWEEP_INTERVAL_MINUTES", 15*time.Minute))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	log.Println("server stopped")
}
