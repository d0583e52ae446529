package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
)

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "room_management")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	), nil
}

// ConnectDatabase opens the MySQL connection, migrates the schema and seeds
// baseline data. The handle is returned, not stashed in a global: callers
// inject it into the services that need it.
func ConnectDatabase() (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}

	// Parent -> child order so FK creation succeeds.
	if err := db.AutoMigrate(
		&models.RoomCategory{},
		&models.Room{},
		&models.ServiceCatalogEntry{},
		&models.Reservation{},
		&models.ServiceLineItem{},
	); err != nil {
		return nil, err
	}

	SeedDatabase(db)
	return db, nil
}

// SeedDatabase inserts baseline room categories and catalog services on an
// empty database so a fresh install is bookable immediately.
func SeedDatabase(db *gorm.DB) {
	var catCount int64
	db.Model(&models.RoomCategory{}).Count(&catCount)
	if catCount == 0 {
		categories := []models.RoomCategory{
			{TypeName: "Standard", Description: "Standard Room", NightlyRate: 1500, MaxGuests: 2},
			{TypeName: "Superior", Description: "Superior Room", NightlyRate: 2200, MaxGuests: 3},
			{TypeName: "Deluxe", Description: "Deluxe Room", NightlyRate: 3000, MaxGuests: 4},
			{TypeName: "Family", Description: "Family Suite", NightlyRate: 4200, MaxGuests: 5},
		}
		if err := db.Create(&categories).Error; err != nil {
			log.Printf("warning: failed to seed room categories: %v", err)
		} else {
			log.Println("Room categories seeded")
		}
	}

	var svcCount int64
	db.Model(&models.ServiceCatalogEntry{}).Count(&svcCount)
	if svcCount == 0 {
		services := []models.ServiceCatalogEntry{
			{Name: "Breakfast", UnitPrice: 350},
			{Name: "Extra Bed", UnitPrice: 500},
			{Name: "Airport Pickup", UnitPrice: 800},
			{Name: "Late Checkout", UnitPrice: 600},
		}
		if err := db.Create(&services).Error; err != nil {
			log.Printf("warning: failed to seed service catalog: %v", err)
		} else {
			log.Println("Service catalog seeded")
		}
	}
}
