package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
)

// newTestDB opens a per-test in-memory sqlite database. cache=shared plus a
// single pooled connection keeps the database alive and serializes access,
// which is what the MySQL deployment's transactions give us in production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.RoomCategory{},
		&models.Room{},
		&models.ServiceCatalogEntry{},
		&models.Reservation{},
		&models.ServiceLineItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string, rate float64, maxGuests int) *models.RoomCategory {
	t.Helper()
	cat := models.RoomCategory{TypeName: name, NightlyRate: rate, MaxGuests: maxGuests}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return &cat
}

func seedRoom(t *testing.T, db *gorm.DB, categoryID uint, number string) *models.Room {
	t.Helper()
	room := models.Room{RoomCategoryID: categoryID, RoomNumber: number, Status: models.RoomAvailable}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return &room
}

func seedCatalogEntry(t *testing.T, db *gorm.DB, name string, price float64) *models.ServiceCatalogEntry {
	t.Helper()
	entry := models.ServiceCatalogEntry{Name: name, UnitPrice: price}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("seed catalog entry: %v", err)
	}
	return &entry
}

// fakeClock is a settable Clock for deterministic sweeps and timestamps.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock { return &fakeClock{now: now} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingNotifier captures cancellation events. Dispatch is asynchronous,
// so tests wait with awaitEvents rather than reading the slice directly.
type recordingNotifier struct {
	mu     sync.Mutex
	events []CancellationEvent
}

func (n *recordingNotifier) NotifyCancelled(_ context.Context, ev CancellationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func (n *recordingNotifier) snapshot() []CancellationEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]CancellationEvent, len(n.events))
	copy(out, n.events)
	return out
}

// awaitEvents waits for at least want events, then settles briefly to catch
// any surplus dispatches before returning what arrived.
func (n *recordingNotifier) awaitEvents(t *testing.T, want int) []CancellationEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(n.snapshot()) >= want {
			time.Sleep(50 * time.Millisecond)
			return n.snapshot()
		}
		time.Sleep(10 * time.Millisecond)
	}
	got := n.snapshot()
	t.Fatalf("timed out waiting for %d events, got %d", want, len(got))
	return got
}
