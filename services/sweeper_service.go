package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
)

// DefaultStaleThreshold is how long a reservation may sit Pending before a
// sweep cancels it.
const DefaultStaleThreshold = 2 * time.Hour

// SweeperService periodically cancels reservations that were created but
// never confirmed. It is stateless between runs: matching depends only on
// status and created_at at query time, so a skipped or crashed run
// self-heals on the next one.
type SweeperService struct {
	DB           *gorm.DB
	Reservations *ReservationService
	Clock        Clock
	Threshold    time.Duration
}

func NewSweeperService(db *gorm.DB, reservations *ReservationService, clock Clock, threshold time.Duration) *SweeperService {
	if clock == nil {
		clock = RealClock{}
	}
	if threshold <= 0 {
		threshold = DefaultStaleThreshold
	}
	return &SweeperService{
		DB:           db,
		Reservations: reservations,
		Clock:        clock,
		Threshold:    threshold,
	}
}

// SweepResult summarizes one sweep run.
type SweepResult struct {
	Matched   int `json:"matched"`
	Cancelled int `json:"cancelled"`
	Skipped   int `json:"skipped"` // raced away from Pending before we got to it
	Failed    int `json:"failed"`
}

// Sweep cancels every Pending reservation older than the threshold with
// reason "expired". Each reservation is handled independently: a failure is
// logged and counted but never aborts the rest of the batch. Cancellations
// that lose a race to a staff action count as skipped, not failed.
func (s *SweeperService) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	cutoff := s.Clock.Now().UTC().Add(-s.Threshold)

	var ids []uint
	err := s.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("status = ? AND created_at <= ?", models.StatusPending, cutoff).
		Order("created_at").
		Pluck("id", &ids).Error
	if err != nil {
		return result, err
	}
	result.Matched = len(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		_, changed, err := s.Reservations.Cancel(ctx, id, "expired")
		switch {
		case err == nil && changed:
			result.Cancelled++
		case err == nil:
			result.Skipped++
		case errors.Is(err, ErrInvalidTransition):
			result.Skipped++
			log.Printf("sweep: reservation %d moved on before expiry cancel (%v)", id, err)
		default:
			result.Failed++
			log.Printf("sweep: cancel reservation %d failed: %v", id, err)
		}
	}

	if result.Matched > 0 {
		log.Printf("sweep: %d stale pending matched, %d cancelled, %d skipped, %d failed",
			result.Matched, result.Cancelled, result.Skipped, result.Failed)
	}
	return result, nil
}

// Run invokes Sweep on a fixed cadence until the context is cancelled.
// Deployments using an external scheduler can skip Run and hit the sweep
// endpoint instead.
func (s *SweeperService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("sweep: run failed: %v", err)
			}
		}
	}
}
