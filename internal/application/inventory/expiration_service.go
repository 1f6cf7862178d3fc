package inventory

import (
	"context"
	"time"

	"github.com/facturacion/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

// DefaultExpirationBatchSize caps how many reservations one sweep processes
const DefaultExpirationBatchSize = 500

// ReservationExpirationService sweeps reservations past their expiration
// time and marks them expired, releasing their hold on availability. The
// sweep is a periodic job; availability math already ignores overdue
// reservations, so a late sweep only delays the status change, not the
// released quantity.
type ReservationExpirationService struct {
	reservationRepo inventory.ReservationRepository
	logger          *zap.Logger
	clock           Clock
}

// NewReservationExpirationService creates a new ReservationExpirationService
func NewReservationExpirationService(
	reservationRepo inventory.ReservationRepository,
	logger *zap.Logger,
) *ReservationExpirationService {
	return &ReservationExpirationService{
		reservationRepo: reservationRepo,
		logger:          logger,
		clock:           systemClock{},
	}
}

// ExpirationStats contains statistics of one sweep
type ExpirationStats struct {
	TotalFound  int       `json:"total_found"`
	Expired     int       `json:"expired"`
	Failed      int       `json:"failed"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ExpireOverdue finds active reservations past their expiration time and
// marks them expired
func (s *ReservationExpirationService) ExpireOverdue(ctx context.Context) (*ExpirationStats, error) {
	now := s.clock.Now()
	stats := &ExpirationStats{ProcessedAt: now}

	overdue, err := s.reservationRepo.FindExpiredPending(ctx, now, DefaultExpirationBatchSize)
	if err != nil {
		s.logger.Error("Failed to find overdue reservations", zap.Error(err))
		return nil, err
	}

	stats.TotalFound = len(overdue)
	if stats.TotalFound == 0 {
		return stats, nil
	}

	for i := range overdue {
		reservation := &overdue[i]
		if err := reservation.Expire(now); err != nil {
			s.logger.Warn("Skipped reservation during expiry sweep",
				zap.String("reservation_id", reservation.ID.String()),
				zap.Error(err),
			)
			stats.Failed++
			continue
		}
		if err := s.reservationRepo.SaveWithLock(ctx, reservation); err != nil {
			s.logger.Error("Failed to persist expired reservation",
				zap.String("reservation_id", reservation.ID.String()),
				zap.Error(err),
			)
			stats.Failed++
			continue
		}
		stats.Expired++
	}

	s.logger.Info("Completed reservation expiry sweep",
		zap.Int("found", stats.TotalFound),
		zap.Int("expired", stats.Expired),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

// Run sweeps on the given interval until the context is cancelled
func (s *ReservationExpirationService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Reservation expiry sweep started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Reservation expiry sweep stopped")
			return
		case <-ticker.C:
			if _, err := s.ExpireOverdue(ctx); err != nil {
				s.logger.Error("Reservation expiry sweep failed", zap.Error(err))
			}
		}
	}
}
