package inventory

import (
	"context"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationService manages soft holds on stock. Reservations never change
// on-hand quantity; they reduce availability until released.
type ReservationService struct {
	scope           TransactionScope
	reservationRepo inventory.ReservationRepository
	logger          *zap.Logger
	clock           Clock
}

// NewReservationService creates a new ReservationService
func NewReservationService(
	scope TransactionScope,
	reservationRepo inventory.ReservationRepository,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		scope:           scope,
		reservationRepo: reservationRepo,
		logger:          logger,
		clock:           systemClock{},
	}
}

// Create reserves stock for a warehouse-product pair. The availability check
// and the insert run under the stock record's row lock so two concurrent
// reservations cannot both fit into the same remaining availability.
func (s *ReservationService) Create(ctx context.Context, companyID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error) {
	originType := inventory.OriginType(req.OriginType)
	if !originType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid origin type")
	}

	var reservation *inventory.Reservation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		record, err := repos.StockRecordRepo().FindForUpdate(ctx, companyID, req.WarehouseID, req.ProductID)
		if err != nil {
			if shared.IsNotFound(err) {
				return inventory.ErrInsufficientAvailableStock
			}
			return err
		}

		now := s.clock.Now()
		reserved, err := repos.ReservationRepo().SumActiveByStockRecord(ctx, companyID, record.ID, now)
		if err != nil {
			return err
		}
		available := record.QuantityOnHand.Sub(reserved)
		if available.LessThan(req.Quantity) {
			return inventory.ErrInsufficientAvailableStock
		}

		reservation, err = inventory.NewReservation(
			companyID, record.ID, req.WarehouseID, req.ProductID,
			req.Quantity, originType, req.ExpiresAt,
		)
		if err != nil {
			return err
		}
		if req.OriginID != nil {
			reservation.WithOriginID(*req.OriginID)
		}
		if req.Reference != "" {
			reservation.WithReference(req.Reference)
		}
		return repos.ReservationRepo().Save(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created reservation",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("quantity", reservation.Quantity.String()),
	)

	response := ToReservationResponse(reservation)
	return &response, nil
}

// Confirm moves a pending reservation to confirmed. Idempotent.
func (s *ReservationService) Confirm(ctx context.Context, companyID, reservationID uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, companyID, reservationID)
	if err != nil {
		return nil, err
	}
	if err := reservation.Confirm(); err != nil {
		return nil, err
	}
	if err := s.reservationRepo.SaveWithLock(ctx, reservation); err != nil {
		return nil, err
	}
	response := ToReservationResponse(reservation)
	return &response, nil
}

// Cancel releases an active reservation. Idempotent.
func (s *ReservationService) Cancel(ctx context.Context, companyID, reservationID uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, companyID, reservationID)
	if err != nil {
		return nil, err
	}
	if err := reservation.Cancel(); err != nil {
		return nil, err
	}
	if err := s.reservationRepo.SaveWithLock(ctx, reservation); err != nil {
		return nil, err
	}

	s.logger.Info("Cancelled reservation", zap.String("reservation_id", reservationID.String()))

	response := ToReservationResponse(reservation)
	return &response, nil
}

// GetByID retrieves a reservation by ID
func (s *ReservationService) GetByID(ctx context.Context, companyID, reservationID uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, companyID, reservationID)
	if err != nil {
		return nil, err
	}
	response := ToReservationResponse(reservation)
	return &response, nil
}

// List retrieves reservations with filtering and pagination
func (s *ReservationService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]ReservationResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	reservations, err := s.reservationRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.reservationRepo.Count(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToReservationResponses(reservations), total, nil
}
