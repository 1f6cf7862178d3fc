package inventory

import (
	"context"
	"time"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertService serves stock alerts. Alerts are derived from current stock
// state: the movement engine rewrites them on every posting, and this
// service can re-evaluate a whole company on demand (after threshold edits,
// or as a periodic job).
type AlertService struct {
	scope           TransactionScope
	alertRepo       inventory.AlertRepository
	stockRecordRepo inventory.StockRecordRepository
	lotRepo         inventory.LotRepository
	expiryWindow    time.Duration
	logger          *zap.Logger
	clock           Clock
}

// NewAlertService creates a new AlertService. A zero expiryWindow falls back
// to DefaultExpiryAlertWindow.
func NewAlertService(
	scope TransactionScope,
	alertRepo inventory.AlertRepository,
	stockRecordRepo inventory.StockRecordRepository,
	lotRepo inventory.LotRepository,
	expiryWindow time.Duration,
	logger *zap.Logger,
) *AlertService {
	if expiryWindow <= 0 {
		expiryWindow = DefaultExpiryAlertWindow
	}
	return &AlertService{
		scope:           scope,
		alertRepo:       alertRepo,
		stockRecordRepo: stockRecordRepo,
		lotRepo:         lotRepo,
		expiryWindow:    expiryWindow,
		logger:          logger,
		clock:           systemClock{},
	}
}

// ListOpen retrieves unacknowledged alerts
func (s *AlertService) ListOpen(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]AlertResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	alerts, err := s.alertRepo.FindOpen(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.alertRepo.Count(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToAlertResponses(alerts), total, nil
}

// Acknowledge marks an alert as seen
func (s *AlertService) Acknowledge(ctx context.Context, companyID, alertID, userID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByID(ctx, companyID, alertID)
	if err != nil {
		return nil, err
	}
	alert.Acknowledge(userID, s.clock.Now())
	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return nil, err
	}
	response := ToAlertResponse(alert)
	return &response, nil
}

// Assign hands an alert to a user for follow-up
func (s *AlertService) Assign(ctx context.Context, companyID, alertID, userID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByID(ctx, companyID, alertID)
	if err != nil {
		return nil, err
	}
	alert.Assign(userID)
	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return nil, err
	}
	response := ToAlertResponse(alert)
	return &response, nil
}

// Refresh re-derives the open alerts of one stock record from current state
func (s *AlertService) Refresh(ctx context.Context, companyID, recordID uuid.UUID) ([]AlertResponse, error) {
	var alerts []*inventory.Alert
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		record, err := repos.StockRecordRepo().FindByID(ctx, companyID, recordID)
		if err != nil {
			return err
		}
		if err := repos.AlertRepo().DeleteOpenByStockRecord(ctx, companyID, record.ID); err != nil {
			return err
		}
		now := s.clock.Now()
		alerts = inventory.EvaluateStockAlerts(record)
		lots, err := repos.LotRepo().FindByStockRecord(ctx, companyID, record.ID)
		if err != nil {
			return err
		}
		alerts = append(alerts, inventory.EvaluateLotAlerts(record, lots, now, s.expiryWindow)...)
		for _, alert := range alerts {
			if err := repos.AlertRepo().Save(ctx, alert); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	responses := make([]AlertResponse, len(alerts))
	for i, alert := range alerts {
		responses[i] = ToAlertResponse(alert)
	}
	return responses, nil
}

// RefreshAll re-derives alerts for every stock record of a company. Meant
// for the periodic evaluation job; expiry alerts appear without any movement
// happening, so posting-time refresh alone is not enough.
func (s *AlertService) RefreshAll(ctx context.Context, companyID uuid.UUID) (int, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 200
	refreshed := 0

	for {
		records, err := s.stockRecordRepo.FindAll(ctx, companyID, filter)
		if err != nil {
			return refreshed, err
		}
		if len(records) == 0 {
			break
		}
		for i := range records {
			if _, err := s.Refresh(ctx, companyID, records[i].ID); err != nil {
				s.logger.Warn("Failed to refresh alerts for stock record",
					zap.String("stock_record_id", records[i].ID.String()),
					zap.Error(err),
				)
				continue
			}
			refreshed++
		}
		if len(records) < filter.PageSize {
			break
		}
		filter.Page++
	}

	s.logger.Info("Refreshed stock alerts",
		zap.String("company_id", companyID.String()),
		zap.Int("records", refreshed),
	)
	return refreshed, nil
}

// SweepAll refreshes alerts for every company with stock records
func (s *AlertService) SweepAll(ctx context.Context) error {
	companyIDs, err := s.stockRecordRepo.ListCompanyIDs(ctx)
	if err != nil {
		return err
	}
	for _, companyID := range companyIDs {
		if _, err := s.RefreshAll(ctx, companyID); err != nil {
			s.logger.Error("Alert refresh failed for company",
				zap.String("company_id", companyID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Run sweeps alerts on the given interval until the context is cancelled
func (s *AlertService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Alert evaluation sweep started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Alert evaluation sweep stopped")
			return
		case <-ticker.C:
			if err := s.SweepAll(ctx); err != nil {
				s.logger.Error("Alert evaluation sweep failed", zap.Error(err))
			}
		}
	}
}
