package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/facturacion/backend/internal/domain/catalog"
	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// In-memory repositories backing the service tests. They store aggregates by
// ID and implement only the filtering the services actually exercise.

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindBySKU(_ context.Context, companyID uuid.UUID, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.CompanyID == companyID && p.SKU == strings.ToUpper(sku) {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, companyID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		if p.CompanyID == companyID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Count(_ context.Context, companyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r *fakeProductRepo) ExistsBySKU(ctx context.Context, companyID uuid.UUID, sku string) (bool, error) {
	_, err := r.FindBySKU(ctx, companyID, sku)
	if shared.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

type fakeWarehouseRepo struct {
	warehouses map[uuid.UUID]*catalog.Warehouse
}

func newFakeWarehouseRepo() *fakeWarehouseRepo {
	return &fakeWarehouseRepo{warehouses: make(map[uuid.UUID]*catalog.Warehouse)}
}

func (r *fakeWarehouseRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*catalog.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok || w.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return w, nil
}

func (r *fakeWarehouseRepo) FindByCode(_ context.Context, companyID uuid.UUID, code string) (*catalog.Warehouse, error) {
	for _, w := range r.warehouses {
		if w.CompanyID == companyID && w.Code == code {
			return w, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeWarehouseRepo) FindAll(_ context.Context, companyID uuid.UUID, _ shared.Filter) ([]catalog.Warehouse, error) {
	var out []catalog.Warehouse
	for _, w := range r.warehouses {
		if w.CompanyID == companyID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *fakeWarehouseRepo) Count(_ context.Context, companyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, w := range r.warehouses {
		if w.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r *fakeWarehouseRepo) ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error) {
	_, err := r.FindByCode(ctx, companyID, code)
	if shared.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeWarehouseRepo) Save(_ context.Context, warehouse *catalog.Warehouse) error {
	r.warehouses[warehouse.ID] = warehouse
	return nil
}

type fakeStockRecordRepo struct {
	records map[uuid.UUID]*inventory.StockRecord
}

func newFakeStockRecordRepo() *fakeStockRecordRepo {
	return &fakeStockRecordRepo{records: make(map[uuid.UUID]*inventory.StockRecord)}
}

func (r *fakeStockRecordRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*inventory.StockRecord, error) {
	rec, ok := r.records[id]
	if !ok || rec.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return rec, nil
}

func (r *fakeStockRecordRepo) FindByWarehouseAndProduct(_ context.Context, companyID, warehouseID, productID uuid.UUID) (*inventory.StockRecord, error) {
	for _, rec := range r.records {
		if rec.CompanyID == companyID && rec.WarehouseID == warehouseID && rec.ProductID == productID {
			return rec, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStockRecordRepo) FindForUpdate(ctx context.Context, companyID, warehouseID, productID uuid.UUID) (*inventory.StockRecord, error) {
	return r.FindByWarehouseAndProduct(ctx, companyID, warehouseID, productID)
}

func (r *fakeStockRecordRepo) FindByWarehouse(_ context.Context, companyID, warehouseID uuid.UUID, _ shared.Filter) ([]inventory.StockRecord, error) {
	var out []inventory.StockRecord
	for _, rec := range r.records {
		if rec.CompanyID == companyID && rec.WarehouseID == warehouseID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeStockRecordRepo) FindByProduct(_ context.Context, companyID, productID uuid.UUID, _ shared.Filter) ([]inventory.StockRecord, error) {
	var out []inventory.StockRecord
	for _, rec := range r.records {
		if rec.CompanyID == companyID && rec.ProductID == productID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeStockRecordRepo) FindAll(_ context.Context, companyID uuid.UUID, filter shared.Filter) ([]inventory.StockRecord, error) {
	var out []inventory.StockRecord
	for _, rec := range r.records {
		if rec.CompanyID != companyID {
			continue
		}
		if belowMin, ok := filter.Filters["below_minimum"].(bool); ok && belowMin && !rec.IsBelowMinimum() {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (r *fakeStockRecordRepo) FindBelowMinimum(_ context.Context, companyID uuid.UUID, _ shared.Filter) ([]inventory.StockRecord, error) {
	var out []inventory.StockRecord
	for _, rec := range r.records {
		if rec.CompanyID == companyID && rec.IsBelowMinimum() {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeStockRecordRepo) Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	records, err := r.FindAll(ctx, companyID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

func (r *fakeStockRecordRepo) ListCompanyIDs(_ context.Context) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for _, rec := range r.records {
		if !seen[rec.CompanyID] {
			seen[rec.CompanyID] = true
			ids = append(ids, rec.CompanyID)
		}
	}
	return ids, nil
}

func (r *fakeStockRecordRepo) Save(_ context.Context, record *inventory.StockRecord) error {
	r.records[record.ID] = record
	return nil
}

func (r *fakeStockRecordRepo) SaveWithLock(ctx context.Context, record *inventory.StockRecord) error {
	return r.Save(ctx, record)
}

type fakeMovementRepo struct {
	movements []*inventory.Movement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{}
}

func (r *fakeMovementRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*inventory.Movement, error) {
	for _, m := range r.movements {
		if m.CompanyID == companyID && m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMovementRepo) FindByStockRecord(_ context.Context, companyID, stockRecordID uuid.UUID, _ shared.Filter) ([]inventory.Movement, error) {
	var out []inventory.Movement
	for _, m := range r.movements {
		if m.CompanyID == companyID && m.StockRecordID == stockRecordID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) FindByOrigin(_ context.Context, companyID uuid.UUID, originType inventory.OriginType, originID string) ([]inventory.Movement, error) {
	var out []inventory.Movement
	for _, m := range r.movements {
		if m.CompanyID == companyID && m.OriginType == originType && m.OriginID == originID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) FindByLot(_ context.Context, companyID, lotID uuid.UUID) ([]inventory.Movement, error) {
	var out []inventory.Movement
	for _, m := range r.movements {
		if m.CompanyID == companyID && m.LotID != nil && *m.LotID == lotID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) FindAll(_ context.Context, companyID uuid.UUID, _ shared.Filter) ([]inventory.Movement, error) {
	var out []inventory.Movement
	for _, m := range r.movements {
		if m.CompanyID == companyID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) Count(_ context.Context, companyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, m := range r.movements {
		if m.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r *fakeMovementRepo) SumByStockRecord(_ context.Context, companyID, stockRecordID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.CompanyID == companyID && m.StockRecordID == stockRecordID {
			sum = sum.Add(m.SignedQuantity())
		}
	}
	return sum, nil
}

func (r *fakeMovementRepo) ExistsReversal(_ context.Context, companyID, movementID uuid.UUID) (bool, error) {
	for _, m := range r.movements {
		if m.CompanyID == companyID && m.OriginType == inventory.OriginTypeReversal && m.OriginID == movementID.String() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMovementRepo) Save(_ context.Context, movement *inventory.Movement) error {
	r.movements = append(r.movements, movement)
	return nil
}

type fakeLotRepo struct {
	lots map[uuid.UUID]*inventory.Lot
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{lots: make(map[uuid.UUID]*inventory.Lot)}
}

func (r *fakeLotRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*inventory.Lot, error) {
	lot, ok := r.lots[id]
	if !ok || lot.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return lot, nil
}

func (r *fakeLotRepo) FindByNumber(_ context.Context, companyID, warehouseID, productID uuid.UUID, lotNumber string) (*inventory.Lot, error) {
	for _, lot := range r.lots {
		if lot.CompanyID == companyID && lot.WarehouseID == warehouseID && lot.ProductID == productID && lot.LotNumber == lotNumber {
			return lot, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLotRepo) FindByStockRecord(_ context.Context, companyID, stockRecordID uuid.UUID) ([]*inventory.Lot, error) {
	var out []*inventory.Lot
	for _, lot := range r.lots {
		if lot.CompanyID == companyID && lot.StockRecordID == stockRecordID {
			out = append(out, lot)
		}
	}
	return out, nil
}

func (r *fakeLotRepo) FindConsumable(ctx context.Context, companyID, stockRecordID uuid.UUID, now time.Time) ([]*inventory.Lot, error) {
	all, err := r.FindByStockRecord(ctx, companyID, stockRecordID)
	if err != nil {
		return nil, err
	}
	var out []*inventory.Lot
	for _, lot := range all {
		if lot.IsConsumable(now) {
			out = append(out, lot)
		}
	}
	return out, nil
}

func (r *fakeLotRepo) FindExpiringBefore(_ context.Context, companyID uuid.UUID, cutoff time.Time, _ shared.Filter) ([]*inventory.Lot, error) {
	var out []*inventory.Lot
	for _, lot := range r.lots {
		if lot.CompanyID == companyID && lot.ExpiryDate != nil && lot.ExpiryDate.Before(cutoff) && lot.RemainingQuantity.IsPositive() {
			out = append(out, lot)
		}
	}
	return out, nil
}

func (r *fakeLotRepo) FindAll(_ context.Context, companyID uuid.UUID, _ shared.Filter) ([]*inventory.Lot, error) {
	var out []*inventory.Lot
	for _, lot := range r.lots {
		if lot.CompanyID == companyID {
			out = append(out, lot)
		}
	}
	return out, nil
}

func (r *fakeLotRepo) Save(_ context.Context, lot *inventory.Lot) error {
	r.lots[lot.ID] = lot
	return nil
}

type fakeReservationRepo struct {
	reservations map[uuid.UUID]*inventory.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[uuid.UUID]*inventory.Reservation)}
}

func (r *fakeReservationRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*inventory.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok || res.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return res, nil
}

func (r *fakeReservationRepo) FindByStockRecord(_ context.Context, companyID, stockRecordID uuid.UUID, _ shared.Filter) ([]inventory.Reservation, error) {
	var out []inventory.Reservation
	for _, res := range r.reservations {
		if res.CompanyID == companyID && res.StockRecordID == stockRecordID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) FindActiveByStockRecord(_ context.Context, companyID, stockRecordID uuid.UUID, now time.Time) ([]inventory.Reservation, error) {
	var out []inventory.Reservation
	for _, res := range r.reservations {
		if res.CompanyID == companyID && res.StockRecordID == stockRecordID && res.IsActive(now) {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) SumActiveByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID, now time.Time) (decimal.Decimal, error) {
	active, err := r.FindActiveByStockRecord(ctx, companyID, stockRecordID, now)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, res := range active {
		sum = sum.Add(res.Quantity)
	}
	return sum, nil
}

func (r *fakeReservationRepo) FindExpiredPending(_ context.Context, now time.Time, limit int) ([]inventory.Reservation, error) {
	var out []inventory.Reservation
	for _, res := range r.reservations {
		if len(out) >= limit {
			break
		}
		active := res.Status == inventory.ReservationStatusPending || res.Status == inventory.ReservationStatusConfirmed
		if active && res.ExpiresAt != nil && !res.ExpiresAt.After(now) {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) FindAll(_ context.Context, companyID uuid.UUID, _ shared.Filter) ([]inventory.Reservation, error) {
	var out []inventory.Reservation
	for _, res := range r.reservations {
		if res.CompanyID == companyID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) Count(_ context.Context, companyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, res := range r.reservations {
		if res.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r *fakeReservationRepo) Save(_ context.Context, reservation *inventory.Reservation) error {
	stored := *reservation
	r.reservations[reservation.ID] = &stored
	return nil
}

func (r *fakeReservationRepo) SaveWithLock(ctx context.Context, reservation *inventory.Reservation) error {
	return r.Save(ctx, reservation)
}

type fakeTransferRepo struct {
	transfers map[uuid.UUID]*inventory.Transfer
}

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{transfers: make(map[uuid.UUID]*inventory.Transfer)}
}

// copyTransfer clones the stored aggregate so callers mutate a private copy,
// like a row loaded from the database. Changes only land via Save.
func copyTransfer(t *inventory.Transfer) *inventory.Transfer {
	clone := *t
	clone.Lines = make([]*inventory.TransferLine, len(t.Lines))
	for i, line := range t.Lines {
		l := *line
		clone.Lines[i] = &l
	}
	return &clone
}

func (r *fakeTransferRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*inventory.Transfer, error) {
	t, ok := r.transfers[id]
	if !ok || t.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return copyTransfer(t), nil
}

func (r *fakeTransferRepo) FindByCode(_ context.Context, companyID uuid.UUID, code string) (*inventory.Transfer, error) {
	for _, t := range r.transfers {
		if t.CompanyID == companyID && t.Code == code {
			return copyTransfer(t), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTransferRepo) FindAll(_ context.Context, companyID uuid.UUID, _ shared.Filter) ([]inventory.Transfer, error) {
	var out []inventory.Transfer
	for _, t := range r.transfers {
		if t.CompanyID == companyID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTransferRepo) Count(_ context.Context, companyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, t := range r.transfers {
		if t.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r *fakeTransferRepo) Save(_ context.Context, transfer *inventory.Transfer) error {
	r.transfers[transfer.ID] = copyTransfer(transfer)
	return nil
}

func (r *fakeTransferRepo) SaveWithLock(ctx context.Context, transfer *inventory.Transfer) error {
	return r.Save(ctx, transfer)
}

type fakeAdjustmentRepo struct {
	adjustments map[uuid.UUID]*inventory.Adjustment
}

func newFakeAdjustmentRepo() *fakeAdjustmentRepo {
	return &fakeAdjustmentRepo{adjustments: make(map[uuid.UUID]*inventory.Adjustment)}
}

func copyAdjustment(a *inventory.Adjustment) *inventory.Adjustment {
	clone := *a
	clone.Lines = make([]*inventory.AdjustmentLine, len(a.Lines))
	for i, line := range a.Lines {
		l := *line
		clone.Lines[i] = &l
	}
	return &clone
}

func (r *fakeAdjustmentRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*inventory.Adjustment, error) {
	a, ok := r.adjustments[id]
	if !ok || a.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return copyAdjustment(a), nil
}

func (r *fakeAdjustmentRepo) FindByCode(_ context.Context, companyID uuid.UUID, code string) (*inventory.Adjustment, error) {
	for _, a := range r.adjustments {
		if a.CompanyID == companyID && a.Code == code {
			return copyAdjustment(a), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAdjustmentRepo) FindAll(_ context.Context, companyID uuid.UUID, _ shared.Filter) ([]inventory.Adjustment, error) {
	var out []inventory.Adjustment
	for _, a := range r.adjustments {
		if a.CompanyID == companyID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAdjustmentRepo) Count(_ context.Context, companyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, a := range r.adjustments {
		if a.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r *fakeAdjustmentRepo) Save(_ context.Context, adjustment *inventory.Adjustment) error {
	r.adjustments[adjustment.ID] = copyAdjustment(adjustment)
	return nil
}

func (r *fakeAdjustmentRepo) SaveWithLock(ctx context.Context, adjustment *inventory.Adjustment) error {
	return r.Save(ctx, adjustment)
}

type fakePhysicalCountRepo struct {
	counts map[uuid.UUID]*inventory.PhysicalCount
}

func newFakePhysicalCountRepo() *fakePhysicalCountRepo {
	return &fakePhysicalCountRepo{counts: make(map[uuid.UUID]*inventory.PhysicalCount)}
}

func copyPhysicalCount(c *inventory.PhysicalCount) *inventory.PhysicalCount {
	clone := *c
	clone.Lines = make([]*inventory.PhysicalCountLine, len(c.Lines))
	for i, line := range c.Lines {
		l := *line
		clone.Lines[i] = &l
	}
	return &clone
}

func (r *fakePhysicalCountRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*inventory.PhysicalCount, error) {
	c, ok := r.counts[id]
	if !ok || c.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return copyPhysicalCount(c), nil
}

func (r *fakePhysicalCountRepo) FindByCode(_ context.Context, companyID uuid.UUID, code string) (*inventory.PhysicalCount, error) {
	for _, c := range r.counts {
		if c.CompanyID == companyID && c.Code == code {
			return copyPhysicalCount(c), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePhysicalCountRepo) FindAll(_ context.Context, companyID uuid.UUID, _ shared.Filter) ([]inventory.PhysicalCount, error) {
	var out []inventory.PhysicalCount
	for _, c := range r.counts {
		if c.CompanyID == companyID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakePhysicalCountRepo) Count(_ context.Context, companyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, c := range r.counts {
		if c.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r *fakePhysicalCountRepo) Save(_ context.Context, count *inventory.PhysicalCount) error {
	r.counts[count.ID] = copyPhysicalCount(count)
	return nil
}

func (r *fakePhysicalCountRepo) SaveWithLock(ctx context.Context, count *inventory.PhysicalCount) error {
	return r.Save(ctx, count)
}

type fakeAlertRepo struct {
	alerts map[uuid.UUID]*inventory.Alert
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{alerts: make(map[uuid.UUID]*inventory.Alert)}
}

func (r *fakeAlertRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*inventory.Alert, error) {
	a, ok := r.alerts[id]
	if !ok || a.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (r *fakeAlertRepo) FindOpen(_ context.Context, companyID uuid.UUID, _ shared.Filter) ([]inventory.Alert, error) {
	var out []inventory.Alert
	for _, a := range r.alerts {
		if a.CompanyID == companyID && !a.Acknowledged {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) FindAll(_ context.Context, companyID uuid.UUID, _ shared.Filter) ([]inventory.Alert, error) {
	var out []inventory.Alert
	for _, a := range r.alerts {
		if a.CompanyID == companyID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) Count(_ context.Context, companyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, a := range r.alerts {
		if a.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r *fakeAlertRepo) DeleteOpenByStockRecord(_ context.Context, companyID, stockRecordID uuid.UUID) error {
	for id, a := range r.alerts {
		if a.CompanyID == companyID && a.StockRecordID == stockRecordID && !a.Acknowledged {
			delete(r.alerts, id)
		}
	}
	return nil
}

func (r *fakeAlertRepo) Save(_ context.Context, alert *inventory.Alert) error {
	r.alerts[alert.ID] = alert
	return nil
}

// testEnv bundles the fakes and services for a test
type testEnv struct {
	companyID       uuid.UUID
	productRepo     *fakeProductRepo
	warehouseRepo   *fakeWarehouseRepo
	stockRecordRepo *fakeStockRecordRepo
	movementRepo    *fakeMovementRepo
	lotRepo         *fakeLotRepo
	reservationRepo *fakeReservationRepo
	transferRepo    *fakeTransferRepo
	adjustmentRepo  *fakeAdjustmentRepo
	countRepo       *fakePhysicalCountRepo
	alertRepo       *fakeAlertRepo
	scope           *NoOpTransactionScope
	movementSvc     *MovementService
	stockSvc        *StockService
	reservationSvc  *ReservationService
	transferSvc     *TransferService
	adjustmentSvc   *AdjustmentService
	countSvc        *PhysicalCountService
	alertSvc        *AlertService
	expirationSvc   *ReservationExpirationService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		companyID:       uuid.New(),
		productRepo:     newFakeProductRepo(),
		warehouseRepo:   newFakeWarehouseRepo(),
		stockRecordRepo: newFakeStockRecordRepo(),
		movementRepo:    newFakeMovementRepo(),
		lotRepo:         newFakeLotRepo(),
		reservationRepo: newFakeReservationRepo(),
		transferRepo:    newFakeTransferRepo(),
		adjustmentRepo:  newFakeAdjustmentRepo(),
		countRepo:       newFakePhysicalCountRepo(),
		alertRepo:       newFakeAlertRepo(),
	}
	env.scope = NewNoOpTransactionScope(
		env.stockRecordRepo, env.movementRepo, env.lotRepo, env.reservationRepo,
		env.transferRepo, env.adjustmentRepo, env.countRepo, env.alertRepo,
	)
	logger := zap.NewNop()
	env.movementSvc = NewMovementService(env.scope, env.productRepo, env.warehouseRepo, env.movementRepo, logger)
	env.stockSvc = NewStockService(env.stockRecordRepo, env.movementRepo, env.reservationRepo, env.lotRepo, env.scope, logger)
	env.reservationSvc = NewReservationService(env.scope, env.reservationRepo, logger)
	env.transferSvc = NewTransferService(env.scope, env.transferRepo, env.warehouseRepo, env.movementSvc, logger)
	env.adjustmentSvc = NewAdjustmentService(env.scope, env.adjustmentRepo, env.warehouseRepo, env.stockRecordRepo, env.movementSvc, logger)
	env.countSvc = NewPhysicalCountService(env.scope, env.countRepo, env.stockRecordRepo, env.warehouseRepo, env.movementSvc, logger)
	env.alertSvc = NewAlertService(env.scope, env.alertRepo, env.stockRecordRepo, env.lotRepo, 0, logger)
	env.expirationSvc = NewReservationExpirationService(env.reservationRepo, logger)
	return env
}

func (env *testEnv) addWarehouse() uuid.UUID {
	w, err := catalog.NewWarehouse(env.companyID, "WH-"+uuid.New().String()[:4], "Warehouse")
	if err != nil {
		panic(err)
	}
	env.warehouseRepo.warehouses[w.ID] = w
	return w.ID
}

func (env *testEnv) addProduct(lotTracked bool) uuid.UUID {
	p, err := catalog.NewProduct(env.companyID, "SKU-"+uuid.New().String()[:6], "Product", "unit")
	if err != nil {
		panic(err)
	}
	if lotTracked {
		p.EnableLotTracking()
	}
	env.productRepo.products[p.ID] = p
	return p.ID
}
