package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// LotConsumption records how much of a single lot an outbound movement drew
// and at which unit cost.
type LotConsumption struct {
	Lot      *Lot
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// TotalCost returns quantity times the lot's unit cost
func (c LotConsumption) TotalCost() decimal.Decimal {
	return c.Quantity.Mul(c.UnitCost)
}

// OrderLotsForConsumption sorts consumable lots in the order the valuation
// method draws from them. FIFO drains the oldest receipt first, LIFO the
// newest. Ties break on lot number so the order is deterministic.
func OrderLotsForConsumption(lots []*Lot, method ValuationMethod) []*Lot {
	ordered := make([]*Lot, len(lots))
	copy(ordered, lots)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if method == ValuationLIFO {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.LotNumber < b.LotNumber
	})
	return ordered
}

// ConsumeFromLots plans an outbound draw across consumable lots according to
// the valuation method. It mutates nothing: the caller applies the returned
// consumptions inside its transaction. Returns ErrInsufficientStock when the
// consumable lots cannot cover the quantity.
func ConsumeFromLots(lots []*Lot, quantity decimal.Decimal, method ValuationMethod, now time.Time) ([]LotConsumption, error) {
	remaining := quantity
	consumptions := make([]LotConsumption, 0, len(lots))

	for _, lot := range OrderLotsForConsumption(lots, method) {
		if !lot.IsConsumable(now) {
			continue
		}
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, lot.RemainingQuantity)
		consumptions = append(consumptions, LotConsumption{
			Lot:      lot,
			Quantity: take,
			UnitCost: lot.UnitCost,
		})
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		return nil, ErrInsufficientStock
	}
	return consumptions, nil
}

// WeightedLotCost returns the quantity-weighted average unit cost of a set of
// consumptions, rounded to 4 decimal places.
func WeightedLotCost(consumptions []LotConsumption) decimal.Decimal {
	totalQty := decimal.Zero
	totalCost := decimal.Zero
	for _, c := range consumptions {
		totalQty = totalQty.Add(c.Quantity)
		totalCost = totalCost.Add(c.TotalCost())
	}
	if totalQty.IsZero() {
		return decimal.Zero
	}
	return totalCost.Div(totalQty).Round(4)
}
