package inventory

import "github.com/facturacion/backend/internal/domain/shared"

// Ledger errors. All are rejected synchronously and abort the enclosing
// transaction; nothing is partially applied.
var (
	// ErrInsufficientStock is returned when an outbound movement would drive
	// on-hand quantity negative.
	ErrInsufficientStock = shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock on hand")

	// ErrInsufficientAvailableStock is returned when a reservation would
	// exceed on-hand minus active reservations.
	ErrInsufficientAvailableStock = shared.NewDomainError("INSUFFICIENT_AVAILABLE_STOCK", "Insufficient available stock to reserve")

	// ErrInvalidStateTransition is returned when a workflow operation is
	// invoked from a state that does not permit it.
	ErrInvalidStateTransition = shared.NewDomainError("INVALID_STATE", "Operation not allowed in current state")

	// ErrLotRequired is returned when an inbound movement for a lot-tracked
	// product carries no lot information.
	ErrLotRequired = shared.NewDomainError("VALIDATION_ERROR", "Lot information is required for lot-tracked products")

	// ErrLotDepleted is returned when an outbound movement consumes more than
	// the lot's remaining quantity.
	ErrLotDepleted = shared.NewDomainError("INSUFFICIENT_STOCK", "Lot does not hold enough remaining quantity")
)
