package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus es el estado de una orden de compra.
// Flujo principal pending → ordered → in_transit → received (terminal), con
// salidas laterales a voided/cancelled desde cualquier estado no terminal.
// Solo la transición a received afecta el libro de stock.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseOrdered   PurchaseStatus = "ordered"
	PurchaseInTransit PurchaseStatus = "in_transit"
	PurchaseReceived  PurchaseStatus = "received"
	PurchaseVoided    PurchaseStatus = "voided"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// IsValid valida el estado.
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchasePending, PurchaseOrdered, PurchaseInTransit,
		PurchaseReceived, PurchaseVoided, PurchaseCancelled:
		return true
	}
	return false
}

// String devuelve la representación en texto.
func (s PurchaseStatus) String() string { return string(s) }

// IsTerminal indica si el estado no admite más transiciones.
func (s PurchaseStatus) IsTerminal() bool {
	return s == PurchaseReceived || s == PurchaseVoided || s == PurchaseCancelled
}

// CanTransitionTo indica si la transición al estado destino está permitida.
func (s PurchaseStatus) CanTransitionTo(target PurchaseStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == PurchaseVoided || target == PurchaseCancelled {
		return true
	}
	switch s {
	case PurchasePending:
		return target == PurchaseOrdered
	case PurchaseOrdered:
		return target == PurchaseInTransit
	case PurchaseInTransit:
		return target == PurchaseReceived
	}
	return false
}

// CanDelete indica si la orden puede borrarse físicamente. Una compra recibida
// jamás se borra: su rastro en el libro debe conservarse (solo anulación).
func (s PurchaseStatus) CanDelete() bool {
	return s == PurchasePending || s == PurchaseOrdered || s == PurchaseInTransit
}

// PurchaseLine es un renglón de una orden de compra.
type PurchaseLine struct {
	ID         string
	PurchaseID string
	MaterialID string
	Quantity   decimal.Decimal // > 0
	UnitPrice  decimal.Decimal // >= 0
}

// PurchaseOrder es una compra a proveedor. Al recibirse genera un movimiento
// automático de entrada por cada renglón, de forma atómica.
type PurchaseOrder struct {
	ID              string
	Code            string
	SupplierID      string
	Status          PurchaseStatus
	OrderDate       time.Time
	ExpectedArrival *time.Time
	ReceivedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Lines []PurchaseLine
}

// Total devuelve el costo total de la compra (suma de cantidad * precio).
func (p *PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	return total
}
