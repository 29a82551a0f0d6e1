package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubjectType indica sobre qué catálogo aplica un movimiento de stock.
type SubjectType string

const (
	SubjectMaterial SubjectType = "material"
	SubjectProduct  SubjectType = "product"
)

// IsValid valida el tipo de sujeto.
func (s SubjectType) IsValid() bool {
	return s == SubjectMaterial || s == SubjectProduct
}

// Direction es el sentido de un movimiento: entrada o salida.
type Direction string

const (
	DirectionIn  Direction = "in"  // entrada
	DirectionOut Direction = "out" // salida
)

// IsValid valida la dirección.
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Opposite devuelve la dirección contraria (usada por las reversas).
func (d Direction) Opposite() Direction {
	if d == DirectionIn {
		return DirectionOut
	}
	return DirectionIn
}

// Origin es la procedencia de un movimiento. Solo los movimientos "manual"
// pueden editarse o reversarse por un usuario; el resto son efectos de una
// transición padre (orden de producción o compra) y solo el motor los toca.
type Origin string

const (
	OriginManual     Origin = "manual"
	OriginAutomatic  Origin = "automatic"
	OriginPurchase   Origin = "purchase"
	OriginProduction Origin = "production"
)

// IsValid valida el origen.
func (o Origin) IsValid() bool {
	switch o {
	case OriginManual, OriginAutomatic, OriginPurchase, OriginProduction:
		return true
	}
	return false
}

// Mutable indica si un usuario puede editar/reversar directamente el movimiento.
func (o Origin) Mutable() bool { return o == OriginManual }

// Tipos de referencia al documento que originó un movimiento no manual.
const (
	RefProductionOrder  = "production_order"
	RefProductionRecord = "production_record"
	RefPurchaseOrder    = "purchase_order"
	RefReversal         = "reversal" // RefID apunta al movimiento reversado
)

// StockMovement es una fila del libro de stock. Es append-only: el stock actual
// de un sujeto es el ResultingStock de su movimiento más reciente, y la suma
// firmada de todos sus movimientos reproduce exactamente ese valor.
type StockMovement struct {
	ID             string
	SubjectType    SubjectType
	SubjectID      string
	Direction      Direction
	Quantity       decimal.Decimal // siempre > 0; el signo lo da Direction
	Origin         Origin
	Reason         string
	RefType        string // vacío en movimientos manuales
	RefID          string
	ResultingStock decimal.Decimal
	CreatedAt      time.Time
	CreatedBy      string // UserID
}

// SignedQuantity devuelve la cantidad con signo: positiva para entradas,
// negativa para salidas.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
