package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material es una materia prima del catálogo. El stock actual NO es un campo:
// se deriva del libro de movimientos (ver StockMovement.ResultingStock).
type Material struct {
	ID        string
	Code      string
	Name      string
	Type      string // clasificación libre: resina, pigmento, empaque, etc.
	Unit      string // unidad de medida: kg, un, m, l
	MinStock  decimal.Decimal
	MaxStock  decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
