package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es un producto terminado del catálogo. Igual que Material, el stock
// actual se deriva del libro de movimientos; aquí solo viven atributos.
type Product struct {
	ID        string
	Code      string
	Name      string
	Type      string
	Unit      string
	UnitPrice decimal.Decimal
	MinStock  decimal.Decimal
	MaxStock  decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
