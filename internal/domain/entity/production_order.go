package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus es el estado de una orden de producción.
// El ciclo es estrictamente pending → started → finished: ninguna transición
// salta un estado ni retrocede.
type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderStarted  OrderStatus = "started"
	OrderFinished OrderStatus = "finished"
)

// IsValid valida el estado.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderStarted, OrderFinished:
		return true
	}
	return false
}

// String devuelve la representación en texto.
func (s OrderStatus) String() string { return string(s) }

// CanTransitionTo indica si la transición al estado destino está permitida.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderPending:
		return target == OrderStarted
	case OrderStarted:
		return target == OrderFinished
	}
	return false // finished es terminal
}

// MaterialRequirement declara cuánto de un material necesita una orden.
// Pertenece en exclusiva a su orden y se reemplaza completo al editarla
// mientras siga en pending.
type MaterialRequirement struct {
	OrderID    string
	MaterialID string
	Quantity   decimal.Decimal // > 0
}

// ProductionOrder es la máquina de estados central: consume stock de materias
// primas al iniciar y acumula registros de producción que alimentan el stock
// del producto terminado.
type ProductionOrder struct {
	ID            string
	Code          string
	ProductID     string
	ClientID      string
	Quantity      decimal.Decimal // objetivo a producir
	Status        OrderStatus
	ScheduledDate time.Time
	StartedAt     *time.Time
	FinishedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Requirements []MaterialRequirement
}

// ProductionRecord es un evento "se produjeron N unidades" bajo una orden
// iniciada. Cada registro queda emparejado 1:1 con un movimiento automático de
// entrada sobre el producto de la orden (MovementID).
type ProductionRecord struct {
	ID           string
	OrderID      string
	Quantity     decimal.Decimal // > 0
	RegisteredAt time.Time
	Notes        string
	MovementID   string
	CreatedAt    time.Time
	CreatedBy    string
}
