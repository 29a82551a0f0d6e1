package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUnknownSubject    = errors.New("material o producto no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor que cero")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidState      = errors.New("transición de estado no permitida")
	ErrExceedsTarget     = errors.New("la cantidad supera el objetivo de la orden")
	ErrImmutableOrigin   = errors.New("solo los movimientos manuales pueden modificarse")
	ErrAlreadyReversed   = errors.New("el movimiento ya fue reversado")
	ErrHasProduction     = errors.New("la orden tiene producción registrada")
	ErrEmptyRequirements = errors.New("la orden requiere al menos un material")
	ErrInactiveSubject   = errors.New("el material o producto está inactivo")
	ErrInUse             = errors.New("el recurso está referenciado y no puede eliminarse")
	ErrDuplicate         = errors.New("recurso duplicado")
)

// InsufficientMaterialError detalla qué material impide iniciar una orden
// de producción y cuánto falta. Envuelve ErrInsufficientStock.
type InsufficientMaterialError struct {
	MaterialID string
	Name       string
	Required   decimal.Decimal
	Available  decimal.Decimal
}

func (e *InsufficientMaterialError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s: se requieren %s y hay %s (faltan %s)",
		e.Name, e.Required, e.Available, e.Missing())
}

func (e *InsufficientMaterialError) Unwrap() error { return ErrInsufficientStock }

// Missing devuelve la cantidad faltante (Required - Available).
func (e *InsufficientMaterialError) Missing() decimal.Decimal {
	return e.Required.Sub(e.Available)
}

// ExceedsTargetError detalla por qué un registro de producción supera el
// objetivo de la orden. Envuelve ErrExceedsTarget.
type ExceedsTargetError struct {
	OrderID   string
	Produced  decimal.Decimal
	Requested decimal.Decimal
	Target    decimal.Decimal
}

func (e *ExceedsTargetError) Error() string {
	return fmt.Sprintf("la orden %s lleva %s producidas; registrar %s superaría el objetivo de %s",
		e.OrderID, e.Produced, e.Requested, e.Target)
}

func (e *ExceedsTargetError) Unwrap() error { return ErrExceedsTarget }

// StateError detalla una transición de estado rechazada. Envuelve ErrInvalidState.
type StateError struct {
	Entity  string // "orden de producción" | "orden de compra"
	ID      string
	Current string
	Target  string
}

func (e *StateError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s %s en estado %s no permite la operación", e.Entity, e.ID, e.Current)
	}
	return fmt.Sprintf("%s %s no puede pasar de %s a %s", e.Entity, e.ID, e.Current, e.Target)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }
