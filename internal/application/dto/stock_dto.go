package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/induplast/produccion-api/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/stock/movements.
type RegisterMovementRequest struct {
	SubjectType string          `json:"subject_type" validate:"required,oneof=material product"`
	SubjectID   string          `json:"subject_id" validate:"required,uuid4"`
	Direction   string          `json:"direction" validate:"required,oneof=in out"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason"`
}

// EditMovementRequest body para corregir un movimiento manual.
type EditMovementRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason"`
}

// MovementResponse una fila del libro de stock.
type MovementResponse struct {
	ID             string          `json:"id"`
	SubjectType    string          `json:"subject_type"`
	SubjectID      string          `json:"subject_id"`
	Direction      string          `json:"direction"`
	Quantity       decimal.Decimal `json:"quantity"`
	Origin         string          `json:"origin"`
	Reason         string          `json:"reason,omitempty"`
	RefType        string          `json:"ref_type,omitempty"`
	RefID          string          `json:"ref_id,omitempty"`
	ResultingStock decimal.Decimal `json:"resulting_stock"`
	CreatedAt      time.Time       `json:"created_at"`
	CreatedBy      string          `json:"created_by,omitempty"`
}

// FromMovement mapea la entidad a su respuesta HTTP.
func FromMovement(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		SubjectType:    string(m.SubjectType),
		SubjectID:      m.SubjectID,
		Direction:      string(m.Direction),
		Quantity:       m.Quantity,
		Origin:         string(m.Origin),
		Reason:         m.Reason,
		RefType:        m.RefType,
		RefID:          m.RefID,
		ResultingStock: m.ResultingStock,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}

// FromMovements mapea una lista de movimientos.
func FromMovements(list []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromMovement(m))
	}
	return out
}

// CurrentStockResponse stock actual derivado del libro.
type CurrentStockResponse struct {
	SubjectType string          `json:"subject_type"`
	SubjectID   string          `json:"subject_id"`
	Stock       decimal.Decimal `json:"stock"`
}

// ReconcileResponse resultado de auditar el libro de un sujeto.
type ReconcileResponse struct {
	SubjectType string          `json:"subject_type"`
	SubjectID   string          `json:"subject_id"`
	Cached      decimal.Decimal `json:"cached"`
	Replayed    decimal.Decimal `json:"replayed"`
	Consistent  bool            `json:"consistent"`
}
