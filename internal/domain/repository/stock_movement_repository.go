package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/induplast/produccion-api/internal/domain/entity"
)

// MovementFilter filtros para listar el kardex.
type MovementFilter struct {
	SubjectType entity.SubjectType
	SubjectID   string
	Origin      entity.Origin
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// StockMovementRepository es el libro de stock. Solo inserta: la historia
// nunca se edita ni se borra; las correcciones son movimientos compensatorios.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// Last devuelve el movimiento más reciente del sujeto (nil si no hay).
	// Su ResultingStock es el stock actual.
	Last(subjectType entity.SubjectType, subjectID string) (*entity.StockMovement, error)
	List(filter MovementFilter) ([]*entity.StockMovement, error)
	// ListByRef devuelve los movimientos generados por un documento padre.
	ListByRef(refType, refID string) ([]*entity.StockMovement, error)
	// FindReversal devuelve el movimiento compensatorio de un movimiento dado,
	// o nil si nunca fue reversado.
	FindReversal(movementID string) (*entity.StockMovement, error)
	// SumSigned suma las cantidades firmadas de todos los movimientos del
	// sujeto; debe coincidir siempre con el ResultingStock del último.
	SumSigned(subjectType entity.SubjectType, subjectID string) (decimal.Decimal, error)
}
