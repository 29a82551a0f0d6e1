package repository

import (
	"github.com/shopspring/decimal"

	"github.com/induplast/produccion-api/internal/domain/entity"
)

// ProductionOrderRepository persistencia de órdenes de producción.
// GetForUpdate bloquea la fila de la orden para que dos transiciones
// concurrentes sobre la misma orden se serialicen.
type ProductionOrderRepository interface {
	Create(order *entity.ProductionOrder) error
	GetByID(id string) (*entity.ProductionOrder, error)
	GetForUpdate(id string) (*entity.ProductionOrder, error)
	List(status entity.OrderStatus, limit, offset int) ([]*entity.ProductionOrder, error)
	Update(order *entity.ProductionOrder) error
	Delete(id string) error
}

// MaterialRequirementRepository requerimientos de material de una orden.
// Se reemplazan completos al editar la orden en pending.
type MaterialRequirementRepository interface {
	ReplaceForOrder(orderID string, reqs []entity.MaterialRequirement) error
	ListByOrder(orderID string) ([]entity.MaterialRequirement, error)
	DeleteForOrder(orderID string) error
}

// ProductionRecordRepository registros de producción de una orden.
type ProductionRecordRepository interface {
	Create(record *entity.ProductionRecord) error
	GetByID(id string) (*entity.ProductionRecord, error)
	ListByOrder(orderID string) ([]*entity.ProductionRecord, error)
	// SumByOrder devuelve el total producido hasta ahora para la orden.
	SumByOrder(orderID string) (decimal.Decimal, error)
	Update(record *entity.ProductionRecord) error
	Delete(id string) error
	CountByOrder(orderID string) (int, error)
}
