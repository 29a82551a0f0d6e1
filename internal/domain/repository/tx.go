package repository

import "context"

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Materials    MaterialRepository
	Products     ProductRepository
	Movements    StockMovementRepository
	Orders       ProductionOrderRepository
	Requirements MaterialRequirementRepository
	Records      ProductionRecordRepository
	Purchases    PurchaseOrderRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la garantía de atomicidad del motor: o se
// confirman todas las filas de una operación o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
