package repository

import "github.com/induplast/produccion-api/internal/domain/entity"

// PurchaseOrderRepository persistencia de órdenes de compra con sus renglones.
type PurchaseOrderRepository interface {
	// Create persiste la orden y sus renglones.
	Create(purchase *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	GetForUpdate(id string) (*entity.PurchaseOrder, error)
	List(status entity.PurchaseStatus, limit, offset int) ([]*entity.PurchaseOrder, error)
	UpdateStatus(purchase *entity.PurchaseOrder) error
	// ReplaceLines reemplaza los renglones completos (solo órdenes en pending).
	ReplaceLines(purchaseID string, lines []entity.PurchaseLine) error
	Delete(id string) error
}
