package repository

import "github.com/induplast/produccion-api/internal/domain/entity"

// MaterialRepository acceso al catálogo de materias primas.
// GetForUpdate bloquea la fila del material (SELECT FOR UPDATE) y es la pieza
// que serializa el check-then-append del libro de stock por sujeto.
type MaterialRepository interface {
	Create(material *entity.Material) error
	GetByID(id string) (*entity.Material, error)
	GetForUpdate(id string) (*entity.Material, error)
	List(onlyActive bool, limit, offset int) ([]*entity.Material, error)
	Update(material *entity.Material) error
	SetActive(id string, active bool) error
	// IsReferenced indica si el material aparece en movimientos, requerimientos
	// o renglones de compra (en cuyo caso se desactiva en lugar de borrarse).
	IsReferenced(id string) (bool, error)
	Delete(id string) error
}

// ProductRepository acceso al catálogo de productos terminados.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	List(onlyActive bool, limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	SetActive(id string, active bool) error
	IsReferenced(id string) (bool, error)
	Delete(id string) error
}

// SupplierRepository catálogo de proveedores (lecturas + alta/edición básica).
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List(limit, offset int) ([]*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
}

// ClientRepository catálogo de clientes.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	List(limit, offset int) ([]*entity.Client, error)
	Update(client *entity.Client) error
}
