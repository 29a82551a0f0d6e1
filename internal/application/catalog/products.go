package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/induplast/produccion-api/internal/domain"
	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
)

// ProductUseCase CRUD delgado del catálogo de productos terminados.
type ProductUseCase struct {
	products repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{products: products}
}

// ProductInput datos de alta/edición de un producto.
type ProductInput struct {
	Code      string
	Name      string
	Type      string
	Unit      string
	UnitPrice decimal.Decimal
	MinStock  decimal.Decimal
	MaxStock  decimal.Decimal
}

// Create da de alta un producto activo.
func (uc *ProductUseCase) Create(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if in.Name == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Type:      in.Type,
		Unit:      in.Unit,
		UnitPrice: in.UnitPrice,
		MinStock:  in.MinStock,
		MaxStock:  in.MaxStock,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.products.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get devuelve un producto por id.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// List lista productos.
func (uc *ProductUseCase) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.products.List(onlyActive, limit, offset)
}

// Update edita atributos de catálogo.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in ProductInput) (*entity.Product, error) {
	p, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" || in.Unit == "" || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	p.Code = in.Code
	p.Name = in.Name
	p.Type = in.Type
	p.Unit = in.Unit
	p.UnitPrice = in.UnitPrice
	p.MinStock = in.MinStock
	p.MaxStock = in.MaxStock
	p.UpdatedAt = time.Now()
	if err := uc.products.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete borra el producto solo si nada lo referencia.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.products.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	referenced, err := uc.products.IsReferenced(id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrInUse
	}
	return uc.products.Delete(id)
}

// Deactivate desactiva el producto.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id string) error {
	p, err := uc.products.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return uc.products.SetActive(id, false)
}
