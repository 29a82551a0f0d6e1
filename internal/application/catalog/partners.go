package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/induplast/produccion-api/internal/domain"
	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
)

// PartnerUseCase altas y consultas de proveedores y clientes (datos maestros
// sin ciclo de vida).
type PartnerUseCase struct {
	suppliers repository.SupplierRepository
	clients   repository.ClientRepository
}

// NewPartnerUseCase construye el caso de uso.
func NewPartnerUseCase(suppliers repository.SupplierRepository, clients repository.ClientRepository) *PartnerUseCase {
	return &PartnerUseCase{suppliers: suppliers, clients: clients}
}

// PartnerInput datos de alta/edición de un proveedor o cliente.
type PartnerInput struct {
	Name  string
	TaxID string
	Phone string
	Email string
}

// CreateSupplier da de alta un proveedor.
func (uc *PartnerUseCase) CreateSupplier(ctx context.Context, in PartnerInput) (*entity.Supplier, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Phone:     in.Phone,
		Email:     in.Email,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.suppliers.Create(s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetSupplier devuelve un proveedor por id.
func (uc *PartnerUseCase) GetSupplier(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.suppliers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// ListSuppliers lista proveedores.
func (uc *PartnerUseCase) ListSuppliers(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.suppliers.List(limit, offset)
}

// CreateClient da de alta un cliente.
func (uc *PartnerUseCase) CreateClient(ctx context.Context, in PartnerInput) (*entity.Client, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c := &entity.Client{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Phone:     in.Phone,
		Email:     in.Email,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clients.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetClient devuelve un cliente por id.
func (uc *PartnerUseCase) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	c, err := uc.clients.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// ListClients lista clientes.
func (uc *PartnerUseCase) ListClients(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.clients.List(limit, offset)
}
