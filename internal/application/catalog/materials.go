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

// MaterialUseCase CRUD delgado del catálogo de materias primas. El motor de
// stock nunca muta atributos de catálogo; aquí solo viven datos maestros.
type MaterialUseCase struct {
	mats      repository.MaterialRepository
	movements repository.StockMovementRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(mats repository.MaterialRepository, movements repository.StockMovementRepository) *MaterialUseCase {
	return &MaterialUseCase{mats: mats, movements: movements}
}

// MaterialInput datos de alta/edición de un material.
type MaterialInput struct {
	Code     string
	Name     string
	Type     string
	Unit     string
	MinStock decimal.Decimal
	MaxStock decimal.Decimal
}

// Create da de alta un material activo.
func (uc *MaterialUseCase) Create(ctx context.Context, in MaterialInput) (*entity.Material, error) {
	if in.Name == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	m := &entity.Material{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Type:      in.Type,
		Unit:      in.Unit,
		MinStock:  in.MinStock,
		MaxStock:  in.MaxStock,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.mats.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Get devuelve un material por id.
func (uc *MaterialUseCase) Get(ctx context.Context, id string) (*entity.Material, error) {
	m, err := uc.mats.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// List lista materiales.
func (uc *MaterialUseCase) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Material, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.mats.List(onlyActive, limit, offset)
}

// Update edita atributos de catálogo.
func (uc *MaterialUseCase) Update(ctx context.Context, id string, in MaterialInput) (*entity.Material, error) {
	m, err := uc.mats.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	m.Code = in.Code
	m.Name = in.Name
	m.Type = in.Type
	m.Unit = in.Unit
	m.MinStock = in.MinStock
	m.MaxStock = in.MaxStock
	m.UpdatedAt = time.Now()
	if err := uc.mats.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete borra el material solo si nada lo referencia; si está referenciado
// devuelve ErrInUse y el camino correcto es Deactivate.
func (uc *MaterialUseCase) Delete(ctx context.Context, id string) error {
	m, err := uc.mats.GetByID(id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	referenced, err := uc.mats.IsReferenced(id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrInUse
	}
	return uc.mats.Delete(id)
}

// Deactivate desactiva el material (no participa en nuevas operaciones; su
// historia en el libro queda intacta).
func (uc *MaterialUseCase) Deactivate(ctx context.Context, id string) error {
	m, err := uc.mats.GetByID(id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	return uc.mats.SetActive(id, false)
}

// LowStockItem un material por debajo de su stock mínimo.
type LowStockItem struct {
	Material *entity.Material
	Current  decimal.Decimal
	Missing  decimal.Decimal // MinStock - Current
}

// LowStock lista los materiales activos cuyo stock derivado está por debajo
// del mínimo configurado, para alimentar compras.
func (uc *MaterialUseCase) LowStock(ctx context.Context) ([]LowStockItem, error) {
	mats, err := uc.mats.List(true, 1000, 0)
	if err != nil {
		return nil, err
	}
	var out []LowStockItem
	for _, m := range mats {
		if !m.MinStock.GreaterThan(decimal.Zero) {
			continue
		}
		current := decimal.Zero
		last, err := uc.movements.Last(entity.SubjectMaterial, m.ID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			current = last.ResultingStock
		}
		if current.LessThan(m.MinStock) {
			out = append(out, LowStockItem{
				Material: m,
				Current:  current,
				Missing:  m.MinStock.Sub(current),
			})
		}
	}
	return out, nil
}
