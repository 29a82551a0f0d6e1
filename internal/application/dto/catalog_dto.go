package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/induplast/produccion-api/internal/application/catalog"
	"github.com/induplast/produccion-api/internal/domain/entity"
)

// MaterialRequest body para alta/edición de un material.
type MaterialRequest struct {
	Code     string          `json:"code"`
	Name     string          `json:"name" validate:"required"`
	Type     string          `json:"type"`
	Unit     string          `json:"unit" validate:"required"`
	MinStock decimal.Decimal `json:"min_stock"`
	MaxStock decimal.Decimal `json:"max_stock"`
}

// ToInput convierte el request al input del caso de uso.
func (r MaterialRequest) ToInput() catalog.MaterialInput {
	return catalog.MaterialInput{
		Code: r.Code, Name: r.Name, Type: r.Type, Unit: r.Unit,
		MinStock: r.MinStock, MaxStock: r.MaxStock,
	}
}

// MaterialResponse representación HTTP de un material.
type MaterialResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code,omitempty"`
	Name      string          `json:"name"`
	Type      string          `json:"type,omitempty"`
	Unit      string          `json:"unit"`
	MinStock  decimal.Decimal `json:"min_stock"`
	MaxStock  decimal.Decimal `json:"max_stock"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FromMaterial mapea la entidad a su respuesta HTTP.
func FromMaterial(m *entity.Material) MaterialResponse {
	return MaterialResponse{
		ID: m.ID, Code: m.Code, Name: m.Name, Type: m.Type, Unit: m.Unit,
		MinStock: m.MinStock, MaxStock: m.MaxStock, Active: m.Active,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

// ProductRequest body para alta/edición de un producto.
type ProductRequest struct {
	Code      string          `json:"code"`
	Name      string          `json:"name" validate:"required"`
	Type      string          `json:"type"`
	Unit      string          `json:"unit" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	MinStock  decimal.Decimal `json:"min_stock"`
	MaxStock  decimal.Decimal `json:"max_stock"`
}

// ToInput convierte el request al input del caso de uso.
func (r ProductRequest) ToInput() catalog.ProductInput {
	return catalog.ProductInput{
		Code: r.Code, Name: r.Name, Type: r.Type, Unit: r.Unit,
		UnitPrice: r.UnitPrice, MinStock: r.MinStock, MaxStock: r.MaxStock,
	}
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code,omitempty"`
	Name      string          `json:"name"`
	Type      string          `json:"type,omitempty"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	MinStock  decimal.Decimal `json:"min_stock"`
	MaxStock  decimal.Decimal `json:"max_stock"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FromProduct mapea la entidad a su respuesta HTTP.
func FromProduct(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID: p.ID, Code: p.Code, Name: p.Name, Type: p.Type, Unit: p.Unit,
		UnitPrice: p.UnitPrice, MinStock: p.MinStock, MaxStock: p.MaxStock,
		Active: p.Active, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

// PartnerRequest body para alta/edición de un proveedor o cliente.
type PartnerRequest struct {
	Name  string `json:"name" validate:"required"`
	TaxID string `json:"tax_id"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
}

// ToInput convierte el request al input del caso de uso.
func (r PartnerRequest) ToInput() catalog.PartnerInput {
	return catalog.PartnerInput{Name: r.Name, TaxID: r.TaxID, Phone: r.Phone, Email: r.Email}
}

// LowStockItemResponse un material por debajo de su stock mínimo.
type LowStockItemResponse struct {
	Material MaterialResponse `json:"material"`
	Current  decimal.Decimal  `json:"current_stock"`
	Missing  decimal.Decimal  `json:"missing"`
}

// FromLowStock mapea la lista de reposición a su respuesta HTTP.
func FromLowStock(items []catalog.LowStockItem) []LowStockItemResponse {
	out := make([]LowStockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, LowStockItemResponse{
			Material: FromMaterial(it.Material),
			Current:  it.Current,
			Missing:  it.Missing,
		})
	}
	return out
}
