package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/induplast/produccion-api/internal/application/purchasing"
	"github.com/induplast/produccion-api/internal/domain/entity"
)

// PurchaseLineRequest un renglón de compra.
type PurchaseLineRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid4"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseRequest body para crear una orden de compra.
type CreatePurchaseRequest struct {
	SupplierID      string                `json:"supplier_id" validate:"required,uuid4"`
	OrderDate       time.Time             `json:"order_date"`
	ExpectedArrival *time.Time            `json:"expected_arrival"`
	Lines           []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ToInput convierte el request al input del caso de uso.
func (r CreatePurchaseRequest) ToInput() purchasing.CreatePurchaseInput {
	return purchasing.CreatePurchaseInput{
		SupplierID:      r.SupplierID,
		OrderDate:       r.OrderDate,
		ExpectedArrival: r.ExpectedArrival,
		Lines:           toLineInputs(r.Lines),
	}
}

// EditPurchaseLinesRequest body para reemplazar los renglones de una compra.
type EditPurchaseLinesRequest struct {
	Lines []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ToInput convierte el request al input del caso de uso.
func (r EditPurchaseLinesRequest) ToInput() []purchasing.LineInput {
	return toLineInputs(r.Lines)
}

func toLineInputs(lines []PurchaseLineRequest) []purchasing.LineInput {
	out := make([]purchasing.LineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, purchasing.LineInput{
			MaterialID: l.MaterialID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
		})
	}
	return out
}

// PurchaseLineResponse un renglón de compra.
type PurchaseLineResponse struct {
	ID         string          `json:"id"`
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// PurchaseResponse representación HTTP de una orden de compra.
type PurchaseResponse struct {
	ID              string                 `json:"id"`
	Code            string                 `json:"code"`
	SupplierID      string                 `json:"supplier_id"`
	Status          string                 `json:"status"`
	OrderDate       time.Time              `json:"order_date"`
	ExpectedArrival *time.Time             `json:"expected_arrival,omitempty"`
	ReceivedAt      *time.Time             `json:"received_at,omitempty"`
	Total           decimal.Decimal        `json:"total"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Lines           []PurchaseLineResponse `json:"lines,omitempty"`
}

// FromPurchase mapea la entidad a su respuesta HTTP.
func FromPurchase(p *entity.PurchaseOrder) PurchaseResponse {
	resp := PurchaseResponse{
		ID:              p.ID,
		Code:            p.Code,
		SupplierID:      p.SupplierID,
		Status:          p.Status.String(),
		OrderDate:       p.OrderDate,
		ExpectedArrival: p.ExpectedArrival,
		ReceivedAt:      p.ReceivedAt,
		Total:           p.Total(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	for _, l := range p.Lines {
		resp.Lines = append(resp.Lines, PurchaseLineResponse{
			ID: l.ID, MaterialID: l.MaterialID, Quantity: l.Quantity, UnitPrice: l.UnitPrice,
		})
	}
	return resp
}

// FromPurchases mapea una lista de compras.
func FromPurchases(list []*entity.PurchaseOrder) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromPurchase(p))
	}
	return out
}
