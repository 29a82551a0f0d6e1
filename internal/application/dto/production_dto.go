package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/induplast/produccion-api/internal/application/production"
	"github.com/induplast/produccion-api/internal/domain/entity"
)

// RequirementRequest un material requerido por la orden.
type RequirementRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid4"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// CreateOrderRequest body para crear una orden de producción.
type CreateOrderRequest struct {
	ProductID     string               `json:"product_id" validate:"required,uuid4"`
	ClientID      string               `json:"client_id" validate:"omitempty,uuid4"`
	Quantity      decimal.Decimal      `json:"quantity"`
	ScheduledDate time.Time            `json:"scheduled_date"`
	Requirements  []RequirementRequest `json:"requirements" validate:"required,min=1,dive"`
}

// ToInput convierte el request al input del caso de uso.
func (r CreateOrderRequest) ToInput() production.CreateOrderInput {
	return production.CreateOrderInput{
		ProductID:     r.ProductID,
		ClientID:      r.ClientID,
		Quantity:      r.Quantity,
		ScheduledDate: r.ScheduledDate,
		Requirements:  toRequirementInputs(r.Requirements),
	}
}

// EditOrderRequest body para editar una orden en pending.
type EditOrderRequest struct {
	ProductID     string               `json:"product_id" validate:"required,uuid4"`
	ClientID      string               `json:"client_id" validate:"omitempty,uuid4"`
	Quantity      decimal.Decimal      `json:"quantity"`
	ScheduledDate time.Time            `json:"scheduled_date"`
	Requirements  []RequirementRequest `json:"requirements" validate:"required,min=1,dive"`
}

// ToInput convierte el request al input del caso de uso.
func (r EditOrderRequest) ToInput() production.EditOrderInput {
	return production.EditOrderInput{
		ProductID:     r.ProductID,
		ClientID:      r.ClientID,
		Quantity:      r.Quantity,
		ScheduledDate: r.ScheduledDate,
		Requirements:  toRequirementInputs(r.Requirements),
	}
}

func toRequirementInputs(reqs []RequirementRequest) []production.RequirementInput {
	out := make([]production.RequirementInput, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, production.RequirementInput{MaterialID: req.MaterialID, Quantity: req.Quantity})
	}
	return out
}

// RegisterProductionRequest body para registrar producción bajo una orden.
type RegisterProductionRequest struct {
	Quantity     decimal.Decimal `json:"quantity"`
	RegisteredAt time.Time       `json:"registered_at"`
	Notes        string          `json:"notes"`
}

// EditRecordRequest body para corregir un registro de producción.
type EditRecordRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// RequirementResponse un requerimiento de material.
type RequirementResponse struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// OrderResponse representación HTTP de una orden de producción.
type OrderResponse struct {
	ID            string                `json:"id"`
	Code          string                `json:"code"`
	ProductID     string                `json:"product_id"`
	ClientID      string                `json:"client_id,omitempty"`
	Quantity      decimal.Decimal       `json:"quantity"`
	Status        string                `json:"status"`
	ScheduledDate time.Time             `json:"scheduled_date"`
	StartedAt     *time.Time            `json:"started_at,omitempty"`
	FinishedAt    *time.Time            `json:"finished_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Requirements  []RequirementResponse `json:"requirements,omitempty"`
}

// FromOrder mapea la entidad a su respuesta HTTP.
func FromOrder(o *entity.ProductionOrder) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		Code:          o.Code,
		ProductID:     o.ProductID,
		ClientID:      o.ClientID,
		Quantity:      o.Quantity,
		Status:        o.Status.String(),
		ScheduledDate: o.ScheduledDate,
		StartedAt:     o.StartedAt,
		FinishedAt:    o.FinishedAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for _, req := range o.Requirements {
		resp.Requirements = append(resp.Requirements, RequirementResponse{
			MaterialID: req.MaterialID,
			Quantity:   req.Quantity,
		})
	}
	return resp
}

// FromOrders mapea una lista de órdenes.
func FromOrders(list []*entity.ProductionOrder) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, FromOrder(o))
	}
	return out
}

// RecordResponse representación HTTP de un registro de producción.
type RecordResponse struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"order_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	RegisteredAt time.Time       `json:"registered_at"`
	Notes        string          `json:"notes,omitempty"`
	MovementID   string          `json:"movement_id"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedBy    string          `json:"created_by,omitempty"`
}

// FromRecord mapea la entidad a su respuesta HTTP.
func FromRecord(rec *entity.ProductionRecord) RecordResponse {
	return RecordResponse{
		ID:           rec.ID,
		OrderID:      rec.OrderID,
		Quantity:     rec.Quantity,
		RegisteredAt: rec.RegisteredAt,
		Notes:        rec.Notes,
		MovementID:   rec.MovementID,
		CreatedAt:    rec.CreatedAt,
		CreatedBy:    rec.CreatedBy,
	}
}

// OrderDetailResponse orden con registros y avance.
type OrderDetailResponse struct {
	Order    OrderResponse    `json:"order"`
	Records  []RecordResponse `json:"records"`
	Produced decimal.Decimal  `json:"produced"`
}

// FromOrderDetail mapea el detalle de la orden.
func FromOrderDetail(d *production.OrderDetail) OrderDetailResponse {
	resp := OrderDetailResponse{
		Order:    FromOrder(d.Order),
		Records:  make([]RecordResponse, 0, len(d.Records)),
		Produced: d.Produced,
	}
	for _, rec := range d.Records {
		resp.Records = append(resp.Records, FromRecord(rec))
	}
	return resp
}
