package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/induplast/produccion-api/internal/application/dto"
	"github.com/induplast/produccion-api/internal/application/production"
	"github.com/induplast/produccion-api/internal/domain/entity"
)

// ProductionHandler maneja las peticiones HTTP de órdenes de producción (protegido).
type ProductionHandler struct {
	uc *production.OrderUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.OrderUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de producción
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "product_id, quantity, scheduled_date, requirements"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/production/orders [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, resp := parseAndValidate(c, &in); !ok {
		return resp
	}
	order, err := h.uc.Create(c.Context(), in.ToInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromOrder(order))
}

// Edit godoc
// @Summary      Editar orden (solo pending)
// @Description  Reemplaza atributos y el set completo de requerimientos.
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.EditOrderRequest  true  "datos de la orden"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id} [put]
func (h *ProductionHandler) Edit(c *fiber.Ctx) error {
	var in dto.EditOrderRequest
	if ok, resp := parseAndValidate(c, &in); !ok {
		return resp
	}
	order, err := h.uc.Edit(c.Context(), c.Params("id"), in.ToInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOrder(order))
}

// Start godoc
// @Summary      Iniciar orden (pending → started)
// @Description  Verifica la suficiencia de TODOS los materiales y los descuenta
//
//	de forma atómica; si uno falta, nada se descuenta.
//
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id}/start [post]
func (h *ProductionHandler) Start(c *fiber.Ctx) error {
	if err := h.uc.Start(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden iniciada"})
}

// Finish godoc
// @Summary      Terminar orden (started → finished)
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id}/finish [post]
func (h *ProductionHandler) Finish(c *fiber.Ctx) error {
	if err := h.uc.Finish(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden terminada"})
}

// Get godoc
// @Summary      Detalle de la orden con registros y avance
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id} [get]
func (h *ProductionHandler) Get(c *fiber.Ctx) error {
	detail, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOrderDetail(detail))
}

// List godoc
// @Summary      Listar órdenes de producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | started | finished"
// @Param        limit   query  int     false  "por defecto 20, máx 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/production/orders [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), entity.OrderStatus(c.Query("status")), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOrders(list))
}

// Delete godoc
// @Summary      Borrar orden (solo pending sin producción)
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id} [delete]
func (h *ProductionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden eliminada"})
}

// RegisterRecord godoc
// @Summary      Registrar producción bajo una orden started
// @Description  Crea el registro y su movimiento automático de entrada sobre el
//
//	producto en una sola transacción. El acumulado no supera el objetivo.
//
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.RegisterProductionRequest  true  "quantity, registered_at, notes"
// @Success      201   {object}  dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id}/records [post]
func (h *ProductionHandler) RegisterRecord(c *fiber.Ctx) error {
	var in dto.RegisterProductionRequest
	if ok, resp := parseAndValidate(c, &in); !ok {
		return resp
	}
	rec, err := h.uc.RegisterProduction(c.Context(), production.RegisterProductionInput{
		OrderID:      c.Params("id"),
		Quantity:     in.Quantity,
		RegisteredAt: in.RegisteredAt,
		Notes:        in.Notes,
		UserID:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRecord(rec))
}

// EditRecord godoc
// @Summary      Corregir un registro de producción (orden started)
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del registro"
// @Param        body  body  dto.EditRecordRequest  true  "quantity"
// @Success      200   {object}  dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/production/records/{id} [put]
func (h *ProductionHandler) EditRecord(c *fiber.Ctx) error {
	var in dto.EditRecordRequest
	if ok, resp := parseAndValidate(c, &in); !ok {
		return resp
	}
	rec, err := h.uc.EditRecord(c.Context(), c.Params("id"), in.Quantity, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromRecord(rec))
}

// DeleteRecord godoc
// @Summary      Borrar un registro de producción (orden started)
// @Description  Reversa el movimiento emparejado para que el stock no derive.
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del registro"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production/records/{id} [delete]
func (h *ProductionHandler) DeleteRecord(c *fiber.Ctx) error {
	if err := h.uc.DeleteRecord(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "registro eliminado"})
}
