package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/induplast/produccion-api/internal/application/dto"
	"github.com/induplast/produccion-api/internal/application/purchasing"
	"github.com/induplast/produccion-api/internal/domain/entity"
)

// PurchaseHandler maneja las peticiones HTTP de órdenes de compra (protegido).
type PurchaseHandler struct {
	uc *purchasing.PurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchasing.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "supplier_id, lines"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if ok, resp := parseAndValidate(c, &in); !ok {
		return resp
	}
	purchase, err := h.uc.Create(c.Context(), in.ToInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPurchase(purchase))
}

// EditLines godoc
// @Summary      Reemplazar renglones (solo pending)
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la compra"
// @Param        body  body  dto.EditPurchaseLinesRequest  true  "lines"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/lines [put]
func (h *PurchaseHandler) EditLines(c *fiber.Ctx) error {
	var in dto.EditPurchaseLinesRequest
	if ok, resp := parseAndValidate(c, &in); !ok {
		return resp
	}
	purchase, err := h.uc.EditLines(c.Context(), c.Params("id"), in.ToInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPurchase(purchase))
}

// MarkOrdered godoc
// @Summary      Marcar como pedida (pending → ordered)
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/order [post]
func (h *PurchaseHandler) MarkOrdered(c *fiber.Ctx) error {
	if err := h.uc.MarkOrdered(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "compra pedida"})
}

// MarkInTransit godoc
// @Summary      Marcar en tránsito (ordered → in_transit)
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/transit [post]
func (h *PurchaseHandler) MarkInTransit(c *fiber.Ctx) error {
	if err := h.uc.MarkInTransit(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "compra en tránsito"})
}

// Receive godoc
// @Summary      Recibir compra (in_transit → received)
// @Description  Acredita el stock con una entrada automática por renglón, de
//
//	forma atómica.
//
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	if err := h.uc.Receive(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "compra recibida"})
}

// Void godoc
// @Summary      Anular compra (estado no terminal → voided)
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/void [post]
func (h *PurchaseHandler) Void(c *fiber.Ctx) error {
	if err := h.uc.Void(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "compra anulada"})
}

// Cancel godoc
// @Summary      Cancelar compra (estado no terminal → cancelled)
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/cancel [post]
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "compra cancelada"})
}

// Get godoc
// @Summary      Detalle de la compra con renglones
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) Get(c *fiber.Ctx) error {
	purchase, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPurchase(purchase))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | ordered | in_transit | received | voided | cancelled"
// @Param        limit   query  int     false  "por defecto 20, máx 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.PurchaseResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), entity.PurchaseStatus(c.Query("status")), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPurchases(list))
}

// Delete godoc
// @Summary      Borrar compra (nunca una recibida)
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "compra eliminada"})
}
