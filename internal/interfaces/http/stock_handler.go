package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/induplast/produccion-api/internal/application/dto"
	"github.com/induplast/produccion-api/internal/application/ledger"
	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP del libro de stock (protegido).
type StockHandler struct {
	uc *ledger.MovementUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.MovementUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "subject_type, subject_id, direction, quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, resp := parseAndValidate(c, &in); !ok {
		return resp
	}
	mov, err := h.uc.RegisterManual(c.Context(), ledger.ManualMovementInput{
		SubjectType: entity.SubjectType(in.SubjectType),
		SubjectID:   in.SubjectID,
		Direction:   entity.Direction(in.Direction),
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(mov))
}

// EditMovement godoc
// @Summary      Corregir un movimiento manual (reversa + reaplicación)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.EditMovementRequest  true  "quantity, reason"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id} [put]
func (h *StockHandler) EditMovement(c *fiber.Ctx) error {
	var in dto.EditMovementRequest
	if ok, resp := parseAndValidate(c, &in); !ok {
		return resp
	}
	mov, err := h.uc.EditManual(c.Context(), c.Params("id"), in.Quantity, in.Reason, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromMovement(mov))
}

// ReverseMovement godoc
// @Summary      Reversar un movimiento manual
// @Description  Anexa el movimiento compensatorio; la fila original no se toca.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      201  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id}/reverse [post]
func (h *StockHandler) ReverseMovement(c *fiber.Ctx) error {
	mov, err := h.uc.Reverse(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(mov))
}

// History godoc
// @Summary      Kardex de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        subject_type  query  string  false  "material | product"
// @Param        subject_id    query  string  false  "ID del sujeto"
// @Param        origin        query  string  false  "manual | automatic | purchase | production"
// @Param        from          query  string  false  "RFC3339"
// @Param        to            query  string  false  "RFC3339"
// @Param        limit         query  int     false  "por defecto 50, máx 200"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		SubjectType: entity.SubjectType(c.Query("subject_type")),
		SubjectID:   c.Query("subject_id"),
		Origin:      entity.Origin(c.Query("origin")),
		Limit:       c.QueryInt("limit"),
		Offset:      c.QueryInt("offset"),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
		}
		filter.To = &t
	}
	list, err := h.uc.History(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromMovements(list))
}

// CurrentStock godoc
// @Summary      Stock actual de un sujeto
// @Description  Derivado del libro: ResultingStock del movimiento más reciente.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        subject_type  path  string  true  "material | product"
// @Param        id            path  string  true  "ID del sujeto"
// @Success      200  {object}  dto.CurrentStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{subject_type}/{id} [get]
func (h *StockHandler) CurrentStock(c *fiber.Ctx) error {
	subjectType := entity.SubjectType(c.Params("subject_type"))
	subjectID := c.Params("id")
	stock, err := h.uc.CurrentStock(c.Context(), subjectType, subjectID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CurrentStockResponse{
		SubjectType: string(subjectType),
		SubjectID:   subjectID,
		Stock:       stock,
	})
}

// Reconcile godoc
// @Summary      Auditar la consistencia del libro de un sujeto
// @Description  Re-suma toda la historia y la compara con el stock cacheado.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        subject_type  path  string  true  "material | product"
// @Param        id            path  string  true  "ID del sujeto"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{subject_type}/{id}/reconcile [get]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	res, err := h.uc.Reconcile(c.Context(), entity.SubjectType(c.Params("subject_type")), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReconcileResponse{
		SubjectType: string(res.SubjectType),
		SubjectID:   res.SubjectID,
		Cached:      res.Cached,
		Replayed:    res.Replayed,
		Consistent:  res.Consistent,
	})
}
