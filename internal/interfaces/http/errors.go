package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/induplast/produccion-api/internal/application/dto"
	"github.com/induplast/produccion-api/internal/domain"
)

// respondError traduce errores de dominio a status HTTP:
//
//	400 entrada inválida
//	404 recurso inexistente
//	409 conflicto de estado (transición ilegal, origen inmutable, en uso)
//	422 regla de negocio sobre cantidades (stock insuficiente, supera objetivo)
func respondError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientMaterialError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente de " + insufficient.Name,
			Details: fiber.Map{
				"material_id": insufficient.MaterialID,
				"required":    insufficient.Required,
				"available":   insufficient.Available,
				"missing":     insufficient.Missing(),
			},
		})
	}
	var exceeds *domain.ExceedsTargetError
	if errors.As(err, &exceeds) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "EXCEEDS_TARGET",
			Message: "la cantidad supera el objetivo de la orden",
			Details: fiber.Map{
				"order_id":  exceeds.OrderID,
				"produced":  exceeds.Produced,
				"requested": exceeds.Requested,
				"target":    exceeds.Target,
			},
		})
	}
	var state *domain.StateError
	if errors.As(err, &state) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INVALID_STATE",
			Message: err.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnknownSubject):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "la cantidad debe ser positiva"})
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyRequirements),
		errors.Is(err, domain.ErrInactiveSubject):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrExceedsTarget):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EXCEEDS_TARGET", Message: "la cantidad supera el objetivo de la orden"})
	case errors.Is(err, domain.ErrImmutableOrigin):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IMMUTABLE_ORIGIN", Message: "solo los movimientos manuales se editan o reversan"})
	case errors.Is(err, domain.ErrAlreadyReversed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_REVERSED", Message: "el movimiento ya fue reversado"})
	case errors.Is(err, domain.ErrHasProduction):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "HAS_PRODUCTION", Message: "la orden tiene producción registrada"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "transición de estado no permitida"})
	case errors.Is(err, domain.ErrInUse):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IN_USE", Message: "el recurso está referenciado; desactívelo en su lugar"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
