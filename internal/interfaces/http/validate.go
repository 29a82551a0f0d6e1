package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/induplast/produccion-api/internal/application/dto"
)

var validate = validator.New()

// parseAndValidate decodifica el body JSON y corre las reglas `validate` del
// struct. Devuelve una respuesta 400 ya escrita cuando algo falla.
func parseAndValidate(c *fiber.Ctx, out any) (ok bool, resp error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(out); err != nil {
		var details []fiber.Map
		if verrs, isValidation := err.(validator.ValidationErrors); isValidation {
			for _, fe := range verrs {
				details = append(details, fiber.Map{"field": fe.Field(), "rule": fe.Tag()})
			}
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Details: details,
		})
	}
	return true, nil
}
