package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/induplast/produccion-api/internal/application/catalog"
	"github.com/induplast/produccion-api/internal/application/dto"
)

// PartnerHandler maneja las peticiones HTTP de proveedores y clientes (protegido).
type PartnerHandler struct {
	uc *catalog.PartnerUseCase
}

// NewPartnerHandler construye el handler.
func NewPartnerHandler(uc *catalog.PartnerUseCase) *PartnerHandler {
	return &PartnerHandler{uc: uc}
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         partners
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PartnerRequest  true  "name, tax_id, phone, email"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *PartnerHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.PartnerRequest
	if ok, resp := parseAndValidate(c, &in); !ok {
		return resp
	}
	s, err := h.uc.CreateSupplier(c.Context(), in.ToInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// GetSupplier godoc
// @Summary      Detalle de un proveedor
// @Tags         partners
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del proveedor"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [get]
func (h *PartnerHandler) GetSupplier(c *fiber.Ctx) error {
	s, err := h.uc.GetSupplier(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

// ListSuppliers godoc
// @Summary      Listar proveedores
// @Tags         partners
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "por defecto 20"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  map[string]any
// @Router       /api/suppliers [get]
func (h *PartnerHandler) ListSuppliers(c *fiber.Ctx) error {
	var page dto.PageRequest
	page.Limit = c.QueryInt("limit")
	page.Offset = c.QueryInt("offset")
	page.DefaultPage()
	list, err := h.uc.ListSuppliers(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// CreateClient godoc
// @Summary      Crear cliente
// @Tags         partners
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PartnerRequest  true  "name, tax_id, phone, email"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *PartnerHandler) CreateClient(c *fiber.Ctx) error {
	var in dto.PartnerRequest
	if ok, resp := parseAndValidate(c, &in); !ok {
		return resp
	}
	cl, err := h.uc.CreateClient(c.Context(), in.ToInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cl)
}

// GetClient godoc
// @Summary      Detalle de un cliente
// @Tags         partners
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del cliente"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *PartnerHandler) GetClient(c *fiber.Ctx) error {
	cl, err := h.uc.GetClient(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cl)
}

// ListClients godoc
// @Summary      Listar clientes
// @Tags         partners
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "por defecto 20"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  map[string]any
// @Router       /api/clients [get]
func (h *PartnerHandler) ListClients(c *fiber.Ctx) error {
	var page dto.PageRequest
	page.Limit = c.QueryInt("limit")
	page.Offset = c.QueryInt("offset")
	page.DefaultPage()
	list, err := h.uc.ListClients(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
