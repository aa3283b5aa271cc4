package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
)

// StockHandler maneja movimientos de inventario y consultas de stock (protegido).
type StockHandler struct {
	movements *inventory.RecordMovementUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(movements *inventory.RecordMovementUseCase) *StockHandler {
	return &StockHandler{movements: movements}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Inserta una entrada en el ledger. El signo de quantity lo decide el tipo de movimiento.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.WarehouseID == "" || in.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, warehouse_id y movement_type son requeridos"})
	}
	out, err := h.movements.RecordMovement(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos del ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        search        query  string  false  "Búsqueda por tipo o referencia"
// @Param        created_from  query  string  false  "Desde (RFC3339)"
// @Param        created_to    query  string  false  "Hasta (RFC3339)"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200           {object}  dto.MovementListResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	filter, err := parseListFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "created_from/created_to deben ser RFC3339"})
	}
	out, err := h.movements.List(filter)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// CurrentStock godoc
// @Summary      Stock actual de un producto en una bodega
// @Description  Derivado del ledger: SUM(quantity) para el par (producto, bodega).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) CurrentStock(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	out, err := h.movements.CurrentStock(productID, warehouseID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// parseListFilter arma el filtro común de listados (búsqueda, fechas, página).
func parseListFilter(c *fiber.Ctx) (dto.MovementListFilter, error) {
	filter := dto.MovementListFilter{
		Search: c.Query("search"),
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", 20),
			Offset: c.QueryInt("offset", 0),
		},
	}
	if raw := c.Query("created_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.From = &t
	}
	if raw := c.Query("created_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.To = &t
	}
	return filter, nil
}
