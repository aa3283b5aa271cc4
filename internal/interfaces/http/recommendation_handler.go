package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/recommendation"
)

// RecommendationHandler expone el motor de recomendaciones y el catálogo scrapeado (protegido).
type RecommendationHandler struct {
	engine *recommendation.Engine
}

// NewRecommendationHandler construye el handler.
func NewRecommendationHandler(engine *recommendation.Engine) *RecommendationHandler {
	return &RecommendationHandler{engine: engine}
}

// Catalog godoc
// @Summary      Listar catálogo scrapeado
// @Tags         recommendations
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Búsqueda por nombre o categoría"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.ScrapedProductListResponse
// @Router       /api/recommendations/catalog [get]
func (h *RecommendationHandler) Catalog(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.engine.Catalog(c.Query("search"), page)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ByID godoc
// @Summary      Recomendaciones para un producto del catálogo
// @Tags         recommendations
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del producto scrapeado"
// @Param        type   query  string  false  "price | category | description | hybrid"  default(hybrid)
// @Param        limit  query  int     false  "Límite"  default(10)
// @Success      200    {object}  dto.RecommendationResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/recommendations/{id} [get]
func (h *RecommendationHandler) ByID(c *fiber.Ctx) error {
	out, err := h.engine.ByID(c.Params("id"), c.Query("type", recommendation.TypeHybrid), c.QueryInt("limit", 10))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ByName godoc
// @Summary      Recomendaciones buscando el producto por nombre
// @Tags         recommendations
// @Security     Bearer
// @Produce      json
// @Param        name   query  string  true   "Nombre (match parcial)"
// @Param        type   query  string  false  "price | category | description | hybrid"  default(hybrid)
// @Param        limit  query  int     false  "Límite"  default(10)
// @Success      200    {object}  dto.RecommendationResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/recommendations [get]
func (h *RecommendationHandler) ByName(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.engine.ByName(name, c.Query("type", recommendation.TypeHybrid), c.QueryInt("limit", 10))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Regenerate godoc
// @Summary      Regenerar embeddings del catálogo (solo admin)
// @Tags         recommendations
// @Security     Bearer
// @Produce      json
// @Success      202  "Aceptado"
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/recommendations/regenerate [post]
func (h *RecommendationHandler) Regenerate(c *fiber.Ctx) error {
	if err := h.engine.Regenerate(c.UserContext()); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}
