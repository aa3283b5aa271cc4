package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/reports"
)

// ReportHandler expone los reportes de inventario (protegido).
type ReportHandler struct {
	valuation *reports.StockValuationUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(valuation *reports.StockValuationUseCase) *ReportHandler {
	return &ReportHandler{valuation: valuation}
}

// StockValuationPDF godoc
// @Summary      Reporte de valorización de inventario en PDF
// @Description  Existencias por producto y bodega (derivadas del ledger) valorizadas a precio de lista.
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/stock-valuation [get]
func (h *ReportHandler) StockValuationPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.valuation.BuildPDF(c.UserContext())
	if err != nil {
		return writeDomainError(c, err)
	}
	filename := fmt.Sprintf("valorizacion-inventario-%s.pdf", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
