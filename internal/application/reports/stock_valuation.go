package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// StockValuationLine una fila del reporte: existencias y valor de un producto
// en una bodega.
type StockValuationLine struct {
	ProductSKU    string
	ProductName   string
	WarehouseName string
	Quantity      int64
	UnitPrice     decimal.Decimal
	TotalValue    decimal.Decimal
}

// StockValuationReport snapshot valorizado del inventario al momento de la consulta.
type StockValuationReport struct {
	GeneratedAt time.Time
	Lines       []StockValuationLine
	GrandTotal  decimal.Decimal
}

// StockReportPDFGenerator puerto de render del reporte a PDF.
type StockReportPDFGenerator interface {
	GenerateStockReportPDF(ctx context.Context, report *StockValuationReport) ([]byte, error)
}

// StockValuationUseCase arma el reporte de valorización: existencias por
// producto y bodega (derivadas del ledger), valorizadas a precio de lista.
type StockValuationUseCase struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	movementRepo  repository.StockMovementRepository
	pdfGen        StockReportPDFGenerator
}

// NewStockValuationUseCase construye el caso de uso.
func NewStockValuationUseCase(
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	movementRepo repository.StockMovementRepository,
	pdfGen StockReportPDFGenerator,
) *StockValuationUseCase {
	return &StockValuationUseCase{
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		movementRepo:  movementRepo,
		pdfGen:        pdfGen,
	}
}

// Build genera el snapshot. Solo incluye combinaciones producto/bodega con
// existencias distintas de cero; la lectura es eventual (sin locks), cada
// suma es consistente por sí misma.
func (uc *StockValuationUseCase) Build(ctx context.Context) (*StockValuationReport, error) {
	products, _, err := uc.productRepo.List("", 1000, 0)
	if err != nil {
		return nil, err
	}
	warehouses, _, err := uc.warehouseRepo.List(1000, 0)
	if err != nil {
		return nil, err
	}

	report := &StockValuationReport{
		GeneratedAt: time.Now(),
		GrandTotal:  decimal.Zero,
	}
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		for _, w := range warehouses {
			if !w.IsActive {
				continue
			}
			qty, err := uc.movementRepo.SumQuantity(p.ID, w.ID)
			if err != nil {
				return nil, err
			}
			if qty == 0 {
				continue
			}
			value := p.UnitPrice.Mul(decimal.NewFromInt(qty))
			report.Lines = append(report.Lines, StockValuationLine{
				ProductSKU:    p.SKU,
				ProductName:   p.Name,
				WarehouseName: w.Name,
				Quantity:      qty,
				UnitPrice:     p.UnitPrice,
				TotalValue:    value,
			})
			report.GrandTotal = report.GrandTotal.Add(value)
		}
	}
	return report, nil
}

// BuildPDF genera el snapshot y lo renderiza a PDF.
func (uc *StockValuationUseCase) BuildPDF(ctx context.Context) ([]byte, error) {
	report, err := uc.Build(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateStockReportPDF(ctx, report)
}
