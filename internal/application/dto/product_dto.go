package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Category      string          `json:"category"`
}

// UpdateProductRequest actualización parcial (punteros = campo opcional).
// El SKU no se actualiza: identifica al producto en sistemas externos.
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	UnitOfMeasure *string          `json:"unit_of_measure"`
	Category      *string          `json:"category"`
}

// ProductResponse producto serializado.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Category      string          `json:"category"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// ProductListResponse listado paginado.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductStockResponse stock de un producto desglosado por bodega
// (cada cantidad es la suma del ledger para ese par).
type ProductStockResponse struct {
	ProductID   string              `json:"product_id"`
	Total       int64               `json:"total"`
	ByWarehouse []WarehouseStockDTO `json:"by_warehouse"`
}

// WarehouseStockDTO cantidad en una bodega.
type WarehouseStockDTO struct {
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Quantity      int64  `json:"quantity"`
}
