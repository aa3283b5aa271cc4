package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest registro de un movimiento de inventario.
// Quantity es la magnitud ingresada por el usuario; el signo final lo decide
// la política por tipo de movimiento (ADJUSTMENT conserva el signo recibido).
type RecordMovementRequest struct {
	ProductID   string           `json:"product_id"`
	WarehouseID string           `json:"warehouse_id"`
	Type        string           `json:"movement_type"`
	Quantity    int64            `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
	Reference   string           `json:"reference_number"`
	Notes       string           `json:"notes"`
}

// MovementResponse movimiento serializado (entrada del ledger).
type MovementResponse struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"product_id"`
	WarehouseID string           `json:"warehouse_id"`
	Type        string           `json:"movement_type"`
	Quantity    int64            `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
	TotalCost   *decimal.Decimal `json:"total_cost"`
	Reference   string           `json:"reference_number,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	CreatedBy   string           `json:"created_by,omitempty"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementListFilter filtros de búsqueda para el listado.
type MovementListFilter struct {
	Search string     `query:"search"`
	From   *time.Time `query:"created_from"`
	To     *time.Time `query:"created_to"`
	PageRequest
}

// CreateTransferRequest alta de traslado entre bodegas.
type CreateTransferRequest struct {
	ProductID       string `json:"product_id"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Quantity        int64  `json:"quantity"`
	Reference       string `json:"transfer_reference"`
	Notes           string `json:"notes"`
}

// TransferResponse traslado serializado.
type TransferResponse struct {
	ID              string     `json:"id"`
	ProductID       string     `json:"product_id"`
	FromWarehouseID string     `json:"from_warehouse_id"`
	ToWarehouseID   string     `json:"to_warehouse_id"`
	Quantity        int64      `json:"quantity"`
	Reference       string     `json:"transfer_reference,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedBy       string     `json:"created_by,omitempty"`
}

// TransferListResponse listado paginado de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockResponse stock actual de un producto en una bodega (derivado del ledger).
type StockResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
}
