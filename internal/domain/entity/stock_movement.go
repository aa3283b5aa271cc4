package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario (enum cerrado).
const (
	MovementTypePURCHASE    = "PURCHASE"
	MovementTypeSALE        = "SALE"
	MovementTypeADJUSTMENT  = "ADJUSTMENT"
	MovementTypeDAMAGED     = "DAMAGED"
	MovementTypeRETURN      = "RETURN"
	MovementTypeTRANSFERIN  = "TRANSFER_IN"
	MovementTypeTRANSFEROUT = "TRANSFER_OUT"
)

// StockMovement es una entrada del ledger de inventario: inmutable una vez
// creada. Quantity lleva el signo ya resuelto (positivo entrada, negativo
// salida); las correcciones son nuevos movimientos compensatorios, nunca
// updates ni deletes.
type StockMovement struct {
	ID          string
	ProductID   string
	WarehouseID string
	Type        string           // uno de los MovementType*
	Quantity    int64            // con signo: positivo entrada, negativo salida
	UnitCost    *decimal.Decimal // opcional
	TotalCost   *decimal.Decimal // unit_cost * |quantity|, derivado
	Reference   string           // correlación: orden de compra, factura, TRANSFER-{id}, etc.
	Notes       string
	CreatedAt   time.Time
	CreatedBy   string // UserID
}
