package entity

import "time"

// Estados del traslado. pending es inicial; completed y cancelled son terminales.
const (
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusCancelled = "cancelled"
)

// StockTransfer representa la intención de mover stock entre dos bodegas.
// Mientras está pending no posee movimientos; al completarse genera
// exactamente dos (TRANSFER_OUT en origen, TRANSFER_IN en destino) con
// referencia "TRANSFER-{id}". Cancelar nunca produce movimientos.
type StockTransfer struct {
	ID              string
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int64 // siempre positiva (> 0)
	Reference       string
	Notes           string
	Status          string
	CreatedAt       time.Time
	CompletedAt     *time.Time // solo al completar
	CreatedBy       string     // UserID
}

// MovementReference devuelve la referencia que correlaciona los dos
// movimientos generados al completar el traslado.
func (t *StockTransfer) MovementReference() string {
	return "TRANSFER-" + t.ID
}
