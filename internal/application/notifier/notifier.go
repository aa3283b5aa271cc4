// Package notifier define el canal de eventos post-commit hacia la capa de
// tiempo real (WebSocket). Los casos de uso publican después de confirmar la
// transacción; la publicación nunca bloquea ni condiciona el commit.
package notifier

import "time"

// Canales de suscripción disponibles para los clientes.
const (
	ChannelDashboard      = "dashboard"
	ChannelProducts       = "products"
	ChannelStockMovements = "stock_movements"
	ChannelStockTransfers = "stock_transfers"
)

// Tipos de evento emitidos por la aplicación.
const (
	EventMovementRecorded  = "stock_movement_created"
	EventTransferCreated   = "stock_transfer_created"
	EventTransferCompleted = "stock_transfer_completed"
	EventTransferCancelled = "stock_transfer_cancelled"
	EventProductCreated    = "product_created"
	EventProductUpdated    = "product_updated"
	EventProductDeleted    = "product_deleted"
	EventWarehouseCreated  = "warehouse_created"
	EventWarehouseUpdated  = "warehouse_updated"
	EventWarehouseDeleted  = "warehouse_deleted"
)

// Event mensaje difundido a los suscriptores de un canal.
type Event struct {
	Channel   string      `json:"channel"`
	Type      string      `json:"type"`
	Payload   interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Sink puerto de publicación fire-and-forget. Las implementaciones no deben
// bloquear al caller (el hub WebSocket reparte en su propia goroutine).
type Sink interface {
	Publish(event Event)
}

// NopSink descarta todos los eventos. Útil en tests y cuando el hub no está habilitado.
type NopSink struct{}

// Publish no hace nada.
func (NopSink) Publish(Event) {}
