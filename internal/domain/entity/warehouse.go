package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario.
// Mismo borrado lógico que Product: un movimiento del ledger debe poder
// resolver su bodega incluso después de desactivarla.
type Warehouse struct {
	ID          string
	Name        string
	Location    string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
