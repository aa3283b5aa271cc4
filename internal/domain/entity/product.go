package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// No guarda cantidad en existencia: el stock se deriva siempre del ledger de
// movimientos (ver StockMovement). IsActive implementa el borrado lógico:
// los movimientos referencian productos de forma permanente, nunca se borra la fila.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	Description   string
	UnitPrice     decimal.Decimal
	UnitOfMeasure string // ej. 'piece', 'kg', 'liter'
	Category      string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string // UserID
}
