package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del ledger de
// movimientos. Solo inserta y lee: el ledger es append-only.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// SumQuantity devuelve SUM(quantity) para (producto, bodega); 0 si no hay filas.
	// Es la única fuente de verdad del stock actual: no existe contador materializado.
	SumQuantity(productID, warehouseID string) (int64, error)
	// LockStock toma un lock transaccional por (producto, bodega). Debe llamarse
	// dentro de una transacción, antes de SumQuantity, para que la secuencia
	// leer-verificar-insertar sea atómica frente a salidas concurrentes.
	LockStock(productID, warehouseID string) error
	ListByReference(reference string) ([]*entity.StockMovement, error)
	List(search string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, int, error)
}
