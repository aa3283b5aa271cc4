package inventory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del motor de
// inventario: la verificación de stock y la inserción en el ledger (y en el
// caso de traslados, los dos movimientos más el cambio de estado) confirman
// juntos o no confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		transferRepo repository.StockTransferRepository,
	) error) error
}
