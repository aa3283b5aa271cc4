package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockTransferRepository define el puerto de persistencia para StockTransfer.
type StockTransferRepository interface {
	Create(transfer *entity.StockTransfer) error
	GetByID(id string) (*entity.StockTransfer, error)
	// GetForUpdate bloquea la fila del traslado (SELECT FOR UPDATE) para que
	// dos complete/cancel concurrentes no pisen un estado terminal.
	GetForUpdate(id string) (*entity.StockTransfer, error)
	// UpdateStatus fija status y completed_at (nil si no aplica).
	UpdateStatus(id, status string, completedAt *time.Time) error
	List(search string, from, to *time.Time, limit, offset int) ([]*entity.StockTransfer, int, error)
}
