package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	// GetActiveByID devuelve nil si la bodega no existe o está inactiva.
	GetActiveByID(id string) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	// Deactivate implementa el borrado lógico (is_active = false).
	Deactivate(id string) error
	List(limit, offset int) ([]*entity.Warehouse, int, error)
}
