package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetActiveByID devuelve nil si el producto no existe o está inactivo.
	// El core del ledger nunca debe confiar en la ausencia de filtro.
	GetActiveByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	// Deactivate implementa el borrado lógico (is_active = false).
	Deactivate(id string) error
	List(search string, limit, offset int) ([]*entity.Product, int, error)
}
