package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// ScrapedProductRepository define el puerto de lectura del catálogo scrapeado
// que alimenta al motor de recomendaciones.
type ScrapedProductRepository interface {
	GetByID(id string) (*entity.ScrapedProduct, error)
	ListAll() ([]*entity.ScrapedProduct, error)
	List(search string, limit, offset int) ([]*entity.ScrapedProduct, int, error)
}
