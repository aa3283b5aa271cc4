package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ScrapedProductRepository = (*ScrapedProductRepo)(nil)

const scrapedColumns = `id, product_name, product_description, category, price, rating, image_url, product_page_url, scraped_at`

// ScrapedProductRepo implementación de lectura del catálogo scrapeado sobre PostgreSQL.
type ScrapedProductRepo struct {
	q Querier
}

// NewScrapedProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewScrapedProductRepository(q Querier) *ScrapedProductRepo {
	return &ScrapedProductRepo{q: q}
}

// GetByID obtiene un producto scrapeado por ID. Devuelve nil si no existe.
func (r *ScrapedProductRepo) GetByID(id string) (*entity.ScrapedProduct, error) {
	query := `SELECT ` + scrapedColumns + ` FROM scraped_products WHERE id = $1`
	var p entity.ScrapedProduct
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Price,
		&p.Rating, &p.ImageURL, &p.PageURL, &p.ScrapedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get scraped product: %w", err)
	}
	return &p, nil
}

// ListAll devuelve el catálogo completo; lo consume el motor de recomendaciones
// al regenerar embeddings.
func (r *ScrapedProductRepo) ListAll() ([]*entity.ScrapedProduct, error) {
	query := `SELECT ` + scrapedColumns + ` FROM scraped_products ORDER BY scraped_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list scraped products: %w", err)
	}
	defer rows.Close()
	return scanScraped(rows)
}

// List lista el catálogo con búsqueda opcional (nombre o categoría) y paginación.
func (r *ScrapedProductRepo) List(search string, limit, offset int) ([]*entity.ScrapedProduct, int, error) {
	where := `TRUE`
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(` AND (product_name ILIKE $%d OR category ILIKE $%d)`, len(args), len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM scraped_products WHERE ` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count scraped products: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM scraped_products WHERE %s ORDER BY scraped_at DESC LIMIT $%d OFFSET $%d`,
		scrapedColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list scraped products: %w", err)
	}
	defer rows.Close()

	list, err := scanScraped(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func scanScraped(rows pgx.Rows) ([]*entity.ScrapedProduct, error) {
	var list []*entity.ScrapedProduct
	for rows.Next() {
		var p entity.ScrapedProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price,
			&p.Rating, &p.ImageURL, &p.PageURL, &p.ScrapedAt); err != nil {
			return nil, fmt.Errorf("scan scraped product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
