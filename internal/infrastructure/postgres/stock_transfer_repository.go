package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

const transferColumns = `id, product_id, from_warehouse_id, to_warehouse_id, quantity, reference, notes, status, created_at, completed_at, created_by`

// StockTransferRepo implementación del puerto StockTransferRepository sobre PostgreSQL.
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador de persistencia para traslados. Pasar pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

// Create persiste un nuevo traslado (estado pending).
func (r *StockTransferRepo) Create(transfer *entity.StockTransfer) error {
	query := `
		INSERT INTO stock_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.ProductID, transfer.FromWarehouseID, transfer.ToWarehouseID,
		transfer.Quantity, transfer.Reference, transfer.Notes, transfer.Status,
		transfer.CreatedAt, transfer.CompletedAt, transfer.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traslado por ID. Devuelve nil si no existe.
func (r *StockTransferRepo) GetByID(id string) (*entity.StockTransfer, error) {
	return r.getBy(id, "")
}

// GetForUpdate obtiene un traslado bloqueando su fila (SELECT FOR UPDATE).
// Debe llamarse dentro de una transacción; serializa complete/cancel concurrentes.
func (r *StockTransferRepo) GetForUpdate(id string) (*entity.StockTransfer, error) {
	return r.getBy(id, " FOR UPDATE")
}

func (r *StockTransferRepo) getBy(id, suffix string) (*entity.StockTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE id = $1` + suffix
	var t entity.StockTransfer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.ProductID, &t.FromWarehouseID, &t.ToWarehouseID, &t.Quantity,
		&t.Reference, &t.Notes, &t.Status, &t.CreatedAt, &t.CompletedAt, &t.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	return &t, nil
}

// UpdateStatus fija el estado del traslado y completed_at (nil si no aplica).
// Es la única mutación permitida sobre un traslado.
func (r *StockTransferRepo) UpdateStatus(id, status string, completedAt *time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE stock_transfers SET status = $2, completed_at = $3 WHERE id = $1`,
		id, status, completedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	return nil
}

// List lista traslados con búsqueda opcional (estado o referencia), rango de
// fechas opcional y paginación. Devuelve también el total sin paginar.
func (r *StockTransferRepo) List(search string, from, to *time.Time, limit, offset int) ([]*entity.StockTransfer, int, error) {
	where := `TRUE`
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(` AND (status ILIKE $%d OR reference ILIKE $%d)`, len(args), len(args))
	}
	if from != nil {
		args = append(args, *from)
		where += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		where += fmt.Sprintf(` AND created_at <= $%d`, len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM stock_transfers WHERE ` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock transfers: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM stock_transfers WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		transferColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock transfers: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockTransfer
	for rows.Next() {
		var t entity.StockTransfer
		if err := rows.Scan(&t.ID, &t.ProductID, &t.FromWarehouseID, &t.ToWarehouseID, &t.Quantity,
			&t.Reference, &t.Notes, &t.Status, &t.CreatedAt, &t.CompletedAt, &t.CreatedBy); err != nil {
			return nil, 0, fmt.Errorf("scan stock transfer: %w", err)
		}
		list = append(list, &t)
	}
	return list, total, rows.Err()
}
