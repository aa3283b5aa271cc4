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

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, warehouse_id, movement_type, quantity, unit_cost, total_cost, reference, notes, created_at, created_by`

// StockMovementRepo implementación del puerto StockMovementRepository sobre
// PostgreSQL. El ledger es append-only: no hay UPDATE ni DELETE de movimientos.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento en el ledger.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.WarehouseID, movement.Type,
		movement.Quantity, movement.UnitCost, movement.TotalCost,
		movement.Reference, movement.Notes, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.WarehouseID, &m.Type, &m.Quantity,
		&m.UnitCost, &m.TotalCost, &m.Reference, &m.Notes, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return &m, nil
}

// SumQuantity devuelve SUM(quantity) para (producto, bodega); 0 si no hay filas.
// El stock actual se deriva siempre de esta suma, nunca de un contador.
func (r *StockMovementRepo) SumQuantity(productID, warehouseID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM stock_movements WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum stock movements: %w", err)
	}
	return sum, nil
}

// LockStock toma un advisory lock transaccional sobre (producto, bodega).
// Sin fila de stock materializada no hay nada que bloquear con FOR UPDATE,
// así que la exclusión entre salidas concurrentes se consigue con
// pg_advisory_xact_lock: se libera solo al terminar la transacción.
func (r *StockMovementRepo) LockStock(productID, warehouseID string) error {
	_, err := r.q.Exec(context.Background(),
		`SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2))`,
		productID, warehouseID,
	)
	if err != nil {
		return fmt.Errorf("lock stock: %w", err)
	}
	return nil
}

// ListByReference lista los movimientos que comparten una referencia,
// por ejemplo los dos lados de un traslado (TRANSFER-{id}).
func (r *StockMovementRepo) ListByReference(reference string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE reference = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, reference)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// List lista movimientos con búsqueda opcional (tipo o referencia), rango de
// fechas opcional y paginación. Devuelve también el total sin paginar.
func (r *StockMovementRepo) List(search string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, int, error) {
	where := `TRUE`
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(` AND (movement_type ILIKE $%d OR reference ILIKE $%d)`, len(args), len(args))
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
	countQuery := `SELECT COUNT(*) FROM stock_movements WHERE ` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM stock_movements WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		movementColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	list, err := scanMovements(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &m.Type, &m.Quantity,
			&m.UnitCost, &m.TotalCost, &m.Reference, &m.Notes, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
