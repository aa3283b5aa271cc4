package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/notifier"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// RecordMovementUseCase registra movimientos de inventario de forma
// transaccional. La secuencia lock → SUM(quantity) → INSERT corre dentro de
// una sola transacción para que dos salidas concurrentes sobre el mismo
// (producto, bodega) no puedan dejar el stock en negativo.
type RecordMovementUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	movementRepo  repository.StockMovementRepository
	sink          notifier.Sink
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	movementRepo repository.StockMovementRepository,
	sink notifier.Sink,
) *RecordMovementUseCase {
	return &RecordMovementUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		movementRepo:  movementRepo,
		sink:          sink,
	}
}

// RecordMovement valida producto y bodega activos, resuelve el signo de la
// cantidad según el tipo, verifica disponibilidad para salidas y persiste una
// entrada inmutable del ledger. Devuelve el movimiento persistido.
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, userID string, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	if in.ProductID == "" || in.WarehouseID == "" || in.Type == "" {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetActiveByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	warehouse, err := uc.warehouseRepo.GetActiveByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrWarehouseNotFound
	}

	signedQty, err := domaininv.SignedQuantity(in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}

	// total_cost = unit_cost * |quantity|; nil si no hay costo unitario
	var totalCost *decimal.Decimal
	if in.UnitCost != nil {
		absQty := signedQty
		if absQty < 0 {
			absQty = -absQty
		}
		tc := in.UnitCost.Mul(decimal.NewFromInt(absQty))
		totalCost = &tc
	}

	movement := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Type:        in.Type,
		Quantity:    signedQty,
		UnitCost:    in.UnitCost,
		TotalCost:   totalCost,
		Reference:   in.Reference,
		Notes:       in.Notes,
		CreatedAt:   time.Now(),
		CreatedBy:   userID,
	}

	// Inicia transacción; Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		_ repository.StockTransferRepository,
	) error {
		// Serializa los appends sobre este (producto, bodega) frente a otras tx
		if err := movRepo.LockStock(in.ProductID, in.WarehouseID); err != nil {
			return err
		}
		if signedQty < 0 {
			current, err := movRepo.SumQuantity(in.ProductID, in.WarehouseID)
			if err != nil {
				return err
			}
			if current+signedQty < 0 {
				return &domain.InsufficientStockError{Available: current, Requested: -signedQty}
			}
		}
		return movRepo.Create(movement)
	})
	if err != nil {
		return nil, err
	}

	out := toMovementResponse(movement)
	uc.sink.Publish(notifier.Event{
		Channel:   notifier.ChannelStockMovements,
		Type:      notifier.EventMovementRecorded,
		Payload:   out,
		Timestamp: time.Now(),
	})
	return out, nil
}

// CurrentStock devuelve el stock actual de un producto en una bodega: la suma
// de todas las cantidades firmadas del ledger. Sin filas devuelve 0, nunca error.
func (uc *RecordMovementUseCase) CurrentStock(productID, warehouseID string) (*dto.StockResponse, error) {
	qty, err := uc.movementRepo.SumQuantity(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{ProductID: productID, WarehouseID: warehouseID, Quantity: qty}, nil
}

// List lista movimientos con búsqueda y filtros de fecha.
func (uc *RecordMovementUseCase) List(filter dto.MovementListFilter) (*dto.MovementListResponse, error) {
	filter.DefaultPage()
	list, total, err := uc.movementRepo.List(filter.Search, filter.From, filter.To, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		TotalCost:   m.TotalCost,
		Reference:   m.Reference,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
		CreatedBy:   m.CreatedBy,
	}
}
