package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/notifier"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TransferUseCase administra el ciclo de vida de un traslado entre bodegas:
// pending → completed | cancelled (terminales, sin retorno). Al completar se
// crean los dos movimientos del par (TRANSFER_OUT origen, TRANSFER_IN destino)
// y el cambio de estado, todo en una sola transacción: nunca queda registrado
// un solo lado del traslado.
type TransferUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	movementRepo  repository.StockMovementRepository
	transferRepo  repository.StockTransferRepository
	sink          notifier.Sink
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	movementRepo repository.StockMovementRepository,
	transferRepo repository.StockTransferRepository,
	sink notifier.Sink,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		movementRepo:  movementRepo,
		transferRepo:  transferRepo,
		sink:          sink,
	}
}

// Create valida y persiste un traslado en estado pending. La verificación de
// stock aquí es consultiva: el stock puede moverse entre la creación y la
// finalización, por eso Complete vuelve a verificar dentro de su transacción.
func (uc *TransferUseCase) Create(ctx context.Context, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if in.ProductID == "" || in.FromWarehouseID == "" || in.ToWarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.ErrSameWarehouseTransfer
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetActiveByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	fromWh, err := uc.warehouseRepo.GetActiveByID(in.FromWarehouseID)
	if err != nil {
		return nil, err
	}
	if fromWh == nil {
		return nil, domain.ErrWarehouseNotFound
	}
	toWh, err := uc.warehouseRepo.GetActiveByID(in.ToWarehouseID)
	if err != nil {
		return nil, err
	}
	if toWh == nil {
		return nil, domain.ErrWarehouseNotFound
	}

	current, err := uc.movementRepo.SumQuantity(in.ProductID, in.FromWarehouseID)
	if err != nil {
		return nil, err
	}
	if current < in.Quantity {
		return nil, &domain.InsufficientStockError{Available: current, Requested: in.Quantity}
	}

	transfer := &entity.StockTransfer{
		ID:              uuid.New().String(),
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Reference:       in.Reference,
		Notes:           in.Notes,
		Status:          entity.TransferStatusPending,
		CreatedAt:       time.Now(),
		CreatedBy:       userID,
	}
	if err := uc.transferRepo.Create(transfer); err != nil {
		return nil, err
	}

	out := toTransferResponse(transfer)
	uc.sink.Publish(notifier.Event{
		Channel:   notifier.ChannelStockTransfers,
		Type:      notifier.EventTransferCreated,
		Payload:   out,
		Timestamp: time.Now(),
	})
	return out, nil
}

// Complete finaliza un traslado pending: bloquea la fila del traslado,
// re-verifica disponibilidad en la bodega origen (ventana de carrera desde la
// creación) y escribe atómicamente los dos movimientos del par más el cambio
// de estado. Los cuatro writes confirman juntos o se revierten juntos.
func (uc *TransferUseCase) Complete(ctx context.Context, transferID, userID string) (*dto.TransferResponse, error) {
	var completed *entity.StockTransfer

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		transferRepo repository.StockTransferRepository,
	) error {
		transfer, err := transferRepo.GetForUpdate(transferID)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrTransferNotFound
		}
		if transfer.Status != entity.TransferStatusPending {
			return domain.ErrInvalidTransferState
		}

		if err := movRepo.LockStock(transfer.ProductID, transfer.FromWarehouseID); err != nil {
			return err
		}
		current, err := movRepo.SumQuantity(transfer.ProductID, transfer.FromWarehouseID)
		if err != nil {
			return err
		}
		if current < transfer.Quantity {
			return &domain.InsufficientStockError{Available: current, Requested: transfer.Quantity}
		}

		now := time.Now()
		reference := transfer.MovementReference()

		// La política de signos garantiza -quantity en origen y +quantity en destino
		outQty, err := domaininv.SignedQuantity(entity.MovementTypeTRANSFEROUT, transfer.Quantity)
		if err != nil {
			return err
		}
		inQty, err := domaininv.SignedQuantity(entity.MovementTypeTRANSFERIN, transfer.Quantity)
		if err != nil {
			return err
		}

		outbound := &entity.StockMovement{
			ID:          uuid.New().String(),
			ProductID:   transfer.ProductID,
			WarehouseID: transfer.FromWarehouseID,
			Type:        entity.MovementTypeTRANSFEROUT,
			Quantity:    outQty,
			Reference:   reference,
			Notes:       fmt.Sprintf("Traslado hacia bodega %s: %s", transfer.ToWarehouseID, transfer.Notes),
			CreatedAt:   now,
			CreatedBy:   userID,
		}
		if err := movRepo.Create(outbound); err != nil {
			return err
		}

		inbound := &entity.StockMovement{
			ID:          uuid.New().String(),
			ProductID:   transfer.ProductID,
			WarehouseID: transfer.ToWarehouseID,
			Type:        entity.MovementTypeTRANSFERIN,
			Quantity:    inQty,
			Reference:   reference,
			Notes:       fmt.Sprintf("Traslado desde bodega %s: %s", transfer.FromWarehouseID, transfer.Notes),
			CreatedAt:   now,
			CreatedBy:   userID,
		}
		if err := movRepo.Create(inbound); err != nil {
			return err
		}

		if err := transferRepo.UpdateStatus(transfer.ID, entity.TransferStatusCompleted, &now); err != nil {
			return err
		}

		transfer.Status = entity.TransferStatusCompleted
		transfer.CompletedAt = &now
		completed = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := toTransferResponse(completed)
	uc.sink.Publish(notifier.Event{
		Channel:   notifier.ChannelStockTransfers,
		Type:      notifier.EventTransferCompleted,
		Payload:   out,
		Timestamp: time.Now(),
	})
	return out, nil
}

// Cancel cancela un traslado pending. No produce movimientos en el ledger.
func (uc *TransferUseCase) Cancel(ctx context.Context, transferID string) (*dto.TransferResponse, error) {
	var cancelled *entity.StockTransfer

	err := uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		transferRepo repository.StockTransferRepository,
	) error {
		transfer, err := transferRepo.GetForUpdate(transferID)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrTransferNotFound
		}
		if transfer.Status != entity.TransferStatusPending {
			return domain.ErrInvalidTransferState
		}
		if err := transferRepo.UpdateStatus(transfer.ID, entity.TransferStatusCancelled, nil); err != nil {
			return err
		}
		transfer.Status = entity.TransferStatusCancelled
		cancelled = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := toTransferResponse(cancelled)
	uc.sink.Publish(notifier.Event{
		Channel:   notifier.ChannelStockTransfers,
		Type:      notifier.EventTransferCancelled,
		Payload:   out,
		Timestamp: time.Now(),
	})
	return out, nil
}

// GetByID obtiene un traslado por ID.
func (uc *TransferUseCase) GetByID(id string) (*dto.TransferResponse, error) {
	transfer, err := uc.transferRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrTransferNotFound
	}
	return toTransferResponse(transfer), nil
}

// List lista traslados con búsqueda y filtros de fecha.
func (uc *TransferUseCase) List(filter dto.MovementListFilter) (*dto.TransferListResponse, error) {
	filter.DefaultPage()
	list, total, err := uc.transferRepo.List(filter.Search, filter.From, filter.To, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTransferResponse(t))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

func toTransferResponse(t *entity.StockTransfer) *dto.TransferResponse {
	if t == nil {
		return nil
	}
	return &dto.TransferResponse{
		ID:              t.ID,
		ProductID:       t.ProductID,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		Quantity:        t.Quantity,
		Reference:       t.Reference,
		Notes:           t.Notes,
		Status:          t.Status,
		CreatedAt:       t.CreatedAt,
		CompletedAt:     t.CompletedAt,
		CreatedBy:       t.CreatedBy,
	}
}
