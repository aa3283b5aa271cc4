package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/notifier"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas (borrado lógico, ver ProductUseCase).
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
	sink notifier.Sink
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, sink notifier.Sink) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, sink: sink}
}

// Create crea una nueva bodega.
func (uc *WarehouseUseCase) Create(in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Location:    in.Location,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(warehouse); err != nil {
		return nil, err
	}
	out := toWarehouseResponse(warehouse)
	uc.sink.Publish(notifier.Event{
		Channel: notifier.ChannelDashboard, Type: notifier.EventWarehouseCreated,
		Payload: out, Timestamp: now,
	})
	return out, nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrWarehouseNotFound
	}
	return toWarehouseResponse(warehouse), nil
}

// Update actualiza una bodega.
func (uc *WarehouseUseCase) Update(id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetActiveByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrWarehouseNotFound
	}
	if in.Name != nil {
		warehouse.Name = *in.Name
	}
	if in.Location != nil {
		warehouse.Location = *in.Location
	}
	if in.Description != nil {
		warehouse.Description = *in.Description
	}
	warehouse.UpdatedAt = time.Now()
	if err := uc.repo.Update(warehouse); err != nil {
		return nil, err
	}
	out := toWarehouseResponse(warehouse)
	uc.sink.Publish(notifier.Event{
		Channel: notifier.ChannelDashboard, Type: notifier.EventWarehouseUpdated,
		Payload: out, Timestamp: warehouse.UpdatedAt,
	})
	return out, nil
}

// Delete desactiva una bodega (borrado lógico: el ledger la sigue referenciando).
func (uc *WarehouseUseCase) Delete(id string) error {
	warehouse, err := uc.repo.GetActiveByID(id)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return domain.ErrWarehouseNotFound
	}
	if err := uc.repo.Deactivate(id); err != nil {
		return err
	}
	uc.sink.Publish(notifier.Event{
		Channel: notifier.ChannelDashboard, Type: notifier.EventWarehouseDeleted,
		Payload: map[string]string{"id": id}, Timestamp: time.Now(),
	})
	return nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:          w.ID,
		Name:        w.Name,
		Location:    w.Location,
		Description: w.Description,
		IsActive:    w.IsActive,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}
