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

// ProductUseCase casos de uso CRUD para productos.
// El borrado es siempre lógico: los movimientos del ledger referencian
// productos de forma permanente.
type ProductUseCase struct {
	repo          repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	movementRepo  repository.StockMovementRepository
	sink          notifier.Sink
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	movementRepo repository.StockMovementRepository,
	sink notifier.Sink,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, warehouseRepo: warehouseRepo, movementRepo: movementRepo, sink: sink}
}

// Create crea un nuevo producto con SKU único.
func (uc *ProductUseCase) Create(userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		UnitPrice:     in.UnitPrice,
		UnitOfMeasure: in.UnitOfMeasure,
		Category:      in.Category,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     userID,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	out := toProductResponse(product)
	uc.sink.Publish(notifier.Event{
		Channel: notifier.ChannelProducts, Type: notifier.EventProductCreated,
		Payload: out, Timestamp: now,
	})
	return out, nil
}

// GetByID obtiene un producto por ID (activo o no: el detalle histórico debe resolverse siempre).
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto existente (parcial). El SKU es inmutable.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetActiveByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.UnitPrice != nil {
		product.UnitPrice = *in.UnitPrice
	}
	if in.UnitOfMeasure != nil {
		product.UnitOfMeasure = *in.UnitOfMeasure
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	out := toProductResponse(product)
	uc.sink.Publish(notifier.Event{
		Channel: notifier.ChannelProducts, Type: notifier.EventProductUpdated,
		Payload: out, Timestamp: product.UpdatedAt,
	})
	return out, nil
}

// Delete desactiva un producto (borrado lógico).
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetActiveByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	if err := uc.repo.Deactivate(id); err != nil {
		return err
	}
	uc.sink.Publish(notifier.Event{
		Channel: notifier.ChannelProducts, Type: notifier.EventProductDeleted,
		Payload: map[string]string{"id": id}, Timestamp: time.Now(),
	})
	return nil
}

// List lista productos con búsqueda por nombre/SKU/categoría.
func (uc *ProductUseCase) List(search string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// StockByWarehouse devuelve el stock del producto desglosado por bodega.
// Cada cantidad es SUM(quantity) del ledger para ese par: nunca un contador.
func (uc *ProductUseCase) StockByWarehouse(productID string) (*dto.ProductStockResponse, error) {
	product, err := uc.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	warehouses, _, err := uc.warehouseRepo.List(1000, 0)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductStockResponse{ProductID: productID}
	for _, w := range warehouses {
		qty, err := uc.movementRepo.SumQuantity(productID, w.ID)
		if err != nil {
			return nil, err
		}
		if qty == 0 {
			continue
		}
		out.ByWarehouse = append(out.ByWarehouse, dto.WarehouseStockDTO{
			WarehouseID:   w.ID,
			WarehouseName: w.Name,
			Quantity:      qty,
		})
		out.Total += qty
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		UnitPrice:     p.UnitPrice,
		UnitOfMeasure: p.UnitOfMeasure,
		Category:      p.Category,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		CreatedBy:     p.CreatedBy,
	}
}
