package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	appinv "github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/notifier"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: un store compartido y repos que lo mutan. El txRunner de
// test ejecuta el callback directamente (una tx simulada por llamada).
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu         sync.Mutex
	movements  []*entity.StockMovement
	transfers  map[string]*entity.StockTransfer
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		transfers:  make(map[string]*entity.StockTransfer),
		products:   make(map[string]*entity.Product),
		warehouses: make(map[string]*entity.Warehouse),
	}
}

type fakeMovementRepo struct{ s *fakeStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) SumQuantity(productID, warehouseID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sum int64
	for _, m := range r.s.movements {
		if m.ProductID == productID && m.WarehouseID == warehouseID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

func (r *fakeMovementRepo) LockStock(productID, warehouseID string) error { return nil }

func (r *fakeMovementRepo) ListByReference(reference string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.Reference == reference {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) List(search string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.StockMovement, len(r.s.movements))
	copy(out, r.s.movements)
	return out, len(out), nil
}

type fakeTransferRepo struct{ s *fakeStore }

func (r *fakeTransferRepo) Create(t *entity.StockTransfer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *t
	r.s.transfers[t.ID] = &cp
	return nil
}

func (r *fakeTransferRepo) GetByID(id string) (*entity.StockTransfer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTransferRepo) GetForUpdate(id string) (*entity.StockTransfer, error) {
	return r.GetByID(id)
}

func (r *fakeTransferRepo) UpdateStatus(id, status string, completedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transfers[id]
	if !ok {
		return errors.New("transfer no existe")
	}
	t.Status = status
	t.CompletedAt = completedAt
	return nil
}

func (r *fakeTransferRepo) List(search string, from, to *time.Time, limit, offset int) ([]*entity.StockTransfer, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockTransfer
	for _, t := range r.s.transfers {
		cp := *t
		out = append(out, &cp)
	}
	return out, len(out), nil
}

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r *fakeProductRepo) GetActiveByID(id string) (*entity.Product, error) {
	p := r.s.products[id]
	if p == nil || !p.IsActive {
		return nil, nil
	}
	return p, nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }

func (r *fakeProductRepo) Deactivate(id string) error {
	if p := r.s.products[id]; p != nil {
		p.IsActive = false
	}
	return nil
}

func (r *fakeProductRepo) List(search string, limit, offset int) ([]*entity.Product, int, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

type fakeWarehouseRepo struct{ s *fakeStore }

func (r *fakeWarehouseRepo) Create(w *entity.Warehouse) error {
	r.s.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.s.warehouses[id], nil
}

func (r *fakeWarehouseRepo) GetActiveByID(id string) (*entity.Warehouse, error) {
	w := r.s.warehouses[id]
	if w == nil || !w.IsActive {
		return nil, nil
	}
	return w, nil
}

func (r *fakeWarehouseRepo) Update(w *entity.Warehouse) error { r.s.warehouses[w.ID] = w; return nil }

func (r *fakeWarehouseRepo) Deactivate(id string) error {
	if w := r.s.warehouses[id]; w != nil {
		w.IsActive = false
	}
	return nil
}

func (r *fakeWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, int, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		if w.IsActive {
			out = append(out, w)
		}
	}
	return out, len(out), nil
}

type fakeTxRunner struct{ s *fakeStore }

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	transferRepo repository.StockTransferRepository,
) error) error {
	return fn(&fakeMovementRepo{s: r.s}, &fakeTransferRepo{s: r.s})
}

// recordingSink captura los eventos publicados para verificar canal y tipo.
type recordingSink struct {
	mu     sync.Mutex
	events []notifier.Event
}

func (s *recordingSink) Publish(e notifier.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) last() (notifier.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return notifier.Event{}, false
	}
	return s.events[len(s.events)-1], true
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserID      = "user-1"
	testProductID   = "prod-1"
	testWarehouseA  = "wh-a"
	testWarehouseB  = "wh-b"
	inactiveProduct = "prod-inactivo"
)

type fixture struct {
	store     *fakeStore
	sink      *recordingSink
	movements *appinv.RecordMovementUseCase
	transfers *appinv.TransferUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newFakeStore()
	store.products[testProductID] = &entity.Product{
		ID: testProductID, SKU: "SKU-1", Name: "Tornillo 3mm",
		UnitPrice: decimal.NewFromInt(500), IsActive: true,
	}
	store.products[inactiveProduct] = &entity.Product{
		ID: inactiveProduct, SKU: "SKU-2", Name: "Descontinuado", IsActive: false,
	}
	store.warehouses[testWarehouseA] = &entity.Warehouse{ID: testWarehouseA, Name: "Bodega Norte", IsActive: true}
	store.warehouses[testWarehouseB] = &entity.Warehouse{ID: testWarehouseB, Name: "Bodega Sur", IsActive: true}

	sink := &recordingSink{}
	txRunner := &fakeTxRunner{s: store}
	productRepo := &fakeProductRepo{s: store}
	warehouseRepo := &fakeWarehouseRepo{s: store}
	movementRepo := &fakeMovementRepo{s: store}
	transferRepo := &fakeTransferRepo{s: store}

	return &fixture{
		store: store,
		sink:  sink,
		movements: appinv.NewRecordMovementUseCase(
			txRunner, productRepo, warehouseRepo, movementRepo, sink),
		transfers: appinv.NewTransferUseCase(
			txRunner, productRepo, warehouseRepo, movementRepo, transferRepo, sink),
	}
}

func (f *fixture) record(t *testing.T, movementType string, qty int64) *dto.MovementResponse {
	t.Helper()
	out, err := f.movements.RecordMovement(context.Background(), testUserID, dto.RecordMovementRequest{
		ProductID:   testProductID,
		WarehouseID: testWarehouseA,
		Type:        movementType,
		Quantity:    qty,
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) stockIn(t *testing.T, warehouseID string) int64 {
	t.Helper()
	out, err := f.movements.CurrentStock(testProductID, warehouseID)
	require.NoError(t, err)
	return out.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_CompraLuegoVenta(t *testing.T) {
	f := newFixture(t)

	compra := f.record(t, entity.MovementTypePURCHASE, 100)
	assert.Equal(t, int64(100), compra.Quantity, "la compra debe quedar con signo positivo")

	venta := f.record(t, entity.MovementTypeSALE, 40)
	assert.Equal(t, int64(-40), venta.Quantity, "la venta debe quedar con signo negativo")

	assert.Equal(t, int64(60), f.stockIn(t, testWarehouseA),
		"el stock es la suma de las cantidades firmadas del ledger")

	last, ok := f.sink.last()
	require.True(t, ok, "cada movimiento confirmado debe publicar un evento")
	assert.Equal(t, notifier.ChannelStockMovements, last.Channel)
	assert.Equal(t, notifier.EventMovementRecorded, last.Type)
}

func TestRecordMovement_TotalCostDerivado(t *testing.T) {
	f := newFixture(t)
	unitCost := decimal.NewFromFloat(12.50)

	out, err := f.movements.RecordMovement(context.Background(), testUserID, dto.RecordMovementRequest{
		ProductID:   testProductID,
		WarehouseID: testWarehouseA,
		Type:        entity.MovementTypePURCHASE,
		Quantity:    8,
		UnitCost:    &unitCost,
	})
	require.NoError(t, err)
	require.NotNil(t, out.TotalCost)
	assert.True(t, decimal.NewFromInt(100).Equal(*out.TotalCost),
		"total_cost = unit_cost * |quantity|")
}

func TestRecordMovement_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.MovementTypePURCHASE, 70)

	_, err := f.movements.RecordMovement(context.Background(), testUserID, dto.RecordMovementRequest{
		ProductID:   testProductID,
		WarehouseID: testWarehouseA,
		Type:        entity.MovementTypeSALE,
		Quantity:    200,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficientErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, int64(70), insufficientErr.Available)
	assert.Equal(t, int64(200), insufficientErr.Requested)

	assert.Len(t, f.store.movements, 1, "el rechazo no debe dejar rastro en el ledger")
	assert.Equal(t, int64(70), f.stockIn(t, testWarehouseA))
}

func TestRecordMovement_AjusteNegativoNoPuedeDejarNegativo(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.MovementTypePURCHASE, 10)

	_, err := f.movements.RecordMovement(context.Background(), testUserID, dto.RecordMovementRequest{
		ProductID:   testProductID,
		WarehouseID: testWarehouseA,
		Type:        entity.MovementTypeADJUSTMENT,
		Quantity:    -11,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRecordMovement_ProductoInactivo(t *testing.T) {
	f := newFixture(t)
	_, err := f.movements.RecordMovement(context.Background(), testUserID, dto.RecordMovementRequest{
		ProductID:   inactiveProduct,
		WarehouseID: testWarehouseA,
		Type:        entity.MovementTypePURCHASE,
		Quantity:    1,
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound,
		"un producto desactivado no acepta movimientos nuevos")
}

func TestRecordMovement_TipoDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.movements.RecordMovement(context.Background(), testUserID, dto.RecordMovementRequest{
		ProductID:   testProductID,
		WarehouseID: testWarehouseA,
		Type:        "TELEPORT",
		Quantity:    1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMovementType)
	assert.Empty(t, f.store.movements)
}

func TestCurrentStock_SinMovimientosEsCero(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, int64(0), f.stockIn(t, testWarehouseB),
		"sin filas en el ledger el stock es 0, nunca error")
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func createTransfer(t *testing.T, f *fixture, qty int64) *dto.TransferResponse {
	t.Helper()
	out, err := f.transfers.Create(context.Background(), testUserID, dto.CreateTransferRequest{
		ProductID:       testProductID,
		FromWarehouseID: testWarehouseA,
		ToWarehouseID:   testWarehouseB,
		Quantity:        qty,
		Notes:           "reposición sucursal",
	})
	require.NoError(t, err)
	return out
}

// Escenario completo: comprar 100 en A, trasladar 30 a B, completar y
// verificar conservación, pares de movimientos y estado terminal.
func TestTransfer_FlujoCompleto(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.MovementTypePURCHASE, 100)

	created := createTransfer(t, f, 30)
	assert.Equal(t, entity.TransferStatusPending, created.Status)
	assert.Equal(t, int64(100), f.stockIn(t, testWarehouseA),
		"crear el traslado no mueve stock")

	completed, err := f.transfers.Complete(context.Background(), created.ID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	assert.Equal(t, int64(70), f.stockIn(t, testWarehouseA))
	assert.Equal(t, int64(30), f.stockIn(t, testWarehouseB))
	assert.Equal(t, int64(100), f.stockIn(t, testWarehouseA)+f.stockIn(t, testWarehouseB),
		"el traslado conserva el total del sistema")

	// Exactamente dos movimientos correlacionados por TRANSFER-{id}
	movRepo := &fakeMovementRepo{s: f.store}
	pair, err := movRepo.ListByReference("TRANSFER-" + created.ID)
	require.NoError(t, err)
	require.Len(t, pair, 2)

	byType := map[string]*entity.StockMovement{}
	for _, m := range pair {
		byType[m.Type] = m
	}
	out := byType[entity.MovementTypeTRANSFEROUT]
	in := byType[entity.MovementTypeTRANSFERIN]
	require.NotNil(t, out)
	require.NotNil(t, in)
	assert.Equal(t, int64(-30), out.Quantity)
	assert.Equal(t, testWarehouseA, out.WarehouseID)
	assert.Equal(t, int64(30), in.Quantity)
	assert.Equal(t, testWarehouseB, in.WarehouseID)

	last, ok := f.sink.last()
	require.True(t, ok)
	assert.Equal(t, notifier.EventTransferCompleted, last.Type)
}

func TestTransfer_MismaBodega(t *testing.T) {
	f := newFixture(t)
	_, err := f.transfers.Create(context.Background(), testUserID, dto.CreateTransferRequest{
		ProductID:       testProductID,
		FromWarehouseID: testWarehouseA,
		ToWarehouseID:   testWarehouseA,
		Quantity:        5,
	})
	assert.ErrorIs(t, err, domain.ErrSameWarehouseTransfer)
}

func TestTransfer_CantidadNoPositiva(t *testing.T) {
	f := newFixture(t)
	for _, qty := range []int64{0, -5} {
		_, err := f.transfers.Create(context.Background(), testUserID, dto.CreateTransferRequest{
			ProductID:       testProductID,
			FromWarehouseID: testWarehouseA,
			ToWarehouseID:   testWarehouseB,
			Quantity:        qty,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestTransfer_CrearSinStock(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.MovementTypePURCHASE, 10)

	_, err := f.transfers.Create(context.Background(), testUserID, dto.CreateTransferRequest{
		ProductID:       testProductID,
		FromWarehouseID: testWarehouseA,
		ToWarehouseID:   testWarehouseB,
		Quantity:        11,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// El stock puede bajar entre crear y completar: Complete re-verifica dentro
// de su transacción y rechaza sin tocar el ledger.
func TestTransfer_CompletarSinStockDisponible(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.MovementTypePURCHASE, 30)
	created := createTransfer(t, f, 30)

	// Una venta se adelanta y consume parte del stock
	f.record(t, entity.MovementTypeSALE, 10)

	_, err := f.transfers.Complete(context.Background(), created.ID, testUserID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, gerr := f.transfers.GetByID(created.ID)
	require.NoError(t, gerr)
	assert.Equal(t, entity.TransferStatusPending, got.Status,
		"un complete rechazado deja el traslado en pending")

	movRepo := &fakeMovementRepo{s: f.store}
	pair, _ := movRepo.ListByReference("TRANSFER-" + created.ID)
	assert.Empty(t, pair, "no debe quedar ningún lado del par registrado")
}

func TestTransfer_Cancelar(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.MovementTypePURCHASE, 50)
	created := createTransfer(t, f, 20)

	cancelled, err := f.transfers.Cancel(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.CompletedAt)

	assert.Equal(t, int64(50), f.stockIn(t, testWarehouseA), "cancelar nunca mueve stock")
	assert.Equal(t, int64(0), f.stockIn(t, testWarehouseB))
}

func TestTransfer_EstadosTerminalesSonFinales(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.MovementTypePURCHASE, 50)

	completado := createTransfer(t, f, 10)
	_, err := f.transfers.Complete(context.Background(), completado.ID, testUserID)
	require.NoError(t, err)

	cancelado := createTransfer(t, f, 10)
	_, err = f.transfers.Cancel(context.Background(), cancelado.ID)
	require.NoError(t, err)

	_, err = f.transfers.Complete(context.Background(), completado.ID, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransferState, "completar dos veces debe fallar")

	_, err = f.transfers.Cancel(context.Background(), completado.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransferState, "cancelar un completado debe fallar")

	_, err = f.transfers.Complete(context.Background(), cancelado.ID, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransferState, "completar un cancelado debe fallar")

	assert.Equal(t, int64(40), f.stockIn(t, testWarehouseA),
		"solo el traslado completado movió stock (50 - 10)")
}

func TestTransfer_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.transfers.Complete(context.Background(), "no-existe", testUserID)
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)

	_, err = f.transfers.Cancel(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)

	_, err = f.transfers.GetByID("no-existe")
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)
}
