package recommendation_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/recommendation"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// fakeEmbedder asigna a cada texto un vector fijo por posición; así la
// similitud de coseno es determinista y verificable a mano.
type fakeEmbedder struct {
	vectors [][]float32
	calls   int
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vectors[i%len(f.vectors)]
	}
	return out, nil
}

type fakeCatalog struct {
	products []*entity.ScrapedProduct
}

func (f *fakeCatalog) GetByID(id string) (*entity.ScrapedProduct, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) ListAll() ([]*entity.ScrapedProduct, error) {
	return f.products, nil
}

func (f *fakeCatalog) List(search string, limit, offset int) ([]*entity.ScrapedProduct, int, error) {
	return f.products, len(f.products), nil
}

// memStore guarda el snapshot en memoria para verificar Load/Save sin Redis.
type memStore struct {
	vectors []recommendation.ProductVector
	saved   bool
}

func (s *memStore) Load(context.Context) ([]recommendation.ProductVector, bool, error) {
	if s.vectors == nil {
		return nil, false, nil
	}
	return s.vectors, true, nil
}

func (s *memStore) Save(_ context.Context, v []recommendation.ProductVector) error {
	s.vectors = v
	s.saved = true
	return nil
}

func (s *memStore) Invalidate(context.Context) error {
	s.vectors = nil
	return nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{products: []*entity.ScrapedProduct{
		{ID: "p1", Name: "Taladro Percutor 650W", Category: "herramientas", Price: decimal.NewFromInt(100), Description: "taladro con percusión"},
		{ID: "p2", Name: "Taladro Inalámbrico 18V", Category: "herramientas", Price: decimal.NewFromInt(110), Description: "taladro a batería"},
		{ID: "p3", Name: "Martillo Carpintero", Category: "herramientas", Price: decimal.NewFromInt(15), Description: "martillo de uña"},
		{ID: "p4", Name: "Pintura Blanca 1gal", Category: "pinturas", Price: decimal.NewFromInt(95), Description: "pintura látex interior"},
	}}
}

func testEmbedder() *fakeEmbedder {
	// p1 y p2 casi paralelos (alta similitud); p3 y p4 ortogonales a ellos
	return &fakeEmbedder{vectors: [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
		{0, 0, 1},
	}}
}

func newTestEngine(t *testing.T, store recommendation.VectorStore) *recommendation.Engine {
	t.Helper()
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	engine := recommendation.NewEngine(testCatalog(), testEmbedder(), store, log)
	require.NoError(t, engine.Warm(context.Background()))
	return engine
}

func TestEngine_PorPrecio(t *testing.T) {
	engine := newTestEngine(t, nil)

	// p1 cuesta 100; la ventana ±20% es [80, 120]: entran p2 (110) y p4 (95)
	out, err := engine.ByID("p1", recommendation.TypePrice, 10)
	require.NoError(t, err)

	ids := make([]string, 0, len(out.Items))
	for _, it := range out.Items {
		ids = append(ids, it.ID)
	}
	assert.ElementsMatch(t, []string{"p2", "p4"}, ids)
	assert.NotContains(t, ids, "p3", "15 está fuera de la ventana de precio")

	// p4 (95, delta 5%) debe puntuar más alto que p2 (110, delta 10%)
	assert.Equal(t, "p4", out.Items[0].ID)
	assert.InDelta(t, 0.95, out.Items[0].SimilarityScore, 0.001)
}

func TestEngine_PorCategoria(t *testing.T) {
	engine := newTestEngine(t, nil)

	out, err := engine.ByID("p1", recommendation.TypeCategory, 10)
	require.NoError(t, err)

	ids := make([]string, 0, len(out.Items))
	for _, it := range out.Items {
		ids = append(ids, it.ID)
		assert.Equal(t, 1.0, it.SimilarityScore, "match exacto de categoría puntúa 1.0")
	}
	assert.ElementsMatch(t, []string{"p2", "p3"}, ids, "solo la misma categoría, sin el objetivo")
}

func TestEngine_PorDescripcion(t *testing.T) {
	engine := newTestEngine(t, nil)

	out, err := engine.ByID("p1", recommendation.TypeDescription, 10)
	require.NoError(t, err)
	require.NotEmpty(t, out.Items)

	// p2 es el vecino por coseno; los ortogonales puntúan 0
	assert.Equal(t, "p2", out.Items[0].ID)
	assert.Greater(t, out.Items[0].SimilarityScore, 0.9)
}

func TestEngine_Hibrido(t *testing.T) {
	engine := newTestEngine(t, nil)

	out, err := engine.ByID("p1", recommendation.TypeHybrid, 10)
	require.NoError(t, err)
	require.NotEmpty(t, out.Items)
	assert.Equal(t, "hybrid", out.Type)

	// p2 acumula precio + categoría + descripción: debe encabezar
	assert.Equal(t, "p2", out.Items[0].ID)
	for _, it := range out.Items {
		assert.Equal(t, "hybrid", it.RecommendationType)
	}
}

func TestEngine_PorNombre(t *testing.T) {
	engine := newTestEngine(t, nil)

	out, err := engine.ByName("martillo", recommendation.TypeCategory, 10)
	require.NoError(t, err)
	assert.Equal(t, "p3", out.ProductID, "el match por nombre no distingue mayúsculas")

	_, err = engine.ByName("inexistente", recommendation.TypeCategory, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEngine_ProductoDesconocido(t *testing.T) {
	engine := newTestEngine(t, nil)
	_, err := engine.ByID("no-existe", recommendation.TypeHybrid, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEngine_TipoInvalido(t *testing.T) {
	engine := newTestEngine(t, nil)
	_, err := engine.ByID("p1", "astrologia", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEngine_WarmUsaElStore(t *testing.T) {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	embedder := testEmbedder()
	store := &memStore{}

	// Primer arranque: no hay caché, regenera y guarda
	first := recommendation.NewEngine(testCatalog(), embedder, store, log)
	require.NoError(t, first.Warm(context.Background()))
	assert.Equal(t, 1, embedder.calls)
	assert.True(t, store.saved)

	// Segundo arranque: carga desde el store sin volver a embeber
	second := recommendation.NewEngine(testCatalog(), embedder, store, log)
	require.NoError(t, second.Warm(context.Background()))
	assert.Equal(t, 1, embedder.calls, "con caché persistente no se regeneran embeddings")

	out, err := second.ByID("p1", recommendation.TypeCategory, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Items)
}
