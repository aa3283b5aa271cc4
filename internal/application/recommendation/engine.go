package recommendation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// Tipos de recomendación soportados.
const (
	TypePrice       = "price"
	TypeCategory    = "category"
	TypeDescription = "description"
	TypeHybrid      = "hybrid"
)

// Pesos por defecto del modo híbrido (misma proporción que el scoring original).
const (
	weightPrice       = 0.3
	weightCategory    = 0.3
	weightDescription = 0.4
)

// priceTolerance tolerancia porcentual del matching por precio (±20%).
const priceTolerance = 0.2

// Engine motor de recomendaciones sobre el catálogo scrapeado: vecinos más
// cercanos por precio, categoría o similitud de coseno entre embeddings de
// descripción, más un modo híbrido ponderado. Los vectores se cachean en
// memoria y en el VectorStore; la regeneración es explícita (admin).
type Engine struct {
	scrapedRepo repository.ScrapedProductRepository
	embedder    EmbeddingService
	store       VectorStore
	log         *logger.Logger

	mu      sync.RWMutex
	vectors []ProductVector
}

// NewEngine construye el motor. store puede ser nil (solo caché en memoria).
func NewEngine(
	scrapedRepo repository.ScrapedProductRepository,
	embedder EmbeddingService,
	store VectorStore,
	log *logger.Logger,
) *Engine {
	return &Engine{scrapedRepo: scrapedRepo, embedder: embedder, store: store, log: log.Module("recommendations")}
}

// embeddingText arma la representación textual de un producto para el embedding,
// acotando la descripción para no exceder límites de tokens.
func embeddingText(p *entity.ScrapedProduct) string {
	parts := make([]string, 0, 4)
	if p.Name != "" {
		parts = append(parts, "Title: "+p.Name)
	}
	if p.Category != "" {
		parts = append(parts, "Category: "+p.Category)
	}
	if p.Description != "" {
		desc := p.Description
		if len(desc) > 500 {
			desc = desc[:500]
		}
		parts = append(parts, "Description: "+desc)
	}
	if !p.Price.IsZero() {
		parts = append(parts, "Price: $"+p.Price.String())
	}
	return strings.Join(parts, " | ")
}

// Warm carga los vectores: primero intenta el VectorStore; si no hay caché,
// genera embeddings para todo el catálogo. Pensado para el arranque del proceso.
func (e *Engine) Warm(ctx context.Context) error {
	if e.store != nil {
		cached, ok, err := e.store.Load(ctx)
		if err != nil {
			e.log.Warn().Err(err).Msg("no se pudo leer la caché de vectores")
		} else if ok {
			e.mu.Lock()
			e.vectors = cached
			e.mu.Unlock()
			e.log.Info().Int("products", len(cached)).Msg("vectores cargados desde caché")
			return nil
		}
	}
	return e.Regenerate(ctx)
}

// Regenerate reconstruye los embeddings de todo el catálogo scrapeado y
// actualiza ambas cachés. Operación de administración.
func (e *Engine) Regenerate(ctx context.Context) error {
	products, err := e.scrapedRepo.ListAll()
	if err != nil {
		return fmt.Errorf("recommendations: listar catálogo: %w", err)
	}
	if len(products) == 0 {
		e.log.Warn().Msg("catálogo scrapeado vacío; no hay nada que indexar")
		e.mu.Lock()
		e.vectors = nil
		e.mu.Unlock()
		return nil
	}

	texts := make([]string, len(products))
	for i, p := range products {
		texts[i] = embeddingText(p)
	}
	embeddings, err := e.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("recommendations: generar embeddings: %w", err)
	}
	if len(embeddings) != len(products) {
		return fmt.Errorf("recommendations: el servicio devolvió %d vectores para %d textos", len(embeddings), len(products))
	}

	vectors := make([]ProductVector, len(products))
	for i, p := range products {
		price, _ := p.Price.Float64()
		vectors[i] = ProductVector{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Price:     price,
			Rating:    p.Rating,
			ImageURL:  p.ImageURL,
			PageURL:   p.PageURL,
			Embedding: embeddings[i],
		}
	}

	e.mu.Lock()
	e.vectors = vectors
	e.mu.Unlock()

	if e.store != nil {
		if err := e.store.Save(ctx, vectors); err != nil {
			// La caché persistente es mejora, no requisito: el snapshot en memoria ya sirve
			e.log.Warn().Err(err).Msg("no se pudo guardar la caché de vectores")
		}
	}
	e.log.Info().Int("products", len(vectors)).Msg("embeddings regenerados")
	return nil
}

// ByID devuelve recomendaciones para un producto del catálogo.
// recType ∈ {price, category, description, hybrid}; limit acota el resultado.
func (e *Engine) ByID(productID, recType string, limit int) (*dto.RecommendationResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	e.mu.RLock()
	vectors := e.vectors
	e.mu.RUnlock()

	idx := findIndex(vectors, productID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}

	var items []dto.RecommendationItem
	switch recType {
	case TypePrice:
		items = priceBased(vectors, idx, limit)
	case TypeCategory:
		items = categoryBased(vectors, idx, limit)
	case TypeDescription:
		items = descriptionBased(vectors, idx, limit)
	case TypeHybrid, "":
		recType = TypeHybrid
		items = hybrid(vectors, idx, limit)
	default:
		return nil, domain.ErrInvalidInput
	}

	return &dto.RecommendationResponse{
		ProductID: productID,
		Type:      recType,
		Total:     len(items),
		Items:     items,
	}, nil
}

// ByName busca el producto por nombre (match parcial, sin mayúsculas) y delega en ByID.
func (e *Engine) ByName(name, recType string, limit int) (*dto.RecommendationResponse, error) {
	e.mu.RLock()
	vectors := e.vectors
	e.mu.RUnlock()

	needle := strings.ToLower(name)
	for _, v := range vectors {
		if strings.Contains(strings.ToLower(v.Name), needle) {
			return e.ByID(v.ID, recType, limit)
		}
	}
	return nil, domain.ErrNotFound
}

// Catalog lista el catálogo scrapeado con búsqueda y paginación.
func (e *Engine) Catalog(search string, page dto.PageRequest) (*dto.ScrapedProductListResponse, error) {
	page.DefaultPage()
	products, total, err := e.scrapedRepo.List(search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ScrapedProductResponse, len(products))
	for i, p := range products {
		items[i] = dto.ScrapedProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       p.Price.String(),
			Rating:      p.Rating,
			ImageURL:    p.ImageURL,
			PageURL:     p.PageURL,
			ScrapedAt:   p.ScrapedAt,
		}
	}
	return &dto.ScrapedProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ── Estrategias ───────────────────────────────────────────────────────────────

func findIndex(vectors []ProductVector, id string) int {
	for i := range vectors {
		if vectors[i].ID == id {
			return i
		}
	}
	return -1
}

// priceBased: productos dentro de ±priceTolerance del precio objetivo,
// puntuados por cercanía (1 - Δ relativo).
func priceBased(vectors []ProductVector, target, limit int) []dto.RecommendationItem {
	price := vectors[target].Price
	if price == 0 {
		return nil
	}
	min, max := price*(1-priceTolerance), price*(1+priceTolerance)

	var items []dto.RecommendationItem
	for i := range vectors {
		if i == target {
			continue
		}
		p := vectors[i].Price
		if p < min || p > max {
			continue
		}
		score := 1.0 - math.Abs(price-p)/price
		items = append(items, toItem(&vectors[i], score, "price_based"))
	}
	sortByScore(items)
	return truncate(items, limit)
}

// categoryBased: misma categoría exacta, score 1.0.
func categoryBased(vectors []ProductVector, target, limit int) []dto.RecommendationItem {
	category := vectors[target].Category
	if category == "" {
		return nil
	}
	var items []dto.RecommendationItem
	for i := range vectors {
		if i == target || vectors[i].Category != category {
			continue
		}
		items = append(items, toItem(&vectors[i], 1.0, "category_based"))
	}
	return truncate(items, limit)
}

// descriptionBased: similitud de coseno entre embeddings.
func descriptionBased(vectors []ProductVector, target, limit int) []dto.RecommendationItem {
	targetEmb := vectors[target].Embedding
	if len(targetEmb) == 0 {
		return nil
	}
	var items []dto.RecommendationItem
	for i := range vectors {
		if i == target || len(vectors[i].Embedding) == 0 {
			continue
		}
		score := cosineSimilarity(targetEmb, vectors[i].Embedding)
		items = append(items, toItem(&vectors[i], score, "description_based"))
	}
	sortByScore(items)
	return truncate(items, limit)
}

// hybrid: combina las tres estrategias con pesos fijos sobre un pool ampliado
// de candidatos (limit*2 por estrategia, como el scoring original).
func hybrid(vectors []ProductVector, target, limit int) []dto.RecommendationItem {
	pool := limit * 2
	combined := make(map[string]*dto.RecommendationItem)

	merge := func(items []dto.RecommendationItem, weight float64) {
		for i := range items {
			it := items[i]
			acc, ok := combined[it.ID]
			if !ok {
				it.RecommendationType = "hybrid"
				it.SimilarityScore = 0
				combined[it.ID] = &it
				acc = combined[it.ID]
			}
			acc.SimilarityScore += items[i].SimilarityScore * weight
		}
	}
	merge(priceBased(vectors, target, pool), weightPrice)
	merge(categoryBased(vectors, target, pool), weightCategory)
	merge(descriptionBased(vectors, target, pool), weightDescription)

	items := make([]dto.RecommendationItem, 0, len(combined))
	for _, it := range combined {
		items = append(items, *it)
	}
	sortByScore(items)
	return truncate(items, limit)
}

// cosineSimilarity similitud de coseno entre dos vectores; 0 si las normas no son comparables.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func toItem(v *ProductVector, score float64, recType string) dto.RecommendationItem {
	return dto.RecommendationItem{
		ID:                 v.ID,
		Name:               v.Name,
		Category:           v.Category,
		Price:              v.Price,
		Rating:             v.Rating,
		ImageURL:           v.ImageURL,
		PageURL:            v.PageURL,
		SimilarityScore:    score,
		RecommendationType: recType,
	}
}

func sortByScore(items []dto.RecommendationItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SimilarityScore > items[j].SimilarityScore
	})
}

func truncate(items []dto.RecommendationItem, limit int) []dto.RecommendationItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
