package recommendation

import "context"

// EmbeddingService puerto hacia el servicio de embeddings de texto.
// Devuelve un vector por cada texto de entrada, en el mismo orden.
type EmbeddingService interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ProductVector embedding + metadatos de un producto scrapeado, tal como se
// cachea. Los metadatos viajan junto al vector para no consultar la DB en
// cada lookup de similitud.
type ProductVector struct {
	ID        string    `json:"id"`
	Name      string    `json:"product_name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Rating    string    `json:"rating"`
	ImageURL  string    `json:"image_url"`
	PageURL   string    `json:"product_page_url"`
	Embedding []float32 `json:"embedding"`
}

// VectorStore caché persistente de los vectores (Redis). El motor mantiene
// además una copia en memoria; el store evita regenerar embeddings en cada
// reinicio del proceso.
type VectorStore interface {
	// Load devuelve el snapshot cacheado y true, o (nil, false) si no hay caché.
	Load(ctx context.Context) ([]ProductVector, bool, error)
	Save(ctx context.Context, vectors []ProductVector) error
	Invalidate(ctx context.Context) error
}
