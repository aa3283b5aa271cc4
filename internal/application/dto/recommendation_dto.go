package dto

import "time"

// ScrapedProductResponse producto scrapeado serializado.
type ScrapedProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"product_name"`
	Description string    `json:"product_description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Price       string    `json:"price,omitempty"`
	Rating      string    `json:"rating,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	PageURL     string    `json:"product_page_url,omitempty"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

// ScrapedProductListResponse listado paginado del catálogo scrapeado.
type ScrapedProductListResponse struct {
	Items []ScrapedProductResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

// RecommendationItem un producto recomendado con su score.
type RecommendationItem struct {
	ID                 string  `json:"id"`
	Name               string  `json:"product_name"`
	Category           string  `json:"category,omitempty"`
	Price              float64 `json:"price"`
	Rating             string  `json:"rating,omitempty"`
	ImageURL           string  `json:"image_url,omitempty"`
	PageURL            string  `json:"product_page_url,omitempty"`
	SimilarityScore    float64 `json:"similarity_score"`
	RecommendationType string  `json:"recommendation_type"` // price_based, category_based, description_based, hybrid
}

// RecommendationResponse listado de recomendaciones para un producto.
type RecommendationResponse struct {
	ProductID string               `json:"product_id"`
	Type      string               `json:"recommendation_type"`
	Total     int                  `json:"total"`
	Items     []RecommendationItem `json:"recommendations"`
}
