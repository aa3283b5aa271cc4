package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScrapedProduct guarda datos de productos extraídos de sitios externos.
// Alimenta el motor de recomendaciones; no participa en el ledger.
type ScrapedProduct struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Rating      string
	ImageURL    string
	PageURL     string
	ScrapedAt   time.Time
}
