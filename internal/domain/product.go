package domain

import "context"

// Product representa um item do catálogo de móveis (a Entidade).
// É imutável depois de carregado do catálogo estático.
type Product struct {
	ID          string  `json:"id" toml:"id"`
	Name        string  `json:"name" toml:"name"`
	Description string  `json:"description" toml:"description"`
	Price       float64 `json:"price" toml:"price"` // moeda base
	ImageRef    string  `json:"image_ref,omitempty" toml:"image_ref"`
	Dimensions  string  `json:"dimensions" toml:"dimensions"`
	Material    string  `json:"material" toml:"material"`
	Color       string  `json:"color" toml:"color"`
	Category    string  `json:"category" toml:"category"`
}

// PriceBand agrupa faixas de preço na moeda de exibição.
type PriceBand string

const (
	PriceBandAll  PriceBand = "ALL"
	PriceBandLow  PriceBand = "LOW"
	PriceBandMid  PriceBand = "MID"
	PriceBandHigh PriceBand = "HIGH"
)

// SortOrder define a ordenação da listagem do catálogo.
type SortOrder string

const (
	SortNone      SortOrder = "NONE"
	SortPriceAsc  SortOrder = "PRICE_ASC"
	SortPriceDesc SortOrder = "PRICE_DESC"
)

// ProductFilter define os parâmetros de busca do catálogo.
// MinPrice/MaxPrice estão na moeda de exibição; nil significa sem limite.
type ProductFilter struct {
	Query         string
	Category      string
	Band          PriceBand
	MinPrice      *float64
	MaxPrice      *float64
	FavoritesOnly bool
	Sort          SortOrder
}

// ProductRepository é o contrato de persistência do catálogo.
type ProductRepository interface {
	UpsertAll(ctx context.Context, products []Product) error
	FindAll(ctx context.Context) ([]Product, error)
}
