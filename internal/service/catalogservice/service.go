package catalogservice

import (
	"context"
	"sort"
	"strings"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
	"furnishop/internal/pkg/logger"
)

// Limites das faixas de preço, na moeda de exibição.
const (
	LowBandLimit  = 40000.0
	HighBandLimit = 80000.0
)

// Converter leva um preço da moeda base para a moeda de exibição.
type Converter interface {
	Convert(base float64) float64
}

// Service grava o catálogo estático no repositório e oferece busca e ordenação em memória.
type Service struct {
	repo   domain.ProductRepository
	seed   []domain.Product
	prices Converter
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Catálogo.
func NewService(repo domain.ProductRepository, seed []domain.Product, prices Converter, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		seed:   append([]domain.Product(nil), seed...),
		prices: prices,
		logger: log,
	}
}

// Refresh faz o upsert idempotente do catálogo estático e lê de volta a lista completa.
// Qualquer falha vira LoadError.
func (s *Service) Refresh(ctx context.Context) ([]domain.Product, error) {
	// 1. Espelha o catálogo estático na persistência
	if err := s.repo.UpsertAll(ctx, s.seed); err != nil {
		s.logger.Error("Falha ao gravar catálogo estático.", err)
		return nil, apperror.NewLoadError("catálogo", err)
	}

	// 2. Lê de volta a lista completa
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Falha ao ler catálogo.", err)
		return nil, apperror.NewLoadError("catálogo", err)
	}

	s.logger.Info("Catálogo carregado.", map[string]interface{}{"count": len(products)})
	return products, nil
}

// Filter aplica busca, categoria, faixa, limites explícitos, favoritos e ordenação.
// products não é alterado.
func (s *Service) Filter(products []domain.Product, favorites domain.FavoriteSet, f domain.ProductFilter) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	category := strings.TrimSpace(f.Category)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if f.FavoritesOnly && !favorites.Has(p.ID) {
			continue
		}

		display := s.prices.Convert(p.Price)
		if !inBand(display, f.Band) {
			continue
		}
		if f.MinPrice != nil && display < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && display > *f.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case domain.SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case domain.SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

func inBand(display float64, band domain.PriceBand) bool {
	switch band {
	case domain.PriceBandLow:
		return display < LowBandLimit
	case domain.PriceBandMid:
		return display >= LowBandLimit && display <= HighBandLimit
	case domain.PriceBandHigh:
		return display > HighBandLimit
	default:
		return true
	}
}

// PriceBounds retorna o menor e o maior preço de exibição. Lista vazia: (0, 0).
func (s *Service) PriceBounds(products []domain.Product) (min, max float64) {
	for i, p := range products {
		display := s.prices.Convert(p.Price)
		if i == 0 || display < min {
			min = display
		}
		if i == 0 || display > max {
			max = display
		}
	}
	return min, max
}

// Categories lista as categorias distintas em ordem alfabética.
func Categories(products []domain.Product) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// ParseBand aceita o nome da faixa em qualquer caixa; valor desconhecido vira ALL.
func ParseBand(s string) domain.PriceBand {
	switch band := domain.PriceBand(strings.ToUpper(strings.TrimSpace(s))); band {
	case domain.PriceBandLow, domain.PriceBandMid, domain.PriceBandHigh:
		return band
	default:
		return domain.PriceBandAll
	}
}

// ParseSort aceita o nome da ordenação em qualquer caixa; valor desconhecido vira NONE.
func ParseSort(s string) domain.SortOrder {
	switch order := domain.SortOrder(strings.ToUpper(strings.TrimSpace(s))); order {
	case domain.SortPriceAsc, domain.SortPriceDesc:
		return order
	default:
		return domain.SortNone
	}
}
