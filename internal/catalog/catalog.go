// Package catalog carrega o catálogo estático de produtos e os endereços
// pré-cadastrados a partir de um arquivo TOML embutido no binário.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"furnishop/internal/domain"
)

//go:embed seed.toml
var seedTOML []byte

// Seed é o conteúdo do arquivo de catálogo.
type Seed struct {
	Products  []domain.Product `toml:"products"`
	Addresses []seedAddress    `toml:"addresses"`
}

type seedAddress struct {
	ID    string `toml:"id"`
	Label string `toml:"label"`
	Line  string `toml:"line"`
	Phone string `toml:"phone"`
}

// Default retorna o catálogo embutido.
func Default() (Seed, error) {
	return Parse(seedTOML)
}

// Parse decodifica e valida um catálogo: IDs obrigatórios e únicos, preços não negativos.
func Parse(data []byte) (Seed, error) {
	var seed Seed
	if err := toml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(seed.Products))
	for i, p := range seed.Products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return Seed{}, fmt.Errorf("catalog: product %d has no id", i+1)
		}
		if seen[id] {
			return Seed{}, fmt.Errorf("catalog: duplicate product id %q", id)
		}
		if p.Price < 0 {
			return Seed{}, fmt.Errorf("catalog: product %q has negative price", id)
		}
		seen[id] = true
		seed.Products[i].ID = id
	}
	return seed, nil
}

// AddressList converte os endereços do arquivo para o domínio.
func (s Seed) AddressList() []domain.Address {
	out := make([]domain.Address, 0, len(s.Addresses))
	for _, a := range s.Addresses {
		out = append(out, domain.Address{ID: a.ID, Label: a.Label, Line: a.Line, Phone: a.Phone})
	}
	return out
}
