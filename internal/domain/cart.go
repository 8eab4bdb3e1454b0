package domain

import (
	"context"
	"encoding/json"
	"sort"
)

// CartLine é um par (produto, quantidade) no carrinho. Quantity é sempre >= 1.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal retorna preço unitário × quantidade.
func (l CartLine) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// FavoriteSet é o conjunto de IDs de produtos favoritos.
// Tratado como valor: as operações retornam um novo conjunto.
type FavoriteSet map[string]struct{}

// NewFavoriteSet cria um conjunto a partir de uma lista de IDs (duplicatas são ignoradas).
func NewFavoriteSet(ids ...string) FavoriteSet {
	set := make(FavoriteSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has informa se o produto está no conjunto.
func (f FavoriteSet) Has(id string) bool {
	_, ok := f[id]
	return ok
}

// Toggle retorna a diferença simétrica com {id}.
func (f FavoriteSet) Toggle(id string) FavoriteSet {
	next := make(FavoriteSet, len(f)+1)
	for k := range f {
		next[k] = struct{}{}
	}
	if _, ok := next[id]; ok {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	return next
}

// IDs retorna os IDs ordenados, para persistência e saída determinística.
func (f FavoriteSet) IDs() []string {
	ids := make([]string, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MarshalJSON serializa o conjunto como lista ordenada de IDs.
func (f FavoriteSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.IDs())
}

// UnmarshalJSON aceita a lista produzida por MarshalJSON.
func (f *FavoriteSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*f = NewFavoriteSet(ids...)
	return nil
}

// CartRepository define o contrato de persistência do carrinho por usuário.
type CartRepository interface {
	GetCart(ctx context.Context, uid string) ([]CartLine, error)
	ReplaceCart(ctx context.Context, uid string, lines []CartLine) error
}

// FavoriteRepository define o contrato de persistência dos favoritos por usuário.
type FavoriteRepository interface {
	GetFavorites(ctx context.Context, uid string) ([]string, error)
	ReplaceFavorites(ctx context.Context, uid string, ids []string) error
}
