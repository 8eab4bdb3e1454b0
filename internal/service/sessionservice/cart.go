package sessionservice

import (
	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
	"furnishop/internal/reducer"
)

// As intenções de carrinho são síncronas sobre o estado em memória;
// a gravação do carrinho completo vai para a fila.

// AddToCart adiciona quantity unidades (mínimo 1) de product.
func (s *Service) AddToCart(product domain.Product, quantity int) {
	_ = s.update(func(st domain.SessionState) (domain.SessionState, error) {
		next := reducer.AddToCart(st, product, quantity)
		s.persistCart(next)
		return next, nil
	})
}

// AddToCartByID procura o produto no catálogo carregado e o adiciona.
func (s *Service) AddToCartByID(productID string, quantity int) error {
	product, ok := s.ProductByID(productID)
	if !ok {
		return s.fail(apperror.NewNotFoundError("produto " + productID))
	}
	s.AddToCart(product, quantity)
	return nil
}

// UpdateQuantity soma delta à quantidade; resultado <= 0 remove a linha.
func (s *Service) UpdateQuantity(productID string, delta int) {
	_ = s.update(func(st domain.SessionState) (domain.SessionState, error) {
		next := reducer.UpdateQuantity(st, productID, delta)
		s.persistCart(next)
		return next, nil
	})
}

// RemoveFromCart tira a linha do produto do carrinho.
func (s *Service) RemoveFromCart(productID string) {
	_ = s.update(func(st domain.SessionState) (domain.SessionState, error) {
		next := reducer.RemoveFromCart(st, productID)
		s.persistCart(next)
		return next, nil
	})
}

// ClearCart esvazia o carrinho e zera o código promocional.
func (s *Service) ClearCart() {
	_ = s.update(func(st domain.SessionState) (domain.SessionState, error) {
		next := reducer.ClearCart(st)
		s.persistCart(next)
		return next, nil
	})
}

// ToggleFavorite adiciona ou remove o produto dos favoritos.
func (s *Service) ToggleFavorite(productID string) {
	_ = s.update(func(st domain.SessionState) (domain.SessionState, error) {
		next := reducer.ToggleFavorite(st, productID)
		s.persistFavorites(next)
		return next, nil
	})
}

// ApplyPromoCode registra o código; código desconhecido zera o desconto.
func (s *Service) ApplyPromoCode(code string) error {
	return s.update(func(st domain.SessionState) (domain.SessionState, error) {
		return reducer.ApplyPromoCode(st, code)
	})
}

// Checkout cria o pedido a partir do carrinho. O estado já reflete o sucesso
// quando a gravação do pedido e do carrinho vazio ainda está na fila.
func (s *Service) Checkout() error {
	return s.update(func(st domain.SessionState) (domain.SessionState, error) {
		in := reducer.CheckoutInput{OrderID: s.opts.IDs.NewOrderID(), Now: s.opts.Now()}
		next, order, err := reducer.Checkout(st, in, s.prices)
		if err != nil {
			return next, err
		}

		s.logger.Info("Pedido criado.", map[string]interface{}{"uid": next.UID(), "order_id": order.ID, "total": order.Total})
		s.persistOrder(next.UID(), order)
		s.persistCart(next)
		return next, nil
	})
}
