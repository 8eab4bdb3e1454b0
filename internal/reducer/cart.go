package reducer

import (
	"furnishop/internal/domain"
)

// CartTotal soma preço × quantidade de todas as linhas (antes do desconto).
func CartTotal(lines []domain.CartLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// CartCount soma as quantidades do carrinho.
func CartCount(lines []domain.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func indexOfLine(lines []domain.CartLine, productID string) int {
	for i, l := range lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func copyLines(lines []domain.CartLine) []domain.CartLine {
	return append(make([]domain.CartLine, 0, len(lines)+1), lines...)
}

// AddToCart soma quantity à linha do produto, ou cria uma nova. quantity < 1 vira 1.
func AddToCart(s domain.SessionState, product domain.Product, quantity int) domain.SessionState {
	if quantity < 1 {
		quantity = 1
	}
	lines := copyLines(s.Cart)
	if idx := indexOfLine(lines, product.ID); idx >= 0 {
		lines[idx].Quantity += quantity
	} else {
		lines = append(lines, domain.CartLine{Product: product, Quantity: quantity})
	}
	s.Cart = lines
	s.CheckoutMessage = ""
	return s
}

// UpdateQuantity aplica delta à linha; resultado <= 0 remove a linha.
// Produto ausente do carrinho: estado inalterado.
func UpdateQuantity(s domain.SessionState, productID string, delta int) domain.SessionState {
	idx := indexOfLine(s.Cart, productID)
	if idx < 0 {
		return s
	}
	lines := copyLines(s.Cart)
	newQty := lines[idx].Quantity + delta
	if newQty <= 0 {
		lines = append(lines[:idx], lines[idx+1:]...)
	} else {
		lines[idx].Quantity = newQty
	}
	s.Cart = lines
	s.CheckoutMessage = ""
	return s
}

// RemoveFromCart remove a linha do produto, se existir.
func RemoveFromCart(s domain.SessionState, productID string) domain.SessionState {
	idx := indexOfLine(s.Cart, productID)
	if idx < 0 {
		return s
	}
	lines := copyLines(s.Cart)
	s.Cart = append(lines[:idx], lines[idx+1:]...)
	s.CheckoutMessage = ""
	return s
}

// ClearCart esvazia o carrinho e zera, juntos, o código promocional e o desconto.
func ClearCart(s domain.SessionState) domain.SessionState {
	s.Cart = []domain.CartLine{}
	s.PromoCode = ""
	s.PromoDiscount = 0
	s.CheckoutMessage = ""
	s = ClearError(s)
	return s
}

// ToggleFavorite adiciona ou remove productID dos favoritos.
func ToggleFavorite(s domain.SessionState, productID string) domain.SessionState {
	s.Favorites = s.Favorites.Toggle(productID)
	return s
}
