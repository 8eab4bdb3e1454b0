package reducer

import (
	"strings"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
)

// promoCodes mapeia o código normalizado para a fração de desconto.
var promoCodes = map[string]float64{
	"SALE10": 0.10,
	"SALE20": 0.20,
}

// NormalizePromoCode remove espaços e coloca em maiúsculas.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ApplyPromoCode registra o código normalizado. Código desconhecido zera o desconto
// e retorna InvalidPromoError, mantendo o texto do código no estado.
func ApplyPromoCode(s domain.SessionState, code string) (domain.SessionState, error) {
	normalized := NormalizePromoCode(code)
	s.PromoCode = normalized

	discount, ok := promoCodes[normalized]
	if !ok {
		s.PromoDiscount = 0
		err := apperror.NewInvalidPromoError(normalized)
		return WithError(s, err), err
	}

	s.PromoDiscount = discount
	s.CheckoutMessage = ""
	return ClearError(s), nil
}

// ClampDiscount limita o desconto ao intervalo [0, 1].
func ClampDiscount(d float64) float64 {
	switch {
	case d < 0:
		return 0
	case d > 1:
		return 1
	default:
		return d
	}
}
