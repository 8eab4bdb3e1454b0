package reducer

import (
	"strings"
	"time"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
)

// PriceFormatter formata valores da moeda base para exibição.
type PriceFormatter interface {
	Format(base float64) string
}

// NoPhone aparece no pedido e na confirmação quando o telefone está vazio.
const NoPhone = "Sem telefone"

// CheckoutInput são os valores que o reducer não pode gerar sozinho.
type CheckoutInput struct {
	OrderID string
	Now     time.Time
}

// Checkout valida o carrinho e o endereço, cria o pedido, esvazia o carrinho
// (mantendo o código promocional) e compõe a mensagem de confirmação.
// Em caso de erro o estado retornado só tem o campo de erro alterado.
func Checkout(s domain.SessionState, in CheckoutInput, prices PriceFormatter) (domain.SessionState, domain.Order, error) {
	total := CartTotal(s.Cart)
	if total <= 0 {
		err := apperror.NewEmptyCartError()
		return WithError(s, err), domain.Order{}, err
	}
	if strings.TrimSpace(s.ShippingAddress) == "" {
		err := apperror.NewMissingAddressError()
		return WithError(s, err), domain.Order{}, err
	}

	discount := ClampDiscount(s.PromoDiscount)
	discounted := total * (1 - discount)

	phone := s.Phone
	if strings.TrimSpace(phone) == "" {
		phone = NoPhone
	}

	lines := make([]domain.OrderLine, 0, len(s.Cart))
	for _, l := range s.Cart {
		lines = append(lines, domain.OrderLine{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Price:     l.Product.Price,
			Quantity:  l.Quantity,
		})
	}

	order := domain.Order{
		ID:    in.OrderID,
		Lines: lines,
		Total: total,
		Address: domain.Address{
			ID:    "selected",
			Label: "Entrega",
			Line:  s.ShippingAddress,
			Phone: phone,
		},
		Status:         domain.OrderStatusNew,
		PaymentMethod:  s.PaymentMethod,
		DeliveryMethod: s.DeliveryMethod,
		CreatedAt:      in.Now,
	}

	var msg strings.Builder
	msg.WriteString("Pedido realizado! Total: ")
	msg.WriteString(prices.Format(discounted))
	if discount > 0 {
		msg.WriteString(" (desconto do código promocional)")
	}
	msg.WriteString(" • " + s.PaymentMethod)
	msg.WriteString(" • " + s.ShippingAddress)
	msg.WriteString(" • " + phone)

	orders := make([]domain.Order, 0, len(s.Orders)+1)
	orders = append(orders, s.Orders...)
	orders = append(orders, order)

	s.Cart = []domain.CartLine{}
	s.Orders = orders
	s.CheckoutMessage = msg.String()
	s.LastCheckout = &domain.CheckoutSummary{
		OrderID:         order.ID,
		Total:           total,
		DiscountedTotal: discounted,
		Discounted:      discount > 0,
	}
	return ClearError(s), order, nil
}
