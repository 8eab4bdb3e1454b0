package reducer

import (
	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
)

// NewState cria a sessão vazia do início do processo, com os endereços salvos.
func NewState(addresses []domain.Address) domain.SessionState {
	return domain.SessionState{
		Products:       []domain.Product{},
		Cart:           []domain.CartLine{},
		Favorites:      domain.NewFavoriteSet(),
		Addresses:      append([]domain.Address(nil), addresses...),
		Orders:         []domain.Order{},
		PaymentMethod:  domain.DefaultPaymentMethod,
		DeliveryMethod: domain.DefaultDeliveryMethod,
	}
}

// WithError registra err no campo de mensagem e encerra o carregamento.
// O restante do estado fica intacto.
func WithError(s domain.SessionState, err error) domain.SessionState {
	s.ErrorCategory, s.Error = apperror.Classify(err)
	s.Loading = false
	return s
}

// ClearError limpa mensagem e categoria de erro.
func ClearError(s domain.SessionState) domain.SessionState {
	s.Error = ""
	s.ErrorCategory = ""
	return s
}

// WithLoading liga ou desliga o indicador de carregamento; ligar limpa o erro anterior.
func WithLoading(s domain.SessionState, loading bool) domain.SessionState {
	s.Loading = loading
	if loading {
		s = ClearError(s)
	}
	return s
}

// WithProducts substitui o catálogo carregado.
func WithProducts(s domain.SessionState, products []domain.Product) domain.SessionState {
	s.Products = append([]domain.Product{}, products...)
	s.Loading = false
	return ClearError(s)
}

// Restored agrupa o que foi lido do repositório para um uid.
type Restored struct {
	Cart      []domain.CartLine
	Favorites []string
	Orders    []domain.Order
	Record    *domain.CustomerRecord // nil: sem campos de perfil a restaurar
}

// SignedIn instala o perfil e os dados restaurados, limpando mensagens anteriores.
func SignedIn(s domain.SessionState, profile domain.UserProfile, restored Restored) domain.SessionState {
	s.Profile = &profile
	s.Loading = false
	s.CheckoutMessage = ""
	s.ProfileMessage = ""
	s = ClearError(s)

	s.Cart = append([]domain.CartLine{}, restored.Cart...)
	s.Favorites = domain.NewFavoriteSet(restored.Favorites...)
	s.Orders = append([]domain.Order{}, restored.Orders...)

	if rec := restored.Record; rec != nil {
		s.ShippingAddress = rec.Address
		s.Phone = rec.Phone
		if rec.PaymentMethod != "" {
			s.PaymentMethod = rec.PaymentMethod
		}
		if rec.DeliveryMethod != "" {
			s.DeliveryMethod = rec.DeliveryMethod
		}
		if rec.DisplayName != "" && s.Profile.DisplayName == "" {
			s.Profile.DisplayName = rec.DisplayName
		}
	}
	return s
}
