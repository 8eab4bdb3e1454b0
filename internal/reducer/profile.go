package reducer

import (
	"strings"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
)

func clearMessages(s domain.SessionState) domain.SessionState {
	s.CheckoutMessage = ""
	return ClearError(s)
}

// SetShippingAddress altera o endereço de entrega ativo.
func SetShippingAddress(s domain.SessionState, address string) domain.SessionState {
	s.ShippingAddress = address
	return clearMessages(s)
}

// SetPhone altera o telefone ativo.
func SetPhone(s domain.SessionState, phone string) domain.SessionState {
	s.Phone = phone
	return clearMessages(s)
}

// SetPaymentMethod altera a forma de pagamento.
func SetPaymentMethod(s domain.SessionState, method string) domain.SessionState {
	s.PaymentMethod = method
	return clearMessages(s)
}

// SetDeliveryMethod altera a forma de entrega.
func SetDeliveryMethod(s domain.SessionState, method string) domain.SessionState {
	s.DeliveryMethod = method
	return clearMessages(s)
}

// SetDisplayName exige perfil ativo; nome em branco remove o nome de exibição.
func SetDisplayName(s domain.SessionState, name string) (domain.SessionState, error) {
	if s.Profile == nil {
		err := apperror.NewNotAuthenticatedError()
		return WithError(s, err), err
	}
	profile := *s.Profile
	profile.DisplayName = strings.TrimSpace(name)
	s.Profile = &profile
	return ClearError(s), nil
}

// SaveProfile valida e grava nome, endereço e telefone de uma vez.
// Na falha, apenas o campo de erro muda.
func SaveProfile(s domain.SessionState, name, address, phone string) (domain.SessionState, error) {
	if s.Profile == nil {
		err := apperror.NewNotAuthenticatedError()
		return WithError(s, err), err
	}
	if err := ValidateProfile(name, address, phone); err != nil {
		return WithError(s, err), err
	}

	profile := *s.Profile
	profile.DisplayName = strings.TrimSpace(name)
	s.Profile = &profile
	s.ShippingAddress = address
	s.Phone = phone
	s.ProfileMessage = "Dados do perfil salvos."
	return ClearError(s), nil
}

// SelectAddress copia linha e telefone de um endereço salvo. ID desconhecido: sem efeito.
func SelectAddress(s domain.SessionState, addressID string) domain.SessionState {
	for _, a := range s.Addresses {
		if a.ID == addressID {
			s.ShippingAddress = a.Line
			s.Phone = a.Phone
			return clearMessages(s)
		}
	}
	return s
}

// WithProfileMessage registra uma confirmação de perfil (troca de senha, etc.).
func WithProfileMessage(s domain.SessionState, msg string) domain.SessionState {
	s.ProfileMessage = msg
	s.Loading = false
	return ClearError(s)
}

// CustomerRecordFor monta o registro persistido a partir do estado atual.
// A senha não vem do estado: o chamador injeta o hash do registro de credenciais.
func CustomerRecordFor(s domain.SessionState, passwordHash string) (domain.CustomerRecord, bool) {
	if s.Profile == nil {
		return domain.CustomerRecord{}, false
	}
	return domain.CustomerRecord{
		UID:            s.Profile.UID,
		Email:          s.Profile.Email,
		DisplayName:    s.Profile.DisplayName,
		Role:           s.Profile.Role,
		Address:        strings.TrimSpace(s.ShippingAddress),
		Phone:          strings.TrimSpace(s.Phone),
		PaymentMethod:  s.PaymentMethod,
		DeliveryMethod: s.DeliveryMethod,
		PasswordHash:   passwordHash,
	}, true
}
