package sessionservice

import (
	"furnishop/internal/domain"
	"furnishop/internal/reducer"
)

// Cada alteração de campo de perfil regrava o registro do cliente,
// exceto para o convidado (ver persistProfile).

// UpdateShippingAddress altera o endereço de entrega.
func (s *Service) UpdateShippingAddress(address string) {
	_ = s.update(func(st domain.SessionState) (domain.SessionState, error) {
		next := reducer.SetShippingAddress(st, address)
		s.persistProfile(next, "")
		return next, nil
	})
}

// UpdatePhone altera o telefone de contato.
func (s *Service) UpdatePhone(phone string) {
	_ = s.update(func(st domain.SessionState) (domain.SessionState, error) {
		next := reducer.SetPhone(st, phone)
		s.persistProfile(next, "")
		return next, nil
	})
}

// SetPaymentMethod altera a forma de pagamento.
func (s *Service) SetPaymentMethod(method string) {
	_ = s.update(func(st domain.SessionState) (domain.SessionState, error) {
		next := reducer.SetPaymentMethod(st, method)
		s.persistProfile(next, "")
		return next, nil
	})
}

// SetDeliveryMethod altera a forma de entrega.
func (s *Service) SetDeliveryMethod(method string) {
	_ = s.update(func(st domain.SessionState) (domain.SessionState, error) {
		next := reducer.SetDeliveryMethod(st, method)
		s.persistProfile(next, "")
		return next, nil
	})
}

// UpdateDisplayName exige perfil ativo.
func (s *Service) UpdateDisplayName(name string) error {
	return s.update(func(st domain.SessionState) (domain.SessionState, error) {
		next, err := reducer.SetDisplayName(st, name)
		if err != nil {
			return next, err
		}
		s.persistProfile(next, "")
		return next, nil
	})
}

// SaveProfile valida e grava nome, endereço e telefone juntos.
func (s *Service) SaveProfile(name, address, phone string) error {
	return s.update(func(st domain.SessionState) (domain.SessionState, error) {
		next, err := reducer.SaveProfile(st, name, address, phone)
		if err != nil {
			return next, err
		}
		s.persistProfile(next, "")
		return next, nil
	})
}

// SelectAddress copia um endereço salvo para os campos de entrega. ID desconhecido: sem efeito.
func (s *Service) SelectAddress(addressID string) {
	_ = s.update(func(st domain.SessionState) (domain.SessionState, error) {
		return reducer.SelectAddress(st, addressID), nil
	})
}
