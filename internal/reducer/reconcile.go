package reducer

import (
	"strings"

	"furnishop/internal/domain"
)

// Reconcile aplica uma emissão completa da tabela de clientes ao estado:
// atualiza a lista de clientes e, se o perfil ativo (não convidado) casar com um
// registro por uid ou email, recarrega endereço e telefone persistidos não vazios.
// Vence sempre o último valor persistido; não há merge campo a campo.
func Reconcile(s domain.SessionState, records []domain.CustomerRecord, guestUID string) domain.SessionState {
	customers := make([]domain.UserProfile, 0, len(records))
	for _, r := range records {
		customers = append(customers, r.Profile())
	}
	s.Customers = customers

	current := s.Profile
	if current == nil || current.UID == guestUID {
		return s
	}
	for _, r := range records {
		sameUID := r.UID == current.UID
		sameEmail := r.Email != "" && strings.EqualFold(r.Email, current.Email)
		if !sameUID && !sameEmail {
			continue
		}
		if r.Address != "" {
			s.ShippingAddress = r.Address
		}
		if r.Phone != "" {
			s.Phone = r.Phone
		}
		break
	}
	return s
}
