package sessionservice

import (
	"context"

	"furnishop/internal/domain"
	"furnishop/internal/reducer"
)

// ReconcileCustomers aplica uma emissão completa da tabela de clientes:
// absorve as credenciais e atualiza lista de clientes e campos de entrega do perfil ativo.
func (s *Service) ReconcileCustomers(records []domain.CustomerRecord) {
	absorbed := s.creds.Absorb(records)
	_ = s.update(func(st domain.SessionState) (domain.SessionState, error) {
		return reducer.Reconcile(st, records, s.opts.GuestUID), nil
	})
	s.logger.Debug("Clientes reconciliados.", map[string]interface{}{"records": len(records), "credentials": absorbed})
}

// WatchCustomers consome stream até ctx terminar ou o canal fechar. Bloqueia o chamador.
func (s *Service) WatchCustomers(ctx context.Context, stream <-chan []domain.CustomerRecord) {
	for {
		select {
		case <-ctx.Done():
			return
		case records, ok := <-stream:
			if !ok {
				return
			}
			s.ReconcileCustomers(records)
		}
	}
}
