package sessionservice

import (
	"context"

	"furnishop/internal/domain"
	"furnishop/internal/reducer"
)

// restore lê carrinho, favoritos e pedidos de uid. Leitura é best-effort:
// a falha de uma coleção é logada e a coleção volta vazia.
func (s *Service) restore(ctx context.Context, uid string) reducer.Restored {
	var restored reducer.Restored

	cart, err := s.repos.Carts.GetCart(ctx, uid)
	if err != nil {
		s.logger.Warn("Falha ao restaurar carrinho.", map[string]interface{}{"uid": uid, "error": err.Error()})
	}
	restored.Cart = cart

	favorites, err := s.repos.Favorites.GetFavorites(ctx, uid)
	if err != nil {
		s.logger.Warn("Falha ao restaurar favoritos.", map[string]interface{}{"uid": uid, "error": err.Error()})
	}
	restored.Favorites = favorites

	orders, err := s.repos.Orders.GetOrders(ctx, uid)
	if err != nil {
		s.logger.Warn("Falha ao restaurar pedidos.", map[string]interface{}{"uid": uid, "error": err.Error()})
	}
	for i := range orders {
		lines, err := s.repos.Orders.GetOrderLines(ctx, uid, orders[i].ID)
		if err != nil {
			s.logger.Warn("Falha ao restaurar itens do pedido.", map[string]interface{}{"order_id": orders[i].ID, "error": err.Error()})
			continue
		}
		orders[i].Lines = lines
	}
	restored.Orders = orders

	return restored
}

// As funções persist* rodam dentro de update (lock travado) e só enfileiram.

func (s *Service) persistCart(st domain.SessionState) {
	uid := st.UID()
	if uid == "" {
		return
	}
	lines := append([]domain.CartLine(nil), st.Cart...)
	s.queue.Submit("cart:"+uid, func(ctx context.Context) error {
		return s.repos.Carts.ReplaceCart(ctx, uid, lines)
	})
}

func (s *Service) persistFavorites(st domain.SessionState) {
	uid := st.UID()
	if uid == "" {
		return
	}
	ids := st.Favorites.IDs()
	s.queue.Submit("favorites:"+uid, func(ctx context.Context) error {
		return s.repos.Favorites.ReplaceFavorites(ctx, uid, ids)
	})
}

func (s *Service) persistOrder(uid string, order domain.Order) {
	if uid == "" {
		return
	}
	s.queue.Submit("order:"+order.ID, func(ctx context.Context) error {
		return s.repos.Orders.PutOrderWithLines(ctx, uid, order)
	})
}

// persistProfile grava o registro do cliente ativo; convidado e sessão vazia são ignorados.
// Sem hash explícito, usa o do registro de credenciais (hash vazio preserva o persistido).
func (s *Service) persistProfile(st domain.SessionState, passwordHash string) {
	if st.Profile == nil || s.isGuest(st.Profile.UID) {
		return
	}
	if passwordHash == "" {
		if cred, ok := s.creds.Lookup(st.Profile.Email); ok && cred.UID == st.Profile.UID {
			passwordHash = cred.Hash
		}
	}
	record, ok := reducer.CustomerRecordFor(st, passwordHash)
	if !ok {
		return
	}
	record.UpdatedAt = s.opts.Now()
	s.submitRecord(record)
}

func (s *Service) submitRecord(record domain.CustomerRecord) {
	s.queue.Submit("customer:"+record.UID, func(ctx context.Context) error {
		return s.repos.Customers.Upsert(ctx, record)
	})
}
