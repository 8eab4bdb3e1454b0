package sessionservice_test

import (
	"context"
	"sort"
	"sync"

	"furnishop/internal/domain"
)

// memStore implementa as quatro portas de persistência em memória.
type memStore struct {
	mu        sync.Mutex
	customers map[string]domain.CustomerRecord // por uid
	carts     map[string][]domain.CartLine
	favorites map[string][]string
	orders    map[string][]domain.Order

	readErr  error
	writeErr error
	upserts  int
}

func newMemStore() *memStore {
	return &memStore{
		customers: make(map[string]domain.CustomerRecord),
		carts:     make(map[string][]domain.CartLine),
		favorites: make(map[string][]string),
		orders:    make(map[string][]domain.Order),
	}
}

func (m *memStore) Upsert(_ context.Context, record domain.CustomerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	if prev, ok := m.customers[record.UID]; ok && record.PasswordHash == "" {
		record.PasswordHash = prev.PasswordHash
	}
	m.customers[record.UID] = record
	m.upserts++
	return nil
}

func (m *memStore) FindByEmail(_ context.Context, email string) (*domain.CustomerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	for _, r := range m.customers {
		if r.Email == email {
			rec := r
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindAll(_ context.Context) ([]domain.CustomerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CustomerRecord, 0, len(m.customers))
	for _, r := range m.customers {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (m *memStore) GetCart(_ context.Context, uid string) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	return append([]domain.CartLine(nil), m.carts[uid]...), nil
}

func (m *memStore) ReplaceCart(_ context.Context, uid string, lines []domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.carts[uid] = append([]domain.CartLine(nil), lines...)
	return nil
}

func (m *memStore) GetFavorites(_ context.Context, uid string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	return append([]string(nil), m.favorites[uid]...), nil
}

func (m *memStore) ReplaceFavorites(_ context.Context, uid string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.favorites[uid] = append([]string(nil), ids...)
	return nil
}

func (m *memStore) GetOrders(_ context.Context, uid string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([]domain.Order, 0, len(m.orders[uid]))
	for _, o := range m.orders[uid] {
		o.Lines = []domain.OrderLine{}
		out = append(out, o)
	}
	return out, nil
}

func (m *memStore) GetOrderLines(_ context.Context, uid, orderID string) ([]domain.OrderLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders[uid] {
		if o.ID == orderID {
			return append([]domain.OrderLine(nil), o.Lines...), nil
		}
	}
	return []domain.OrderLine{}, nil
}

func (m *memStore) PutOrderWithLines(_ context.Context, uid string, order domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.orders[uid] = append(m.orders[uid], order)
	return nil
}

func (m *memStore) customerByUID(uid string) (domain.CustomerRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.customers[uid]
	return r, ok
}

func (m *memStore) cartOf(uid string) []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartLine(nil), m.carts[uid]...)
}

func (m *memStore) ordersOf(uid string) []domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Order(nil), m.orders[uid]...)
}

// fakeCatalog devolve uma lista fixa ou um erro.
type fakeCatalog struct {
	products []domain.Product
	err      error
	calls    int
}

func (f *fakeCatalog) Refresh(context.Context) ([]domain.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Product(nil), f.products...), nil
}
