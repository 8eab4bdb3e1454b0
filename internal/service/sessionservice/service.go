// Package sessionservice é o controlador da sessão de compras: guarda o estado,
// executa as intenções do usuário através dos redutores puros e espelha os
// campos relevantes na persistência em segundo plano.
package sessionservice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
	"furnishop/internal/pkg/logger"
	"furnishop/internal/reducer"
	"furnishop/internal/service/userservice"
)

// Valores padrão da identidade de convidado e do administrador.
const (
	DefaultAdminEmail = "admin@furniture.test"
	DefaultGuestUID   = "guest"
	DefaultGuestEmail = "guest@offline"
)

// CatalogLoader grava o catálogo estático e devolve a lista persistida.
type CatalogLoader interface {
	Refresh(ctx context.Context) ([]domain.Product, error)
}

// Persister é a porta de gravação em segundo plano (writebehind.Queue).
type Persister interface {
	Submit(name string, run func(ctx context.Context) error)
	Flush(ctx context.Context) error
}

// Repositories agrupa as portas de persistência usadas pela sessão.
type Repositories struct {
	Customers domain.CustomerRepository
	Carts     domain.CartRepository
	Favorites domain.FavoriteRepository
	Orders    domain.OrderRepository
}

// Options configura identidades fixas, endereços salvos, relógio e gerador de IDs.
// Campos zerados recebem os valores padrão.
type Options struct {
	AdminEmail string
	GuestUID   string
	GuestEmail string
	Addresses  []domain.Address
	IDs        IDGenerator
	Now        func() time.Time
	NewUID     func() string
}

func (o Options) withDefaults() Options {
	if o.AdminEmail == "" {
		o.AdminEmail = DefaultAdminEmail
	}
	if o.GuestUID == "" {
		o.GuestUID = DefaultGuestUID
	}
	if o.GuestEmail == "" {
		o.GuestEmail = DefaultGuestEmail
	}
	if o.IDs == nil {
		o.IDs = NewOrderIDGenerator()
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	if o.NewUID == nil {
		o.NewUID = uuid.NewString
	}
	return o
}

// Service é o dono único do SessionState.
type Service struct {
	mu      sync.Mutex
	state   domain.SessionState
	subs    map[int]chan domain.SessionState
	nextSub int

	repos   Repositories
	catalog CatalogLoader
	creds   *userservice.CredentialStore
	queue   Persister
	prices  reducer.PriceFormatter
	opts    Options
	logger  logger.Logger
}

// NewService cria o controlador com o estado vazio do início do processo.
func NewService(
	repos Repositories,
	catalog CatalogLoader,
	creds *userservice.CredentialStore,
	queue Persister,
	prices reducer.PriceFormatter,
	opts Options,
	log logger.Logger,
) *Service {
	opts = opts.withDefaults()
	return &Service{
		state:   reducer.NewState(opts.Addresses),
		subs:    make(map[int]chan domain.SessionState),
		repos:   repos,
		catalog: catalog,
		creds:   creds,
		queue:   queue,
		prices:  prices,
		opts:    opts,
		logger:  log,
	}
}

// --- Estado observável ---

// Snapshot retorna uma cópia do estado atual.
func (s *Service) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe retorna um canal que sempre guarda o estado mais recente (os intermediários
// podem ser perdidos) e a função que cancela a inscrição. O canal já nasce com o estado atual.
func (s *Service) Subscribe() (<-chan domain.SessionState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan domain.SessionState, 1)
	ch <- s.state.Clone()
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// publish deve ser chamado com s.mu travado.
func (s *Service) publish() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.state.Clone()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// update aplica fn ao estado atual e publica o resultado.
// fn roda com o lock travado: as submissões à fila saem na mesma ordem dos estados.
func (s *Service) update(fn func(domain.SessionState) (domain.SessionState, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.state)
	s.state = next
	s.publish()
	return err
}

// fail registra err no estado e o devolve ao chamador.
func (s *Service) fail(err error) error {
	_ = s.update(func(st domain.SessionState) (domain.SessionState, error) {
		return reducer.WithError(st, err), nil
	})
	s.logger.Debug("Intenção rejeitada.", map[string]interface{}{"category": apperror.CategoryOf(err), "error": err.Error()})
	return err
}

func (s *Service) setLoading() {
	_ = s.update(func(st domain.SessionState) (domain.SessionState, error) {
		return reducer.WithLoading(st, true), nil
	})
}

// Flush espera a fila de persistência esvaziar.
func (s *Service) Flush(ctx context.Context) error {
	return s.queue.Flush(ctx)
}

// ProductByID procura um produto no catálogo carregado.
func (s *Service) ProductByID(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.state.Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *Service) roleFor(email string) domain.UserRole {
	if reducer.NormalizeEmail(email) == reducer.NormalizeEmail(s.opts.AdminEmail) {
		return domain.RoleAdmin
	}
	return domain.RoleCustomer
}

func (s *Service) isGuest(uid string) bool {
	return uid == s.opts.GuestUID
}

// --- Catálogo ---

// LoadProducts grava o catálogo estático e lê de volta a lista completa.
func (s *Service) LoadProducts(ctx context.Context) error {
	s.setLoading()

	products, err := s.catalog.Refresh(ctx)
	if err != nil {
		return s.fail(err)
	}

	return s.update(func(st domain.SessionState) (domain.SessionState, error) {
		return reducer.WithProducts(st, products), nil
	})
}
