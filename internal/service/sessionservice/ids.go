package sessionservice

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator gera IDs de pedido únicos.
type IDGenerator interface {
	NewOrderID() string
}

// ulidGenerator gera "order-<ULID>" com entropia monotônica: IDs gerados no mesmo
// milissegundo continuam crescentes e distintos.
type ulidGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewOrderIDGenerator cria o gerador padrão.
func NewOrderIDGenerator() IDGenerator {
	return &ulidGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

func (g *ulidGenerator) NewOrderID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		// Estouro da entropia no mesmo milissegundo: recomeça com entropia nova.
		g.entropy = ulid.Monotonic(rand.Reader, 0)
		id = ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
	}
	return "order-" + id.String()
}
