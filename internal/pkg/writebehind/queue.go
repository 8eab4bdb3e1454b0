// Package writebehind executa gravações de persistência em segundo plano.
// O estado em memória é a fonte da verdade: falhas são registradas e logadas,
// nunca propagadas ao chamador nem repetidas.
package writebehind

import (
	"context"
	"sync"
	"time"

	apperror "furnishop/internal/errors"
	"furnishop/internal/pkg/logger"
)

// Job é uma gravação nomeada.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Failure registra uma gravação que falhou.
type Failure struct {
	Job string
	Err error
	At  time.Time
}

const maxFailures = 32

// Queue executa jobs um por vez, na ordem de submissão.
type Queue struct {
	mu          sync.Mutex
	pending     []Job
	outstanding int           // pendentes + em execução
	idle        chan struct{} // fechado quando outstanding volta a zero
	wake        chan struct{}
	closed      bool
	done        chan struct{}
	failures    []Failure
	timeout     time.Duration
	logger      logger.Logger
}

// New cria a fila e inicia o worker. timeout limita cada job (0 = sem limite).
func New(timeout time.Duration, log logger.Logger) *Queue {
	q := &Queue{
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		timeout: timeout,
		logger:  log,
	}
	go q.run()
	return q
}

// Submit enfileira o job e retorna imediatamente. Após Close o job é descartado.
func (q *Queue) Submit(name string, run func(ctx context.Context) error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("Fila de persistência fechada; gravação descartada.", map[string]interface{}{"job": name})
		return
	}
	if q.outstanding == 0 {
		q.idle = make(chan struct{})
	}
	q.outstanding++
	q.pending = append(q.pending, Job{Name: name, Run: run})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Flush espera até que todos os jobs submetidos tenham terminado ou ctx expirar.
// Falhas de gravação não são retornadas; consulte LastError/Failures.
func (q *Queue) Flush(ctx context.Context) error {
	q.mu.Lock()
	if q.outstanding == 0 {
		q.mu.Unlock()
		return nil
	}
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close impede novas submissões e espera a fila esvaziar.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	<-q.done
}

// LastError retorna a falha mais recente, ou nil.
func (q *Queue) LastError() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.failures) == 0 {
		return nil
	}
	return q.failures[len(q.failures)-1].Err
}

// Failures retorna uma cópia das falhas recentes (no máximo 32, mais antigas primeiro).
func (q *Queue) Failures() []Failure {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Failure(nil), q.failures...)
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 {
			if q.closed {
				q.mu.Unlock()
				return
			}
			q.mu.Unlock()
			<-q.wake
			q.mu.Lock()
		}
		job := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		err := q.execute(job)

		q.mu.Lock()
		if err != nil {
			q.failures = append(q.failures, Failure{Job: job.Name, Err: err, At: time.Now()})
			if len(q.failures) > maxFailures {
				q.failures = q.failures[len(q.failures)-maxFailures:]
			}
		}
		q.outstanding--
		if q.outstanding == 0 {
			close(q.idle)
		}
		q.mu.Unlock()
	}
}

func (q *Queue) execute(job Job) (err error) {
	ctx := context.Background()
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = apperror.NewInternalError("pânico durante gravação", nil)
		}
		if err != nil {
			err = apperror.NewPersistenceError(job.Name, err)
			q.logger.Error("Falha de persistência ignorada (write-behind).", err)
		}
	}()

	start := time.Now()
	err = job.Run(ctx)
	q.logger.Debug("Gravação em segundo plano concluída.", map[string]interface{}{
		"job":         job.Name,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return err
}
