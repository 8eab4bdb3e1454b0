package database

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"furnishop/internal/pkg/logger"
)

// CustomersChannel é o canal NOTIFY disparado pelo trigger da tabela customers.
const CustomersChannel = "customers_changed"

// pingInterval é o intervalo de verificação da conexão do listener sem notificações.
const pingInterval = 90 * time.Second

// Listen assina um canal LISTEN/NOTIFY e emite um sinal por notificação recebida.
// Após reconexão também emite um sinal, pois notificações podem ter sido perdidas.
// O canal retornado fecha quando ctx termina.
func Listen(ctx context.Context, dataSourceName, channel string, log logger.Logger) (<-chan struct{}, error) {
	listener := pq.NewListener(dataSourceName, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Error("Evento de erro no listener PostgreSQL.", err)
		}
	})
	if err := listener.Listen(channel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("falha ao assinar o canal %s: %w", channel, err)
	}

	changes := make(chan struct{}, 1)
	signal := func() {
		select {
		case changes <- struct{}{}:
		default: // já existe um sinal pendente; uma releitura cobre os dois
		}
	}

	go func() {
		defer close(changes)
		defer listener.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-listener.Notify:
				// n == nil indica reconexão
				if n != nil {
					log.Debug("Notificação recebida.", map[string]interface{}{"channel": n.Channel, "payload": n.Extra})
				}
				signal()
			case <-time.After(pingInterval):
				if err := listener.Ping(); err != nil {
					log.Error("Ping do listener falhou.", err)
				}
			}
		}
	}()

	log.Info("Assinatura LISTEN ativa.", map[string]interface{}{"channel": channel})
	return changes, nil
}
