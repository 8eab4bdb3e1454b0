package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"furnishop/internal/pkg/logger"
)

// NewPostgresDB abre e configura o pool de conexões com o PostgreSQL.
// A sessão de compras tem um único usuário por processo, então o pool é pequeno.
func NewPostgresDB(ctx context.Context, dataSourceName string, log logger.Logger) (*sql.DB, error) {
	// 1. Abrir a Conexão
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir a conexão com o DB: %w", err)
	}

	// 2. Testar a Conexão Imediatamente
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao realizar o ping inicial no DB: %w", err)
	}

	// 3. Configuração do Connection Pool
	db.SetMaxOpenConns(4)                  // intents + fila de gravação + leituras de restauração
	db.SetMaxIdleConns(2)                  // mantém conexões quentes entre intents
	db.SetConnMaxLifetime(5 * time.Minute) // evita conexões presas por firewall
	db.SetConnMaxIdleTime(2 * time.Minute)

	log.Info("Pool de conexões PostgreSQL configurado.", map[string]interface{}{"max_open": 4})
	return db, nil
}
