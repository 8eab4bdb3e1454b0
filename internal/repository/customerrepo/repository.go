package customerrepo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
	"furnishop/internal/pkg/logger"
)

// CustomerRepository implementa a interface domain.CustomerRepository
type CustomerRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCustomerRepository cria uma nova instância do CustomerRepository, injetando o DB.
func NewCustomerRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *CustomerRepository {
	return &CustomerRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Email vazio vira NULL para não colidir no índice único.
// Hash vazio preserva o hash já gravado.
const upsertCustomerSQL = `INSERT INTO customers (uid, email, display_name, role, address, phone, payment_method, delivery_method, password_hash, updated_at)
	VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (uid) DO UPDATE SET
		email = EXCLUDED.email,
		display_name = EXCLUDED.display_name,
		role = EXCLUDED.role,
		address = EXCLUDED.address,
		phone = EXCLUDED.phone,
		payment_method = EXCLUDED.payment_method,
		delivery_method = EXCLUDED.delivery_method,
		password_hash = COALESCE(NULLIF(EXCLUDED.password_hash, ''), customers.password_hash),
		updated_at = EXCLUDED.updated_at`

const selectCustomerSQL = `SELECT uid, COALESCE(email, ''), display_name, role, address, phone, payment_method, delivery_method, password_hash, updated_at
	FROM customers`

// Upsert grava o registro do cliente, criando ou sobrescrevendo pela chave uid.
func (r *CustomerRepository) Upsert(ctx context.Context, record domain.CustomerRecord) error {
	r.logger.Debug("Iniciando Upsert de cliente no repositório.", map[string]interface{}{"uid": record.UID})

	// 1. Configura Contexto com Timeout
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// 2. Prepara timestamp
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}

	// 3. Executa o UPSERT
	_, err := r.DB.ExecContext(
		ctxTimeout,
		upsertCustomerSQL,
		record.UID,
		strings.ToLower(record.Email),
		record.DisplayName,
		string(record.Role),
		record.Address,
		record.Phone,
		record.PaymentMethod,
		record.DeliveryMethod,
		record.PasswordHash,
		record.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao gravar cliente no DB.", err)
		return apperror.NewDBError("falha ao gravar cliente", err)
	}

	r.logger.Info("Cliente gravado com sucesso no repositório.", map[string]interface{}{"uid": record.UID})
	return nil
}

// FindByEmail busca um cliente pelo email (case-insensitive). Retorna (nil, nil) se não existir.
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.CustomerRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout, selectCustomerSQL+` WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))

	record, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug("Cliente não encontrado por email.", map[string]interface{}{"email": email})
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Falha ao buscar cliente por email.", err)
		return nil, apperror.NewDBError("falha ao buscar cliente", err)
	}
	return &record, nil
}

// FindAll retorna todos os clientes, ordenados por uid.
func (r *CustomerRepository) FindAll(ctx context.Context) ([]domain.CustomerRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, selectCustomerSQL+` ORDER BY uid`)
	if err != nil {
		r.logger.Error("Falha ao listar clientes.", err)
		return nil, apperror.NewDBError("falha ao listar clientes", err)
	}
	defer rows.Close()

	records := []domain.CustomerRecord{}
	for rows.Next() {
		record, err := scanCustomer(rows)
		if err != nil {
			return nil, apperror.NewDBError("falha ao ler cliente", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("falha ao iterar clientes", err)
	}
	return records, nil
}

// Stream emite a lista completa de clientes uma vez ao iniciar e de novo a cada sinal em changes.
// Falhas de leitura são registradas e o valor é pulado; o canal fecha quando ctx termina
// ou changes é fechado.
func (r *CustomerRepository) Stream(ctx context.Context, changes <-chan struct{}) <-chan []domain.CustomerRecord {
	out := make(chan []domain.CustomerRecord, 1)

	go func() {
		defer close(out)

		emit := func() bool {
			records, err := r.FindAll(ctx)
			if err != nil {
				r.logger.Warn("Falha ao atualizar lista de clientes.", map[string]interface{}{"error": err.Error()})
				return ctx.Err() == nil
			}
			select {
			case out <- records:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(s scanner) (domain.CustomerRecord, error) {
	var (
		record domain.CustomerRecord
		role   string
	)
	err := s.Scan(
		&record.UID,
		&record.Email,
		&record.DisplayName,
		&role,
		&record.Address,
		&record.Phone,
		&record.PaymentMethod,
		&record.DeliveryMethod,
		&record.PasswordHash,
		&record.UpdatedAt,
	)
	if err != nil {
		return domain.CustomerRecord{}, err
	}
	record.Role = domain.ParseUserRole(role)
	return record, nil
}
