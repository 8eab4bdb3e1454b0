package orderrepo

import (
	"context"
	"database/sql"
	"time"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
	"furnishop/internal/pkg/logger"
)

// OrderRepository implementa domain.OrderRepository: cabeçalho em orders, itens em order_items.
type OrderRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewOrderRepository cria uma nova instância do OrderRepository.
func NewOrderRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *OrderRepository {
	return &OrderRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// GetOrders retorna os cabeçalhos dos pedidos do usuário em ordem de criação.
// Lines fica vazio; os itens vêm de GetOrderLines.
func (r *OrderRepository) GetOrders(ctx context.Context, uid string) ([]domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT order_id, total, address_id, address_label, address_line, address_phone, status, payment_method, delivery_method, created_at
		FROM orders
		WHERE uid = $1
		ORDER BY created_at ASC, order_id ASC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, uid)
	if err != nil {
		r.logger.Error("Falha ao consultar pedidos.", err)
		return nil, apperror.NewDBError("falha ao consultar pedidos", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var (
			o      domain.Order
			status string
		)
		err := rows.Scan(
			&o.ID,
			&o.Total,
			&o.Address.ID,
			&o.Address.Label,
			&o.Address.Line,
			&o.Address.Phone,
			&status,
			&o.PaymentMethod,
			&o.DeliveryMethod,
			&o.CreatedAt,
		)
		if err != nil {
			return nil, apperror.NewDBError("falha ao ler pedido", err)
		}
		o.Status = domain.OrderStatus(status)
		o.Lines = []domain.OrderLine{}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("falha ao iterar pedidos", err)
	}

	r.logger.Debug("Pedidos carregados.", map[string]interface{}{"uid": uid, "orders": len(orders)})
	return orders, nil
}

// GetOrderLines retorna os itens de um pedido do usuário.
func (r *OrderRepository) GetOrderLines(ctx context.Context, uid, orderID string) ([]domain.OrderLine, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT i.product_id, i.name, i.price, i.quantity
		FROM order_items i
		JOIN orders o ON o.order_id = i.order_id
		WHERE o.uid = $1 AND i.order_id = $2
		ORDER BY i.position`

	rows, err := r.DB.QueryContext(ctxTimeout, query, uid, orderID)
	if err != nil {
		r.logger.Error("Falha ao consultar itens do pedido.", err)
		return nil, apperror.NewDBError("falha ao consultar itens do pedido", err)
	}
	defer rows.Close()

	lines := []domain.OrderLine{}
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Price, &l.Quantity); err != nil {
			return nil, apperror.NewDBError("falha ao ler item do pedido", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("falha ao iterar itens do pedido", err)
	}
	return lines, nil
}

// PutOrderWithLines grava cabeçalho e itens numa única transação.
func (r *OrderRepository) PutOrderWithLines(ctx context.Context, uid string, order domain.Order) error {
	r.logger.Debug("Iniciando gravação de pedido.", map[string]interface{}{"uid": uid, "order_id": order.ID})

	// 1. Configura Contexto com Timeout
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// 2. Abre a transação
	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewDBError("falha ao iniciar transação do pedido", err)
	}
	defer tx.Rollback()

	// 3. Cabeçalho
	_, err = tx.ExecContext(ctxTimeout,
		`INSERT INTO orders (order_id, uid, total, address_id, address_label, address_line, address_phone, status, payment_method, delivery_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		order.ID,
		uid,
		order.Total,
		order.Address.ID,
		order.Address.Label,
		order.Address.Line,
		order.Address.Phone,
		string(order.Status),
		order.PaymentMethod,
		order.DeliveryMethod,
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao gravar cabeçalho do pedido.", err)
		return apperror.NewDBError("falha ao gravar pedido", err)
	}

	// 4. Itens
	for i, line := range order.Lines {
		_, err = tx.ExecContext(ctxTimeout,
			`INSERT INTO order_items (order_id, position, product_id, name, price, quantity) VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, i, line.ProductID, line.Name, line.Price, line.Quantity,
		)
		if err != nil {
			r.logger.Error("Falha ao gravar item do pedido.", err)
			return apperror.NewDBError("falha ao gravar item do pedido", err)
		}
	}

	// 5. Commit
	if err = tx.Commit(); err != nil {
		return apperror.NewDBError("falha ao confirmar pedido", err)
	}

	r.logger.Info("Pedido gravado com sucesso.", map[string]interface{}{"uid": uid, "order_id": order.ID, "lines": len(order.Lines)})
	return nil
}
