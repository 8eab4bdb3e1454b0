package domain

import (
	"context"
	"time"
)

// OrderStatus é o estado de um pedido. Texto livre; o núcleo só cria pedidos NEW.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "NEW"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusDone       OrderStatus = "DONE"
)

// Address é usado tanto nos endereços salvos quanto no endereço de entrega do checkout.
type Address struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Line  string `json:"line"`
	Phone string `json:"phone"`
}

// OrderLine é a fotografia de nome e preço no momento do pedido.
type OrderLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order é imutável depois de criado (exceto Status, que o núcleo não altera).
type Order struct {
	ID             string      `json:"id"`
	Lines          []OrderLine `json:"lines"`
	Total          float64     `json:"total"` // antes do desconto
	Address        Address     `json:"address"`
	Status         OrderStatus `json:"status"`
	PaymentMethod  string      `json:"payment_method"`
	DeliveryMethod string      `json:"delivery_method"`
	CreatedAt      time.Time   `json:"created_at"`
}

// OrderRepository define o contrato de persistência de pedidos.
// PutOrderWithLines é atômico: cabeçalho e itens são gravados juntos ou nenhum.
type OrderRepository interface {
	GetOrders(ctx context.Context, uid string) ([]Order, error)
	GetOrderLines(ctx context.Context, uid, orderID string) ([]OrderLine, error)
	PutOrderWithLines(ctx context.Context, uid string, order Order) error
}
