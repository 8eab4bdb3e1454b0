package domain

import (
	"context"
	"strings"
	"time"
)

// UserRole é o papel do usuário. Conjunto fechado: apenas RoleCustomer e RoleAdmin.
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// ParseUserRole converte o texto persistido; qualquer valor desconhecido vira RoleCustomer.
func ParseUserRole(s string) UserRole {
	if UserRole(strings.ToLower(strings.TrimSpace(s))) == RoleAdmin {
		return RoleAdmin
	}
	return RoleCustomer
}

// UserProfile é a identidade da sessão. UID é a chave estável.
type UserProfile struct {
	UID         string   `json:"uid"`
	Email       string   `json:"email,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	Role        UserRole `json:"role"`
}

// CustomerRecord é o perfil persistido na tabela de clientes.
type CustomerRecord struct {
	UID            string    `json:"uid"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	Role           UserRole  `json:"role"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	PaymentMethod  string    `json:"payment_method"`
	DeliveryMethod string    `json:"delivery_method"`
	PasswordHash   string    `json:"-"` // nunca sai em JSON
	UpdatedAt      time.Time `json:"updated_at"`
}

// Profile converte o registro no perfil de sessão.
func (r CustomerRecord) Profile() UserProfile {
	return UserProfile{UID: r.UID, Email: r.Email, DisplayName: r.DisplayName, Role: r.Role}
}

// CustomerRepository define o contrato de persistência de clientes.
// FindByEmail retorna (nil, nil) quando não há cadastro.
type CustomerRepository interface {
	Upsert(ctx context.Context, record CustomerRecord) error
	FindByEmail(ctx context.Context, email string) (*CustomerRecord, error)
	FindAll(ctx context.Context) ([]CustomerRecord, error)
}
