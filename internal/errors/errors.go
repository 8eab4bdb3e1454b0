package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError é a interface central para todos os erros customizados da sessão de compras.
// A camada de apresentação só enxerga a Categoria e a Mensagem; nenhum erro é fatal.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "EMPTY_CART")
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// Categorias expostas no estado da sessão.
const (
	CategoryValidation         = "VALIDATION_ERROR"
	CategoryDuplicateAccount   = "DUPLICATE_ACCOUNT"
	CategoryInvalidCredentials = "INVALID_CREDENTIALS"
	CategoryAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CategoryNotAuthenticated   = "NOT_AUTHENTICATED"
	CategoryWrongPassword      = "WRONG_PASSWORD"
	CategoryWeakPassword       = "WEAK_PASSWORD"
	CategoryEmptyCart          = "EMPTY_CART"
	CategoryMissingAddress     = "MISSING_ADDRESS"
	CategoryInvalidPromo       = "INVALID_PROMO"
	CategoryLoad               = "LOAD_ERROR"
	CategoryPersistence        = "PERSISTENCE_ERROR"
	CategoryNotFound           = "NOT_FOUND"
	CategoryInternal           = "INTERNAL_ERROR"
	CategoryUnknown            = "UNKNOWN_ERROR"
)

// --- Erros de Validação e Autenticação ---

// ValidationError representa falhas de validação de dados de entrada
// (email vazio ou malformado, senha curta, telefone curto, campos de perfil vazios).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return CategoryValidation }
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// DuplicateAccountError: cadastro com email já registrado.
type DuplicateAccountError struct {
	Email string
}

func (e *DuplicateAccountError) Error() string {
	return fmt.Sprintf("Conta duplicada: o email '%s' já está cadastrado", e.Email)
}
func (e *DuplicateAccountError) Category() string { return CategoryDuplicateAccount }
func (e *DuplicateAccountError) Unwrap() error    { return nil }

func NewDuplicateAccountError(email string) AppError {
	return &DuplicateAccountError{Email: email}
}

// InvalidCredentialsError: email ou senha não conferem no login.
type InvalidCredentialsError struct{}

func (e *InvalidCredentialsError) Error() string    { return "Credenciais inválidas: email ou senha incorretos" }
func (e *InvalidCredentialsError) Category() string { return CategoryInvalidCredentials }
func (e *InvalidCredentialsError) Unwrap() error    { return nil }

func NewInvalidCredentialsError() AppError {
	return &InvalidCredentialsError{}
}

// AccountNotFoundError: nenhuma conta persistida corresponde ao email.
type AccountNotFoundError struct {
	Email string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("Conta não encontrada: nenhum cadastro com o email '%s'", e.Email)
}
func (e *AccountNotFoundError) Category() string { return CategoryAccountNotFound }
func (e *AccountNotFoundError) Unwrap() error    { return nil }

func NewAccountNotFoundError(email string) AppError {
	return &AccountNotFoundError{Email: email}
}

// NotAuthenticatedError: a operação exige um perfil ativo.
type NotAuthenticatedError struct{}

func (e *NotAuthenticatedError) Error() string    { return "Não autenticado: entre na sua conta primeiro" }
func (e *NotAuthenticatedError) Category() string { return CategoryNotAuthenticated }
func (e *NotAuthenticatedError) Unwrap() error    { return nil }

func NewNotAuthenticatedError() AppError {
	return &NotAuthenticatedError{}
}

// WrongPasswordError: a senha atual informada na troca de senha não confere.
type WrongPasswordError struct{}

func (e *WrongPasswordError) Error() string    { return "Senha atual incorreta" }
func (e *WrongPasswordError) Category() string { return CategoryWrongPassword }
func (e *WrongPasswordError) Unwrap() error    { return nil }

func NewWrongPasswordError() AppError {
	return &WrongPasswordError{}
}

// WeakPasswordError: a nova senha não atinge o tamanho mínimo.
type WeakPasswordError struct {
	MinLength int
}

func (e *WeakPasswordError) Error() string {
	return fmt.Sprintf("Senha fraca: a nova senha deve ter pelo menos %d caracteres", e.MinLength)
}
func (e *WeakPasswordError) Category() string { return CategoryWeakPassword }
func (e *WeakPasswordError) Unwrap() error    { return nil }

func NewWeakPasswordError(minLength int) AppError {
	return &WeakPasswordError{MinLength: minLength}
}

// --- Erros de Checkout e Promoção ---

// EmptyCartError: checkout com carrinho de valor zero.
type EmptyCartError struct{}

func (e *EmptyCartError) Error() string    { return "Carrinho vazio" }
func (e *EmptyCartError) Category() string { return CategoryEmptyCart }
func (e *EmptyCartError) Unwrap() error    { return nil }

func NewEmptyCartError() AppError {
	return &EmptyCartError{}
}

// MissingAddressError: checkout sem endereço de entrega.
type MissingAddressError struct{}

func (e *MissingAddressError) Error() string {
	return "Informe um endereço de entrega para finalizar o pedido"
}
func (e *MissingAddressError) Category() string { return CategoryMissingAddress }
func (e *MissingAddressError) Unwrap() error    { return nil }

func NewMissingAddressError() AppError {
	return &MissingAddressError{}
}

// InvalidPromoError: código promocional não reconhecido.
type InvalidPromoError struct {
	Code string
}

func (e *InvalidPromoError) Error() string {
	return fmt.Sprintf("Código promocional '%s' não encontrado ou inválido", e.Code)
}
func (e *InvalidPromoError) Category() string { return CategoryInvalidPromo }
func (e *InvalidPromoError) Unwrap() error    { return nil }

func NewInvalidPromoError(code string) AppError {
	return &InvalidPromoError{Code: code}
}

// NotFoundError representa a ausência de um registro no repositório.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return CategoryNotFound }
func (e *NotFoundError) Unwrap() error    { return nil }

func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// LoadError representa falha ao carregar dados (catálogo, restauração da sessão).
type LoadError struct {
	Msg string
	Err error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Falha ao carregar: %s", e.Msg)
	}
	return fmt.Sprintf("Falha ao carregar: %s: %v", e.Msg, e.Err)
}
func (e *LoadError) Category() string { return CategoryLoad }
func (e *LoadError) Unwrap() error    { return e.Err }

func NewLoadError(msg string, err error) AppError {
	return &LoadError{Msg: msg, Err: err}
}

// PersistenceError representa falha de escrita em segundo plano.
// Nunca chega ao usuário: é apenas registrada pela fila de persistência.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("Falha de persistência (%s): %v", e.Op, e.Err)
}
func (e *PersistenceError) Category() string { return CategoryPersistence }
func (e *PersistenceError) Unwrap() error    { return e.Err }

func NewPersistenceError(op string, err error) AppError {
	return &PersistenceError{Op: op, Err: err}
}

// InternalError representa falhas inesperadas no serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return CategoryInternal }
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro interno (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB): %s", msg, err.Error()), err)
}

// --- Helper para a Sessão (Tradução Final) ---

// Classify traduz um erro para a categoria e a mensagem exibidas no estado da sessão.
func Classify(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr.Category(), appErr.Error()
	}
	// Erro não tipado: mensagem genérica para não vazar detalhes internos.
	return CategoryUnknown, "Ocorreu um erro inesperado."
}

// CategoryOf retorna apenas a categoria de err (vazia para nil).
func CategoryOf(err error) string {
	category, _ := Classify(err)
	return category
}
