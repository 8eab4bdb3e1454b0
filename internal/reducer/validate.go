package reducer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	apperror "furnishop/internal/errors"
)

// Regras de validação.
const (
	MinPasswordLength = 6
	MinPhoneDigits    = 11
)

// ValidateEmail exige email não vazio e com "@".
func ValidateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return apperror.NewValidationError("Informe o email.")
	}
	if !strings.Contains(trimmed, "@") {
		return apperror.NewValidationError("Informe um email válido.")
	}
	return nil
}

// ValidateCredentials aplica as regras de cadastro e login.
func ValidateCredentials(email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if PasswordLength(password) < MinPasswordLength {
		return apperror.NewValidationError("A senha deve ter pelo menos 6 caracteres.")
	}
	return nil
}

// ValidateProfile exige nome, endereço e telefone preenchidos e telefone com ao menos 11 dígitos.
func ValidateProfile(name, address, phone string) error {
	if strings.TrimSpace(name) == "" {
		return apperror.NewValidationError("Informe o nome.")
	}
	if strings.TrimSpace(address) == "" {
		return apperror.NewValidationError("Informe o endereço.")
	}
	if strings.TrimSpace(phone) == "" {
		return apperror.NewValidationError("Informe o telefone.")
	}
	if DigitCount(phone) < MinPhoneDigits {
		return apperror.NewValidationError("O telefone deve ter pelo menos 11 dígitos.")
	}
	return nil
}

// PasswordLength conta caracteres, não bytes: "ççç" tem 3.
func PasswordLength(password string) int {
	return utf8.RuneCountInString(password)
}

// DigitCount conta os dígitos decimais de s, ignorando espaços, "+", "-" e parênteses.
func DigitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// NormalizeEmail é a chave usada no registro de credenciais e na tabela de clientes.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
