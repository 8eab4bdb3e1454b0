package token

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"furnishop/internal/domain"
)

const issuer = "furnishop-cli"

// TokenService define o contrato para manipulação dos tokens de sessão.
type TokenService interface {
	GenerateToken(profile domain.UserProfile) (string, error)
	ValidateToken(tokenString string) (*CustomClaims, error)
}

// CustomClaims define as informações do perfil guardadas no token de sessão.
// É obrigatório incorporar jwt.RegisteredClaims.
type CustomClaims struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// Profile reconstrói o perfil de sessão a partir das claims.
func (c *CustomClaims) Profile() domain.UserProfile {
	return domain.UserProfile{
		UID:         c.UserID,
		Email:       c.Email,
		DisplayName: c.DisplayName,
		Role:        domain.ParseUserRole(c.Role),
	}
}

// Service implementa a interface TokenService
type Service struct {
	secretKey []byte
	expiry    time.Duration
	now       func() time.Time
}

// NewService cria uma nova instância do serviço Token.
func NewService(secretKey string, expiry time.Duration) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		expiry:    expiry,
		now:       time.Now,
	}
}

// GenerateToken cria um novo JWT assinado com o perfil da sessão.
func (s *Service) GenerateToken(profile domain.UserProfile) (string, error) {
	now := s.now()
	claims := CustomClaims{
		UserID:      profile.UID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		Role:        string(profile.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   profile.UID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Assina o token com a chave secreta
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("falha ao assinar o token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken valida o token string e retorna as claims se for válido.
func (s *Service) ValidateToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verifica se o método de assinatura é o esperado (HS256)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		// Trata erros comuns de JWT, como token expirado ou inválido
		return nil, fmt.Errorf("token inválido: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token não é válido")
	}
	if claims.UserID == "" {
		return nil, errors.New("token sem user_id")
	}

	return claims, nil
}

// --- Arquivo de sessão ---

// SaveFile grava o token em path com permissão 0600, criando o diretório se preciso.
func SaveFile(path, tokenString string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("falha ao criar diretório da sessão: %w", err)
	}
	return os.WriteFile(path, []byte(tokenString+"\n"), 0o600)
}

// LoadFile lê o token gravado por SaveFile. Arquivo ausente retorna ("", nil).
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("falha ao ler arquivo de sessão: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// RemoveFile apaga o arquivo de sessão; ausência não é erro.
func RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("falha ao remover arquivo de sessão: %w", err)
	}
	return nil
}
