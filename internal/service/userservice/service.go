package userservice

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
	"furnishop/internal/reducer"
)

// Credential é a entrada do registro de credenciais: uid do dono e hash bcrypt da senha.
type Credential struct {
	UID  string
	Hash string
}

// CredentialStore é o registro em memória email -> credencial.
// É reconstruído a partir da tabela de clientes (Absorb) e alimentado por cadastro e troca de senha.
type CredentialStore struct {
	mu      sync.RWMutex
	byEmail map[string]Credential
	cost    int
}

// NewCredentialStore cria um registro vazio. cost fora da faixa do bcrypt vira bcrypt.DefaultCost.
func NewCredentialStore(cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialStore{
		byEmail: make(map[string]Credential),
		cost:    cost,
	}
}

// Hash gera o hash bcrypt de password.
func (s *CredentialStore) Hash(password string) (string, error) {
	// 1. Hashing da Senha
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperror.NewValidationError("A senha deve ter no máximo 72 bytes.")
	}
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}
	return string(hashed), nil
}

// Matches compara a senha em texto puro com um hash bcrypt. Hash vazio nunca confere.
func Matches(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register cria a credencial de um novo email. Falha com DuplicateAccountError se já existir.
func (s *CredentialStore) Register(email, uid, password string) (Credential, error) {
	key := reducer.NormalizeEmail(email)
	if _, ok := s.Lookup(key); ok {
		return Credential{}, apperror.NewDuplicateAccountError(key)
	}

	hash, err := s.Hash(password)
	if err != nil {
		return Credential{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Cadastro concorrente do mesmo email entre o Lookup e o Lock.
	if _, ok := s.byEmail[key]; ok {
		return Credential{}, apperror.NewDuplicateAccountError(key)
	}
	cred := Credential{UID: uid, Hash: hash}
	s.byEmail[key] = cred
	return cred, nil
}

// Set grava (ou sobrescreve) a credencial de email com um hash já calculado.
func (s *CredentialStore) Set(email, uid, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEmail[reducer.NormalizeEmail(email)] = Credential{UID: uid, Hash: hash}
}

// Lookup retorna a credencial registrada para email.
func (s *CredentialStore) Lookup(email string) (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.byEmail[reducer.NormalizeEmail(email)]
	return cred, ok
}

// Verify confere a senha de email contra o registro em memória.
func (s *CredentialStore) Verify(email, password string) (Credential, bool) {
	cred, ok := s.Lookup(email)
	if !ok || !Matches(cred.Hash, password) {
		return Credential{}, false
	}
	return cred, true
}

// Absorb registra as credenciais de todos os registros com email e hash preenchidos.
// Retorna quantas entradas foram gravadas.
func (s *CredentialStore) Absorb(records []domain.CustomerRecord) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range records {
		key := reducer.NormalizeEmail(r.Email)
		if key == "" || r.PasswordHash == "" {
			continue
		}
		s.byEmail[key] = Credential{UID: r.UID, Hash: r.PasswordHash}
		n++
	}
	return n
}
