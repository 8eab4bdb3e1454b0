package sessionservice

import (
	"context"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
	"furnishop/internal/reducer"
	"furnishop/internal/service/userservice"
)

// SignUp cadastra um novo cliente e abre a sessão para ele.
func (s *Service) SignUp(ctx context.Context, email, password string) error {
	// 1. Validação Básica
	if err := reducer.ValidateCredentials(email, password); err != nil {
		return s.fail(err)
	}
	key := reducer.NormalizeEmail(email)
	s.setLoading()

	// 2. Rejeita email já cadastrado (registro em memória, depois a tabela de clientes)
	if _, ok := s.creds.Lookup(key); ok {
		return s.fail(apperror.NewDuplicateAccountError(key))
	}
	existing, err := s.repos.Customers.FindByEmail(ctx, key)
	if err != nil {
		return s.fail(apperror.NewLoadError("cadastro de clientes", err))
	}
	if existing != nil {
		return s.fail(apperror.NewDuplicateAccountError(key))
	}

	// 3. Credencial com hash bcrypt
	uid := s.opts.NewUID()
	cred, err := s.creds.Register(key, uid, password)
	if err != nil {
		return s.fail(err)
	}

	// 4. Perfil novo, restauração (vazia) e persistência do registro
	profile := domain.UserProfile{UID: uid, Email: key, Role: domain.RoleCustomer}
	restored := s.restore(ctx, uid)

	s.logger.Info("Cliente cadastrado.", map[string]interface{}{"uid": uid})
	return s.update(func(st domain.SessionState) (domain.SessionState, error) {
		next := reducer.SignedIn(st, profile, restored)
		s.persistProfile(next, cred.Hash)
		return next, nil
	})
}

// SignIn autentica pelo registro em memória e, na ausência dele, pelo hash persistido.
func (s *Service) SignIn(ctx context.Context, email, password string) error {
	// 1. Validação Básica
	if err := reducer.ValidateCredentials(email, password); err != nil {
		return s.fail(err)
	}
	key := reducer.NormalizeEmail(email)
	s.setLoading()

	// 2. Registro persistido: fonte dos campos de perfil e fallback da credencial
	record, recErr := s.repos.Customers.FindByEmail(ctx, key)

	cred, ok := s.creds.Verify(key, password)
	switch {
	case ok && recErr != nil:
		s.logger.Warn("Falha ao ler registro do cliente; seguindo sem campos salvos.", map[string]interface{}{"error": recErr.Error()})
		record = nil
	case !ok && recErr != nil:
		return s.fail(apperror.NewLoadError("cadastro de clientes", recErr))
	case !ok:
		// Não diferencia conta ausente de senha errada.
		if record == nil || !userservice.Matches(record.PasswordHash, password) {
			return s.fail(apperror.NewInvalidCredentialsError())
		}
		cred = userservice.Credential{UID: record.UID, Hash: record.PasswordHash}
		s.creds.Set(key, record.UID, record.PasswordHash)
	}
	if record != nil && record.UID != cred.UID {
		record = nil
	}

	// 3. Perfil e restauração
	profile := domain.UserProfile{UID: cred.UID, Email: key, Role: s.roleFor(key)}
	restored := s.restore(ctx, cred.UID)
	restored.Record = record

	s.logger.Info("Sessão iniciada.", map[string]interface{}{"uid": cred.UID, "role": string(profile.Role)})
	return s.update(func(st domain.SessionState) (domain.SessionState, error) {
		return reducer.SignedIn(st, profile, restored), nil
	})
}

// SignInAnonymously abre a sessão com a identidade fixa de convidado.
// Carrinho, favoritos e pedidos do convidado são restaurados; campos de perfil não.
func (s *Service) SignInAnonymously(ctx context.Context) error {
	s.setLoading()

	profile := domain.UserProfile{UID: s.opts.GuestUID, Email: s.opts.GuestEmail, Role: domain.RoleCustomer}
	restored := s.restore(ctx, profile.UID)

	return s.update(func(st domain.SessionState) (domain.SessionState, error) {
		return reducer.SignedIn(st, profile, restored), nil
	})
}

// ResumeSession reabre a sessão de um perfil já autenticado (token de sessão verificado).
func (s *Service) ResumeSession(ctx context.Context, profile domain.UserProfile) error {
	if profile.UID == "" {
		return s.fail(apperror.NewNotAuthenticatedError())
	}
	s.setLoading()

	restored := s.restore(ctx, profile.UID)
	if !s.isGuest(profile.UID) && profile.Email != "" {
		profile.Role = s.roleFor(profile.Email)
		record, err := s.repos.Customers.FindByEmail(ctx, profile.Email)
		switch {
		case err != nil:
			s.logger.Warn("Falha ao ler registro do cliente na retomada.", map[string]interface{}{"error": err.Error()})
		case record != nil && record.UID == profile.UID:
			restored.Record = record
			if record.PasswordHash != "" {
				s.creds.Set(profile.Email, record.UID, record.PasswordHash)
			}
		}
	}

	return s.update(func(st domain.SessionState) (domain.SessionState, error) {
		return reducer.SignedIn(st, profile, restored), nil
	})
}

// SignOut descarta o estado em memória e recarrega o catálogo. Nada é persistido.
func (s *Service) SignOut(ctx context.Context) error {
	_ = s.update(func(domain.SessionState) (domain.SessionState, error) {
		return reducer.NewState(s.opts.Addresses), nil
	})
	s.logger.Info("Sessão encerrada.", nil)
	return s.LoadProducts(ctx)
}

// ResetPassword redefine a senha de uma conta persistida.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	// 1. Validação
	if err := reducer.ValidateCredentials(email, newPassword); err != nil {
		return s.fail(err)
	}
	key := reducer.NormalizeEmail(email)

	// 2. Conta precisa existir na tabela de clientes
	record, err := s.repos.Customers.FindByEmail(ctx, key)
	if err != nil {
		return s.fail(apperror.NewLoadError("cadastro de clientes", err))
	}
	if record == nil {
		return s.fail(apperror.NewAccountNotFoundError(key))
	}

	// 3. Sobrescreve credencial em memória e hash persistido
	hash, err := s.creds.Hash(newPassword)
	if err != nil {
		return s.fail(err)
	}
	s.creds.Set(key, record.UID, hash)

	updated := *record
	updated.PasswordHash = hash
	updated.UpdatedAt = s.opts.Now()

	s.logger.Info("Senha redefinida.", map[string]interface{}{"uid": record.UID})
	return s.update(func(st domain.SessionState) (domain.SessionState, error) {
		s.submitRecord(updated)
		return reducer.WithProfileMessage(st, "Senha redefinida."), nil
	})
}

// ChangePassword troca a senha do perfil ativo.
func (s *Service) ChangePassword(ctx context.Context, current, newPassword string) error {
	st := s.Snapshot()
	if st.Profile == nil {
		return s.fail(apperror.NewNotAuthenticatedError())
	}
	profile := *st.Profile

	// 1. Confere a senha atual (memória, depois o hash persistido)
	_, ok := s.creds.Verify(profile.Email, current)
	if !ok && profile.Email != "" {
		record, err := s.repos.Customers.FindByEmail(ctx, profile.Email)
		if err != nil {
			return s.fail(apperror.NewLoadError("cadastro de clientes", err))
		}
		ok = record != nil && record.UID == profile.UID && userservice.Matches(record.PasswordHash, current)
	}
	if !ok {
		return s.fail(apperror.NewWrongPasswordError())
	}

	// 2. Nova senha
	if reducer.PasswordLength(newPassword) < reducer.MinPasswordLength {
		return s.fail(apperror.NewWeakPasswordError(reducer.MinPasswordLength))
	}
	hash, err := s.creds.Hash(newPassword)
	if err != nil {
		return s.fail(err)
	}
	s.creds.Set(profile.Email, profile.UID, hash)

	s.logger.Info("Senha alterada.", map[string]interface{}{"uid": profile.UID})
	return s.update(func(st domain.SessionState) (domain.SessionState, error) {
		next := reducer.WithProfileMessage(st, "Senha alterada.")
		s.persistProfile(next, hash)
		return next, nil
	})
}
