package service

import (
	"context"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/pkg/logger"
	"go.uber.org/zap"
)

// SessionManager is the part of the session the account flows drive
type SessionManager interface {
	IdentitySource
	Login(ctx context.Context, token string) error
	Logout(ctx context.Context) error
}

// AccountService covers login, registration and the caller's profile
type AccountService interface {
	// Login obtains a token for creds and starts a session with it.
	// On failure the session is left as it was.
	Login(ctx context.Context, creds domain.Credentials) (domain.Identity, error)

	// Register creates a client account and logs it in
	Register(ctx context.Context, reg domain.Registration) (domain.Identity, error)

	// AdoptToken starts a session from a token obtained elsewhere
	AdoptToken(ctx context.Context, token string) (domain.Identity, error)

	Logout(ctx context.Context) error
	Current() (domain.Identity, error)
	UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) error
}

type accountService struct {
	api     AuthAPI
	session SessionManager
	log     *logger.Logger
}

// NewAccountService creates a new account service
func NewAccountService(api AuthAPI, session SessionManager, log *logger.Logger) AccountService {
	if log == nil {
		log = logger.Get()
	}
	return &accountService{api: api, session: session, log: log}
}

func (s *accountService) Login(ctx context.Context, creds domain.Credentials) (domain.Identity, error) {
	token, err := s.api.Login(ctx, creds)
	if err != nil {
		s.log.Warn("login failed", zap.String("email", creds.Email), zap.Error(err))
		return domain.Identity{}, err
	}
	return s.AdoptToken(ctx, token)
}

func (s *accountService) Register(ctx context.Context, reg domain.Registration) (domain.Identity, error) {
	token, err := s.api.Register(ctx, reg)
	if err != nil {
		s.log.Warn("registration failed", zap.String("email", reg.Email), zap.Error(err))
		return domain.Identity{}, err
	}
	return s.AdoptToken(ctx, token)
}

func (s *accountService) AdoptToken(ctx context.Context, token string) (domain.Identity, error) {
	if err := s.session.Login(ctx, token); err != nil {
		return domain.Identity{}, err
	}
	identity, err := current(s.session)
	if err != nil {
		return domain.Identity{}, err
	}
	s.log.Info("session started", zap.String("user_id", identity.ID), zap.String("role", identity.Role.String()))
	return identity, nil
}

func (s *accountService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

func (s *accountService) Current() (domain.Identity, error) {
	return current(s.session)
}

func (s *accountService) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) error {
	if _, err := current(s.session); err != nil {
		return err
	}
	return s.api.UpdateProfile(ctx, upd)
}
