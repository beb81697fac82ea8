package service

import (
	"context"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/policy"
	"github.com/prohmpiriya/storefront-console/pkg/logger"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
	"go.uber.org/zap"
)

// UserService is the admin user management
type UserService interface {
	List(ctx context.Context, f policy.UserFilter) ([]domain.User, error)

	// Update changes role and status, then returns the refreshed list
	Update(ctx context.Context, id string, upd domain.UserUpdate) ([]domain.User, error)
}

type userService struct {
	api     UserAPI
	session IdentitySource
	log     *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(api UserAPI, session IdentitySource, log *logger.Logger) UserService {
	if log == nil {
		log = logger.Get()
	}
	return &userService{api: api, session: session, log: log}
}

func (s *userService) admin() (domain.Identity, error) {
	identity, err := current(s.session)
	if err != nil {
		return identity, err
	}
	if !policy.CanView(identity, policy.ResourceUsers) {
		return identity, domain.ErrForbidden
	}
	return identity, nil
}

func (s *userService) List(ctx context.Context, f policy.UserFilter) ([]domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.list")
	defer span.End()

	identity, err := s.admin()
	if err != nil {
		return nil, err
	}

	all, err := s.api.ListUsers(ctx)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}
	return policy.FilterUsers(identity, all, f), nil
}

func (s *userService) Update(ctx context.Context, id string, upd domain.UserUpdate) ([]domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.update")
	defer span.End()

	identity, err := s.admin()
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(identity, policy.ResourceUsers) {
		return nil, domain.ErrForbidden
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	if err := s.api.UpdateUser(ctx, id, upd); err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}
	s.log.Info("user updated",
		zap.String("user_id", id),
		zap.String("role", upd.Role.String()),
		zap.String("status", string(upd.Status)),
	)

	return s.List(ctx, policy.UserFilter{})
}
