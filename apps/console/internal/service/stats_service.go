package service

import (
	"context"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/policy"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
)

// StatsService reads the statistics the current role is entitled to
type StatsService interface {
	Get(ctx context.Context) (*domain.Stats, error)
}

type statsService struct {
	api     StatsAPI
	session IdentitySource
}

// NewStatsService creates a new stats service
func NewStatsService(api StatsAPI, session IdentitySource) StatsService {
	return &statsService{api: api, session: session}
}

func (s *statsService) Get(ctx context.Context) (*domain.Stats, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.stats.get")
	defer span.End()

	identity, err := current(s.session)
	if err != nil {
		return nil, err
	}

	scope := policy.StatsScope(identity)
	switch scope {
	case domain.StatsScopeSupplier:
		st, err := s.api.SupplierStats(ctx)
		if err != nil {
			telemetry.SetSpanError(ctx, err)
			return nil, err
		}
		rate := st.CompletionRate()
		avg := st.AverageOrderValue()
		return &domain.Stats{Scope: scope, Supplier: st, CompletionRate: &rate, AverageOrderValue: &avg}, nil
	case domain.StatsScopeAdmin:
		st, err := s.api.AdminStats(ctx)
		if err != nil {
			telemetry.SetSpanError(ctx, err)
			return nil, err
		}
		return &domain.Stats{Scope: scope, Admin: st}, nil
	default:
		return nil, domain.ErrForbidden
	}
}
