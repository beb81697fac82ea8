package delivery

import (
	"context"
	"fmt"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/pkg/logger"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// API is the part of the storefront client the delivery service needs
type API interface {
	ListDeliveries(ctx context.Context) ([]domain.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus) error
}

// Gate decides which deliveries an identity sees and which status changes it may make
type Gate interface {
	FilterDeliveries(identity domain.Identity, deliveries []domain.Delivery) []domain.Delivery
	CanUpdateStatus(identity domain.Identity, d domain.Delivery) bool
	CheckTransition(identity domain.Identity, d domain.Delivery, to domain.DeliveryStatus) error
}

// IdentitySource yields the current session identity
type IdentitySource interface {
	Identity() (domain.Identity, bool)
}

// View is a delivery together with what the viewer may do with it
type View struct {
	domain.Delivery
	StatusLabel string                  `json:"statusLabel"`
	CanUpdate   bool                    `json:"canUpdate"`
	Options     []domain.DeliveryStatus `json:"statusOptions"`
}

// Service lists deliveries and applies gated status transitions
type Service interface {
	List(ctx context.Context) ([]View, error)
	UpdateStatus(ctx context.Context, deliveryID string, to domain.DeliveryStatus) ([]View, error)
	StatusOptions(identity domain.Identity, d domain.Delivery) []domain.DeliveryStatus
}

type service struct {
	api     API
	gate    Gate
	session IdentitySource
	log     *logger.Logger
}

// NewService creates a new delivery service
func NewService(api API, gate Gate, session IdentitySource, log *logger.Logger) Service {
	if log == nil {
		log = logger.Get()
	}
	return &service{api: api, gate: gate, session: session, log: log}
}

// List fetches deliveries and keeps those the current identity may see
func (s *service) List(ctx context.Context) ([]View, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.delivery.list")
	defer span.End()

	identity, ok := s.session.Identity()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	return s.fetch(ctx, identity)
}

func (s *service) fetch(ctx context.Context, identity domain.Identity) ([]View, error) {
	all, err := s.api.ListDeliveries(ctx)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	visible := s.gate.FilterDeliveries(identity, all)
	views := make([]View, 0, len(visible))
	for _, d := range visible {
		views = append(views, s.view(identity, d))
	}
	return views, nil
}

func (s *service) view(identity domain.Identity, d domain.Delivery) View {
	return View{
		Delivery:    d,
		StatusLabel: Label(d.Status),
		CanUpdate:   s.gate.CanUpdateStatus(identity, d),
		Options:     s.StatusOptions(identity, d),
	}
}

// UpdateStatus moves a delivery to a new status and returns the refreshed list.
// The record is located in a fresh fetch; nothing is changed locally.
func (s *service) UpdateStatus(ctx context.Context, deliveryID string, to domain.DeliveryStatus) ([]View, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.delivery.update_status")
	defer span.End()
	span.SetAttributes(
		attribute.String("delivery_id", deliveryID),
		attribute.String("status", to.String()),
	)

	identity, ok := s.session.Identity()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	all, err := s.api.ListDeliveries(ctx)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	var target *domain.Delivery
	for i := range all {
		if all[i].ID == deliveryID {
			target = &all[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeliveryNotFound, deliveryID)
	}

	if err := s.gate.CheckTransition(identity, *target, to); err != nil {
		s.log.Warn("delivery status change refused",
			zap.String("delivery_id", deliveryID),
			zap.String("user_id", identity.ID),
			zap.String("from", target.Status.String()),
			zap.String("to", to.String()),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.api.UpdateDeliveryStatus(ctx, deliveryID, to); err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	s.log.Info("delivery status updated",
		zap.String("delivery_id", deliveryID),
		zap.String("from", target.Status.String()),
		zap.String("to", to.String()),
	)

	return s.fetch(ctx, identity)
}

// StatusOptions returns the statuses a surface may offer for d, current
// status first. It is empty when the identity may not update d.
func (s *service) StatusOptions(identity domain.Identity, d domain.Delivery) []domain.DeliveryStatus {
	if !s.gate.CanUpdateStatus(identity, d) {
		return []domain.DeliveryStatus{}
	}

	options := make([]domain.DeliveryStatus, 0, len(domain.DeliveryStatuses))
	if d.Status.IsValid() {
		options = append(options, d.Status)
	}
	for _, st := range domain.DeliveryStatuses {
		if st == d.Status {
			continue
		}
		if s.gate.CheckTransition(identity, d, st) == nil {
			options = append(options, st)
		}
	}
	return options
}
