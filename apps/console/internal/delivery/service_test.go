package delivery_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/delivery"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/policy"
	"github.com/prohmpiriya/storefront-console/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAPI is a mock implementation of delivery.API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Delivery), args.Error(1)
}

func (m *MockAPI) UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type staticSession struct {
	identity domain.Identity
	ok       bool
}

func (s staticSession) Identity() (domain.Identity, bool) {
	return s.identity, s.ok
}

var (
	admin    = domain.Identity{ID: "a1", Role: domain.RoleAdmin}
	supplier = domain.Identity{ID: "s1", Role: domain.RoleSupplier}
	client   = domain.Identity{ID: "c1", Role: domain.RoleClient}
)

func fixtures() []domain.Delivery {
	return []domain.Delivery{
		{ID: "d1", Deliverer: domain.NewRef("s1"), Status: domain.DeliveryStatusAssigned, Order: domain.DeliveryOrder{Client: domain.NewRef("c1")}},
		{ID: "d2", Deliverer: domain.NewRef("s2"), Status: domain.DeliveryStatusInTransit, Order: domain.DeliveryOrder{Client: domain.NewRef("c2")}},
	}
}

func newService(api delivery.API, identity domain.Identity, forwardOnly bool) delivery.Service {
	return delivery.NewService(api, policy.New(forwardOnly), staticSession{identity: identity, ok: true}, logger.NewNop())
}

func TestService_List(t *testing.T) {
	api := new(MockAPI)
	api.On("ListDeliveries", mock.Anything).Return(fixtures(), nil)

	views, err := newService(api, supplier, false).List(context.Background())
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, "d1", views[0].ID)
	assert.Equal(t, "Assigned", views[0].StatusLabel)
	assert.True(t, views[0].CanUpdate)
	assert.Len(t, views[0].Options, len(domain.DeliveryStatuses))
}

func TestService_List_ClientCannotUpdate(t *testing.T) {
	api := new(MockAPI)
	api.On("ListDeliveries", mock.Anything).Return(fixtures(), nil)

	views, err := newService(api, client, false).List(context.Background())
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.False(t, views[0].CanUpdate)
	assert.Empty(t, views[0].Options)
}

func TestService_List_Anonymous(t *testing.T) {
	svc := delivery.NewService(new(MockAPI), policy.New(false), staticSession{}, logger.NewNop())

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestService_UpdateStatus_RefetchesAfterSuccess(t *testing.T) {
	api := new(MockAPI)
	updated := fixtures()
	updated[0].Status = domain.DeliveryStatusPickedUp

	api.On("ListDeliveries", mock.Anything).Return(fixtures(), nil).Once()
	api.On("UpdateDeliveryStatus", mock.Anything, "d1", domain.DeliveryStatusPickedUp).Return(nil).Once()
	api.On("ListDeliveries", mock.Anything).Return(updated, nil).Once()

	views, err := newService(api, supplier, false).UpdateStatus(context.Background(), "d1", domain.DeliveryStatusPickedUp)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, domain.DeliveryStatusPickedUp, views[0].Status)
	api.AssertExpectations(t)
}

func TestService_UpdateStatus_Forbidden(t *testing.T) {
	api := new(MockAPI)
	api.On("ListDeliveries", mock.Anything).Return(fixtures(), nil)

	_, err := newService(api, supplier, false).UpdateStatus(context.Background(), "d2", domain.DeliveryStatusDelivered)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	api.AssertNotCalled(t, "UpdateDeliveryStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateStatus_ForwardOnly(t *testing.T) {
	api := new(MockAPI)
	api.On("ListDeliveries", mock.Anything).Return(fixtures(), nil)

	_, err := newService(api, admin, true).UpdateStatus(context.Background(), "d2", domain.DeliveryStatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	api.AssertNotCalled(t, "UpdateDeliveryStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateStatus_NotFound(t *testing.T) {
	api := new(MockAPI)
	api.On("ListDeliveries", mock.Anything).Return(fixtures(), nil)

	_, err := newService(api, admin, false).UpdateStatus(context.Background(), "nope", domain.DeliveryStatusFailed)
	assert.ErrorIs(t, err, domain.ErrDeliveryNotFound)
}

func TestService_UpdateStatus_UpstreamFailure(t *testing.T) {
	api := new(MockAPI)
	rejected := &domain.RequestRejectedError{StatusCode: 400, Message: "bad status"}
	api.On("ListDeliveries", mock.Anything).Return(fixtures(), nil).Once()
	api.On("UpdateDeliveryStatus", mock.Anything, "d2", domain.DeliveryStatusFailed).Return(rejected)

	_, err := newService(api, admin, false).UpdateStatus(context.Background(), "d2", domain.DeliveryStatusFailed)
	require.Error(t, err)
	assert.True(t, domain.IsRejected(err))
	api.AssertNumberOfCalls(t, "ListDeliveries", 1)
}

func TestService_UpdateStatus_FetchFailure(t *testing.T) {
	api := new(MockAPI)
	api.On("ListDeliveries", mock.Anything).Return(nil, &domain.NetworkError{Op: "list", Err: errors.New("refused")})

	_, err := newService(api, admin, false).UpdateStatus(context.Background(), "d1", domain.DeliveryStatusFailed)
	assert.True(t, domain.IsNetworkError(err))
}

func TestService_StatusOptions_ForwardOnly(t *testing.T) {
	svc := newService(new(MockAPI), supplier, true)
	d := fixtures()[0] // assigned, delivered by s1

	opts := svc.StatusOptions(supplier, d)
	assert.Equal(t, []domain.DeliveryStatus{
		domain.DeliveryStatusAssigned,
		domain.DeliveryStatusPickedUp,
		domain.DeliveryStatusInTransit,
		domain.DeliveryStatusDelivered,
		domain.DeliveryStatusFailed,
	}, opts)

	terminal := d
	terminal.Status = domain.DeliveryStatusDelivered
	assert.Equal(t, []domain.DeliveryStatus{domain.DeliveryStatusDelivered}, svc.StatusOptions(supplier, terminal))
}
