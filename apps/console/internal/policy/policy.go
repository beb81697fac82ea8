// Package policy decides what an identity may see and change.
// Every function is pure and fails closed: an unknown role, or ownership
// that cannot be established, denies.
package policy

import (
	"fmt"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/delivery"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
)

// Resource is an area of the console
type Resource string

const (
	ResourceSuppliers  Resource = "suppliers"
	ResourceProducts   Resource = "products"
	ResourceCategories Resource = "categories"
	ResourceOrders     Resource = "orders"
	ResourceDeliveries Resource = "deliveries"
	ResourceUsers      Resource = "users"
	ResourceReports    Resource = "reports"
	ResourceStats      Resource = "stats"
	ResourceCatalog    Resource = "catalog"
	ResourceCart       Resource = "cart"
	ResourceProfile    Resource = "profile"
)

type grants struct {
	view   map[Resource]bool
	manage map[Resource]bool
}

func set(rs ...Resource) map[Resource]bool {
	m := make(map[Resource]bool, len(rs))
	for _, r := range rs {
		m[r] = true
	}
	return m
}

// Admin is absent: it holds every grant.
// Supplier and client manage grants are further narrowed by ownership checks.
var roleGrants = map[domain.Role]grants{
	domain.RoleSupplier: {
		view:   set(ResourceProducts, ResourceOrders, ResourceDeliveries, ResourceStats, ResourceProfile, ResourceCatalog),
		manage: set(ResourceProducts, ResourceDeliveries, ResourceProfile),
	},
	domain.RoleClient: {
		view:   set(ResourceCatalog, ResourceCart, ResourceOrders, ResourceDeliveries, ResourceProfile),
		manage: set(ResourceCart, ResourceOrders, ResourceProfile),
	},
}

// CanView reports whether identity may see resource. The catalog is public.
func CanView(identity domain.Identity, resource Resource) bool {
	if resource == ResourceCatalog {
		return true
	}
	if identity.Role == domain.RoleAdmin {
		return true
	}
	g, ok := roleGrants[identity.Role]
	return ok && g.view[resource]
}

// CanManage reports whether identity may change records of resource
func CanManage(identity domain.Identity, resource Resource) bool {
	if identity.Role == domain.RoleAdmin {
		return true
	}
	g, ok := roleGrants[identity.Role]
	return ok && g.manage[resource]
}

// owns reports whether ref points at identity; an empty id never matches
func owns(identity domain.Identity, ref domain.Ref) bool {
	return identity.ID != "" && ref.ID == identity.ID
}

// CanManageProduct reports whether identity may edit or delete p
func CanManageProduct(identity domain.Identity, p domain.Product) bool {
	switch identity.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSupplier:
		return owns(identity, p.Supplier)
	default:
		return false
	}
}

// ProductFilter narrows a product list; empty fields match everything
type ProductFilter struct {
	CategoryID string `form:"category"`
	SupplierID string `form:"supplier"`
}

func (f ProductFilter) match(p domain.Product) bool {
	if f.CategoryID != "" && p.Category.ID != f.CategoryID {
		return false
	}
	if f.SupplierID != "" && p.Supplier.ID != f.SupplierID {
		return false
	}
	return true
}

// FilterProducts keeps the products identity may see that also match f.
// Suppliers see only their own; admins and clients see all.
func FilterProducts(identity domain.Identity, products []domain.Product, f ProductFilter) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		switch identity.Role {
		case domain.RoleAdmin, domain.RoleClient:
		case domain.RoleSupplier:
			if !owns(identity, p.Supplier) {
				continue
			}
		default:
			continue
		}
		if f.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// FilterOrders keeps orders addressed to a supplier or placed by a client
func FilterOrders(identity domain.Identity, orders []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		switch identity.Role {
		case domain.RoleAdmin:
		case domain.RoleSupplier:
			if !owns(identity, o.Supplier) {
				continue
			}
		case domain.RoleClient:
			if !owns(identity, o.Client) {
				continue
			}
		default:
			continue
		}
		out = append(out, o)
	}
	return out
}

// FilterDeliveries keeps deliveries assigned to a supplier or tracking a
// client's own order
func FilterDeliveries(identity domain.Identity, deliveries []domain.Delivery) []domain.Delivery {
	out := make([]domain.Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		switch identity.Role {
		case domain.RoleAdmin:
		case domain.RoleSupplier:
			if !owns(identity, d.Deliverer) {
				continue
			}
		case domain.RoleClient:
			if !owns(identity, d.Order.Client) {
				continue
			}
		default:
			continue
		}
		out = append(out, d)
	}
	return out
}

// UserFilter narrows the admin user list; empty fields match everything
type UserFilter struct {
	Role   domain.Role
	Status domain.UserStatus
}

// ParseUserFilter reads a role and a status; empty values match everything
func ParseUserFilter(role, status string) (UserFilter, error) {
	var f UserFilter
	if role != "" {
		f.Role = domain.ParseRole(role)
		if !f.Role.IsValid() {
			return f, fmt.Errorf("unknown role %q", role)
		}
	}
	if status != "" {
		f.Status = domain.UserStatus(status)
		if !f.Status.IsValid() {
			return f, fmt.Errorf("unknown status %q", status)
		}
	}
	return f, nil
}

// FilterUsers returns users matching f. Only admins see users.
func FilterUsers(identity domain.Identity, users []domain.User, f UserFilter) []domain.User {
	out := make([]domain.User, 0, len(users))
	if identity.Role != domain.RoleAdmin {
		return out
	}
	for _, u := range users {
		if f.Role != domain.RoleUnknown && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		out = append(out, u)
	}
	return out
}

// CanUpdateStatus reports whether identity may change the status of d:
// admins always, suppliers only as the assigned deliverer.
func CanUpdateStatus(identity domain.Identity, d domain.Delivery) bool {
	switch identity.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSupplier:
		return owns(identity, d.Deliverer)
	default:
		return false
	}
}

// StatsScope returns which statistics identity may read
func StatsScope(identity domain.Identity) domain.StatsScope {
	switch identity.Role {
	case domain.RoleAdmin:
		return domain.StatsScopeAdmin
	case domain.RoleSupplier:
		return domain.StatsScopeSupplier
	default:
		return domain.StatsScopeNone
	}
}

// Policy carries the configurable parts of the decisions
type Policy struct {
	// ForwardOnly restricts delivery status changes to the transition table
	ForwardOnly bool
}

// New creates a Policy
func New(forwardOnly bool) Policy {
	return Policy{ForwardOnly: forwardOnly}
}

// CheckTransition explains why identity may not move d to status to, or
// returns nil when it may.
func (p Policy) CheckTransition(identity domain.Identity, d domain.Delivery, to domain.DeliveryStatus) error {
	if !CanUpdateStatus(identity, d) {
		return domain.ErrForbidden
	}
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, to)
	}
	if p.ForwardOnly && !delivery.Allowed(d.Status, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, d.Status, to)
	}
	return nil
}

// CanTransition reports whether identity may move d to status to
func (p Policy) CanTransition(identity domain.Identity, d domain.Delivery, to domain.DeliveryStatus) bool {
	return p.CheckTransition(identity, d, to) == nil
}

// FilterDeliveries implements delivery.Gate
func (p Policy) FilterDeliveries(identity domain.Identity, deliveries []domain.Delivery) []domain.Delivery {
	return FilterDeliveries(identity, deliveries)
}

// CanUpdateStatus implements delivery.Gate
func (p Policy) CanUpdateStatus(identity domain.Identity, d domain.Delivery) bool {
	return CanUpdateStatus(identity, d)
}
