// Package service builds the role-aware views the console surfaces show.
package service

import (
	"context"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
)

// IdentitySource yields the current session identity
type IdentitySource interface {
	Identity() (domain.Identity, bool)
}

// ProductAPI is the catalog part of the storefront client
type ProductAPI interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	CreateSupplier(ctx context.Context, in domain.SupplierInput) (*domain.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, in domain.SupplierInput) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
}

// OrderAPI lists orders
type OrderAPI interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// UserAPI administers users
type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) error
}

// StatsAPI reads the statistics endpoints
type StatsAPI interface {
	SupplierStats(ctx context.Context) (*domain.SupplierStats, error)
	AdminStats(ctx context.Context) (*domain.AdminStats, error)
}

// AuthAPI obtains tokens and updates the caller's profile
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (string, error)
	Register(ctx context.Context, reg domain.Registration) (string, error)
	UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) error
}

// current returns the session identity or ErrUnauthenticated
func current(session IdentitySource) (domain.Identity, error) {
	identity, ok := session.Identity()
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return identity, nil
}
