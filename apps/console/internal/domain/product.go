package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as returned by the storefront API
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type,omitempty"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Category    Ref             `json:"category"`
	Supplier    Ref             `json:"supplier"`
}

// InStock reports whether at least one unit is available
func (p Product) InStock() bool {
	return p.Quantity > 0
}

// UnmarshalJSON accepts the storefront's _id field
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	aux := struct {
		MongoID string `json:"_id"`
		*alias
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.ID = recordID(aux.MongoID, p.ID)
	return nil
}

// ProductInput is the payload for creating or updating a product
type ProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Type        string          `json:"type,omitempty"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" binding:"gte=0"`
	Category    string          `json:"category,omitempty"`
	Supplier    string          `json:"supplier,omitempty"`
}

// Validate checks the invariants the storefront expects on products
func (in ProductInput) Validate() error {
	if in.Name == "" {
		return ErrInvalidProduct
	}
	if in.Price.IsNegative() || in.Quantity < 0 {
		return ErrInvalidProduct
	}
	return nil
}

// Category groups products
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// UnmarshalJSON accepts the storefront's _id field
func (c *Category) UnmarshalJSON(data []byte) error {
	type alias Category
	aux := struct {
		MongoID string `json:"_id"`
		*alias
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.ID = recordID(aux.MongoID, c.ID)
	return nil
}

// CategoryInput is the payload for creating or updating a category
type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Supplier is a supplier company record
type Supplier struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
}

// UnmarshalJSON accepts the storefront's _id field
func (s *Supplier) UnmarshalJSON(data []byte) error {
	type alias Supplier
	aux := struct {
		MongoID string `json:"_id"`
		*alias
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.ID = recordID(aux.MongoID, s.ID)
	return nil
}

// SupplierInput is the payload for creating or updating a supplier
type SupplierInput struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
}
