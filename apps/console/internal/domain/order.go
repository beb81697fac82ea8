package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order submission
type OrderItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// OrderRequest is the payload posted to create an order
type OrderRequest struct {
	Products        []OrderItem `json:"products"`
	Supplier        string      `json:"supplier"`
	ShippingAddress Address     `json:"shippingAddress"`
	Notes           string      `json:"notes"`
}

// OrderLine is one line of a stored order
type OrderLine struct {
	Product  Ref             `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Order is an order as returned by the storefront API
type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	Client          Ref             `json:"client"`
	Supplier        Ref             `json:"supplier"`
	Products        []OrderLine     `json:"products"`
	Status          string          `json:"status"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress Address         `json:"shippingAddress"`
	Notes           string          `json:"notes,omitempty"`
	OrderDate       *time.Time      `json:"orderDate,omitempty"`
}

// UnmarshalJSON accepts the storefront's _id field
func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	aux := struct {
		MongoID string `json:"_id"`
		*alias
	}{alias: (*alias)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	o.ID = recordID(aux.MongoID, o.ID)
	return nil
}
