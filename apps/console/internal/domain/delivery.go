package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryStatus represents the status of a delivery
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusAssigned  DeliveryStatus = "assigned"
	DeliveryStatusPickedUp  DeliveryStatus = "picked_up"
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

// DeliveryStatuses lists every status in forward order, failed last
var DeliveryStatuses = []DeliveryStatus{
	DeliveryStatusPending,
	DeliveryStatusAssigned,
	DeliveryStatusPickedUp,
	DeliveryStatusInTransit,
	DeliveryStatusDelivered,
	DeliveryStatusFailed,
}

// IsValid checks if the status is valid
func (s DeliveryStatus) IsValid() bool {
	for _, v := range DeliveryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is expected
func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryStatusDelivered || s == DeliveryStatusFailed
}

// String returns the string representation of the status
func (s DeliveryStatus) String() string {
	return string(s)
}

// DeliveryOrder is the order a delivery belongs to, possibly populated
type DeliveryOrder struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber,omitempty"`
	Total       decimal.Decimal `json:"total"`
	Client      Ref             `json:"client"`
}

// UnmarshalJSON decodes a string id, a populated order, or null
func (o *DeliveryOrder) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = DeliveryOrder{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*o = DeliveryOrder{ID: id}
		return nil
	}

	type alias DeliveryOrder
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

// Delivery is a shipment of an order
type Delivery struct {
	ID                    string         `json:"id"`
	TrackingNumber        string         `json:"trackingNumber"`
	Order                 DeliveryOrder  `json:"orderId"`
	Deliverer             Ref            `json:"delivererId"`
	Status                DeliveryStatus `json:"status"`
	PickupDate            *time.Time     `json:"pickupDate,omitempty"`
	EstimatedDeliveryDate *time.Time     `json:"estimatedDeliveryDate,omitempty"`
	ActualDeliveryDate    *time.Time     `json:"actualDeliveryDate,omitempty"`
	DeliveryAddress       Address        `json:"deliveryAddress"`
	Notes                 string         `json:"notes,omitempty"`
	Signature             string         `json:"signature,omitempty"`
}

// UnmarshalJSON accepts the storefront's _id field
func (d *Delivery) UnmarshalJSON(data []byte) error {
	type alias Delivery
	aux := struct {
		MongoID string `json:"_id"`
		*alias
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.ID = recordID(aux.MongoID, d.ID)
	return nil
}
