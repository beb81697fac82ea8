package domain

import (
	"strings"
	"time"
)

// Address is a postal address as stored on user records
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// IsZero reports whether no field of the address is set
func (a Address) IsZero() bool {
	return a == Address{}
}

// Identity is the set of claims decoded from the current session token.
// Claims are read, never verified.
type Identity struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   Address   `json:"address"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the identity has not expired at now. A missing
// expiry counts as expired.
func (i Identity) Valid(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !i.ExpiresAt.Before(now)
}

// FullName joins first and last name
func (i Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}
