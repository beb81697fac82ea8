package domain

import "encoding/json"

// UserStatus represents the account status of a user
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// IsValid checks if the status is valid
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	}
	return false
}

// User is a user record administered through the console
type User struct {
	ID        string     `json:"id"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Address   Address    `json:"address"`
}

// UnmarshalJSON accepts the storefront's _id field
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	aux := struct {
		MongoID string `json:"_id"`
		*alias
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.ID = recordID(aux.MongoID, u.ID)
	return nil
}

// UserUpdate is the admin payload changing a user's role and status
type UserUpdate struct {
	Role   Role       `json:"role"`
	Status UserStatus `json:"status"`
}

// Validate checks that both fields are known values
func (u UserUpdate) Validate() error {
	if !u.Role.IsValid() || !u.Status.IsValid() {
		return ErrInvalidUserUpdate
	}
	return nil
}

// MarshalJSON writes the role in its storefront wire form
func (u UserUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Role   string     `json:"role"`
		Status UserStatus `json:"status"`
	}{Role: u.Role.WireValue(), Status: u.Status})
}

// Credentials are posted to the storefront login endpoint
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Registration creates a client account
type Registration struct {
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	Phone     string  `json:"phone,omitempty"`
	Address   Address `json:"address"`
}

// MarshalJSON always registers the account as a client
func (r Registration) MarshalJSON() ([]byte, error) {
	type alias Registration
	return json.Marshal(struct {
		alias
		Role string `json:"role"`
	}{alias: alias(r), Role: string(RoleClient)})
}

// ProfileUpdate changes the caller's own profile
type ProfileUpdate struct {
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Address   *Address `json:"address,omitempty"`
	Password  string   `json:"password,omitempty"`
}

// AuthResult is what the storefront returns from login and register
type AuthResult struct {
	Token string `json:"token"`
}
