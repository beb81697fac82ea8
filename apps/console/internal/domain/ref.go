package domain

import (
	"bytes"
	"encoding/json"
)

// Ref points at another record. The storefront API sends either the bare
// id or the populated record; both decode into a Ref.
type Ref struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// NewRef builds a reference from an id
func NewRef(id string) Ref {
	return Ref{ID: id}
}

// IsZero reports whether the reference points nowhere
func (r Ref) IsZero() bool {
	return r.ID == ""
}

type refObject struct {
	MongoID   string `json:"_id"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UnmarshalJSON decodes a string id, a populated object, or null
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}

	var obj refObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	id := obj.MongoID
	if id == "" {
		id = obj.ID
	}
	*r = Ref{
		ID:        id,
		Name:      obj.Name,
		Email:     obj.Email,
		FirstName: obj.FirstName,
		LastName:  obj.LastName,
	}
	return nil
}

// recordID picks the id of a record that may carry either _id or id
func recordID(mongoID, id string) string {
	if mongoID != "" {
		return mongoID
	}
	return id
}
