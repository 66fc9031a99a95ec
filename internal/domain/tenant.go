package domain

import (
	"slices"
	"time"
)

// Tenant is a person renting a room.
type Tenant struct {
	ID         string    `bson:"_id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Birthday   time.Time `bson:"birthday" json:"birthday"`
	Address    string    `bson:"address" json:"address"`
	Tel        string    `bson:"tel" json:"tel"`
	Job        string    `bson:"job,omitempty" json:"job,omitempty"`
	Contact    string    `bson:"contact,omitempty" json:"contact,omitempty"`
	ContactTel string    `bson:"contact_tel,omitempty" json:"contact_tel,omitempty"`
	Email      string    `bson:"email,omitempty" json:"email,omitempty"`
	Note       string    `bson:"note,omitempty" json:"note,omitempty"`
	LeasesID   string    `bson:"leases_id" json:"leases_id"`
	File       []string  `bson:"file" json:"file"`
	Access     Access    `bson:"access" json:"access"`
}

func (t *Tenant) GetID() string   { return t.ID }
func (t *Tenant) SetID(id string) { t.ID = id }

func (t *Tenant) AccessDescriptor() *Access { return &t.Access }

// Copy creates a deep copy of the tenant
func (t *Tenant) Copy() *Tenant {
	if t == nil {
		return nil
	}
	c := *t
	c.File = slices.Clone(t.File)
	c.Access = t.Access.Copy()
	return &c
}
