package domain

import (
	"maps"
	"slices"
	"time"
)

// Room is a rentable unit inside a property.
type Room struct {
	ID            string             `bson:"_id" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Size          float64            `bson:"size" json:"size"`
	Storey        float64            `bson:"storey" json:"storey"`
	Type          string             `bson:"type" json:"type"`
	Facilities    map[string]int     `bson:"facilities" json:"facilities"`
	PaymentMethod map[string]float64 `bson:"payment_method" json:"payment_method"`
	Note          string             `bson:"note" json:"note"`
	PropertyID    string             `bson:"property_id" json:"property_id"`
	File          []string           `bson:"file" json:"file"`
	Access        Access             `bson:"access" json:"access"`
	UpdatedAt     *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

func (r *Room) GetID() string   { return r.ID }
func (r *Room) SetID(id string) { r.ID = id }

func (r *Room) AccessDescriptor() *Access { return &r.Access }

// Copy creates a deep copy of the room
func (r *Room) Copy() *Room {
	if r == nil {
		return nil
	}
	c := *r
	c.Facilities = maps.Clone(r.Facilities)
	c.PaymentMethod = maps.Clone(r.PaymentMethod)
	c.File = slices.Clone(r.File)
	c.Access = r.Access.Copy()
	if r.UpdatedAt != nil {
		t := *r.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
