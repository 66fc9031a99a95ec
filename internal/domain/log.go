package domain

import (
	"slices"
	"time"
)

// Log is a maintenance or event note attached to a property or room. Logs
// are public.
type Log struct {
	ID         string     `bson:"_id" json:"id"`
	OldID      string     `bson:"old_id,omitempty" json:"old_id,omitempty"`
	PropertyID string     `bson:"property_id" json:"property_id"`
	RoomID     string     `bson:"room_id,omitempty" json:"room_id,omitempty"`
	UserID     string     `bson:"user_id" json:"user_id"`
	Member     string     `bson:"member,omitempty" json:"member,omitempty"`
	OldUserID  string     `bson:"old_user_id,omitempty" json:"old_user_id,omitempty"`
	UpdatedAt  *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	Category   string     `bson:"category" json:"category"`
	Facility   string     `bson:"facility,omitempty" json:"facility,omitempty"`
	Content    string     `bson:"content" json:"content"`
	File       []string   `bson:"file" json:"file"`
}

func (l *Log) GetID() string   { return l.ID }
func (l *Log) SetID(id string) { l.ID = id }

func (l *Log) Copy() *Log {
	if l == nil {
		return nil
	}
	c := *l
	c.File = slices.Clone(l.File)
	if l.UpdatedAt != nil {
		t := *l.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
