package domain

import "time"

// Electric is a meter reading for a room. Readings are public.
type Electric struct {
	ID        string     `bson:"_id" json:"id"`
	RoomID    string     `bson:"room_id" json:"room_id"`
	Degrees   float64    `bson:"degrees" json:"degrees"`
	UserID    string     `bson:"user_id" json:"user_id"`
	OldUserID string     `bson:"old_user_id,omitempty" json:"old_user_id,omitempty"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

func (e *Electric) GetID() string   { return e.ID }
func (e *Electric) SetID(id string) { e.ID = id }

func (e *Electric) Copy() *Electric {
	if e == nil {
		return nil
	}
	c := *e
	if e.UpdatedAt != nil {
		t := *e.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
