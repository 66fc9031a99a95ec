package domain

import (
	"errors"
	"slices"
	"time"
)

// Lease binds a tenant to a room for a period. Updates bump Version.
type Lease struct {
	ID            string    `bson:"_id" json:"id"`
	TimeStart     time.Time `bson:"time_start" json:"time_start"`
	TimeEnd       time.Time `bson:"time_end" json:"time_end"`
	TimeEarly     time.Time `bson:"time_early" json:"time_early"`
	Deposit       int64     `bson:"deposit" json:"deposit"`
	PaymentMethod string    `bson:"payment_method" json:"payment_method"`
	Electric      float64   `bson:"electric" json:"electric"`
	Version       int64     `bson:"version" json:"version"`
	Status        bool      `bson:"status" json:"status"`
	Note          string    `bson:"note" json:"note"`
	MiniNote      string    `bson:"mini_note" json:"mini_note"`
	PropertyID    string    `bson:"property_id" json:"property_id"`
	TenantID      string    `bson:"tenant_id" json:"tenant_id"`
	RoomID        string    `bson:"room_id" json:"room_id"`
	File          []string  `bson:"file" json:"file"`
	Access        Access    `bson:"access" json:"access"`
}

func (l *Lease) GetID() string   { return l.ID }
func (l *Lease) SetID(id string) { l.ID = id }

func (l *Lease) AccessDescriptor() *Access { return &l.Access }

func (l *Lease) GetVersion() int64  { return l.Version }
func (l *Lease) SetVersion(v int64) { l.Version = v }

// Active reports whether the lease is currently in force.
func (l *Lease) Active() bool { return l.Status }

// Copy creates a deep copy of the lease
func (l *Lease) Copy() *Lease {
	if l == nil {
		return nil
	}
	c := *l
	c.File = slices.Clone(l.File)
	c.Access = l.Access.Copy()
	return &c
}

// Validate checks that the lease period is not reversed.
func (l *Lease) Validate() error {
	if !l.TimeStart.IsZero() && !l.TimeEnd.IsZero() && l.TimeEnd.Before(l.TimeStart) {
		return errors.New("time_end is before time_start")
	}
	return nil
}
