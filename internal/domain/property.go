package domain

import (
	"fmt"
	"slices"
)

// Electricity billing cycles.
const (
	ElectricMonthOdd  = "單月"
	ElectricMonthEven = "雙月"
)

// Property is a managed building.
type Property struct {
	ID            string   `bson:"_id" json:"id"`
	Name          string   `bson:"name" json:"name"`
	Nickname      string   `bson:"nickname" json:"nickname"`
	Address       string   `bson:"address" json:"address"`
	Phone         string   `bson:"phone" json:"phone"`
	Owner         string   `bson:"owner" json:"owner"`
	Note          string   `bson:"note" json:"note"`
	Facilities    []string `bson:"facilities" json:"facilities"`
	ElectricPrice float64  `bson:"electric_price" json:"electric_price"`
	ElectricMonth string   `bson:"electric_month" json:"electric_month"`
	File          []string `bson:"file" json:"file"`
	Access        Access   `bson:"access" json:"access"`
}

func (p *Property) GetID() string   { return p.ID }
func (p *Property) SetID(id string) { p.ID = id }

func (p *Property) AccessDescriptor() *Access { return &p.Access }

// Copy creates a deep copy of the property
func (p *Property) Copy() *Property {
	if p == nil {
		return nil
	}
	c := *p
	c.Facilities = slices.Clone(p.Facilities)
	c.File = slices.Clone(p.File)
	c.Access = p.Access.Copy()
	return &c
}

// Validate checks the electricity billing cycle.
func (p *Property) Validate() error {
	if p.ElectricMonth != ElectricMonthOdd && p.ElectricMonth != ElectricMonthEven {
		return fmt.Errorf("electric_month must be %q or %q, got %q", ElectricMonthOdd, ElectricMonthEven, p.ElectricMonth)
	}
	return nil
}
