package domain

import (
	"maps"
	"slices"
	"time"
)

// Well-known index document IDs.
const (
	IndexRoomsByProperty  = "rooms_by_property"
	IndexLeasesByProperty = "leases_by_property"
)

// ParentChildIndex maps parent IDs to the ordered IDs of their children. It
// is rebuilt by a full scan and replaced whole; RebuiltAt tells how stale it
// may be.
type ParentChildIndex struct {
	ID        string              `bson:"_id" json:"id"`
	Children  map[string][]string `bson:"children" json:"children"`
	RebuiltAt time.Time           `bson:"rebuilt_at" json:"rebuilt_at"`
	RebuildID string              `bson:"rebuild_id" json:"rebuild_id"`
}

func (p *ParentChildIndex) GetID() string   { return p.ID }
func (p *ParentChildIndex) SetID(id string) { p.ID = id }

// ChildrenOf returns a copy of the child IDs recorded for parentID.
func (p *ParentChildIndex) ChildrenOf(parentID string) []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.Children[parentID])
}

// Copy creates a deep copy of the index
func (p *ParentChildIndex) Copy() *ParentChildIndex {
	if p == nil {
		return nil
	}
	c := *p
	c.Children = make(map[string][]string, len(p.Children))
	for parent, children := range p.Children {
		c.Children[parent] = slices.Clone(children)
	}
	return &c
}

// Parents returns the indexed parent IDs in sorted order.
func (p *ParentChildIndex) Parents() []string {
	if p == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(p.Children))
}
