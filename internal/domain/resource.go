// Package domain holds the property-management resource types, the document
// store contract and the error kinds shared by every layer.
package domain

import "slices"

// Document is a stored resource. T is the pointer type itself, e.g. *Room.
type Document[T any] interface {
	GetID() string
	SetID(id string)

	// Copy returns a deep copy that shares no mutable state with the
	// receiver.
	Copy() T
}

// AccessControlled is implemented by resources that carry an access
// descriptor. Resources without it are public.
type AccessControlled interface {
	AccessDescriptor() *Access
}

// Versioned is implemented by resources whose updates bump a version number.
type Versioned interface {
	GetVersion() int64
	SetVersion(v int64)
}

// Validator is implemented by resources with field constraints.
type Validator interface {
	Validate() error
}

// Access scopes.
const (
	ScopeInternal = "internal"
	ScopeExternal = "external"
)

// Access describes who may see a resource. Companies is the ordered list of
// scopes allowed on it.
type Access struct {
	Type         string   `bson:"type" json:"type"`
	Companies    []string `bson:"companies" json:"companies"`
	AllowClients string   `bson:"allowClients,omitempty" json:"allowClients,omitempty"`
}

// Copy returns a copy with its own Companies slice.
func (a Access) Copy() Access {
	a.Companies = slices.Clone(a.Companies)
	return a
}
