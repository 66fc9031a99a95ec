package access

import (
	"testing"

	"estate/internal/domain"

	"github.com/stretchr/testify/assert"
)

type nilDescriptor struct{}

func (nilDescriptor) AccessDescriptor() *domain.Access { return nil }

func TestAllows(t *testing.T) {
	assert.True(t, Allows("A", []string{"B", "A"}))
	assert.False(t, Allows("C", []string{"A", "B"}))
	assert.False(t, Allows("A", nil))
}

func TestPolicyCheck(t *testing.T) {
	var p Policy
	room := &domain.Room{Access: domain.Access{Type: domain.ScopeInternal, Companies: []string{"A"}}}

	assert.True(t, p.Check("A", room))
	assert.False(t, p.Check("B", room))

	// public kinds carry no descriptor
	assert.True(t, p.Check("B", &domain.Electric{ID: "ELEC_1"}))
	assert.True(t, p.Check("B", &domain.Log{ID: "ESTA_1"}))

	assert.False(t, p.Check("A", nilDescriptor{}))
}
