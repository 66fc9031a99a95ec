package resource

import (
	"fmt"

	"estate/pkg/utils"
)

const idSuffixLength = 5

// GenerateID returns a new ID of the form PREFIX_<epoch millis>_<5 random
// alphanumerics>. It is not checked against the store.
func (h *Handler[T]) GenerateID() string {
	return GenerateID(h.kind.Prefix)
}

// GenerateID returns a new ID for prefix.
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, utils.GetTimestamp(), utils.RandomString(idSuffixLength))
}
