package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a random identifier suitable for flights and gates.
func NewID() string {
	return uuid.NewString()
}

// ShortID returns the first block of a generated ID, used in message footers.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return strings.ToUpper(id[:i])
	}
	return strings.ToUpper(id)
}
