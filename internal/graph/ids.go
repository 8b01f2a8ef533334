package graph

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource mints node ids for non-root nodes.
type IDSource interface {
	NewID(label string) string
}

// UUIDSource suffixes the lowercased label with 8 hex chars of a random UUID.
type UUIDSource struct{}

func (UUIDSource) NewID(label string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return strings.ToLower(label) + "-" + suffix
}

// CounterSource suffixes the lowercased label with a monotonic counter.
type CounterSource struct {
	n atomic.Uint64
}

func (c *CounterSource) NewID(label string) string {
	return strings.ToLower(label) + "-" + strconv.FormatUint(c.n.Add(1), 10)
}

// RootID is the id of a root node: the lowercased word with no suffix.
func RootID(word string) string {
	return strings.ToLower(word)
}
