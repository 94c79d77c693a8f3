package utils

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out sequential string IDs starting at 1.
type IDGenerator struct {
	mu   sync.Mutex
	next int
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{next: 1}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.next
	g.next++
	return fmt.Sprintf("%d", id)
}

// NewShareToken returns a fresh opaque share token.
func NewShareToken() string {
	return uuid.NewString()
}
