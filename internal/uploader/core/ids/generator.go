package ids

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"fileupload/internal/uploader/domain"
)

// UUIDGenerator produces random version 4 UUID tokens. It is the production
// generator for server chosen upload names.
type UUIDGenerator struct{}

var _ domain.IDGenerator = (*UUIDGenerator)(nil)

// NewUUIDGenerator creates a new UUID based generator
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Next returns a fresh random token
func (g *UUIDGenerator) Next() string {
	return uuid.NewString()
}

// SequenceGenerator produces predictable tokens from a process local
// counter. Tokens are only unique within a single process lifetime.
type SequenceGenerator struct {
	counter int64
	prefix  string
}

var _ domain.IDGenerator = (*SequenceGenerator)(nil)

// NewSequenceGenerator creates a counter based generator
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// Next generates the next token
func (g *SequenceGenerator) Next() string {
	count := atomic.AddInt64(&g.counter, 1)
	if g.prefix == "" {
		return fmt.Sprintf("%d", count)
	}
	return fmt.Sprintf("%s-%d", g.prefix, count)
}

// Reset resets the counter (useful for testing)
func (g *SequenceGenerator) Reset() {
	atomic.StoreInt64(&g.counter, 0)
}

// New returns the generator registered under kind. An empty kind selects
// the UUID generator.
func New(kind, prefix string) (domain.IDGenerator, error) {
	switch strings.ToLower(kind) {
	case "", "uuid":
		return NewUUIDGenerator(), nil
	case "sequence":
		return NewSequenceGenerator(prefix), nil
	default:
		return nil, fmt.Errorf("unknown id generator %q", kind)
	}
}
