package mocks

import (
	"fmt"
	"sync"
)

// Sequence is an idgen.Generator yielding prefix-000001, prefix-000002, ...
type Sequence struct {
	Prefix string

	mu   sync.Mutex
	next int
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{Prefix: prefix}
}

func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++

	return fmt.Sprintf("%s-%06d", s.Prefix, s.next)
}
