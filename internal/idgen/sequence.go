package idgen

import (
	"sync/atomic"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

// Sequence — детерминированный счётчик идентификаторов. Используется в
// тестах и в конфигурациях без требования межпроцессной уникальности.
type Sequence struct {
	last atomic.Uint64
}

// NewSequence создаёт счётчик, первый выданный id равен start.
func NewSequence(start uint64) *Sequence {
	s := &Sequence{}
	if start > 0 {
		s.last.Store(start - 1)
	}
	return s
}

// NextID возвращает следующий идентификатор.
func (s *Sequence) NextID() uint64 {
	return s.last.Add(1)
}

var _ domain.IDAllocator = (*Sequence)(nil)
