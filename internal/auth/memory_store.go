package auth

import (
	"context"
	"sync"
	"time"
)

type tokenRecord struct {
	subject   string
	expiresAt time.Time
}

// MemoryTokenStore — in-memory хранилище токенов для локальной разработки
// и тестов. Истёкшие записи вычищаются лениво при чтении.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]tokenRecord
	now    func() time.Time
}

// NewMemoryTokenStore возвращает пустое хранилище токенов.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens: make(map[string]tokenRecord),
		now:    time.Now,
	}
}

func (s *MemoryTokenStore) Save(_ context.Context, token, subject string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = tokenRecord{
		subject:   subject,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryTokenStore) Subject(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.tokens[token]
	if !ok {
		return "", nil
	}
	if s.now().After(rec.expiresAt) {
		delete(s.tokens, token)
		return "", nil
	}
	return rec.subject, nil
}

func (s *MemoryTokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

var _ TokenStore = (*MemoryTokenStore)(nil)
