package auth

import (
	"context"
	"time"
)

// TokenStore хранит выданные токены с TTL.
type TokenStore interface {
	// Save сохраняет токен с субъектом и сроком жизни.
	Save(ctx context.Context, token, subject string, ttl time.Duration) error
	// Subject возвращает субъект токена; пустая строка без ошибки означает,
	// что токен не найден или истёк.
	Subject(ctx context.Context, token string) (string, error)
	// Revoke удаляет токен. Отсутствующий токен не ошибка.
	Revoke(ctx context.Context, token string) error
}
