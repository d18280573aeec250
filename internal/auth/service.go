package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

// DefaultTokenTTL — срок жизни токена по умолчанию.
const DefaultTokenTTL = 24 * time.Hour

// Token — выданный токен доступа.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service — заглушка аутентификации: выдаёт непрозрачные uuid-токены.
// Пароль не проверяется по базе учётных записей, принимается любая
// непустая пара логин/пароль.
type Service struct {
	tokens TokenStore
	ttl    time.Duration
	logger *log.Entry
	now    func() time.Time
}

// New создаёт сервис аутентификации.
func New(tokens TokenStore, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		tokens: tokens,
		ttl:    ttl,
		logger: log.WithField("component", "auth-service"),
		now:    time.Now,
	}
}

// Login выдаёт токен для пользователя.
func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	if username == "" || password == "" {
		return nil, domain.BadRequestf("username and password are required")
	}

	token := uuid.NewString()
	if err := s.tokens.Save(ctx, token, username, s.ttl); err != nil {
		return nil, domain.DatabaseError(err)
	}

	s.logger.WithField("username", username).Info("token issued")
	return &Token{
		Token:     token,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}, nil
}

// Validate возвращает субъект токена; неизвестный или истёкший токен
// отклоняется.
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.BadRequestf("token is required")
	}
	subject, err := s.tokens.Subject(ctx, token)
	if err != nil {
		return "", domain.DatabaseError(err)
	}
	if subject == "" {
		return "", domain.BadRequestf("invalid or expired token")
	}
	return subject, nil
}

// Logout отзывает токен.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return domain.BadRequestf("token is required")
	}
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return domain.DatabaseError(err)
	}
	return nil
}
