package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

func TestLoginIssuesToken(t *testing.T) {
	svc := New(NewMemoryTokenStore(), time.Hour)

	token, err := svc.Login(context.Background(), "ann", "secret")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.NotEmpty(t, token.Token)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	subject, err := svc.Validate(context.Background(), token.Token)
	require.NoError(t, err)
	assert.Equal(t, "ann", subject)
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	svc := New(NewMemoryTokenStore(), time.Hour)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "secret"},
		{name: "empty password", username: "ann", password: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.username, tc.password)
			require.Error(t, err)
			assert.True(t, domain.IsBadRequest(err))
		})
	}
}

func TestValidateRejectsUnknownToken(t *testing.T) {
	svc := New(NewMemoryTokenStore(), time.Hour)

	_, err := svc.Validate(context.Background(), "no-such-token")
	require.Error(t, err)
	assert.True(t, domain.IsBadRequest(err))
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := New(NewMemoryTokenStore(), time.Hour)

	token, err := svc.Login(context.Background(), "ann", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token.Token))

	_, err = svc.Validate(context.Background(), token.Token)
	require.Error(t, err)
	assert.True(t, domain.IsBadRequest(err))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryTokenStore()
	current := time.Now()
	store.now = func() time.Time { return current }

	require.NoError(t, store.Save(context.Background(), "tok", "ann", time.Minute))

	subject, err := store.Subject(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "ann", subject)

	// Сдвигаем часы за границу TTL.
	current = current.Add(2 * time.Minute)
	subject, err = store.Subject(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, subject)
}
