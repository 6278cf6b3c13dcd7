package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/stay-booking/internal/model"
	"github.com/iliyamo/stay-booking/internal/repository"
	"github.com/iliyamo/stay-booking/internal/utils"
)

type memUsers map[string]model.User

func (m memUsers) Create(ctx context.Context, username, password, role string, cost int) error {
	if _, ok := m[username]; ok {
		return fmt.Errorf("%w: users.PRIMARY", repository.ErrDuplicate)
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	m[username] = model.User{Username: username, PasswordHash: hash, Role: role}
	return nil
}

func (m memUsers) GetByUsername(ctx context.Context, username string) (model.User, error) {
	u, ok := m[username]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func TestAuthRegisterAndLogin(t *testing.T) {
	auth := NewAuthService(memUsers{}, "secret", 15, 4)
	ctx := context.Background()

	require.NoError(t, auth.Register(ctx, "hank", "hunter22", "host"))
	assert.ErrorIs(t, auth.Register(ctx, "hank", "hunter22", "GUEST"), ErrUserExists)
	assert.ErrorIs(t, auth.Register(ctx, "x", "short", "GUEST"), ErrInvalidUser)
	assert.ErrorIs(t, auth.Register(ctx, "y", "longenough", "ADMIN"), ErrInvalidUser)

	tok, err := auth.Login(ctx, "hank", "hunter22", "HOST")
	require.NoError(t, err)
	claims, err := utils.ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "hank", claims.Subject)
	assert.Equal(t, model.RoleHost, claims.Role)
}

func TestAuthLoginFailures(t *testing.T) {
	auth := NewAuthService(memUsers{}, "secret", 15, 4)
	ctx := context.Background()
	require.NoError(t, auth.Register(ctx, "gina", "hunter22", model.RoleGuest))

	_, err := auth.Login(ctx, "gina", "wrong-pass", model.RoleGuest)
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = auth.Login(ctx, "gina", "hunter22", model.RoleHost)
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = auth.Login(ctx, "nobody", "hunter22", model.RoleGuest)
	assert.ErrorIs(t, err, ErrBadCredentials)
}
