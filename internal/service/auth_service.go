package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/stay-booking/internal/model"
	"github.com/iliyamo/stay-booking/internal/repository"
	"github.com/iliyamo/stay-booking/internal/utils"
)

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, username, password, role string, cost int) error
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// AuthService registers users and issues access tokens.  The token
// subject is the username used as identity everywhere else.
type AuthService struct {
	users      UserStore
	secret     string
	ttlMin     int
	bcryptCost int
}

func NewAuthService(users UserStore, secret string, ttlMin, bcryptCost int) *AuthService {
	return &AuthService{users: users, secret: secret, ttlMin: ttlMin, bcryptCost: bcryptCost}
}

// Register creates a HOST or GUEST account.
func (a *AuthService) Register(ctx context.Context, username, password, role string) error {
	username = strings.TrimSpace(username)
	role = strings.ToUpper(strings.TrimSpace(role))
	if username == "" || len(password) < 6 || !model.ValidRole(role) {
		return ErrInvalidUser
	}
	err := a.users.Create(ctx, username, password, role, a.bcryptCost)
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrUserExists
	}
	return storeErr(err, nil)
}

// Login checks the password and that the account holds role, then
// signs an access token.  Every mismatch is ErrBadCredentials.
func (a *AuthService) Login(ctx context.Context, username, password, role string) (utils.AccessToken, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	u, err := a.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.AccessToken{}, ErrBadCredentials
	}
	if err != nil {
		return utils.AccessToken{}, storeErr(err, nil)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) || (role != "" && u.Role != role) {
		return utils.AccessToken{}, ErrBadCredentials
	}
	return utils.NewAccessToken(a.secret, u.Username, u.Role, a.ttlMin)
}
