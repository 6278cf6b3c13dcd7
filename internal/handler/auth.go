package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login and the caller's identity.
type AuthHandler struct {
	Auth AuthAPI
	Log  *zap.Logger
}

func NewAuthHandler(auth AuthAPI, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Log: log}
}

type registerReq struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=HOST GUEST host guest"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=HOST GUEST host guest"`
}

type tokenResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Register creates an account.  It does not log the user in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Auth.Register(ctx, req.Username, req.Password, req.Role); err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"username": req.Username})
}

// Login returns a signed access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	tok, err := h.Auth.Login(ctx, req.Username, req.Password, req.Role)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"access": tokenResp{Token: tok.Token, Expires: tok.Exp}})
}

// Me echoes the identity carried by the access token.
func (h *AuthHandler) Me(c echo.Context) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}
	role, _ := c.Get(CtxRole).(string)
	return c.JSON(http.StatusOK, echo.Map{"username": username, "role": role})
}
