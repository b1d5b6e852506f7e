package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/escolardev/escolar/core"
	"github.com/escolardev/escolar/core/user"
)

type authApi struct {
	service *user.Service
}

func registerAuthAPI(g *echo.Group, svc *user.Service) {
	api := authApi{service: svc}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.GET("/verify", api.verify)
	ag.POST("/logout", api.logout)
}

type LoginRequest struct {
	DNI string `json:"dni" validate:"required"`
}

func (lr *LoginRequest) Validate() error {
	lr.DNI = core.CleanString(lr.DNI)
	return core.Validate.Struct(lr)
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Role    string `json:"role"`
	Name    string `json:"name"`
}

// login issues the session cookie. The caller gets role and name back but
// never the raw token.
func (api *authApi) login(ctx echo.Context) error {
	data := new(LoginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := authenticate(data.DNI, api.service)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return err
	}

	ctx.SetCookie(newTokenCookie(token))
	return ctx.JSON(http.StatusOK, LoginResponse{Success: true, Role: claims.Role, Name: claims.Name})
}

type VerifyResponse struct {
	DNI  string `json:"dni"`
	Role string `json:"role"`
	Name string `json:"name"`
}

// verify decodes and checks the session cookie. Pure function of the token
// and the signing key; no store lookup.
func (api *authApi) verify(ctx echo.Context) error {
	claims, err := claimsFromCookie(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, VerifyResponse{DNI: claims.DNI, Role: claims.Role, Name: claims.Name})
}

// logout clears the cookie. Idempotent; succeeds with or without a session.
func (api *authApi) logout(ctx echo.Context) error {
	ctx.SetCookie(clearTokenCookie())
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}
