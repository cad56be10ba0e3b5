package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/contactbook/internal/apperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the /users routes. authed wraps the routes that need a
// bearer token; limited wraps the credential endpoints.
func (h *Handler) Register(g *echo.Group, authed, limited echo.MiddlewareFunc) {
	if limited == nil {
		limited = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	g.POST("/signup", h.Signup, limited)
	g.POST("/login", h.Login, limited)
	g.GET("/logout", h.Logout, authed)
	g.GET("/current", h.Current, authed)
	g.PATCH("/avatars", h.UpdateAvatar, authed)
	g.GET("/verify/:verificationToken", h.Verify)
	g.POST("/verify", h.ResendVerification, limited)
}

// ===== Signup =====
func (h *Handler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request")
	}

	u, err := h.svc.Signup(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created",
		"user":    u,
	})
}
