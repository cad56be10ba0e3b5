package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/contactbook/internal/apperr"
)

// GET /users/verify/:verificationToken
func (h *Handler) Verify(c echo.Context) error {
	if err := h.svc.Verify(c.Request().Context(), c.Param("verificationToken")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Verification successful"})
}

// POST /users/verify
func (h *Handler) ResendVerification(c echo.Context) error {
	var req ResendRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation(msgMissingEmail)
	}
	if err := h.svc.ResendVerification(c.Request().Context(), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Verification email sent"})
}
