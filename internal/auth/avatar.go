package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/contactbook/internal/apperr"
	"github.com/sudo-init-do/contactbook/internal/avatar"
	"github.com/sudo-init-do/contactbook/internal/middleware"
)

const avatarField = "avatar"

// PATCH /users/avatars
func (h *Handler) UpdateAvatar(c echo.Context) error {
	u, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile(avatarField)
	if err != nil {
		return apperr.Validation("missing required avatar file")
	}
	f, err := fh.Open()
	if err != nil {
		return apperr.IO("Failed to read avatar", err)
	}
	defer f.Close()

	url, err := h.svc.UpdateAvatar(c.Request().Context(), u, avatar.Upload{Filename: fh.Filename, Content: f})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"avatarURL": url})
}
