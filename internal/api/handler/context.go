package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
)

// ctxActor extracts the identity claims injected by the Auth middleware and
// fast-fails before any service call: user_id and role must be present,
// since every policy decision keys off them.
func ctxActor(c echo.Context) (domain.Actor, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	name, _ := c.Get("name").(string)
	return domain.Actor{ID: userID, Name: name, Role: role}, nil
}
