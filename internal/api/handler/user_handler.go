package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ChhatbarPooja/crm-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role"  validate:"omitempty,oneof=admin sales other"`
}

// updatePreferencesRequest enumerates the known preference keys. Submitting
// anything else is a client error rather than a silent merge.
type updatePreferencesRequest struct {
	LeadAssigned  *bool `json:"lead_assigned"`
	StatusChanged *bool `json:"status_changed"`
	DailySummary  *bool `json:"daily_summary"`
}

// List handles GET /v1/users (admin only).
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dataEnvelope
// @Failure      403  {object}  errorEnvelope
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	count := len(users)
	return c.JSON(http.StatusOK, dataEnvelope{Success: true, Count: &count, Data: users})
}

// ListSales handles GET /v1/users/sales: the restricted name+email
// projection of sales reps, used to populate assignment pickers.
//
// @Summary      List sales reps (name and email only)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dataEnvelope
// @Router       /v1/users/sales [get]
func (h *UserHandler) ListSales(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	reps, err := h.service.ListSalesReps(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	count := len(reps)
	return c.JSON(http.StatusOK, dataEnvelope{Success: true, Count: &count, Data: reps})
}

// Get handles GET /v1/users/:id (self or admin).
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  dataEnvelope
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetUser(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, user)
}

// Update handles PUT /v1/users/:id (self or admin; role changes admin only).
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  dataEnvelope
// @Failure      403   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.UpdateUser(c.Request().Context(), actor, c.Param("id"), ports.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, user)
}

// Delete handles DELETE /v1/users/:id (admin only, never self).
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  dataEnvelope
// @Failure      400  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteUser(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return respondData(c, http.StatusOK, map[string]any{})
}

// UpdatePreferences handles PUT /v1/users/:id/notification-preferences
// (self only).
//
// @Summary      Update notification preferences
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "User id"
// @Param        body  body      updatePreferencesRequest  true  "Preference keys to merge"
// @Success      200   {object}  dataEnvelope
// @Failure      403   {object}  errorEnvelope
// @Router       /v1/users/{id}/notification-preferences [put]
func (h *UserHandler) UpdatePreferences(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	prefs, err := h.service.UpdatePreferences(c.Request().Context(), actor, c.Param("id"), ports.UpdatePreferencesInput{
		LeadAssigned:  req.LeadAssigned,
		StatusChanged: req.StatusChanged,
		DailySummary:  req.DailySummary,
	})
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, prefs)
}
