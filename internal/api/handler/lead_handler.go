package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ChhatbarPooja/crm-api/internal/core/ports"
)

// LeadHandler handles HTTP requests for lead operations.
type LeadHandler struct {
	service ports.LeadService
}

func NewLeadHandler(service ports.LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

// List handles GET /v1/leads.
//
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page (default 1)"
// @Param        limit        query     int     false  "Page size (default 10)"
// @Param        status       query     string  false  "Filter by pipeline status"
// @Param        assigned_to  query     string  false  "Filter by assignee user id"
// @Param        search       query     string  false  "Partial match on name or company"
// @Success      200          {object}  dataEnvelope
// @Failure      401          {object}  errorEnvelope
// @Router       /v1/leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListLeads(c.Request().Context(), ports.ListLeadsInput{
		Actor:      actor,
		Status:     c.QueryParam("status"),
		AssignedTo: c.QueryParam("assigned_to"),
		Search:     c.QueryParam("search"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return err
	}

	return respondPage(c, http.StatusOK, result.Items, len(result.Items), result.Page)
}

// Get handles GET /v1/leads/:id.
//
// @Summary      Get a lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead id"
// @Success      200  {object}  dataEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/leads/{id} [get]
func (h *LeadHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	lead, err := h.service.GetLead(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, lead)
}

// Create handles POST /v1/leads.
//
// @Summary      Create a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLeadRequest  true  "Lead details"
// @Success      201   {object}  dataEnvelope
// @Failure      400   {object}  errorEnvelope
// @Router       /v1/leads [post]
func (h *LeadHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createLeadRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.CreateLeadInput{
		Actor:      actor,
		Name:       req.Name,
		Company:    req.Company,
		Email:      req.Email,
		Phone:      req.Phone,
		Status:     req.Status,
		AssignedTo: req.AssignedTo,
		Notes:      req.Notes,
	}
	if req.Value != nil {
		input.Value = ports.MoneyInput{Amount: req.Value.Amount, Currency: req.Value.Currency}
	}

	lead, err := h.service.CreateLead(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusCreated, lead)
}

// Update handles PUT /v1/leads/:id. Profile fields only; status and
// assignee have their own endpoints.
//
// @Summary      Update a lead's fields
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Lead id"
// @Param        body  body      updateLeadRequest  true  "Fields to update"
// @Success      200   {object}  dataEnvelope
// @Failure      403   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Router       /v1/leads/{id} [put]
func (h *LeadHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateLeadRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.UpdateLeadInput{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Notes:   req.Notes,
	}
	if req.Value != nil {
		input.Value = &ports.MoneyInput{Amount: req.Value.Amount, Currency: req.Value.Currency}
	}

	lead, err := h.service.UpdateLead(c.Request().Context(), actor, c.Param("id"), input)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, lead)
}

// Delete handles DELETE /v1/leads/:id (admin only).
//
// @Summary      Delete a lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead id"
// @Success      200  {object}  dataEnvelope
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/leads/{id} [delete]
func (h *LeadHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteLead(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return respondData(c, http.StatusOK, map[string]any{})
}

// TransitionStatus handles PUT /v1/leads/:id/status, the kanban
// drag-to-column operation.
//
// @Summary      Change a lead's pipeline status
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Lead id"
// @Param        body  body      transitionStatusRequest  true  "New status"
// @Success      200   {object}  dataEnvelope
// @Failure      400   {object}  errorEnvelope
// @Failure      403   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Router       /v1/leads/{id}/status [put]
func (h *LeadHandler) TransitionStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req transitionStatusRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lead, err := h.service.TransitionStatus(c.Request().Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, lead)
}

// Assign handles PUT /v1/leads/:id/assign.
//
// @Summary      Assign a lead to a user
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Lead id"
// @Param        body  body      assignLeadRequest  true  "Assignee (empty to unassign)"
// @Success      200   {object}  dataEnvelope
// @Failure      403   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Router       /v1/leads/{id}/assign [put]
func (h *LeadHandler) Assign(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req assignLeadRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	lead, err := h.service.AssignLead(c.Request().Context(), actor, c.Param("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, lead)
}
