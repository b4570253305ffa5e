package handler

import (
	"github.com/gin-gonic/gin"
	personapp "github.com/rwbiz/backend/internal/application/person"
)

// PersonHandler handles shareholder, director and employee endpoints
type PersonHandler struct {
	BaseHandler
	personService *personapp.PersonService
}

// NewPersonHandler creates a new PersonHandler
func NewPersonHandler(personService *personapp.PersonService) *PersonHandler {
	return &PersonHandler{
		personService: personService,
	}
}

// Create godoc
// @ID           createPerson
// @Summary      Create a person
// @Description  Add a shareholder, director or employee. Shares held across the company cannot exceed the authorized shares.
// @Tags         persons
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body personapp.PersonRequest true "Person"
// @Success      201 {object} APIResponse[personapp.PersonResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /persons [post]
func (h *PersonHandler) Create(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req personapp.PersonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.personService.Create(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Person created", p)
}

// List godoc
// @ID           listPersons
// @Summary      List persons
// @Description  List persons with optional role filter and search
// @Tags         persons
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name, email or national ID"
// @Param        role query string false "Role filter" Enums(SHAREHOLDER, DIRECTOR, EMPLOYEE)
// @Success      200 {object} APIResponse[[]personapp.PersonResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /persons [get]
func (h *PersonHandler) List(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req personapp.ListPersonsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	persons, total, err := h.personService.List(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Persons retrieved", persons, total, req.Page, req.PageSize)
}

// Get godoc
// @ID           getPerson
// @Summary      Get a person
// @Tags         persons
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Person ID" format(uuid)
// @Success      200 {object} APIResponse[personapp.PersonResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /persons/{id} [get]
func (h *PersonHandler) Get(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "person")
	if !ok {
		return
	}

	p, err := h.personService.Get(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Person retrieved", p)
}

// Update godoc
// @ID           updatePerson
// @Summary      Update a person
// @Tags         persons
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Person ID" format(uuid)
// @Param        request body personapp.PersonRequest true "Person"
// @Success      200 {object} APIResponse[personapp.PersonResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /persons/{id} [put]
func (h *PersonHandler) Update(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "person")
	if !ok {
		return
	}
	var req personapp.PersonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.personService.Update(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Person updated", p)
}

// UpdateShares godoc
// @ID           updatePersonShares
// @Summary      Change a shareholding
// @Tags         persons
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Person ID" format(uuid)
// @Param        request body personapp.UpdateSharesRequest true "Shares"
// @Success      200 {object} APIResponse[personapp.PersonResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /persons/{id}/shares [put]
func (h *PersonHandler) UpdateShares(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "person")
	if !ok {
		return
	}
	var req personapp.UpdateSharesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.personService.UpdateShares(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Shares updated", p)
}

// Terminate godoc
// @ID           terminatePersonEmployment
// @Summary      Terminate employment
// @Description  End an employee's employment. Terminated employees are left out of later payroll runs.
// @Tags         persons
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Person ID" format(uuid)
// @Success      200 {object} APIResponse[personapp.PersonResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /persons/{id}/terminate [post]
func (h *PersonHandler) Terminate(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "person")
	if !ok {
		return
	}

	p, err := h.personService.Terminate(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Employment terminated", p)
}

// Delete godoc
// @ID           deletePerson
// @Summary      Delete a person
// @Description  Persons still holding shares cannot be deleted
// @Tags         persons
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Person ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /persons/{id} [delete]
func (h *PersonHandler) Delete(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "person")
	if !ok {
		return
	}

	if err := h.personService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
