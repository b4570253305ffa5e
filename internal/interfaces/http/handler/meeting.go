package handler

import (
	"github.com/gin-gonic/gin"
	meetingapp "github.com/rwbiz/backend/internal/application/meeting"
)

// MeetingHandler handles board and general meeting endpoints
type MeetingHandler struct {
	BaseHandler
	meetingService *meetingapp.MeetingService
}

// NewMeetingHandler creates a new MeetingHandler
func NewMeetingHandler(meetingService *meetingapp.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		meetingService: meetingService,
	}
}

// Create godoc
// @ID           createMeeting
// @Summary      Schedule a meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body meetingapp.MeetingRequest true "Meeting"
// @Success      201 {object} APIResponse[meetingapp.MeetingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /meetings [post]
func (h *MeetingHandler) Create(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req meetingapp.MeetingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	m, err := h.meetingService.Create(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Meeting scheduled", m)
}

// List godoc
// @ID           listMeetings
// @Summary      List meetings
// @Tags         meetings
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        type query string false "Type" Enums(BOARD, AGM, EGM, MANAGEMENT)
// @Param        status query string false "Status" Enums(SCHEDULED, HELD, CANCELLED)
// @Param        from query string false "From date" format(date)
// @Param        to query string false "To date" format(date)
// @Success      200 {object} APIResponse[[]meetingapp.MeetingResponse]
// @Security     BearerAuth
// @Router       /meetings [get]
func (h *MeetingHandler) List(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req meetingapp.ListMeetingsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, total, err := h.meetingService.List(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Meetings retrieved", items, total, req.Page, req.PageSize)
}

// Upcoming godoc
// @ID           listUpcomingMeetings
// @Summary      Upcoming meetings
// @Tags         meetings
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        limit query int false "Maximum meetings" default(5)
// @Success      200 {object} APIResponse[[]meetingapp.MeetingResponse]
// @Security     BearerAuth
// @Router       /meetings/upcoming [get]
func (h *MeetingHandler) Upcoming(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req meetingapp.UpcomingRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, err := h.meetingService.Upcoming(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Upcoming meetings retrieved", items)
}

// Get godoc
// @ID           getMeeting
// @Summary      Get a meeting
// @Tags         meetings
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Meeting ID" format(uuid)
// @Success      200 {object} APIResponse[meetingapp.MeetingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /meetings/{id} [get]
func (h *MeetingHandler) Get(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "meeting")
	if !ok {
		return
	}

	m, err := h.meetingService.Get(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Meeting retrieved", m)
}

// Update godoc
// @ID           updateMeeting
// @Summary      Reschedule a meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Meeting ID" format(uuid)
// @Param        request body meetingapp.MeetingRequest true "Meeting"
// @Success      200 {object} APIResponse[meetingapp.MeetingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /meetings/{id} [put]
func (h *MeetingHandler) Update(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "meeting")
	if !ok {
		return
	}
	var req meetingapp.MeetingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	m, err := h.meetingService.Update(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Meeting updated", m)
}

// Complete godoc
// @ID           completeMeeting
// @Summary      Record a held meeting
// @Description  Store the minutes, resolutions and actual attendance
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Meeting ID" format(uuid)
// @Param        request body meetingapp.CompleteRequest true "Outcome"
// @Success      200 {object} APIResponse[meetingapp.MeetingResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /meetings/{id}/complete [post]
func (h *MeetingHandler) Complete(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "meeting")
	if !ok {
		return
	}
	var req meetingapp.CompleteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	m, err := h.meetingService.Complete(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Meeting completed", m)
}

// Cancel godoc
// @ID           cancelMeeting
// @Summary      Cancel a meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Meeting ID" format(uuid)
// @Param        request body meetingapp.CancelRequest false "Reason"
// @Success      200 {object} APIResponse[meetingapp.MeetingResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /meetings/{id}/cancel [post]
func (h *MeetingHandler) Cancel(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "meeting")
	if !ok {
		return
	}
	var req meetingapp.CancelRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	m, err := h.meetingService.Cancel(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Meeting cancelled", m)
}

// Delete godoc
// @ID           deleteMeeting
// @Summary      Delete a meeting
// @Tags         meetings
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Meeting ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /meetings/{id} [delete]
func (h *MeetingHandler) Delete(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "meeting")
	if !ok {
		return
	}

	if err := h.meetingService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
