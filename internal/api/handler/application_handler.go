package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/dto"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/service"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/response"
)

// ApplicationHandler participant applications.
type ApplicationHandler struct {
	applicationSvc service.ApplicationService
}

// NewApplicationHandler creates an ApplicationHandler.
func NewApplicationHandler(applicationSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationSvc: applicationSvc}
}

// Apply POST /api/v1/hackathons/:id/applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req dto.ApplyRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badParam(c)
			return
		}
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.applicationSvc.Apply(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// Withdraw DELETE /api/v1/hackathons/:id/applications/me
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.applicationSvc.Withdraw(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// ListApplications GET /api/v1/hackathons/:id/applications
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	var req dto.ListApplicationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badParam(c)
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, total, err := h.applicationSvc.List(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Review PUT /api/v1/applications/:id/review
func (h *ApplicationHandler) Review(c *gin.Context) {
	var req dto.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParam(c)
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.applicationSvc.Review(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
