package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/dto"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/service"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/response"
)

// HackathonHandler hackathon reads and organizer writes. :id accepts a uuid or a slug.
type HackathonHandler struct {
	hackathonSvc service.HackathonService
}

// NewHackathonHandler creates a HackathonHandler.
func NewHackathonHandler(hackathonSvc service.HackathonService) *HackathonHandler {
	return &HackathonHandler{hackathonSvc: hackathonSvc}
}

// ListHackathons GET /api/v1/hackathons
func (h *HackathonHandler) ListHackathons(c *gin.Context) {
	var req dto.ListHackathonsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badParam(c)
		return
	}

	list, total, err := h.hackathonSvc.List(c.Request.Context(), &req, ActorFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetHackathon GET /api/v1/hackathons/:id
func (h *HackathonHandler) GetHackathon(c *gin.Context) {
	detail, err := h.hackathonSvc.Read(c.Request.Context(), c.Param("id"), ActorFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, detail)
}

// CreateHackathon POST /api/v1/hackathons
func (h *HackathonHandler) CreateHackathon(c *gin.Context) {
	var req dto.CreateHackathonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParam(c)
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.hackathonSvc.Create(c.Request.Context(), &req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateHackathon PATCH /api/v1/hackathons/:id
func (h *HackathonHandler) UpdateHackathon(c *gin.Context) {
	var req dto.UpdateHackathonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParam(c)
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.hackathonSvc.Update(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// PublishHackathon POST /api/v1/hackathons/:id/publish
func (h *HackathonHandler) PublishHackathon(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.hackathonSvc.Publish(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// ArchiveHackathon POST /api/v1/hackathons/:id/archive
func (h *HackathonHandler) ArchiveHackathon(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.hackathonSvc.Archive(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
