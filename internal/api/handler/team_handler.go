package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/dto"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/service"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/response"
)

// TeamHandler team formation endpoints.
type TeamHandler struct {
	teamSvc service.TeamService
}

// NewTeamHandler creates a TeamHandler.
func NewTeamHandler(teamSvc service.TeamService) *TeamHandler {
	return &TeamHandler{teamSvc: teamSvc}
}

// CreateTeam POST /api/v1/hackathons/:id/teams
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParam(c)
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	team, err := h.teamSvc.Create(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, team)
}

// JoinTeam POST /api/v1/hackathons/:id/teams/join
func (h *TeamHandler) JoinTeam(c *gin.Context) {
	var req dto.JoinTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParam(c)
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	team, err := h.teamSvc.JoinByCode(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, team)
}

// InviteMember POST /api/v1/teams/:id/invitations
func (h *TeamHandler) InviteMember(c *gin.Context) {
	var req dto.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParam(c)
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	inv, err := h.teamSvc.Invite(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, inv)
}

// AcceptInvitation POST /api/v1/invitations/:id/accept
func (h *TeamHandler) AcceptInvitation(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	team, err := h.teamSvc.AcceptInvitation(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, team)
}

// DeclineInvitation POST /api/v1/invitations/:id/decline
func (h *TeamHandler) DeclineInvitation(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.teamSvc.DeclineInvitation(c.Request.Context(), c.Param("id"), actor); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// LeaveTeam POST /api/v1/teams/:id/leave
func (h *TeamHandler) LeaveTeam(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.teamSvc.Leave(c.Request.Context(), c.Param("id"), actor); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// RemoveMember DELETE /api/v1/teams/:id/members/:userId
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.teamSvc.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("userId"), actor); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// LockTeam POST /api/v1/teams/:id/lock
func (h *TeamHandler) LockTeam(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	team, err := h.teamSvc.Lock(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, team)
}
