package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/dto"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/service"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/response"
)

// SubmissionHandler project submission endpoints.
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewSubmissionHandler creates a SubmissionHandler.
func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// SaveSubmission PUT /api/v1/hackathons/:id/submission
func (h *SubmissionHandler) SaveSubmission(c *gin.Context) {
	var req dto.SaveSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParam(c)
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	sub, err := h.submissionSvc.Save(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, sub)
}

// SubmitSubmission POST /api/v1/hackathons/:id/submission/submit
func (h *SubmissionHandler) SubmitSubmission(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	sub, err := h.submissionSvc.Submit(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, sub)
}

// WithdrawSubmission POST /api/v1/hackathons/:id/submission/withdraw
func (h *SubmissionHandler) WithdrawSubmission(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	sub, err := h.submissionSvc.Withdraw(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, sub)
}

// DisqualifySubmission POST /api/v1/submissions/:id/disqualify
func (h *SubmissionHandler) DisqualifySubmission(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	sub, err := h.submissionSvc.Disqualify(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, sub)
}
