package service

import (
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/dto"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/lifecycle"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
)

// ── model → dto ──

func toHackathonResponse(h *model.Hackathon, st lifecycle.State, applicationCount int64) dto.HackathonResponse {
	tags := []string(h.Tags)
	if tags == nil {
		tags = []string{}
	}
	return dto.HackathonResponse{
		ID:                  h.HackathonID,
		Slug:                h.Slug,
		Title:               h.Title,
		Description:         h.Description,
		BannerURL:           h.BannerURL,
		Visibility:          string(h.Visibility),
		Phase:               st.DerivedPhase.String(),
		Lifecycle:           st,
		ApplicationOpensAt:  h.ApplicationOpensAt,
		ApplicationClosesAt: h.ApplicationClosesAt,
		SubmissionOpensAt:   h.SubmissionOpensAt,
		SubmissionClosesAt:  h.SubmissionClosesAt,
		JudgingOpensAt:      h.JudgingOpensAt,
		JudgingClosesAt:     h.JudgingClosesAt,
		Timezone:            h.Timezone,
		MaxParticipants:     h.MaxParticipants,
		ApplicationCount:    applicationCount,
		MinTeamSize:         h.MinTeamSize,
		MaxTeamSize:         h.MaxTeamSize,
		Tags:                tags,
		PrizeSummary:        h.PrizeSummary,
		AutoAccept:          h.AutoAccept,
		QuizID:              h.QuizID,
		OrganizerID:         h.OrganizerID,
		PublishedAt:         h.PublishedAt,
		ArchivedAt:          h.ArchivedAt,
		Version:             h.Version,
	}
}

func toApplicationResponse(app *model.Application) *dto.ApplicationResponse {
	resp := &dto.ApplicationResponse{
		ID:          app.ApplicationID,
		HackathonID: app.HackathonID,
		UserID:      app.UserID,
		Status:      string(app.Status),
		TeamID:      app.TeamID,
		Motivation:  app.Motivation,
		AppliedAt:   app.AppliedAt,
		ReviewedAt:  app.ReviewedAt,
	}
	if app.User != nil {
		resp.UserName = app.User.Name
	}
	return resp
}

func toMemberResponse(m *model.TeamMember) dto.TeamMemberResponse {
	resp := dto.TeamMemberResponse{
		MemberID: m.MemberID,
		UserID:   m.UserID,
		Role:     string(m.Role),
		Status:   string(m.Status),
		JoinedAt: m.JoinedAt,
	}
	if m.User != nil {
		resp.Name = m.User.Name
	}
	return resp
}

// toTeamResponse lists active members only; the invite code is included for
// the team's own members.
func toTeamResponse(t *model.Team, showInviteCode bool) *dto.TeamResponse {
	active := t.ActiveMembers()
	members := make([]dto.TeamMemberResponse, 0, len(active))
	for i := range active {
		members = append(members, toMemberResponse(&active[i]))
	}
	resp := &dto.TeamResponse{
		ID:       t.TeamID,
		Name:     t.Name,
		Slug:     t.Slug,
		LeaderID: t.LeaderID,
		LockedAt: t.LockedAt,
		Members:  members,
	}
	if showInviteCode {
		resp.InviteCode = t.InviteCode
	}
	return resp
}

func toInvitationResponse(m *model.TeamMember) dto.InvitationResponse {
	resp := dto.InvitationResponse{
		MemberID:  m.MemberID,
		TeamID:    m.TeamID,
		InvitedBy: m.InvitedBy,
		CreatedAt: m.CreatedAt,
	}
	if m.Team != nil {
		resp.TeamName = m.Team.Name
	}
	return resp
}

// toSubmissionResponse hides repository fields unless showRepo.
func toSubmissionResponse(sub *model.Submission, showRepo bool) *dto.SubmissionResponse {
	resp := &dto.SubmissionResponse{
		ID:          sub.SubmissionID,
		HackathonID: sub.HackathonID,
		TeamID:      sub.TeamID,
		UserID:      sub.UserID,
		Status:      string(sub.Status),
		SubmittedAt: sub.SubmittedAt,
		AttemptID:   sub.AttemptID,
	}
	if showRepo {
		repoURL, branch, commit := sub.RepoURL, sub.Branch, sub.CommitSHA
		resp.RepoURL = &repoURL
		resp.Branch = &branch
		resp.CommitSHA = &commit
	}
	return resp
}
