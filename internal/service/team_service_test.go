package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/dto"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
)

// ═══════════════════════════════════════════════════════════
// Create
// ═══════════════════════════════════════════════════════════

func TestTeamService_Create(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseApplications, teamSizes(2, 4))
	leader := f.participant(h, "Ada")

	resp, err := f.teamSvc().Create(context.Background(), h.HackathonID, &dto.CreateTeamRequest{Name: "  Rust Belt  "}, leader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Name != "Rust Belt" {
		t.Errorf("expected trimmed name, got %q", resp.Name)
	}
	if resp.LeaderID != leader.UserID {
		t.Errorf("expected leader %s, got %s", leader.UserID, resp.LeaderID)
	}
	if len(resp.InviteCode) != 12 {
		t.Errorf("expected a 12 character invite code, got %q", resp.InviteCode)
	}
	if len(resp.Members) != 1 || resp.Members[0].Role != string(model.MemberRoleLeader) {
		t.Errorf("expected the leader as sole member, got %+v", resp.Members)
	}
	app := f.storedApplication(h.HackathonID, leader.UserID)
	if app.TeamID == nil || *app.TeamID != resp.ID {
		t.Error("expected the application linked to the new team")
	}

	_, err = f.teamSvc().Create(context.Background(), h.HackathonID, &dto.CreateTeamRequest{Name: "Second"}, leader)
	if !errors.Is(err, ErrAlreadyInTeam) {
		t.Errorf("expected ErrAlreadyInTeam, got %v", err)
	}
}

func TestTeamService_Create_Rejections(t *testing.T) {
	t.Run("solo track", func(t *testing.T) {
		f := newFixture(t)
		h := f.hackathon(model.PhaseApplications)
		_, err := f.teamSvc().Create(context.Background(), h.HackathonID, &dto.CreateTeamRequest{Name: "Solo"}, f.participant(h, "Ada"))
		if !errors.Is(err, ErrSoloTrack) {
			t.Errorf("expected ErrSoloTrack, got %v", err)
		}
	})

	t.Run("no application", func(t *testing.T) {
		f := newFixture(t)
		h := f.hackathon(model.PhaseApplications, teamSizes(1, 4))
		_, err := f.teamSvc().Create(context.Background(), h.HackathonID, &dto.CreateTeamRequest{Name: "Ghosts"}, f.member("Ada"))
		if !errors.Is(err, ErrNotApplicant) {
			t.Errorf("expected ErrNotApplicant, got %v", err)
		}
	})

	t.Run("pending application", func(t *testing.T) {
		f := newFixture(t)
		h := f.hackathon(model.PhaseApplications, teamSizes(1, 4))
		a := f.member("Ada")
		f.apply(h, a, model.ApplicationPendingReview)
		_, err := f.teamSvc().Create(context.Background(), h.HackathonID, &dto.CreateTeamRequest{Name: "Waiting"}, a)
		if !errors.Is(err, ErrApplicationNotEligible) {
			t.Errorf("expected ErrApplicationNotEligible, got %v", err)
		}
		if !errors.Is(err, ErrForbidden) {
			t.Error("expected forbidden category")
		}
	})

	t.Run("completed hackathon", func(t *testing.T) {
		f := newFixture(t)
		h := f.hackathon(model.PhaseCompleted, teamSizes(1, 4))
		_, err := f.teamSvc().Create(context.Background(), h.HackathonID, &dto.CreateTeamRequest{Name: "Late"}, f.participant(h, "Ada"))
		if !errors.Is(err, ErrTeamFormationClosed) {
			t.Errorf("expected ErrTeamFormationClosed, got %v", err)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture(t)
		h := f.hackathon(model.PhaseApplications, teamSizes(1, 4))
		_, err := f.teamSvc().Create(context.Background(), h.HackathonID, &dto.CreateTeamRequest{Name: "Nobody"}, Actor{})
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})
}

// ═══════════════════════════════════════════════════════════
// JoinByCode
// ═══════════════════════════════════════════════════════════

func TestTeamService_JoinByCode(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseSubmission, teamSizes(1, 2))
	leader := f.participant(h, "Ada")
	team := f.team(h, leader)
	svc := f.teamSvc()

	if _, err := svc.JoinByCode(context.Background(), h.HackathonID, &dto.JoinTeamRequest{InviteCode: "NOPE"}, f.participant(h, "Eve")); !errors.Is(err, ErrInvalidInviteCode) {
		t.Errorf("expected ErrInvalidInviteCode, got %v", err)
	}

	mate := f.participant(h, "Grace")
	resp, err := svc.JoinByCode(context.Background(), h.HackathonID, &dto.JoinTeamRequest{InviteCode: " " + team.InviteCode + " "}, mate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(resp.Members))
	}
	if app := f.storedApplication(h.HackathonID, mate.UserID); app.TeamID == nil || *app.TeamID != team.TeamID {
		t.Error("expected the joiner's application linked to the team")
	}

	_, err = svc.JoinByCode(context.Background(), h.HackathonID, &dto.JoinTeamRequest{InviteCode: team.InviteCode}, f.participant(h, "Linus"))
	if !errors.Is(err, ErrTeamFull) {
		t.Errorf("expected ErrTeamFull, got %v", err)
	}
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Error("expected capacity category")
	}
}

func TestTeamService_JoinByCode_OtherHackathon(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseApplications, teamSizes(1, 4))
	other := f.hackathon(model.PhaseApplications, teamSizes(1, 4))
	team := f.team(other, f.participant(other, "Ada"))

	_, err := f.teamSvc().JoinByCode(context.Background(), h.HackathonID, &dto.JoinTeamRequest{InviteCode: team.InviteCode}, f.participant(h, "Grace"))
	if !errors.Is(err, ErrInvalidInviteCode) {
		t.Errorf("expected ErrInvalidInviteCode, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Lock
// ═══════════════════════════════════════════════════════════

func TestTeamService_Lock_BelowMinimum(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseSubmission, teamSizes(3, 4))
	leader := f.participant(h, "Ada")
	team := f.team(h, leader, f.participant(h, "Grace"))

	_, err := f.teamSvc().Lock(context.Background(), team.TeamID, leader)
	assertInvariant(t, err, InvTeamSizeLock)

	if f.storedTeam(team.TeamID).LockedAt != nil {
		t.Error("team must stay unlocked")
	}
}

func TestTeamService_Lock_DeclinesInvitations(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseSubmission, teamSizes(2, 4))
	leader := f.participant(h, "Ada")
	team := f.team(h, leader, f.participant(h, "Grace"))
	invitee := f.participant(h, "Linus")
	svc := f.teamSvc()

	inv, err := svc.Invite(context.Background(), team.TeamID, &dto.InviteMemberRequest{UserID: invitee.UserID}, leader)
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}

	resp, err := svc.Lock(context.Background(), team.TeamID, leader)
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	if resp.LockedAt == nil {
		t.Error("expected locked_at set")
	}
	if n := f.membersWithStatus(team.TeamID, model.MemberDeclined); n != 1 {
		t.Errorf("expected the outstanding invitation declined, got %d", n)
	}

	if _, err := svc.AcceptInvitation(context.Background(), inv.MemberID, invitee); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for a declined invitation, got %v", err)
	}
	if _, err := svc.JoinByCode(context.Background(), h.HackathonID, &dto.JoinTeamRequest{InviteCode: team.InviteCode}, invitee); !errors.Is(err, ErrTeamLocked) {
		t.Errorf("expected ErrTeamLocked, got %v", err)
	}
	if _, err := svc.Lock(context.Background(), team.TeamID, leader); !errors.Is(err, ErrTeamLocked) {
		t.Errorf("expected ErrTeamLocked on relock, got %v", err)
	}
}

func TestTeamService_Lock_NotLeader(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseSubmission, teamSizes(1, 4))
	mate := f.participant(h, "Grace")
	team := f.team(h, f.participant(h, "Ada"), mate)

	if _, err := f.teamSvc().Lock(context.Background(), team.TeamID, mate); !errors.Is(err, ErrNotTeamLeader) {
		t.Errorf("expected ErrNotTeamLeader, got %v", err)
	}
	if _, err := f.teamSvc().Lock(context.Background(), team.TeamID, organizerOf(h)); err != nil {
		t.Errorf("organizer lock failed: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Invitations
// ═══════════════════════════════════════════════════════════

func TestTeamService_InviteAccept(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseApplications, teamSizes(1, 4))
	leader := f.participant(h, "Ada")
	mate := f.participant(h, "Grace")
	team := f.team(h, leader, mate)
	invitee := f.participant(h, "Linus")
	svc := f.teamSvc()

	if _, err := svc.Invite(context.Background(), team.TeamID, &dto.InviteMemberRequest{UserID: invitee.UserID}, mate); !errors.Is(err, ErrNotTeamLeader) {
		t.Errorf("expected ErrNotTeamLeader, got %v", err)
	}
	if _, err := svc.Invite(context.Background(), team.TeamID, &dto.InviteMemberRequest{UserID: mate.UserID}, leader); !errors.Is(err, ErrAlreadyInTeam) {
		t.Errorf("expected ErrAlreadyInTeam for an active member, got %v", err)
	}

	inv, err := svc.Invite(context.Background(), team.TeamID, &dto.InviteMemberRequest{UserID: invitee.UserID}, leader)
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}
	if inv.TeamName != team.Name {
		t.Errorf("expected team name %q, got %q", team.Name, inv.TeamName)
	}
	if _, err := svc.Invite(context.Background(), team.TeamID, &dto.InviteMemberRequest{UserID: invitee.UserID}, leader); !errors.Is(err, ErrAlreadyInvited) {
		t.Errorf("expected ErrAlreadyInvited, got %v", err)
	}

	if _, err := svc.AcceptInvitation(context.Background(), inv.MemberID, mate); !errors.Is(err, ErrNotInvitee) {
		t.Errorf("expected ErrNotInvitee, got %v", err)
	}

	resp, err := svc.AcceptInvitation(context.Background(), inv.MemberID, invitee)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if len(resp.Members) != 3 {
		t.Errorf("expected 3 members, got %d", len(resp.Members))
	}
	if app := f.storedApplication(h.HackathonID, invitee.UserID); app.TeamID == nil || *app.TeamID != team.TeamID {
		t.Error("expected the invitee's application linked to the team")
	}
}

func TestTeamService_Invite_UnknownUser(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseApplications, teamSizes(1, 4))
	leader := f.participant(h, "Ada")
	team := f.team(h, leader)

	_, err := f.teamSvc().Invite(context.Background(), team.TeamID, &dto.InviteMemberRequest{UserID: "00000000-0000-0000-0000-000000000000"}, leader)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTeamService_DeclineInvitation(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseApplications, teamSizes(1, 4))
	leader := f.participant(h, "Ada")
	team := f.team(h, leader)
	invitee := f.participant(h, "Linus")
	svc := f.teamSvc()

	inv, err := svc.Invite(context.Background(), team.TeamID, &dto.InviteMemberRequest{UserID: invitee.UserID}, leader)
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}
	if err := svc.DeclineInvitation(context.Background(), inv.MemberID, leader); !errors.Is(err, ErrNotInvitee) {
		t.Errorf("expected ErrNotInvitee, got %v", err)
	}
	if err := svc.DeclineInvitation(context.Background(), inv.MemberID, invitee); err != nil {
		t.Fatalf("decline failed: %v", err)
	}
	if n := f.membersWithStatus(team.TeamID, model.MemberDeclined); n != 1 {
		t.Errorf("expected 1 declined invitation, got %d", n)
	}
	if err := svc.DeclineInvitation(context.Background(), inv.MemberID, invitee); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on repeat, got %v", err)
	}
}

func TestTeamService_DeclineInvitation_AfterFormationCloses(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseSubmission, teamSizes(1, 4))
	leader := f.participant(h, "Ada")
	team := f.team(h, leader)
	invitee := f.participant(h, "Linus")

	inv, err := f.teamSvc().Invite(context.Background(), team.TeamID, &dto.InviteMemberRequest{UserID: invitee.UserID}, leader)
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}

	f.now = h.SubmissionClosesAt.Add(day)
	if _, err := f.teamSvc().AcceptInvitation(context.Background(), inv.MemberID, invitee); !errors.Is(err, ErrTeamFormationClosed) {
		t.Errorf("expected ErrTeamFormationClosed, got %v", err)
	}
	if err := f.teamSvc().DeclineInvitation(context.Background(), inv.MemberID, invitee); err != nil {
		t.Errorf("decline must work in any phase, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Leave / RemoveMember
// ═══════════════════════════════════════════════════════════

func TestTeamService_Leave(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseApplications, teamSizes(1, 4))
	leader := f.participant(h, "Ada")
	mate := f.participant(h, "Grace")
	team := f.team(h, leader, mate)
	svc := f.teamSvc()

	if err := svc.Leave(context.Background(), team.TeamID, leader); !errors.Is(err, ErrLeaderCannotLeave) {
		t.Errorf("expected ErrLeaderCannotLeave, got %v", err)
	}

	if err := svc.Leave(context.Background(), team.TeamID, mate); err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	if n := f.membersWithStatus(team.TeamID, model.MemberRemoved); n != 1 {
		t.Errorf("expected 1 removed member, got %d", n)
	}
	if app := f.storedApplication(h.HackathonID, mate.UserID); app.TeamID != nil {
		t.Error("expected the team link cleared")
	}

	if err := svc.Leave(context.Background(), team.TeamID, mate); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for a former member, got %v", err)
	}
	if err := svc.Leave(context.Background(), team.TeamID, leader); err != nil {
		t.Errorf("a sole leader may leave, got %v", err)
	}
}

func TestTeamService_RemoveMember(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseApplications, teamSizes(1, 4))
	leader := f.participant(h, "Ada")
	mate := f.participant(h, "Grace")
	other := f.participant(h, "Linus")
	team := f.team(h, leader, mate, other)
	svc := f.teamSvc()

	if err := svc.RemoveMember(context.Background(), team.TeamID, other.UserID, mate); !errors.Is(err, ErrNotTeamLeader) {
		t.Errorf("expected ErrNotTeamLeader, got %v", err)
	}
	if err := svc.RemoveMember(context.Background(), team.TeamID, leader.UserID, leader); !errors.Is(err, ErrLeaderCannotLeave) {
		t.Errorf("expected ErrLeaderCannotLeave, got %v", err)
	}
	if err := svc.RemoveMember(context.Background(), team.TeamID, other.UserID, leader); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := svc.RemoveMember(context.Background(), team.TeamID, mate.UserID, organizerOf(h)); err != nil {
		t.Fatalf("organizer remove failed: %v", err)
	}
	if n := f.membersWithStatus(team.TeamID, model.MemberActive); n != 1 {
		t.Errorf("expected only the leader left, got %d", n)
	}
}

func TestTeamService_Leave_FormationClosed(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseCompleted, teamSizes(1, 4))
	mate := f.participant(h, "Grace")
	team := f.team(h, f.participant(h, "Ada"), mate)

	if err := f.teamSvc().Leave(context.Background(), team.TeamID, mate); !errors.Is(err, ErrTeamFormationClosed) {
		t.Errorf("expected ErrTeamFormationClosed, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Solo entries / emptied teams
// ═══════════════════════════════════════════════════════════

func TestTeamService_SoloEntryBlocksMembership(t *testing.T) {
	f := newFixture(t)
	h := f.hackathon(model.PhaseSubmission, teamSizes(1, 3))
	leader := f.participant(h, "Ada")
	team := f.team(h, leader)
	solo := f.participant(h, "Solo")
	f.submission(h, solo, "", model.SubmissionSubmitted)
	svc := f.teamSvc()
	ctx := context.Background()

	_, err := svc.JoinByCode(ctx, h.HackathonID, &dto.JoinTeamRequest{InviteCode: team.InviteCode}, solo)
	if !errors.Is(err, ErrSoloEntryExists) {
		t.Errorf("join: expected ErrSoloEntryExists, got %v", err)
	}
	if !errors.Is(err, ErrStateConflict) {
		t.Error("expected state conflict category")
	}
	if _, err := svc.Create(ctx, h.HackathonID, &dto.CreateTeamRequest{Name: "Both"}, solo); !errors.Is(err, ErrSoloEntryExists) {
		t.Errorf("create: expected ErrSoloEntryExists, got %v", err)
	}
	inv, err := svc.Invite(ctx, team.TeamID, &dto.InviteMemberRequest{UserID: solo.UserID}, leader)
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}
	if _, err := svc.AcceptInvitation(ctx, inv.MemberID, solo); !errors.Is(err, ErrSoloEntryExists) {
		t.Errorf("accept: expected ErrSoloEntryExists, got %v", err)
	}
	if n := f.membersWithStatus(team.TeamID, model.MemberActive); n != 1 {
		t.Errorf("expected the roster unchanged, got %d active", n)
	}

	if _, err := f.submissionSvc().Withdraw(ctx, h.HackathonID, solo); err != nil {
		t.Fatalf("withdraw solo entry: %v", err)
	}
	if _, err := svc.JoinByCode(ctx, h.HackathonID, &dto.JoinTeamRequest{InviteCode: team.InviteCode}, solo); err != nil {
		t.Fatalf("join after withdrawing: %v", err)
	}

	f.store.mu.Lock()
	live := 0
	for _, sub := range f.store.subs {
		if sub.IsOwnedByUser(solo.UserID) && sub.Status != model.SubmissionWithdrawn {
			live++
		}
	}
	f.store.mu.Unlock()
	if live != 0 {
		t.Errorf("expected no live solo entry next to the membership, got %d", live)
	}
}

func TestTeamService_EmptiedTeamPromotesNextMember(t *testing.T) {
	t.Run("join by code", func(t *testing.T) {
		f := newFixture(t)
		h := f.hackathon(model.PhaseApplications, teamSizes(1, 3))
		leader := f.participant(h, "Ada")
		team := f.team(h, leader)

		if _, err := f.applicationSvc().Withdraw(context.Background(), h.HackathonID, leader); err != nil {
			t.Fatalf("withdraw failed: %v", err)
		}

		next := f.participant(h, "Grace")
		resp, err := f.teamSvc().JoinByCode(context.Background(), h.HackathonID, &dto.JoinTeamRequest{InviteCode: team.InviteCode}, next)
		if err != nil {
			t.Fatalf("join failed: %v", err)
		}
		if resp.LeaderID != next.UserID || f.storedTeam(team.TeamID).LeaderID != next.UserID {
			t.Errorf("expected %s to lead the emptied team, got %s", next.UserID, resp.LeaderID)
		}
		if _, err := f.teamSvc().Lock(context.Background(), team.TeamID, next); err != nil {
			t.Errorf("the new leader must be able to lock, got %v", err)
		}
	})

	t.Run("accept invitation", func(t *testing.T) {
		f := newFixture(t)
		h := f.hackathon(model.PhaseApplications, teamSizes(1, 3))
		leader := f.participant(h, "Ada")
		team := f.team(h, leader)
		invitee := f.participant(h, "Grace")
		svc := f.teamSvc()

		inv, err := svc.Invite(context.Background(), team.TeamID, &dto.InviteMemberRequest{UserID: invitee.UserID}, leader)
		if err != nil {
			t.Fatalf("invite failed: %v", err)
		}
		if err := svc.Leave(context.Background(), team.TeamID, leader); err != nil {
			t.Fatalf("leave failed: %v", err)
		}

		resp, err := svc.AcceptInvitation(context.Background(), inv.MemberID, invitee)
		if err != nil {
			t.Fatalf("accept failed: %v", err)
		}
		if resp.LeaderID != invitee.UserID {
			t.Errorf("expected the invitee to lead, got %s", resp.LeaderID)
		}
		for _, m := range resp.Members {
			if m.UserID == invitee.UserID && m.Role != string(model.MemberRoleLeader) {
				t.Errorf("expected leader role, got %s", m.Role)
			}
		}
	})
}
