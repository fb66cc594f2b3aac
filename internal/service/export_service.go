package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/config"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/lifecycle"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/repository"
	applog "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/logger"
)

// ErrExportGenerateFail is returned when a document cannot be rendered.
var ErrExportGenerateFail = errors.New("failed to generate export file")

// ExportService organizer roster export and the public calendar feed.
//
// Both return the rendered bytes and a suggested file name; the handler sets
// the response headers.
type ExportService interface {
	// ExportRoster renders applications, teams and submissions as an xlsx workbook.
	ExportRoster(ctx context.Context, idOrSlug string, actor Actor) (*bytes.Buffer, string, error)
	// ExportCalendar renders the application, submission and judging windows as iCalendar.
	ExportCalendar(ctx context.Context, idOrSlug string, actor Actor) ([]byte, string, error)
}

type exportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService creates an ExportService.
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

const (
	sheetApplications = "Applications"
	sheetTeams        = "Teams"
	sheetSubmissions  = "Submissions"

	exportTimeLayout = "2006-01-02 15:04"
)

// ═══════════════════════════════════════════════════════════
// ExportRoster
// ═══════════════════════════════════════════════════════════
//
// Repository fields follow the same reveal rule as reads: they are written
// only once the submission window has ended.

func (s *exportService) ExportRoster(ctx context.Context, idOrSlug string, actor Actor) (*bytes.Buffer, string, error) {
	h, err := loadHackathon(ctx, s.repo, s.logger, idOrSlug, actor)
	if err != nil {
		return nil, "", err
	}
	if !canManage(h, actor) {
		return nil, "", ErrNotOrganizer
	}

	apps, _, err := s.repo.Application.ListByHackathon(ctx, h.HackathonID, "", 0, 0)
	if err != nil {
		s.logger.Error("list applications failed", applog.Hackathon(h.HackathonID), zap.Error(err))
		return nil, "", err
	}
	teams, err := s.repo.Team.ListByHackathon(ctx, h.HackathonID)
	if err != nil {
		s.logger.Error("list teams failed", applog.Hackathon(h.HackathonID), zap.Error(err))
		return nil, "", err
	}
	subs, err := s.repo.Submission.ListByHackathon(ctx, h.HackathonID)
	if err != nil {
		s.logger.Error("list submissions failed", applog.Hackathon(h.HackathonID), zap.Error(err))
		return nil, "", err
	}

	userNames := make(map[string]string, len(apps))
	for _, a := range apps {
		if a.User != nil {
			userNames[a.UserID] = a.User.Name
		}
	}
	teamNames := make(map[string]string, len(teams))
	for _, t := range teams {
		teamNames[t.TeamID] = t.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// ── applications ──
	appRows := make([][]interface{}, 0, len(apps))
	for _, a := range apps {
		name, email := "", ""
		if a.User != nil {
			name, email = a.User.Name, a.User.Email
		}
		team := "-"
		if a.TeamID != nil {
			team = teamNames[*a.TeamID]
		}
		appRows = append(appRows, []interface{}{
			name, email, string(a.Status), team, formatTime(&a.AppliedAt), formatTime(a.ReviewedAt),
		})
	}
	if err := writeSheet(f, sheetApplications, headerStyle,
		[]string{"Name", "Email", "Status", "Team", "Applied At", "Reviewed At"},
		[]float64{24, 32, 16, 24, 18, 18},
		appRows,
	); err != nil {
		return nil, "", s.renderFailed(h, err)
	}

	// ── teams ──
	teamRows := make([][]interface{}, 0, len(teams))
	for i := range teams {
		t := &teams[i]
		active := t.ActiveMembers()
		names := make([]string, 0, len(active))
		for _, m := range active {
			if m.User != nil {
				names = append(names, m.User.Name)
			} else {
				names = append(names, m.UserID)
			}
		}
		teamRows = append(teamRows, []interface{}{
			t.Name, t.Slug, userNames[t.LeaderID], len(active), formatTime(t.LockedAt), strings.Join(names, ", "),
		})
	}
	if err := writeSheet(f, sheetTeams, headerStyle,
		[]string{"Team", "Slug", "Leader", "Members", "Locked At", "Roster"},
		[]float64{24, 24, 24, 10, 18, 60},
		teamRows,
	); err != nil {
		return nil, "", s.renderFailed(h, err)
	}

	// ── submissions ──
	revealed := lifecycle.SubmissionsRevealed(lifecycle.ScheduleOf(h), s.now())
	subRows := make([][]interface{}, 0, len(subs))
	for _, sub := range subs {
		owner := ""
		switch {
		case sub.TeamID != nil:
			owner = teamNames[*sub.TeamID]
		case sub.UserID != nil:
			owner = userNames[*sub.UserID]
		}
		repoURL, branch, commit := "-", "-", "-"
		if revealed {
			repoURL, branch, commit = sub.RepoURL, sub.Branch, sub.CommitSHA
		}
		subRows = append(subRows, []interface{}{
			owner, string(sub.Status), repoURL, branch, commit, formatTime(sub.SubmittedAt),
		})
	}
	if err := writeSheet(f, sheetSubmissions, headerStyle,
		[]string{"Owner", "Status", "Repository", "Branch", "Commit", "Submitted At"},
		[]float64{24, 14, 48, 18, 14, 18},
		subRows,
	); err != nil {
		return nil, "", s.renderFailed(h, err)
	}

	_ = f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(sheetApplications); err == nil {
		f.SetActiveSheet(idx)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.renderFailed(h, err)
	}

	return buf, fmt.Sprintf("roster_%s.xlsx", h.Slug), nil
}

func (s *exportService) renderFailed(h *model.Hackathon, err error) error {
	s.logger.Error("render roster failed", applog.Hackathon(h.HackathonID), zap.Error(err))
	return ErrExportGenerateFail
}

// writeSheet creates name with a styled header row followed by rows.
func writeSheet(f *excelize.File, name string, headerStyle int, headers []string, widths []float64, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(name, col, col, w); err != nil {
			return err
		}
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		start, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(name, start, &row); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format(exportTimeLayout)
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportCalendar(ctx context.Context, idOrSlug string, actor Actor) ([]byte, string, error) {
	h, err := loadHackathon(ctx, s.repo, s.logger, idOrSlug, actor)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//hackathon-core//calendar//EN")
	cal.SetXWRCalName(h.Title)
	cal.SetXWRTimezone(h.Timezone)

	link := strings.TrimRight(s.cfg.Server.BaseURL, "/") + "/hackathons/" + h.Slug
	stamp := h.UpdatedAt.UTC()
	if stamp.IsZero() {
		stamp = s.now().UTC()
	}

	addWindow := func(kind, summary string, opens, closes time.Time) {
		ev := cal.AddEvent(fmt.Sprintf("%s-%s@hackathon-core", h.HackathonID, kind))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(opens.UTC())
		ev.SetEndAt(closes.UTC())
		ev.SetSummary(fmt.Sprintf("%s: %s", h.Title, summary))
		ev.SetURL(link)
		if h.Description != "" {
			ev.SetDescription(h.Description)
		}
	}

	addWindow("applications", "applications open", h.ApplicationOpensAt, h.ApplicationClosesAt)
	addWindow("submission", "submission window", h.SubmissionOpensAt, h.SubmissionClosesAt)
	if h.HasJudging() {
		addWindow("judging", "judging", *h.JudgingOpensAt, *h.JudgingClosesAt)
	}

	return []byte(cal.Serialize()), fmt.Sprintf("%s.ics", h.Slug), nil
}
