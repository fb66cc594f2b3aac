package service

import (
	"go.uber.org/zap"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/config"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/repository"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/jwt"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/redis"
)

// Service aggregates every service. Sync is shared by all of them and by
// the background sweeper.
type Service struct {
	Auth        AuthService
	Hackathon   HackathonService
	Application ApplicationService
	Team        TeamService
	Submission  SubmissionService
	Export      ExportService
	Sync        *PhaseSynchronizer
}

// NewService wires the services. rdb may be nil when Redis is unavailable.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	sync := NewPhaseSynchronizer(repo, cfg.Lifecycle.SyncTimeout, logger)

	var blacklist TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}

	return &Service{
		Auth:        NewAuthService(repo, jwtMgr, blacklist, logger),
		Hackathon:   NewHackathonService(cfg, repo, sync, logger),
		Application: NewApplicationService(repo, sync, logger),
		Team:        NewTeamService(repo, sync, logger),
		Submission:  NewSubmissionService(repo, sync, logger),
		Export:      NewExportService(cfg, repo, logger),
		Sync:        sync,
	}
}
