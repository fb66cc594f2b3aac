package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/config"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/api/handler"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/api/middleware"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/jwt"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/redis"
)

// Setup builds the gin engine. rdb may be nil; token revocation and rate
// limiting are then disabled.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	applyLimit := middleware.RateLimit(rdb, cfg.RateLimit.ApplyPerMinute, time.Minute)
	submitLimit := middleware.RateLimit(rdb, cfg.RateLimit.SubmitPerMinute, time.Minute)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// public reads; a valid token personalizes the result
		public := v1.Group("")
		public.Use(middleware.OptionalAuth(jwtMgr, rdb))
		{
			public.GET("/hackathons", h.Hackathon.ListHackathons)
			public.GET("/hackathons/:id", h.Hackathon.GetHackathon)
			public.GET("/hackathons/:id/calendar.ics", h.Export.ExportCalendar)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// hackathons; ownership is checked in the service layer
			hackathons := authorized.Group("/hackathons")
			{
				hackathons.POST("", middleware.RoleAuth("admin", "employer"), h.Hackathon.CreateHackathon)
				hackathons.PATCH("/:id", h.Hackathon.UpdateHackathon)
				hackathons.POST("/:id/publish", h.Hackathon.PublishHackathon)
				hackathons.POST("/:id/archive", h.Hackathon.ArchiveHackathon)
				hackathons.GET("/:id/export", h.Export.ExportRoster)

				hackathons.POST("/:id/applications", applyLimit, h.Application.Apply)
				hackathons.DELETE("/:id/applications/me", h.Application.Withdraw)
				hackathons.GET("/:id/applications", h.Application.ListApplications)

				hackathons.POST("/:id/teams", h.Team.CreateTeam)
				hackathons.POST("/:id/teams/join", h.Team.JoinTeam)

				hackathons.PUT("/:id/submission", submitLimit, h.Submission.SaveSubmission)
				hackathons.POST("/:id/submission/submit", submitLimit, h.Submission.SubmitSubmission)
				hackathons.POST("/:id/submission/withdraw", h.Submission.WithdrawSubmission)
			}

			authorized.PUT("/applications/:id/review", h.Application.Review)

			teams := authorized.Group("/teams")
			{
				teams.POST("/:id/invitations", h.Team.InviteMember)
				teams.POST("/:id/leave", h.Team.LeaveTeam)
				teams.DELETE("/:id/members/:userId", h.Team.RemoveMember)
				teams.POST("/:id/lock", h.Team.LockTeam)
			}

			invitations := authorized.Group("/invitations")
			{
				invitations.POST("/:id/accept", h.Team.AcceptInvitation)
				invitations.POST("/:id/decline", h.Team.DeclineInvitation)
			}

			authorized.POST("/submissions/:id/disqualify", h.Submission.DisqualifySubmission)
		}
	}

	return r
}
