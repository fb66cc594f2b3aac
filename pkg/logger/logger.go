package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/config"
)

// ServiceName is attached to every entry.
const ServiceName = "hackathon-api"

// NewLogger builds a zap logger from the log section of the config.
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.InitialFields = map[string]interface{}{"service": ServiceName}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}

// Field keys shared from the access log down to the sweeper.
const (
	KeyHackathon = "hackathon_id"
	KeyTeam      = "team_id"
	KeyUser      = "user_id"
)

// Hackathon tags an entry with the hackathon it concerns.
func Hackathon(id string) zap.Field { return zap.String(KeyHackathon, id) }

// Team tags an entry with a team.
func Team(id string) zap.Field { return zap.String(KeyTeam, id) }

// User tags an entry with the acting or affected user.
func User(id string) zap.Field { return zap.String(KeyUser, id) }
