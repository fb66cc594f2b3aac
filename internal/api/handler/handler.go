package handler

import "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth        *AuthHandler
	Hackathon   *HackathonHandler
	Application *ApplicationHandler
	Team        *TeamHandler
	Submission  *SubmissionHandler
	Export      *ExportHandler
}

// NewHandler wires handlers onto the services.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		Hackathon:   NewHackathonHandler(svc.Hackathon),
		Application: NewApplicationHandler(svc.Application),
		Team:        NewTeamHandler(svc.Team),
		Submission:  NewSubmissionHandler(svc.Submission),
		Export:      NewExportHandler(svc.Export),
	}
}
