// Package dashboard serves the single-page lesson dashboard and its JSON
// and websocket API.
package dashboard

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ziadkadry99/edugen/internal/logger"
	"github.com/ziadkadry99/edugen/internal/workspace"
)

// Dashboard provides the lesson dashboard over one Workspace.
type Dashboard struct {
	ws  *workspace.Workspace
	log *logger.Logger
	hub *hub
}

// New creates a Dashboard and starts relaying pipeline status to
// websocket clients.
func New(ws *workspace.Workspace, log *logger.Logger) *Dashboard {
	if log == nil {
		log = logger.Nop()
	}
	d := &Dashboard{ws: ws, log: log, hub: newHub(log)}
	ws.Pipeline().Subscribe(d.hub.broadcast)
	return d
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/ws/progress", d.handleWebSocket)
	r.Post("/api/content/audio", d.handleRegenerateAudio)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/api/state", d.handleState)
		r.Put("/api/preferences", d.handlePreferences)

		r.Post("/api/generate", d.handleGenerate)
		r.Get("/api/content", d.handleContent)
		r.Put("/api/content/theme", d.handleTheme)
		r.Get("/api/content/audio", d.handleAudioDownload)
		r.Get("/api/content/export/document", d.handleExportDocument)
		r.Get("/api/content/export/deck", d.handleExportDeck)
		r.Post("/api/quiz/score", d.handleScore)

		r.Get("/api/history", d.handleHistory)
		r.Get("/api/history/search", d.handleSearch)
		r.Post("/api/history/{id}/select", d.handleSelectHistory)
		r.Get("/api/runs", d.handleRuns)

		r.Get("/api/auth/me", d.handleMe)
		r.Post("/api/auth/signup", d.handleSignup)
		r.Post("/api/auth/login", d.handleLogin)
		r.Post("/api/auth/logout", d.handleLogout)
		r.Post("/api/auth/onboarding", d.handleOnboarding)
	})
}
