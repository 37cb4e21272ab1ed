package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/edit"
	"server/internal/infra"
	"server/internal/providers/replicate"
)

// App carries the dependencies shared by all HTTP handlers.
type App struct {
	Config   *infra.Config
	Logger   *infra.Logger
	Edit     *edit.Service
	Provider *replicate.Client
}

// NewApp wires the handler container.
func NewApp(cfg *infra.Config, logger *infra.Logger, svc *edit.Service, provider *replicate.Client) *App {
	return &App{Config: cfg, Logger: logger, Edit: svc, Provider: provider}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}
