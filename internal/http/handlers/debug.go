package handlers

import (
	"net/http"
	"time"
)

// Debug reports configuration presence without leaking values.
func (a *App) Debug(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":    "API is working",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"env": map[string]any{
			"has_provider_token": a.Config.HasProviderToken(),
			"token_length":       len(a.Config.ReplicateAPIToken),
			"has_credentials":    a.Config.HasAuthCredentials(),
			"app_env":            a.Config.AppEnv,
		},
	})
}

// DebugAuth only responds behind the Basic-auth gate; reaching it proves the
// provided credentials are valid.
func (a *App) DebugAuth(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Authentication successful",
		"user":      a.Config.BasicAuthUser,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// DebugProvider performs a lightweight authenticated call against the
// provider to check connectivity and credentials.
func (a *App) DebugProvider(w http.ResponseWriter, r *http.Request) {
	if !a.Config.HasProviderToken() {
		a.error(w, http.StatusServiceUnavailable, "REPLICATE_API_TOKEN not configured")
		return
	}
	if err := a.Provider.Ping(r.Context()); err != nil {
		a.Logger.Error().Err(err).Msg("provider connectivity check failed")
		a.error(w, http.StatusInternalServerError, "Failed to connect to provider API")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":       "success",
		"message":      "Provider API connection successful",
		"token_length": len(a.Config.ReplicateAPIToken),
	})
}
