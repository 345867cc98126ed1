package app

import "net/http"

// RequestHasInvalidAPIKey checks the ?key= query parameter.
func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return app.IsInvalidAPIKey(r.URL.Query().Get("key"))
}

// IsInvalidAPIKey reports whether key is rejected. With no keys configured the
// dashboard is open and every key, including none, is accepted.
func (app *Application) IsInvalidAPIKey(key string) bool {
	validKeys := app.Config.ApiKeys
	if len(validKeys) == 0 {
		return false
	}
	if key == "" {
		return true
	}
	for _, validKey := range validKeys {
		if key == validKey {
			return false
		}
	}
	return true
}
