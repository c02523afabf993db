package main

import "net/http"

// healthCheckHandler reports the running version and whether the event
// pipeline (broker and mail consumers) is enabled.
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status": "available",
		"system_info": map[string]any{
			"environment": app.config.Environment,
			"version":     app.config.Version,
			"events":      app.broker != nil,
			"rate_limit":  app.config.RateLimitEnabled,
		},
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
