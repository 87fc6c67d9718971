package main

import (
	"net/http"

	"github.com/mediaorganizer/media-api/internal/web"
)

// statusHandler writes a JSON response with information about the
// application status, operating environment and version.
func (app *application) statusHandler(w http.ResponseWriter, r *http.Request) {
	env := web.Envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.env,
			"version":     version,
		},
	}

	err := web.WriteJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
