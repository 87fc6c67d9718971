package main

import (
	"errors"
	"net/http"

	"github.com/mediaorganizer/media-api/internal/data"
	"github.com/mediaorganizer/media-api/internal/validator"
	"github.com/mediaorganizer/media-api/internal/web"
)

// loginHandler for the "POST /login" endpoint. On success the response is
// the user record without the credential.
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := web.ReadJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Presence only: an existing account is not re-validated against the
	// current password policy at login time.
	vld := validator.New()
	vld.Check(input.Email != "", "email", "must be provided")
	vld.Check(input.Password != "", "password", "must be provided")
	if !vld.Valid() {
		app.failedValidationResponse(w, r, vld.Errors)
		return
	}

	user, err := app.repositories.Users.GetByEmail(input.Email)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	match, err := user.Password.Matches(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !match {
		app.invalidCredentialsResponse(w, r)
		return
	}

	err = web.WriteJSON(w, http.StatusOK, user, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
