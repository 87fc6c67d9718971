package main

import (
	"errors"
	"net/http"

	"github.com/mediaorganizer/media-api/internal/data"
	"github.com/mediaorganizer/media-api/internal/validator"
	"github.com/mediaorganizer/media-api/internal/web"
)

// registerUserHandler for the "POST /user" endpoint.
func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var (
		input data.NewUser
		user  data.User
	)

	err := web.ReadJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user.FromNewUser(input)
	err = user.Password.Set(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	vld := validator.New()
	if user.Validate(vld); !vld.Valid() {
		app.failedValidationResponse(w, r, vld.Errors)
		return
	}

	err = app.repositories.Users.Create(&user)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateEmail):
			app.conflictResponse(w, r, "a user with this email address already exists")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.background(func() {
		err := app.mailer.Send(user.Email, "user_welcome.tmpl", user)
		if err != nil {
			app.logger.WithError(err).Error("failed to send welcome email")
		}
	})

	err = web.WriteJSON(w, http.StatusCreated, user, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showUserHandler for the "GET /user/:id" endpoint. The password hash is
// never part of the response.
func (app *application) showUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user, err := app.repositories.Users.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = web.WriteJSON(w, http.StatusOK, user, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
