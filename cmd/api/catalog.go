package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mediaorganizer/media-api/internal/data"
	"github.com/mediaorganizer/media-api/internal/database"
	"github.com/mediaorganizer/media-api/internal/validator"
	"github.com/mediaorganizer/media-api/internal/web"
)

// createCatalogItemHandler for the "POST /movies" (and sibling) endpoints.
func (app *application) createCatalogItemHandler(kind data.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item data.Item

		err := web.ReadJSON(w, r, &item)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}

		vld := validator.New()
		if item.Validate(vld, kind); !vld.Valid() {
			app.failedValidationResponse(w, r, vld.Errors)
			return
		}

		err = app.repositories.Catalog.Create(&item)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		headers := make(http.Header)
		headers.Set("Location", fmt.Sprintf("/%s/%d", kind.Route(), item.ID))

		err = web.WriteJSON(w, http.StatusCreated, item, headers)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
	}
}

// showCatalogItemHandler for the "GET /movies/:id" (and sibling) endpoints.
// The response body is the media row merged with its child row.
func (app *application) showCatalogItemHandler(kind data.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := app.readIDParam(r)
		if err != nil {
			app.notFoundResponse(w, r)
			return
		}

		item, err := app.repositories.Catalog.Get(kind, id)
		if err != nil {
			switch {
			case errors.Is(err, data.ErrRecordNotFound):
				app.notFoundResponse(w, r)
			default:
				app.serverErrorResponse(w, r, err)
			}
			return
		}

		err = web.WriteJSON(w, http.StatusOK, item, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
	}
}

// listCatalogItemsHandler for the "GET /movies" (and sibling) endpoints.
func (app *application) listCatalogItemsHandler(kind data.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			Name  string
			Genre string
			database.Filters
		}

		vld := validator.New()
		qs := r.URL.Query()

		input.Name = app.readString(qs, "name", "")
		input.Genre = app.readString(qs, "genre", "")

		input.Filters.Page = app.readInt(qs, "page", 1, vld)
		input.Filters.PageSize = app.readInt(qs, "page_size", 20, vld)
		input.Filters.Sort = app.readString(qs, "sort", "media_id")
		input.Filters.SortSafelist = []string{"media_id", "name", "release_date", "-media_id", "-name", "-release_date"}

		if input.Filters.ValidateFilters(vld); !vld.Valid() {
			app.failedValidationResponse(w, r, vld.Errors)
			return
		}

		items, metadata, err := app.repositories.Catalog.GetAll(kind, input.Name, input.Genre, input.Filters)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		err = web.WriteJSON(w, http.StatusOK, web.Envelope{kind.Route(): items, "metadata": metadata}, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
	}
}

// updateCatalogItemHandler for the "PUT /movies/:id" (and sibling) endpoints.
// Any subset of fields may be supplied; absent fields keep their values.
func (app *application) updateCatalogItemHandler(kind data.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := app.readIDParam(r)
		if err != nil {
			app.notFoundResponse(w, r)
			return
		}

		var fields map[string]any
		err = web.ReadJSON(w, r, &fields)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}

		err = app.repositories.Catalog.Update(kind, id, fields)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		message := fmt.Sprintf("%s updated successfully", kind.Label())
		err = web.WriteJSON(w, http.StatusOK, web.Envelope{"message": message}, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
	}
}

// deleteCatalogItemHandler for the "DELETE /movies/:id" (and sibling) endpoints.
func (app *application) deleteCatalogItemHandler(kind data.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := app.readIDParam(r)
		if err != nil {
			app.notFoundResponse(w, r)
			return
		}

		err = app.repositories.Catalog.Delete(kind, id)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		message := fmt.Sprintf("%s deleted successfully", kind.Label())
		err = web.WriteJSON(w, http.StatusOK, web.Envelope{"message": message}, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
	}
}
