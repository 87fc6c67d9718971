package main

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/mediaorganizer/media-api/internal/data"
)

// routes will create a router with the api endpoints.
func (app *application) routes() http.Handler {

	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/status", app.statusHandler)

	// All four catalog kinds share one handler set, parameterized by the
	// kind's schema descriptor.
	for _, kind := range []data.Kind{data.KindMovie, data.KindGame, data.KindTV, data.KindMusic} {
		base := "/" + kind.Route()

		router.HandlerFunc(http.MethodGet, base, app.listCatalogItemsHandler(kind))
		router.HandlerFunc(http.MethodPost, base, app.createCatalogItemHandler(kind))
		router.HandlerFunc(http.MethodGet, base+"/:id", app.showCatalogItemHandler(kind))
		router.HandlerFunc(http.MethodPut, base+"/:id", app.updateCatalogItemHandler(kind))
		router.HandlerFunc(http.MethodDelete, base+"/:id", app.deleteCatalogItemHandler(kind))
	}

	router.HandlerFunc(http.MethodPost, "/user", app.registerUserHandler)
	router.HandlerFunc(http.MethodGet, "/user/:id", app.showUserHandler)
	router.HandlerFunc(http.MethodPost, "/login", app.loginHandler)

	router.Handler(http.MethodGet, "/debug/vars", expvar.Handler())

	return app.recoverPanic(app.enableCORS(app.rateLimit(app.logRequest(router))))
}
