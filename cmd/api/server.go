package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// serve starts the HTTP server and shuts it down gracefully on SIGINT or
// SIGTERM, waiting for in-flight requests and background tasks to finish.
func (app *application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.WithField("signal", s.String()).Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
			return
		}

		// Wait for background goroutines (like the welcome mailer) to finish.
		app.logger.WithField("addr", srv.Addr).Info("completing background tasks")
		app.wg.Wait()
		shutdownError <- nil
	}()

	app.logger.WithFields(logrus.Fields{
		"addr": srv.Addr,
		"env":  app.config.env,
	}).Info("starting server")

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.WithField("addr", srv.Addr).Info("stopped server")

	return nil
}
