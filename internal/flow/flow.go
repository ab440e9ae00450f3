// Package flow implements the views of the collection app without any
// rendering: the collection detail state machine, the dashboard and the
// login session.
package flow

import (
	"context"
	"errors"

	"github.com/PhilipFalla/pokecollect-gui/internal/app"
	"github.com/PhilipFalla/pokecollect-gui/internal/client"
)

var (
	// ErrPrecondition means the view was entered without a user or id; the
	// user has already been sent to the login view.
	ErrPrecondition = errors.New("login required")
	// ErrClosed is returned for work finished after the view was closed
	ErrClosed   = errors.New("view closed")
	ErrNotReady = errors.New("collection not loaded")
)

// requireUser sends the user to login when nobody is logged in
func requireUser(a *app.Context) error {
	if a.User() == nil {
		a.Navigate(app.RouteLogin)
		return ErrPrecondition
	}
	return nil
}

// message is the user-facing text for err
func message(a *app.Context, err error) string {
	var reqErr *client.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	if errors.Is(err, context.Canceled) {
		return a.T("common.error")
	}
	return err.Error()
}
