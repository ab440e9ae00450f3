package flow

import (
	"context"
	"strings"

	"github.com/PhilipFalla/pokecollect-gui/internal/app"
	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

// Session handles signup, login and account removal. Password checks
// happen on the server.
type Session struct {
	app *app.Context
}

func NewSession(a *app.Context) *Session {
	return &Session{app: a}
}

func (s *Session) Signup(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.app.API.CreateUser(ctx, models.CreateUserRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		s.app.Notify(app.KindError, message(s.app, err))
		return nil, err
	}
	return s.start(user, "auth.signedUp")
}

func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.app.API.GetUser(ctx, strings.TrimSpace(email), password)
	if err != nil {
		s.app.Notify(app.KindError, message(s.app, err))
		return nil, err
	}
	return s.start(user, "auth.loggedIn")
}

func (s *Session) start(user *models.User, key string) (*models.User, error) {
	if err := s.app.SetUser(*user); err != nil {
		return nil, err
	}
	s.app.Notify(app.KindSuccess, s.app.Translator.Tf(key, user.Email))
	s.app.Navigate(app.RouteCollections)
	return user, nil
}

func (s *Session) Logout() error {
	if err := s.app.ClearUser(); err != nil {
		return err
	}
	s.app.Notify(app.KindInfo, s.app.T("auth.loggedOut"))
	s.app.Navigate(app.RouteLogin)
	return nil
}

// DeleteAccount removes the user and all their collections on the server
func (s *Session) DeleteAccount(ctx context.Context) error {
	if err := requireUser(s.app); err != nil {
		return err
	}
	if err := s.app.API.DeleteUser(ctx, s.app.User().ID); err != nil {
		s.app.Notify(app.KindError, message(s.app, err))
		return err
	}
	if err := s.app.ClearUser(); err != nil {
		return err
	}
	s.app.Notify(app.KindInfo, s.app.T("auth.accountDeleted"))
	s.app.Navigate(app.RouteLogin)
	return nil
}
